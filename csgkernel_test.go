package csgkernel

import (
	"fmt"
	"sync"
	"testing"

	"github.com/akmonengine/csgkernel/csg"
	"github.com/akmonengine/csgkernel/diag"
	"github.com/akmonengine/csgkernel/scad"
	"github.com/akmonengine/csgkernel/sweep"
)

func TestLowerBuildsATree(t *testing.T) {
	ast := &scad.Union{Children: []scad.Node{
		&scad.Cube{Size: scad.Vec3{X: 1, Y: 1, Z: 1}, Center: true},
		&scad.Sphere{Radius: 0.6, FN: 12},
	}}
	tree, err := Lower(ast, Options{MaxFN: 32})
	if err != nil {
		t.Fatalf("Lower: %v", err)
	}
	bb := csg.BoundingBox(tree, false)
	if bb.Empty {
		t.Fatal("expected a non-empty bounding box for a union of two solids")
	}
}

func TestLowerClampsFNViaMaxFN(t *testing.T) {
	ast := &scad.Sphere{Radius: 1, FN: 200}
	tree, err := Lower(ast, Options{MaxFN: 6})
	if err != nil {
		t.Fatalf("Lower: %v", err)
	}
	p3, ok := tree.Leaf.(csg.Polyhedron3D)
	if !ok {
		t.Fatalf("expected a faceted sphere leaf, got %T", tree.Leaf)
	}
	if len(p3.Poly.Points) > 6*((6+1)/2) {
		t.Fatalf("expected MaxFN to clamp the facet count, got %d points", len(p3.Poly.Points))
	}
}

// constSlicer hands back the same polygon for every leaf and slice index.
type constSlicer struct{ p sweep.Polygon }

func (s constSlicer) Slice(leaf csg.Leaf, zi int) (sweep.Polygon, error) { return s.p, nil }

func TestLowerLayersParallelizesAcrossSlices(t *testing.T) {
	ast := &scad.Cube{Size: scad.Vec3{X: 2, Y: 2, Z: 2}, Center: true}
	tree, err := Lower(ast, Options{})
	if err != nil {
		t.Fatalf("Lower: %v", err)
	}
	square := sweep.Polygon{
		Points: []sweep.Vertex{{X: -1, Y: -1}, {X: -1, Y: 1}, {X: 1, Y: 1}, {X: 1, Y: -1}},
		Paths:  [][]int{{0, 1, 2, 3}},
	}
	polys, nonEmpty, err := LowerLayers(tree, 50, constSlicer{p: square}, nil, 8)
	if err != nil {
		t.Fatalf("LowerLayers: %v", err)
	}
	if len(polys) != 50 || len(nonEmpty) != 50 {
		t.Fatalf("expected 50 results, got %d polys %d flags", len(polys), len(nonEmpty))
	}
	for i, ne := range nonEmpty {
		if !ne {
			t.Fatalf("slice %d unexpectedly empty", i)
		}
	}
}

// errSlicer fails on one particular slice index, to exercise LowerLayers'
// error propagation out of the parallel fan-out.
type errSlicer struct{ failAt int }

func (s errSlicer) Slice(leaf csg.Leaf, zi int) (sweep.Polygon, error) {
	if zi == s.failAt {
		return sweep.Polygon{}, fmt.Errorf("slice %d failed", zi)
	}
	return sweep.Polygon{}, nil
}

func TestLowerLayersPropagatesSliceError(t *testing.T) {
	ast := &scad.Cube{Size: scad.Vec3{X: 1, Y: 1, Z: 1}}
	tree, err := Lower(ast, Options{})
	if err != nil {
		t.Fatalf("Lower: %v", err)
	}
	_, _, err = LowerLayers(tree, 10, errSlicer{failAt: 4}, nil, 4)
	if err == nil {
		t.Fatal("expected LowerLayers to surface a per-slice error")
	}
}

// recordingSink records every report it receives behind a mutex, standing
// in for a caller's sink that is not itself safe for concurrent use.
// LowerLayers wraps it in guardedSinkFunc for its workers; nothing in this
// run reports a diagnostic, so the test checks only that a run with a sink
// attached completes with one result per slice.
type recordingSink struct {
	mu    sync.Mutex
	count int
}

func (s *recordingSink) Report(rec diag.Record) bool {
	s.mu.Lock()
	s.count++
	s.mu.Unlock()
	return false
}

func TestLowerLayersAcceptsASinkAcrossWorkers(t *testing.T) {
	ast := &scad.Square{Size: scad.Vec2{X: 1, Y: 1}}
	tree, err := Lower(ast, Options{})
	if err != nil {
		t.Fatalf("Lower: %v", err)
	}
	sink := &recordingSink{}
	polys, _, err := LowerLayers(tree, 64, constSlicer{p: sweep.Polygon{}}, sink, 8)
	if err != nil {
		t.Fatalf("LowerLayers: %v", err)
	}
	if len(polys) != 64 {
		t.Fatalf("expected 64 results, got %d", len(polys))
	}
}
