package csg

import (
	"testing"

	"github.com/akmonengine/csgkernel/matrix"
	"github.com/akmonengine/csgkernel/mesh"
	"github.com/akmonengine/csgkernel/sweep"
	"github.com/go-gl/mathgl/mgl64"
)

func cubeLeaf(t *testing.T, arena *matrix.Arena, m *matrix.Matrix, half float64) *Node {
	t.Helper()
	pts := []mesh.Point{
		{X: -half, Y: -half, Z: -half}, {X: half, Y: -half, Z: -half},
		{X: half, Y: half, Z: -half}, {X: -half, Y: half, Z: -half},
		{X: -half, Y: -half, Z: half}, {X: half, Y: -half, Z: half},
		{X: half, Y: half, Z: half}, {X: -half, Y: half, Z: half},
	}
	for i := range pts {
		v := m.Apply(pts[i].Vec())
		pts[i].X, pts[i].Y, pts[i].Z = v[0], v[1], v[2]
	}
	return leafNode(Polyhedron3D{Poly: &mesh.Polyhedron{Points: pts}}, GraphicsContext{})
}

func TestBoundingBoxNilIsEmpty(t *testing.T) {
	if !BoundingBox(nil, false).Empty {
		t.Fatal("a nil tree should have an empty bounding box")
	}
}

func TestBoundingBoxSphereUsesClosedForm(t *testing.T) {
	arena := matrix.NewArena()
	m, err := arena.Scale(arena.Identity(), mgl64.Vec3{2, 2, 2})
	if err != nil {
		t.Fatalf("scale: %v", err)
	}
	n := leafNode(Sphere3D{M: m}, GraphicsContext{})
	bb := BoundingBox(n, false)
	if bb.Empty {
		t.Fatal("sphere bounding box should not be empty")
	}
	want := mgl64.Vec3{2, 2, 2}
	if bb.Max != want || bb.Min != want.Mul(-1) {
		t.Fatalf("expected min=-2,-2,-2 max=2,2,2, got min=%v max=%v", bb.Min, bb.Max)
	}
}

func TestBoundingBoxAddUnionsChildren(t *testing.T) {
	arena := matrix.NewArena()
	left := cubeLeaf(t, arena, arena.Translate(arena.Identity(), mgl64.Vec3{-5, 0, 0}), 1)
	right := cubeLeaf(t, arena, arena.Translate(arena.Identity(), mgl64.Vec3{5, 0, 0}), 1)
	n := &Node{Op: Add, Children: []*Node{left, right}}
	bb := BoundingBox(n, false)
	if bb.Min.X() != -6 || bb.Max.X() != 6 {
		t.Fatalf("expected the union to span x=[-6,6], got min=%v max=%v", bb.Min, bb.Max)
	}
}

func TestBoundingBoxSubWithoutSubtractedKeepsOnlyPositive(t *testing.T) {
	arena := matrix.NewArena()
	pos := cubeLeaf(t, arena, arena.Identity(), 1)
	neg := cubeLeaf(t, arena, arena.Translate(arena.Identity(), mgl64.Vec3{10, 0, 0}), 1)
	n := &Node{Op: Sub, Positive: pos, Negative: neg}
	bb := BoundingBox(n, false)
	if bb.Max.X() != 1 {
		t.Fatalf("expected Sub's box to ignore the negative side, got max=%v", bb.Max)
	}
}

func TestBoundingBoxSubIncludeSubtractedUnionsBoth(t *testing.T) {
	arena := matrix.NewArena()
	pos := cubeLeaf(t, arena, arena.Identity(), 1)
	neg := cubeLeaf(t, arena, arena.Translate(arena.Identity(), mgl64.Vec3{10, 0, 0}), 1)
	n := &Node{Op: Sub, Positive: pos, Negative: neg}
	bb := BoundingBox(n, true)
	if bb.Max.X() != 11 {
		t.Fatalf("expected the superset box to reach x=11, got max=%v", bb.Max)
	}
}

func TestBoundingBoxCutWithoutSubtractedIntersects(t *testing.T) {
	arena := matrix.NewArena()
	a := cubeLeaf(t, arena, arena.Identity(), 2)
	b := cubeLeaf(t, arena, arena.Translate(arena.Identity(), mgl64.Vec3{1, 0, 0}), 2)
	n := &Node{Op: Cut, Children: []*Node{a, b}}
	bb := BoundingBox(n, false)
	if bb.Empty {
		t.Fatal("overlapping cubes should intersect to a non-empty box")
	}
	if bb.Min.X() != -1 || bb.Max.X() != 2 {
		t.Fatalf("expected intersection x=[-1,2], got min=%v max=%v", bb.Min, bb.Max)
	}
}

func TestBoundingBoxCutVacuousIntersectionIsEmpty(t *testing.T) {
	arena := matrix.NewArena()
	a := cubeLeaf(t, arena, arena.Identity(), 1)
	b := cubeLeaf(t, arena, arena.Translate(arena.Identity(), mgl64.Vec3{10, 0, 0}), 1)
	n := &Node{Op: Cut, Children: []*Node{a, b}}
	bb := BoundingBox(n, false)
	if !bb.Empty {
		t.Fatal("disjoint cubes should intersect to an empty box")
	}
}

func TestBoundingBoxCutIncludeSubtractedUnionsChildren(t *testing.T) {
	arena := matrix.NewArena()
	a := cubeLeaf(t, arena, arena.Identity(), 1)
	b := cubeLeaf(t, arena, arena.Translate(arena.Identity(), mgl64.Vec3{10, 0, 0}), 1)
	n := &Node{Op: Cut, Children: []*Node{a, b}}
	bb := BoundingBox(n, true)
	if bb.Empty || bb.Max.X() != 11 {
		t.Fatalf("expected an includeSubtracted Cut to union to x_max=11, got %+v", bb)
	}
}

// TestBoundingBoxSoundnessEveryLeafPointIsWithinItsBox verifies spec.md §8's
// AABB soundness invariant directly against the vertices a leaf is built
// from, for every leaf variant that carries explicit points (Sphere3D has
// none; its closed-form box is covered by TestBoundingBoxSphereUsesClosedForm).
func TestBoundingBoxSoundnessEveryLeafPointIsWithinItsBox(t *testing.T) {
	arena := matrix.NewArena()
	m, err := arena.Scale(arena.Translate(arena.Identity(), mgl64.Vec3{3, -2, 5}), mgl64.Vec3{1.5, 0.5, 2})
	if err != nil {
		t.Fatalf("scale: %v", err)
	}
	poly3D := cubeLeaf(t, arena, m, 1)
	poly2D := leafNode(Polygon2D{Poly: sweep.Polygon{Points: []sweep.Vertex{
		{X: -4, Y: 9}, {X: 2, Y: -3}, {X: 0.5, Y: 0.5},
	}}}, GraphicsContext{})

	for _, n := range []*Node{poly3D, poly2D} {
		bb := BoundingBox(n, false)
		if bb.Empty {
			t.Fatal("expected a non-empty box for a leaf with points")
		}
		for _, p := range leafPoints(n.Leaf) {
			for i := 0; i < 3; i++ {
				if p[i] < bb.Min[i]-1e-9 || p[i] > bb.Max[i]+1e-9 {
					t.Fatalf("point %v axis %d outside box min=%v max=%v", p, i, bb.Min, bb.Max)
				}
			}
		}
	}
}

// leafPoints extracts the source vertices of a leaf with explicit points,
// for asserting the AABB soundness invariant against them directly.
func leafPoints(l Leaf) []mgl64.Vec3 {
	switch v := l.(type) {
	case Polyhedron3D:
		out := make([]mgl64.Vec3, len(v.Poly.Points))
		for i, p := range v.Poly.Points {
			out[i] = p.Vec()
		}
		return out
	case Polygon2D:
		out := make([]mgl64.Vec3, len(v.Poly.Points))
		for i, p := range v.Poly.Points {
			out[i] = mgl64.Vec3{p.X, p.Y, 0}
		}
		return out
	}
	return nil
}

func TestBoundingBoxPolygon2D(t *testing.T) {
	poly := sweep.Polygon{Points: []sweep.Vertex{{X: -1, Y: -2}, {X: 3, Y: 4}}}
	n := leafNode(Polygon2D{Poly: poly}, GraphicsContext{})
	bb := BoundingBox(n, false)
	if bb.Min.X() != -1 || bb.Min.Y() != -2 || bb.Max.X() != 3 || bb.Max.Y() != 4 {
		t.Fatalf("unexpected polygon bbox: %+v", bb)
	}
	if bb.Min.Z() != 0 || bb.Max.Z() != 0 {
		t.Fatalf("expected a 2D polygon's z extent to be zero, got min=%v max=%v", bb.Min.Z(), bb.Max.Z())
	}
}
