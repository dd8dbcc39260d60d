package csg

import (
	"testing"

	"github.com/akmonengine/csgkernel/diag"
	"github.com/akmonengine/csgkernel/matrix"
	"github.com/akmonengine/csgkernel/scad"
	"github.com/akmonengine/csgkernel/triangulate"
)

func newEnv() *Env {
	return &Env{
		Arena:        matrix.NewArena(),
		Tri:          triangulate.EarClip{},
		ErrEmpty:     diag.Warning,
		ErrCollapse:  diag.Warning,
		ErrOutside2D: diag.Warning,
		ErrOutside3D: diag.Warning,
	}
}

func TestLowerFacetedSphereProducesPolyhedron(t *testing.T) {
	env := newEnv()
	ast := &scad.Sphere{Radius: 1, FN: 8}
	n, err := Lower(ast, GraphicsContext{}, env.Arena.Identity(), true, env)
	if err != nil {
		t.Fatalf("Lower: %v", err)
	}
	if _, ok := n.Leaf.(Polyhedron3D); !ok {
		t.Fatalf("expected a Polyhedron3D leaf for fn > 0, got %T", n.Leaf)
	}
}

func TestLowerAnalyticSphereWhenFNZero(t *testing.T) {
	env := newEnv()
	ast := &scad.Sphere{Radius: 1}
	n, err := Lower(ast, GraphicsContext{}, env.Arena.Identity(), true, env)
	if err != nil {
		t.Fatalf("Lower: %v", err)
	}
	if _, ok := n.Leaf.(Sphere3D); !ok {
		t.Fatalf("expected a Sphere3D leaf for fn == 0, got %T", n.Leaf)
	}
}

func TestLowerRejects3DPrimitiveIn2DContext(t *testing.T) {
	env := newEnv()
	env.ErrOutside3D = diag.Fatal
	ast := &scad.Cube{Size: scad.Vec3{X: 1, Y: 1, Z: 1}}
	_, err := Lower(ast, GraphicsContext{}, env.Arena.Identity(), false, env)
	if err == nil {
		t.Fatal("expected an error for a 3D primitive used in a 2D context")
	}
}

func TestLowerDropsDisabledNode(t *testing.T) {
	env := newEnv()
	ast := &scad.Cube{Base: scad.Base{Mod: scad.ModDisable}, Size: scad.Vec3{X: 1, Y: 1, Z: 1}}
	n, err := Lower(ast, GraphicsContext{}, env.Arena.Identity(), true, env)
	if err != nil {
		t.Fatalf("Lower: %v", err)
	}
	if n != nil {
		t.Fatal("expected a disabled node to lower to nil")
	}
}

func TestLowerUnionCollapsesSingleChild(t *testing.T) {
	env := newEnv()
	cube := &scad.Cube{Size: scad.Vec3{X: 1, Y: 1, Z: 1}}
	ast := &scad.Union{Children: []scad.Node{cube}}
	n, err := Lower(ast, GraphicsContext{}, env.Arena.Identity(), true, env)
	if err != nil {
		t.Fatalf("Lower: %v", err)
	}
	if n.Leaf == nil {
		t.Fatal("a union of one child should collapse to that child, not stay an Add node")
	}
}

func TestLowerUnionDropsEmptyChildren(t *testing.T) {
	env := newEnv()
	cube := &scad.Cube{Size: scad.Vec3{X: 1, Y: 1, Z: 1}}
	disabled := &scad.Cube{Base: scad.Base{Mod: scad.ModDisable}, Size: scad.Vec3{X: 1, Y: 1, Z: 1}}
	ast := &scad.Union{Children: []scad.Node{cube, disabled}}
	n, err := Lower(ast, GraphicsContext{}, env.Arena.Identity(), true, env)
	if err != nil {
		t.Fatalf("Lower: %v", err)
	}
	if n.Leaf == nil {
		t.Fatal("a union with only one live child should collapse, not stay an Add node")
	}
}

func TestLowerDifferenceDropsWhenPositiveEmpty(t *testing.T) {
	env := newEnv()
	disabled := &scad.Cube{Base: scad.Base{Mod: scad.ModDisable}, Size: scad.Vec3{X: 1, Y: 1, Z: 1}}
	cube := &scad.Cube{Size: scad.Vec3{X: 1, Y: 1, Z: 1}}
	ast := &scad.Difference{Children: []scad.Node{disabled, cube}}
	n, err := Lower(ast, GraphicsContext{}, env.Arena.Identity(), true, env)
	if err != nil {
		t.Fatalf("Lower: %v", err)
	}
	if n != nil {
		t.Fatal("a difference whose positive side is empty should drop entirely")
	}
}

func TestLowerDifferenceFoldsNestedSub(t *testing.T) {
	env := newEnv()
	a := &scad.Cube{Size: scad.Vec3{X: 3, Y: 3, Z: 3}, Center: true}
	b := &scad.Cube{Size: scad.Vec3{X: 2, Y: 2, Z: 2}, Center: true}
	c := &scad.Cube{Size: scad.Vec3{X: 1, Y: 1, Z: 1}, Center: true}
	d := &scad.Sphere{Radius: 0.3, FN: 8}
	inner := &scad.Difference{Children: []scad.Node{a, b}} // A - B
	outer := &scad.Difference{Children: []scad.Node{inner, c, d}} // (A-B) - C - D
	n, err := Lower(outer, GraphicsContext{}, env.Arena.Identity(), true, env)
	if err != nil {
		t.Fatalf("Lower: %v", err)
	}
	if n.Op != Sub {
		t.Fatalf("expected a top-level Sub node, got Op %v", n.Op)
	}
	if n.Positive.Leaf == nil {
		t.Fatalf("expected the fold to keep A's own minuend (a leaf) as the new positive side, got %+v", n.Positive)
	}
	if n.Negative.Op != Add || len(n.Negative.Children) != 2 {
		t.Fatalf("expected the negative side to merge B with (C,D) into one Add, got %+v", n.Negative)
	}
	if n.Negative.Children[1].Op != Add || len(n.Negative.Children[1].Children) != 2 {
		t.Fatalf("expected C and D to already be folded into their own Add, got %+v", n.Negative.Children[1])
	}
}

func TestLowerIntersectionEmptyIfAnyChildEmpty(t *testing.T) {
	env := newEnv()
	cube := &scad.Cube{Size: scad.Vec3{X: 1, Y: 1, Z: 1}}
	disabled := &scad.Cube{Base: scad.Base{Mod: scad.ModDisable}, Size: scad.Vec3{X: 1, Y: 1, Z: 1}}
	ast := &scad.Intersection{Children: []scad.Node{cube, disabled}}
	n, err := Lower(ast, GraphicsContext{}, env.Arena.Identity(), true, env)
	if err != nil {
		t.Fatalf("Lower: %v", err)
	}
	if n != nil {
		t.Fatal("an intersection with any empty operand should be empty")
	}
}

func TestFnOfClampsToMaxFN(t *testing.T) {
	env := &Env{MaxFN: 16}
	if got := fnOf(env, 64); got != 16 {
		t.Fatalf("expected fnOf to clamp to 16, got %d", got)
	}
	if got := fnOf(env, 8); got != 8 {
		t.Fatalf("expected fnOf to leave 8 untouched, got %d", got)
	}
}
