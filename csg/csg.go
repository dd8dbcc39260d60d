// Package csg holds the boolean-operation tree produced by lowering a SCAD
// AST: the shared ADD/SUB/CUT/XOR node shape used by both the 3D and the
// 2D (per-layer) tree, the leaf primitive variants, and the tree-walking
// lowering pass itself.
package csg

import (
	"fmt"

	"github.com/akmonengine/csgkernel/diag"
	"github.com/akmonengine/csgkernel/matrix"
	"github.com/akmonengine/csgkernel/mesh"
	"github.com/akmonengine/csgkernel/scad"
	"github.com/akmonengine/csgkernel/sweep"
	"github.com/akmonengine/csgkernel/triangulate"
	"github.com/go-gl/mathgl/mgl64"
)

// Op names the shape of an interior Node.
type Op int

const (
	Add Op = iota
	Sub
	Cut
	Xor
)

// Modifier mirrors the SCAD root-modifier operators, ORed together as a
// node is lowered.
type Modifier = scad.Modifier

// GraphicsContext is an RGBA color plus the accumulated modifier bitmask,
// threaded down the lowering recursion by value.
type GraphicsContext struct {
	Color    [4]float64
	Modifier Modifier
}

// Leaf is implemented by the three leaf variants a Node may carry.
type Leaf interface{ isLeaf() }

// Sphere3D is the analytic (unfaceted, fn==0) sphere leaf: a unit sphere
// at the origin, given shape entirely by the node's governing matrix, so
// its bounding box can use the closed-form ellipsoid formula instead of a
// faceted mesh.
type Sphere3D struct {
	M *matrix.Matrix
}

func (Sphere3D) isLeaf() {}

// Polyhedron3D wraps a built mesh.Polyhedron.
type Polyhedron3D struct {
	Poly *mesh.Polyhedron
}

func (Polyhedron3D) isLeaf() {}

// Polygon2D wraps a 2D polygon (the 2D-context counterpart of
// Polyhedron3D).
type Polygon2D struct {
	Poly sweep.Polygon
}

func (Polygon2D) isLeaf() {}

// Node is one node of a boolean-operation tree. Exactly one of Leaf
// (Op is unused) or the Op-specific children fields is populated.
type Node struct {
	Op       Op
	Children []*Node // ADD: every child unioned. CUT, XOR: each child one operand.
	Positive *Node   // SUB only: the minuend.
	Negative *Node   // SUB only: the subtrahend.
	Leaf     Leaf    // non-nil only for leaf nodes.
	Ctx      GraphicsContext
}

func leafNode(l Leaf, ctx GraphicsContext) *Node { return &Node{Leaf: l, Ctx: ctx} }

func isEmpty(n *Node) bool { return n == nil }

// Env carries the per-lowering-call state that doesn't change with
// recursion depth: faceting/triangulation collaborators and the
// configured severities for the user-input error kinds.
type Env struct {
	Arena        *matrix.Arena
	Sink         diag.Sink
	Tri          triangulate.Triangulator
	MaxFN        int
	ErrEmpty     diag.Severity
	ErrCollapse  diag.Severity
	ErrOutside2D diag.Severity // a 2D primitive used in 3D context
	ErrOutside3D diag.Severity // a 3D primitive used in 2D context
}

// fnOf clamps a requested facet count to env.MaxFN when that's set and
// positive, and applies a floor of 3 for faceted shapes (0 itself stays 0,
// meaning "use the analytic variant" for shapes that have one).
func fnOf(env *Env, requested int) int {
	fn := requested
	if env.MaxFN > 0 && fn > env.MaxFN {
		fn = env.MaxFN
	}
	if fn > 0 && fn < 3 {
		fn = 3
	}
	return fn
}

// Lower walks ast, threading m (the current transform) and ctx (the
// current graphics context), and dispatches primitive nodes to their
// constructors. in3D selects whether 3D or 2D primitives are legal at
// this point in the tree (spec.md §4.4's context check).
func Lower(ast scad.Node, ctx GraphicsContext, m *matrix.Matrix, in3D bool, env *Env) (*Node, error) {
	mod := ctx.Modifier | ast.Modifiers()
	if mod&scad.ModDisable != 0 {
		return nil, nil
	}
	ctx.Modifier = mod
	if c, ok := colorOf(ast); ok {
		ctx.Color = c
	}

	switch t := ast.(type) {
	case *scad.Union:
		return lowerAdd(t.Children, ctx, m, in3D, env)

	case *scad.Difference:
		return lowerSub(t.Children, ctx, m, in3D, env)

	case *scad.Intersection:
		return lowerCut(t.Children, ctx, m, in3D, env)

	case *scad.Translate:
		nm := env.Arena.Translate(m, mgl64.Vec3{t.V.X, t.V.Y, t.V.Z})
		return Lower(t.Child, ctx, nm, in3D, env)

	case *scad.Mirror:
		nm, err := env.Arena.Mirror(m, mgl64.Vec3{t.V.X, t.V.Y, t.V.Z})
		if err != nil {
			// A zero mirror vector has no well-defined reflection plane,
			// so unlike Scale's zero-component case it is not
			// configurable: diag.Unsupported always resolves to Fatal.
			diag.Emit(env.Sink, diag.Record{Kind: diag.Unsupported, Primary: t.Loc, Message: err.Error()}, diag.Fatal)
			return nil, err
		}
		return Lower(t.Child, ctx, nm, in3D, env)

	case *scad.Scale:
		nm, err := env.Arena.Scale(m, mgl64.Vec3{t.V.X, t.V.Y, t.V.Z})
		if err != nil {
			if diag.Emit(env.Sink, diag.Record{Kind: diag.Empty, Primary: t.Loc, Message: err.Error()}, env.ErrEmpty) {
				return nil, err
			}
			return nil, nil
		}
		return Lower(t.Child, ctx, nm, in3D, env)

	case *scad.Rotate:
		var nm *matrix.Matrix
		if t.AngleDeg != 0 {
			nm = env.Arena.RotateAxisAngle(m, mgl64.Vec3{t.Axis.X, t.Axis.Y, t.Axis.Z}, t.AngleDeg)
		} else {
			nm = env.Arena.RotateEuler(m, mgl64.Vec3{t.Angles.X, t.Angles.Y, t.Angles.Z})
		}
		return Lower(t.Child, ctx, nm, in3D, env)

	case *scad.MultMatrix:
		var lin mgl64.Mat3
		var tr mgl64.Vec3
		for col := 0; col < 3; col++ {
			for row := 0; row < 3; row++ {
				lin[col*3+row] = t.Rows[row][col]
			}
			tr[col] = 0
		}
		tr = mgl64.Vec3{t.Rows[0][3], t.Rows[1][3], t.Rows[2][3]}
		nm, err := env.Arena.MultMatrix(m, lin, tr)
		if err != nil {
			if diag.Emit(env.Sink, diag.Record{Kind: diag.Collapse, Primary: t.Loc, Message: err.Error()}, env.ErrCollapse) {
				return nil, err
			}
			return nil, nil
		}
		return Lower(t.Child, ctx, nm, in3D, env)

	case *scad.Color:
		ctx.Color = [4]float64{t.RGBA[0], t.RGBA[1], t.RGBA[2], t.RGBA[3]}
		return Lower(t.Child, ctx, m, in3D, env)

	case *scad.Sphere, *scad.Cube, *scad.Cylinder, *scad.Polyhedron:
		if !in3D {
			if diag.Emit(env.Sink, diag.Record{Kind: diag.OutsideContext, Primary: locationOf(ast), Message: "3D primitive used in 2D context"}, env.ErrOutside3D) {
				return nil, fmt.Errorf("3D primitive in 2D context")
			}
			return nil, nil
		}
		return lowerPrimitive3D(ast, ctx, m, env)

	case *scad.Circle, *scad.Square, *scad.Polygon:
		if in3D {
			if diag.Emit(env.Sink, diag.Record{Kind: diag.OutsideContext, Primary: locationOf(ast), Message: "2D primitive used in 3D context"}, env.ErrOutside2D) {
				return nil, fmt.Errorf("2D primitive in 3D context")
			}
			return nil, nil
		}
		return lowerPrimitive2D(ast, ctx, m, env)

	case *scad.LinearExtrude:
		return lowerLinearExtrude(t, ctx, m, env)

	default:
		return nil, fmt.Errorf("csg: unhandled scad node %T", ast)
	}
}

func lowerAdd(children []scad.Node, ctx GraphicsContext, m *matrix.Matrix, in3D bool, env *Env) (*Node, error) {
	var kept []*Node
	for _, c := range children {
		n, err := Lower(c, ctx, m, in3D, env)
		if err != nil {
			return nil, err
		}
		if !isEmpty(n) {
			kept = append(kept, n)
		}
	}
	if len(kept) == 0 {
		return nil, nil
	}
	if len(kept) == 1 {
		return kept[0], nil
	}
	return &Node{Op: Add, Children: kept, Ctx: ctx}, nil
}

func lowerSub(children []scad.Node, ctx GraphicsContext, m *matrix.Matrix, in3D bool, env *Env) (*Node, error) {
	if len(children) == 0 {
		return nil, nil
	}
	pos, err := Lower(children[0], ctx, m, in3D, env)
	if err != nil {
		return nil, err
	}
	if isEmpty(pos) {
		// A difference whose positive side is empty drops the entire node.
		return nil, nil
	}
	neg, err := lowerAdd(children[1:], ctx, m, in3D, env)
	if err != nil {
		return nil, err
	}
	if isEmpty(neg) {
		// A difference whose negative side is empty drops the subtraction.
		return pos, nil
	}
	// Fold A - (B - C) - D into A - (B - C - D) when pos is itself a SUB.
	if pos.Op == Sub && pos.Leaf == nil {
		merged := &Node{Op: Add, Children: []*Node{pos.Negative, neg}, Ctx: ctx}
		return &Node{Op: Sub, Positive: pos.Positive, Negative: merged, Ctx: ctx}, nil
	}
	return &Node{Op: Sub, Positive: pos, Negative: neg, Ctx: ctx}, nil
}

func lowerCut(children []scad.Node, ctx GraphicsContext, m *matrix.Matrix, in3D bool, env *Env) (*Node, error) {
	var operands []*Node
	for _, c := range children {
		n, err := Lower(c, ctx, m, in3D, env)
		if err != nil {
			return nil, err
		}
		if isEmpty(n) {
			// An intersection with any empty operand is itself empty.
			return nil, nil
		}
		operands = append(operands, n)
	}
	switch len(operands) {
	case 0:
		return nil, nil
	case 1:
		return operands[0], nil
	default:
		return &Node{Op: Cut, Children: operands, Ctx: ctx}, nil
	}
}

func colorOf(ast scad.Node) ([4]float64, bool) {
	if c, ok := ast.(*scad.Color); ok {
		return c.RGBA, true
	}
	return [4]float64{}, false
}

func locationOf(ast scad.Node) diag.Location { return ast.Location() }
