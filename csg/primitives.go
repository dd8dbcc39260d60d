package csg

import (
	"fmt"
	"math"

	"github.com/akmonengine/csgkernel/diag"
	"github.com/akmonengine/csgkernel/matrix"
	"github.com/akmonengine/csgkernel/mesh"
	"github.com/akmonengine/csgkernel/primitive"
	"github.com/akmonengine/csgkernel/scad"
	"github.com/akmonengine/csgkernel/sweep"
	"github.com/akmonengine/csgkernel/tower"
	"github.com/go-gl/mathgl/mgl64"
)

func degToRad(d float64) float64 { return d * math.Pi / 180 }

func lerp(a, b, t float64) float64 { return a + (b-a)*t }

// emptyOrErr reports a user-input geometry error at the given kind and
// configured severity, returning (nil, nil) if lowering should simply
// drop the offending node, or (nil, err) if it should abort.
func emptyOrErr(env *Env, kind diag.Kind, loc diag.Location, sev diag.Severity, msg string) (*Node, error) {
	if diag.Emit(env.Sink, diag.Record{Kind: kind, Primary: loc, Message: msg}, sev) {
		return nil, fmt.Errorf("%s", msg)
	}
	return nil, nil
}

func lowerPrimitive3D(ast scad.Node, ctx GraphicsContext, m *matrix.Matrix, env *Env) (*Node, error) {
	switch t := ast.(type) {
	case *scad.Sphere:
		if t.Radius <= 0 {
			return emptyOrErr(env, diag.Empty, t.Loc, env.ErrEmpty, "sphere radius must be positive")
		}
		fn := fnOf(env, t.FN)
		if fn == 0 {
			sm, err := env.Arena.Scale(m, mgl64.Vec3{t.Radius, t.Radius, t.Radius})
			if err != nil {
				return emptyOrErr(env, diag.Empty, t.Loc, env.ErrEmpty, err.Error())
			}
			return leafNode(Sphere3D{M: sm}, ctx), nil
		}
		poly, err := primitive.Sphere(t.Radius, fn, m, t.Loc)
		if err != nil {
			return emptyOrErr(env, diag.Empty, t.Loc, env.ErrEmpty, err.Error())
		}
		return leafNode(Polyhedron3D{Poly: poly}, ctx), nil

	case *scad.Cube:
		poly, err := primitive.Cube(mgl64.Vec3{t.Size.X, t.Size.Y, t.Size.Z}, t.Center, m, t.Loc)
		if err != nil {
			return emptyOrErr(env, diag.Empty, t.Loc, env.ErrEmpty, err.Error())
		}
		return leafNode(Polyhedron3D{Poly: poly}, ctx), nil

	case *scad.Cylinder:
		fn := fnOf(env, t.FN)
		poly, err := primitive.Cylinder(t.Height, t.Radius1, t.Radius2, t.Center, fn, m, env.Tri, t.Loc)
		if err != nil {
			return emptyOrErr(env, diag.Empty, t.Loc, env.ErrEmpty, err.Error())
		}
		return leafNode(Polyhedron3D{Poly: poly}, ctx), nil

	case *scad.Polyhedron:
		pts := make([]mgl64.Vec3, len(t.Points))
		locs := make([]diag.Location, len(t.Points))
		for i, p := range t.Points {
			pts[i] = mgl64.Vec3{p.X, p.Y, p.Z}
			locs[i] = t.Loc
		}
		poly, err := primitive.Polyhedron(pts, t.Faces, locs, nil, m, env.Tri)
		if err != nil {
			if me, ok := err.(*mesh.Error); ok {
				return emptyOrErr(env, me.Kind, me.Primary, diag.Fatal, me.Message)
			}
			return emptyOrErr(env, diag.Empty, t.Loc, env.ErrEmpty, err.Error())
		}
		return leafNode(Polyhedron3D{Poly: poly}, ctx), nil

	default:
		return nil, fmt.Errorf("csg: unhandled 3D primitive %T", ast)
	}
}

func lowerPrimitive2D(ast scad.Node, ctx GraphicsContext, m *matrix.Matrix, env *Env) (*Node, error) {
	switch t := ast.(type) {
	case *scad.Circle:
		fn := fnOf(env, t.FN)
		poly, err := primitive.Circle(t.Radius, fn, m, t.Loc)
		if err != nil {
			return emptyOrErr(env, diag.Empty, t.Loc, env.ErrEmpty, err.Error())
		}
		return leafNode(Polygon2D{Poly: poly}, ctx), nil

	case *scad.Square:
		poly, err := primitive.Square(mgl64.Vec2{t.Size.X, t.Size.Y}, t.Center, m, t.Loc)
		if err != nil {
			return emptyOrErr(env, diag.Empty, t.Loc, env.ErrEmpty, err.Error())
		}
		return leafNode(Polygon2D{Poly: poly}, ctx), nil

	case *scad.Polygon:
		pts := make([]mgl64.Vec2, len(t.Points))
		locs := make([]diag.Location, len(t.Points))
		for i, p := range t.Points {
			pts[i] = mgl64.Vec2{p.X, p.Y}
			locs[i] = t.Loc
		}
		poly, err := primitive.Polygon(pts, t.Paths, locs, m)
		if err != nil {
			return emptyOrErr(env, diag.Empty, t.Loc, env.ErrEmpty, err.Error())
		}
		return leafNode(Polygon2D{Poly: poly}, ctx), nil

	default:
		return nil, fmt.Errorf("csg: unhandled 2D primitive %T", ast)
	}
}

// lowerLinearExtrude recursively lowers t.Child in 2D context with an
// identity transform, flattens the result to a single polygon via the
// plane-sweep engine's union, then lays down a tower of rings per path:
// slices+1 rings, or slices rings plus an apex when both scale components
// collapse to zero.
func lowerLinearExtrude(t *scad.LinearExtrude, ctx GraphicsContext, m *matrix.Matrix, env *Env) (*Node, error) {
	if t.Height <= 0 {
		return emptyOrErr(env, diag.Empty, t.Loc, env.ErrEmpty, "linear_extrude height must be positive")
	}
	slices := t.Slices
	if slices < 1 {
		slices = 1
	}
	sx, sy := t.Scale.X, t.Scale.Y
	if sx < 0 {
		sx = 0
	}
	if sy < 0 {
		sy = 0
	}
	if (sx == 0) != (sy == 0) {
		return emptyOrErr(env, diag.Unsupported, t.Loc, diag.Fatal,
			"linear_extrude with exactly one zero scale component is unsupported")
	}
	apex := sx == 0 && sy == 0

	childNode, err := Lower(t.Child, ctx, env.Arena.Identity(), false, env)
	if err != nil {
		return nil, err
	}
	if isEmpty(childNode) {
		return nil, nil
	}
	flat, err := flattenTo2D(childNode, env)
	if err != nil {
		return nil, err
	}
	if len(flat.Paths) == 0 {
		return nil, nil
	}

	var perPath []*Node
	for _, path := range flat.Paths {
		poly, err := extrudePath(flat, path, t.Height, sx, sy, t.Twist, slices, apex, t.Center, m)
		if err != nil {
			return nil, fmt.Errorf("linear_extrude: %w", err)
		}
		perPath = append(perPath, leafNode(Polyhedron3D{Poly: poly}, ctx))
	}
	if len(perPath) == 1 {
		return perPath[0], nil
	}
	// Multiple paths (holes present): their parity already encodes
	// inside/outside, so XOR combines them into one solid with holes.
	return &Node{Op: Xor, Children: perPath, Ctx: ctx}, nil
}

// flattenTo2D reduces a lowered 2D tree to a single polygon by the same
// repeated-sweep-Bool reduction the layer package performs per slice.
func flattenTo2D(n *Node, env *Env) (sweep.Polygon, error) {
	if n.Leaf != nil {
		if p2, ok := n.Leaf.(Polygon2D); ok {
			return p2.Poly, nil
		}
		return sweep.Polygon{}, fmt.Errorf("linear_extrude child produced a non-2D leaf")
	}
	reduce := func(nodes []*Node, op sweep.Op) (sweep.Polygon, error) {
		acc, err := flattenTo2D(nodes[0], env)
		if err != nil {
			return sweep.Polygon{}, err
		}
		for _, c := range nodes[1:] {
			p, err := flattenTo2D(c, env)
			if err != nil {
				return sweep.Polygon{}, err
			}
			acc, err = sweep.Bool(acc, p, op, env.Sink)
			if err != nil {
				return sweep.Polygon{}, err
			}
		}
		return acc, nil
	}
	switch n.Op {
	case Add:
		return reduce(n.Children, sweep.Add)
	case Sub:
		pos, err := flattenTo2D(n.Positive, env)
		if err != nil {
			return sweep.Polygon{}, err
		}
		neg, err := flattenTo2D(n.Negative, env)
		if err != nil {
			return sweep.Polygon{}, err
		}
		return sweep.Bool(pos, neg, sweep.Sub, env.Sink)
	case Cut:
		return reduce(n.Children, sweep.Cut)
	case Xor:
		return reduce(n.Children, sweep.Xor)
	}
	return sweep.Polygon{}, fmt.Errorf("linear_extrude: unreachable node shape")
}

// extrudePath builds one path of a linear extrusion as a tower: the path's
// points (clockwise, per the 2D polygon invariant) are walked in reverse to
// present tower.Build the counterclockwise-from-+z ring it expects, with
// per-ring scale and twist baked directly into each ring's coordinates
// before the single outer matrix m is applied.
func extrudePath(flat sweep.Polygon, path []int, height, scaleX, scaleY, twistDeg float64, slices int, apex, center bool, m *matrix.Matrix) (*mesh.Polyhedron, error) {
	n := len(path)
	ring0Loc := flat.Points[path[0]].Loc

	ringCount := slices + 1
	if apex {
		ringCount = slices
	}

	pts := make([]mesh.Point, 0, n*ringCount+1)
	for k := 0; k < ringCount; k++ {
		tt := float64(k) / float64(slices)
		z := height * tt
		if center {
			z -= height / 2
		}
		s := scaleX
		sy := scaleY
		twist := degToRad(-twistDeg * tt)
		cosT, sinT := math.Cos(twist), math.Sin(twist)
		for i := 0; i < n; i++ {
			v := flat.Points[path[n-1-i]]
			x, y := v.X*lerp(1, s, tt), v.Y*lerp(1, sy, tt)
			rx := x*cosT - y*sinT
			ry := x*sinT + y*cosT
			pts = append(pts, mesh.Point{X: rx, Y: ry, Z: z, Loc: v.Loc})
		}
	}
	if apex {
		apexZ := height
		if center {
			apexZ -= height / 2
		}
		pts = append(pts, mesh.Point{X: 0, Y: 0, Z: apexZ, Loc: ring0Loc})
	}

	triSide := tower.TriNone
	switch {
	case twistDeg > 0:
		triSide = tower.TriLeft
	case twistDeg < 0:
		triSide = tower.TriRight
	}

	return tower.Build(tower.Spec{
		Points:  pts,
		FN:      n,
		FNZ:     ringCount,
		Apex:    apex,
		M:       m,
		Rev:     false,
		TriSide: triSide,
	}, nil)
}
