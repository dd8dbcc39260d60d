package csg

import (
	"math"

	"github.com/akmonengine/csgkernel/matrix"
	"github.com/akmonengine/csgkernel/mesh"
	"github.com/akmonengine/csgkernel/sweep"
	"github.com/go-gl/mathgl/mgl64"
)

// AABB is an axis-aligned bounding box. A zero AABB (Min == Max == origin)
// never occurs for a non-empty tree: Empty reports whether a box actually
// bounds anything.
type AABB struct {
	Min, Max mgl64.Vec3
	Empty    bool
}

func pointBox(p mgl64.Vec3) AABB { return AABB{Min: p, Max: p} }

func (b AABB) union(o AABB) AABB {
	if b.Empty {
		return o
	}
	if o.Empty {
		return b
	}
	out := AABB{}
	for i := 0; i < 3; i++ {
		out.Min[i] = math.Min(b.Min[i], o.Min[i])
		out.Max[i] = math.Max(b.Max[i], o.Max[i])
	}
	return out
}

func (b AABB) intersect(o AABB) AABB {
	if b.Empty || o.Empty {
		return AABB{Empty: true}
	}
	out := AABB{}
	for i := 0; i < 3; i++ {
		out.Min[i] = math.Max(b.Min[i], o.Min[i])
		out.Max[i] = math.Min(b.Max[i], o.Max[i])
		if out.Min[i] > out.Max[i] {
			return AABB{Empty: true}
		}
	}
	return out
}

// BoundingBox folds n's tree into a single AABB. includeSubtracted governs
// SUB and CUT: true unions every operand (the STL-safe superset a writer
// can use without risking a volume clipped too tight), false applies the
// operation's actual removal (SUB keeps only the positive side's box, CUT
// intersects and may report Empty if the intersection is vacuous).
func BoundingBox(n *Node, includeSubtracted bool) AABB {
	if n == nil {
		return AABB{Empty: true}
	}
	if n.Leaf != nil {
		return leafBox(n.Leaf)
	}
	switch n.Op {
	case Add:
		box := AABB{Empty: true}
		for _, c := range n.Children {
			box = box.union(BoundingBox(c, includeSubtracted))
		}
		return box

	case Sub:
		if includeSubtracted {
			return BoundingBox(n.Positive, includeSubtracted).union(BoundingBox(n.Negative, includeSubtracted))
		}
		return BoundingBox(n.Positive, includeSubtracted)

	case Cut:
		if includeSubtracted {
			box := AABB{Empty: true}
			for _, c := range n.Children {
				box = box.union(BoundingBox(c, includeSubtracted))
			}
			return box
		}
		if len(n.Children) == 0 {
			return AABB{Empty: true}
		}
		box := BoundingBox(n.Children[0], includeSubtracted)
		for _, c := range n.Children[1:] {
			if box.Empty {
				return box
			}
			box = box.intersect(BoundingBox(c, includeSubtracted))
		}
		return box

	case Xor:
		box := AABB{Empty: true}
		for _, c := range n.Children {
			box = box.union(BoundingBox(c, includeSubtracted))
		}
		return box
	}
	return AABB{Empty: true}
}

func leafBox(l Leaf) AABB {
	switch v := l.(type) {
	case Sphere3D:
		return sphereAABB(v.M)
	case Polyhedron3D:
		return pointsBox3(v.Poly.Points)
	case Polygon2D:
		return pointsBox2(v.Poly.Points)
	}
	return AABB{Empty: true}
}

// sphereAABB is Tavian Barnes' closed-form AABB for a transformed unit
// sphere: per axis i, the half-extent is the row norm of the linear part,
// centered on the translation. Min and Max are assigned directly from
// translation -/+ row norm, with no comparisons.
func sphereAABB(m *matrix.Matrix) AABB {
	var box AABB
	for i := 0; i < 3; i++ {
		rowNorm := math.Sqrt(m.Linear[0*3+i]*m.Linear[0*3+i] +
			m.Linear[1*3+i]*m.Linear[1*3+i] +
			m.Linear[2*3+i]*m.Linear[2*3+i])
		box.Min[i] = m.Translation[i] - rowNorm
		box.Max[i] = m.Translation[i] + rowNorm
	}
	return box
}

func pointsBox3(pts []mesh.Point) AABB {
	if len(pts) == 0 {
		return AABB{Empty: true}
	}
	box := pointBox(pts[0].Vec())
	for _, p := range pts[1:] {
		box = box.union(pointBox(p.Vec()))
	}
	return box
}

func pointsBox2(pts []sweep.Vertex) AABB {
	if len(pts) == 0 {
		return AABB{Empty: true}
	}
	box := pointBox(mgl64.Vec3{pts[0].X, pts[0].Y, 0})
	for _, p := range pts[1:] {
		box = box.union(pointBox(mgl64.Vec3{p.X, p.Y, 0}))
	}
	return box
}
