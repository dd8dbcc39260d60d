// Package scad defines the shape of the upstream SCAD AST this module
// consumes. It has no behavior of its own — parsing source text into these
// nodes is an external collaborator (spec.md §1's "SCAD source parser")
// — it exists only so csg.Lower has something concrete to type-switch over.
package scad

import "github.com/akmonengine/csgkernel/diag"

// Modifier is the bitmask of SCAD root modifier operators: `*` (disable),
// `#` (highlight), `%` (background), `!` (show-only). Several may be set on
// the same node; they OR together down the recursion.
type Modifier uint8

const (
	ModDisable Modifier = 1 << iota
	ModHighlight
	ModBackground
	ModShowOnly

	ModNone Modifier = 0
)

// Node is any SCAD AST node. Location returns the source-position token
// used solely for diagnostics.
type Node interface {
	Location() diag.Location
	Modifiers() Modifier
}

// Base is embedded by every concrete node type to supply Location and
// Modifiers.
type Base struct {
	Loc diag.Location
	Mod Modifier
}

func (b Base) Location() diag.Location { return b.Loc }
func (b Base) Modifiers() Modifier     { return b.Mod }

// Vec3 is a plain 3-component tuple as carried by AST fields (kept
// independent of mgl64 so this package has no geometry dependency).
type Vec3 struct{ X, Y, Z float64 }

// Vec2 is a plain 2-component tuple.
type Vec2 struct{ X, Y float64 }

// --- boolean combinators ---

type Union struct {
	Base
	Children []Node
}

type Difference struct {
	Base
	Children []Node
}

type Intersection struct {
	Base
	Children []Node
}

// --- transforms ---

type Translate struct {
	Base
	V     Vec3
	Child Node
}

type Mirror struct {
	Base
	V     Vec3
	Child Node
}

type Scale struct {
	Base
	V     Vec3
	Child Node
}

// Rotate carries either an axis-angle rotation (Axis non-zero, AngleDeg
// set) or a three-component Euler rotation (Axis is the zero vector,
// Angles set instead).
type Rotate struct {
	Base
	Axis     Vec3
	AngleDeg float64
	Angles   Vec3
	Child    Node
}

// MultMatrix carries a raw 3x4 affine matrix, row-major: Rows[i] is row i
// of the linear part plus its translation component in Rows[i][3].
type MultMatrix struct {
	Base
	Rows  [3][4]float64
	Child Node
}

type Color struct {
	Base
	RGBA  [4]float64
	Child Node
}

// --- 3D primitives ---

type Sphere struct {
	Base
	Radius float64
	FN     int
}

type Cube struct {
	Base
	Size   Vec3
	Center bool
}

type Cylinder struct {
	Base
	Height         float64
	Radius1, Radius2 float64
	Center         bool
	FN             int
}

type Polyhedron struct {
	Base
	Points []Vec3
	Faces  [][]int
}

// --- 2D primitives ---

type Circle struct {
	Base
	Radius float64
	FN     int
}

type Square struct {
	Base
	Size   Vec2
	Center bool
}

type Polygon struct {
	Base
	Points []Vec2
	Paths  [][]int // nil means a single implicit path over all points
}

// LinearExtrude extrudes its 2D child subtree into a 3D solid.
type LinearExtrude struct {
	Base
	Height float64
	Twist  float64
	Slices int
	Scale  Vec2
	Center bool
	Child  Node
}
