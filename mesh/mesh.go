// Package mesh holds the polyhedron data model — points, faces, and edges —
// and the edge-pairing builder that establishes the two-manifold invariant
// every polyhedron this module produces must satisfy.
package mesh

import (
	"github.com/akmonengine/csgkernel/diag"
	"github.com/go-gl/mathgl/mgl64"
)

// PointRef indexes into a Polyhedron's Points slice. It remains valid for
// the lifetime of the Polyhedron: Points is never resized once any Face or
// Edge references into it exist.
type PointRef int

// FaceRef indexes into a Polyhedron's Faces slice. NoFace marks an edge
// slot ("fore" or "back") that has not been assigned yet.
type FaceRef int

// NoFace is the sentinel FaceRef meaning "unassigned."
const NoFace FaceRef = -1

// EdgeRef indexes into a Polyhedron's Edges slice.
type EdgeRef int

// Point is a 3D coordinate plus the source location it was derived from,
// carried purely for diagnostics.
type Point struct {
	X, Y, Z float64
	Loc     diag.Location
}

// Vec returns the point's coordinate as an mgl64.Vec3.
func (p Point) Vec() mgl64.Vec3 { return mgl64.Vec3{p.X, p.Y, p.Z} }

// FromVec builds a Point from a coordinate and a location.
func FromVec(v mgl64.Vec3, loc diag.Location) Point {
	return Point{X: v[0], Y: v[1], Z: v[2], Loc: loc}
}

// Face is a loop of point references (and the matching loop of source
// locations) with a parallel loop of edge references. len(Points) ==
// len(Edges) == len(PointLocs) >= 3.
type Face struct {
	Points    []PointRef
	PointLocs []diag.Location
	Edges     []EdgeRef
}

// Edge is an unordered pair of point references, canonicalized so Src < Dst
// by PointRef order, plus the two faces that traverse it in each direction.
// After a successful Build, both Fore and Back are non-NoFace for every
// edge — the two-manifold invariant.
type Edge struct {
	Src, Dst   PointRef
	Fore, Back FaceRef
}

// Polyhedron owns a point vector, a face vector, and an edge vector. It is
// the exclusive owner of all three; nothing outside this package resizes
// Points once Faces/Edges have been built against it.
type Polyhedron struct {
	Points []Point
	Faces  []Face
	Edges  []Edge

	// PureRotation is set by constructors that know their governing
	// matrix was a pure rectangular rotation (no scale/shear/mirror),
	// used downstream as an STL-writer optimization hint.
	PureRotation bool
}

// Error reports an edge-pairing or topology failure, keyed to the source
// location(s) of the offending geometry.
type Error struct {
	Kind      diag.Kind
	Message   string
	Primary   diag.Location
	Secondary diag.Location
}

func (e *Error) Error() string { return e.Message }
