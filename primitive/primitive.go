// Package primitive builds the point/face geometry for each SCAD leaf
// shape: sphere, cube, cylinder, polyhedron (3D) and circle, square,
// polygon (2D). Every constructor takes the primitive's own numeric
// parameters plus the governing matrix and returns mesh/sweep data —
// it has no dependency on the scad or csg packages, so csg.Lower is free
// to wrap its results into whichever tree-node shape it needs.
package primitive

import (
	"fmt"
	"math"
	"sort"

	"github.com/akmonengine/csgkernel/diag"
	"github.com/akmonengine/csgkernel/matrix"
	"github.com/akmonengine/csgkernel/mesh"
	"github.com/akmonengine/csgkernel/sweep"
	"github.com/akmonengine/csgkernel/triangulate"
	"github.com/akmonengine/csgkernel/tower"
	"github.com/go-gl/mathgl/mgl64"
)

func degToRad(d float64) float64 { return d * math.Pi / 180 }

func lerp(a, b, t float64) float64 { return a + (b-a)*t }

// Sphere builds a faceted sphere mesh: fnz = ceil(fn/2) rings at polar
// angles (2i+1)*90/fnz, each ring of fn points at equal azimuths. A
// caller that wants the fn==0 analytic-sphere leaf should not call this
// at all; it is only meaningful for fn >= 3.
func Sphere(radius float64, fn int, m *matrix.Matrix, loc diag.Location) (*mesh.Polyhedron, error) {
	if radius <= 0 {
		return nil, fmt.Errorf("primitive: sphere radius must be positive, got %v", radius)
	}
	if fn < 3 {
		return nil, fmt.Errorf("primitive: sphere fn must be >= 3, got %d", fn)
	}
	fnz := (fn + 1) / 2

	pts := make([]mesh.Point, 0, fn*fnz)
	for i := 0; i < fnz; i++ {
		phi := degToRad(90 * float64(2*i+1) / float64(fnz))
		r := radius * math.Sin(phi)
		z := radius * math.Cos(phi)
		for j := 0; j < fn; j++ {
			theta := degToRad(360 * float64(j) / float64(fn))
			pts = append(pts, mesh.Point{
				X: r * math.Cos(theta), Y: r * math.Sin(theta), Z: z, Loc: loc,
			})
		}
	}

	return tower.Build(tower.Spec{
		Points: pts, FN: fn, FNZ: fnz,
		M: m, Rev: true, TriSide: tower.TriNone,
	}, nil)
}

// cornerXYZ decodes cube's corner index convention: bit0^bit1 picks x,
// bit1 picks y, bit2 picks z, so ring 0 (i in [0,4)) and ring 1 (i in
// [4,8)) present the same (x,y) order and differ only in z.
func cornerXYZ(i int) (x, y, z int) {
	b0, b1, b2 := i&1, (i>>1)&1, (i>>2)&1
	return b0 ^ b1, b1, b2
}

// Cube builds the 8-corner box mesh.
func Cube(size mgl64.Vec3, center bool, m *matrix.Matrix, loc diag.Location) (*mesh.Polyhedron, error) {
	if size.X() <= 0 || size.Y() <= 0 || size.Z() <= 0 {
		return nil, fmt.Errorf("primitive: cube size must be positive in every axis, got %v", size)
	}
	shift := mgl64.Vec3{}
	if center {
		shift = size.Mul(0.5)
	}
	pts := make([]mesh.Point, 8)
	for i := 0; i < 8; i++ {
		x, y, z := cornerXYZ(i)
		pts[i] = mesh.Point{
			X: float64(x)*size.X() - shift.X(),
			Y: float64(y)*size.Y() - shift.Y(),
			Z: float64(z)*size.Z() - shift.Z(),
			Loc: loc,
		}
	}
	return tower.Build(tower.Spec{
		Points: pts, FN: 4, FNZ: 2,
		M: m, Rev: false, TriSide: tower.TriNone,
	}, nil)
}

// Cylinder builds a cylinder/cone mesh. r2 == 0 collapses the top ring to
// a single apex point; r1 == 0 likewise collapses the bottom ring.
func Cylinder(height, r1, r2 float64, center bool, fn int, m *matrix.Matrix, tri triangulate.Triangulator, loc diag.Location) (*mesh.Polyhedron, error) {
	if height <= 0 {
		return nil, fmt.Errorf("primitive: cylinder height must be positive, got %v", height)
	}
	if r1 <= 0 && r2 <= 0 {
		return nil, fmt.Errorf("primitive: cylinder needs at least one positive radius")
	}
	if fn < 3 {
		return nil, fmt.Errorf("primitive: cylinder fn must be >= 3, got %d", fn)
	}

	z0, z1 := 0.0, height
	if center {
		z0, z1 = -height/2, height/2
	}

	ring := func(r, z float64) []mesh.Point {
		out := make([]mesh.Point, fn)
		for j := 0; j < fn; j++ {
			theta := degToRad(360 * float64(j) / float64(fn))
			out[j] = mesh.Point{X: r * math.Cos(theta), Y: r * math.Sin(theta), Z: z, Loc: loc}
		}
		return out
	}

	if r1 == 0 {
		pts := append([]mesh.Point{}, ring(r2, z1)...)
		pts = append(pts, mesh.Point{X: 0, Y: 0, Z: z0, Loc: loc})
		return tower.Build(tower.Spec{
			Points: pts, FN: fn, FNZ: 1, Apex: true,
			M: m, Rev: true, TriSide: tower.TriNone,
		}, tri)
	}
	if r2 == 0 {
		pts := append([]mesh.Point{}, ring(r1, z0)...)
		pts = append(pts, mesh.Point{X: 0, Y: 0, Z: z1, Loc: loc})
		return tower.Build(tower.Spec{
			Points: pts, FN: fn, FNZ: 1, Apex: true,
			M: m, Rev: false, TriSide: tower.TriNone,
		}, tri)
	}
	pts := append(ring(r1, z0), ring(r2, z1)...)
	return tower.Build(tower.Spec{
		Points: pts, FN: fn, FNZ: 2,
		M: m, Rev: false, TriSide: tower.TriNone,
	}, tri)
}

// Polyhedron builds an arbitrary-face mesh from user-supplied points and
// faces, triangulating any face found to be non-planar-convex by
// projecting it onto its dominant axis plane (the plane its Newell normal
// has the largest component against) and invoking tri.
func Polyhedron(points []mgl64.Vec3, faces [][]int, locs []diag.Location, faceLocs [][]diag.Location, m *matrix.Matrix, tri triangulate.Triangulator) (*mesh.Polyhedron, error) {
	if len(points) < 4 {
		return nil, fmt.Errorf("primitive: polyhedron needs at least 4 points, got %d", len(points))
	}
	if len(faces) < 4 {
		return nil, fmt.Errorf("primitive: polyhedron needs at least 4 faces, got %d", len(faces))
	}

	order := make([]int, len(points))
	for i := range order {
		order[i] = i
	}
	sort.Slice(order, func(i, j int) bool {
		a, b := points[order[i]], points[order[j]]
		if a.X() != b.X() {
			return a.X() < b.X()
		}
		if a.Y() != b.Y() {
			return a.Y() < b.Y()
		}
		return a.Z() < b.Z()
	})
	for i := 1; i < len(order); i++ {
		a, b := points[order[i-1]], points[order[i]]
		if a == b {
			return nil, &mesh.Error{
				Kind:      diag.Topology,
				Message:   fmt.Sprintf("polyhedron has duplicate point at index %d and %d", order[i-1], order[i]),
				Primary:   locs[order[i-1]],
				Secondary: locs[order[i]],
			}
		}
	}

	meshPts := make([]mesh.Point, len(points))
	for i, p := range points {
		meshPts[i] = mesh.FromVec(p, locs[i])
	}

	var faceInputs []mesh.FaceInput
	for fi, f := range faces {
		if len(f) < 3 {
			return nil, fmt.Errorf("primitive: polyhedron face %d has fewer than 3 points", fi)
		}
		loops, err := triangulateFaceIfNeeded(points, f, tri)
		if err != nil {
			return nil, fmt.Errorf("primitive: polyhedron face %d: %w", fi, err)
		}
		for _, loop := range loops {
			refs := make([]mesh.PointRef, len(loop))
			locsOut := make([]diag.Location, len(loop))
			for k, idx := range loop {
				refs[k] = mesh.PointRef(f[idx])
				if faceLocs != nil && fi < len(faceLocs) && idx < len(faceLocs[fi]) {
					locsOut[k] = faceLocs[fi][idx]
				}
			}
			faceInputs = append(faceInputs, mesh.FaceInput{Points: refs, Locs: locsOut})
		}
	}

	poly, err := mesh.Build(meshPts, faceInputs)
	if err != nil {
		return nil, err
	}
	for i := range poly.Points {
		v := m.Apply(poly.Points[i].Vec())
		poly.Points[i].X, poly.Points[i].Y, poly.Points[i].Z = v[0], v[1], v[2]
	}
	poly.PureRotation = m.IsPureRotation()
	return poly, nil
}

// triangulateFaceIfNeeded returns loops of local indices into f: either
// {0,...,len(f)-1} unchanged if the face is planar-convex, or the
// ear-clipped triangle loops after projecting onto the face's dominant
// axis plane.
func triangulateFaceIfNeeded(points []mgl64.Vec3, f []int, tri triangulate.Triangulator) ([][]int, error) {
	n := len(f)
	// Newell's method: robust against a non-convex (even non-planar)
	// loop, unlike a single cross product at one vertex.
	var normal mgl64.Vec3
	for i := 0; i < n; i++ {
		a := points[f[i]]
		b := points[f[(i+1)%n]]
		normal[0] += (a.Y() - b.Y()) * (a.Z() + b.Z())
		normal[1] += (a.Z() - b.Z()) * (a.X() + b.X())
		normal[2] += (a.X() - b.X()) * (a.Y() + b.Y())
	}

	ax, ay, az := math.Abs(normal.X()), math.Abs(normal.Y()), math.Abs(normal.Z())
	proj := make([]triangulate.Point2D, n)
	switch {
	case az >= ax && az >= ay:
		for i, idx := range f {
			proj[i] = triangulate.Point2D{X: points[idx].X(), Y: points[idx].Y()}
		}
	case ay >= ax:
		for i, idx := range f {
			proj[i] = triangulate.Point2D{X: points[idx].Z(), Y: points[idx].X()}
		}
	default:
		for i, idx := range f {
			proj[i] = triangulate.Point2D{X: points[idx].Y(), Y: points[idx].Z()}
		}
	}

	if triangulate.IsConvex(proj) {
		loop := make([]int, n)
		for i := range loop {
			loop[i] = i
		}
		return [][]int{loop}, nil
	}
	if tri == nil {
		return nil, fmt.Errorf("face is non-convex but no triangulator was supplied")
	}
	tris, err := tri.Triangulate(proj)
	if err != nil {
		return nil, err
	}
	out := make([][]int, len(tris))
	for i, t := range tris {
		out[i] = []int{t[0], t[1], t[2]}
	}
	return out, nil
}

// Circle builds a clockwise-wound 2D polygon approximating a circle.
func Circle(radius float64, fn int, m *matrix.Matrix, loc diag.Location) (sweep.Polygon, error) {
	if radius <= 0 {
		return sweep.Polygon{}, fmt.Errorf("primitive: circle radius must be positive, got %v", radius)
	}
	if fn < 3 {
		return sweep.Polygon{}, fmt.Errorf("primitive: circle fn must be >= 3, got %d", fn)
	}
	pts := make([]sweep.Vertex, fn)
	path := make([]int, fn)
	for j := 0; j < fn; j++ {
		theta := degToRad(360 * float64(j) / float64(fn))
		local := mgl64.Vec3{radius * math.Cos(theta), -radius * math.Sin(theta), 0}
		v := m.Apply(local)
		pts[j] = sweep.Vertex{X: v[0], Y: v[1], Loc: loc}
		path[j] = j
	}
	return sweep.Polygon{Points: pts, Paths: [][]int{path}}, nil
}

// Square builds a clockwise-wound 2D polygon for a rectangle.
func Square(size mgl64.Vec2, center bool, m *matrix.Matrix, loc diag.Location) (sweep.Polygon, error) {
	if size.X() <= 0 || size.Y() <= 0 {
		return sweep.Polygon{}, fmt.Errorf("primitive: square size must be positive, got %v", size)
	}
	shift := mgl64.Vec2{}
	if center {
		shift = size.Mul(0.5)
	}
	corners := [4][2]float64{{0, 0}, {0, 1}, {1, 1}, {1, 0}} // clockwise from origin
	pts := make([]sweep.Vertex, 4)
	path := make([]int, 4)
	for i, c := range corners {
		local := mgl64.Vec3{c[0]*size.X() - shift.X(), c[1]*size.Y() - shift.Y(), 0}
		v := m.Apply(local)
		pts[i] = sweep.Vertex{X: v[0], Y: v[1], Loc: loc}
		path[i] = i
	}
	return sweep.Polygon{Points: pts, Paths: [][]int{path}}, nil
}

// Polygon builds a 2D polygon from user-supplied points and paths,
// canonicalizing every path to clockwise. Points are not deduplicated.
func Polygon(points []mgl64.Vec2, paths [][]int, locs []diag.Location, m *matrix.Matrix) (sweep.Polygon, error) {
	if len(points) < 3 {
		return sweep.Polygon{}, fmt.Errorf("primitive: polygon needs at least 3 points, got %d", len(points))
	}
	if paths == nil {
		path := make([]int, len(points))
		for i := range path {
			path[i] = i
		}
		paths = [][]int{path}
	}

	pts := make([]sweep.Vertex, len(points))
	for i, p := range points {
		v := m.Apply(mgl64.Vec3{p.X(), p.Y(), 0})
		var loc diag.Location
		if locs != nil && i < len(locs) {
			loc = locs[i]
		}
		pts[i] = sweep.Vertex{X: v[0], Y: v[1], Loc: loc}
	}

	out := sweep.Polygon{Points: pts, Paths: paths}
	return sweep.Canonicalize(out), nil
}
