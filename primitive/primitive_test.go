package primitive

import (
	"testing"

	"github.com/akmonengine/csgkernel/diag"
	"github.com/akmonengine/csgkernel/matrix"
	"github.com/akmonengine/csgkernel/sweep"
	"github.com/akmonengine/csgkernel/triangulate"
	"github.com/go-gl/mathgl/mgl64"
)

func TestSphereBuildsWatertight(t *testing.T) {
	arena := matrix.NewArena()
	poly, err := Sphere(1, 8, arena.Identity(), diag.Location{})
	if err != nil {
		t.Fatalf("Sphere: %v", err)
	}
	for _, e := range poly.Edges {
		if e.Fore < 0 || e.Back < 0 {
			t.Fatalf("sphere mesh has an unpaired edge (%d,%d)", e.Src, e.Dst)
		}
	}
}

func TestSphereRejectsNonPositiveRadius(t *testing.T) {
	arena := matrix.NewArena()
	if _, err := Sphere(0, 8, arena.Identity(), diag.Location{}); err == nil {
		t.Fatal("expected error for zero radius")
	}
}

func TestSphereRejectsSmallFN(t *testing.T) {
	arena := matrix.NewArena()
	if _, err := Sphere(1, 2, arena.Identity(), diag.Location{}); err == nil {
		t.Fatal("expected error for fn < 3")
	}
}

func TestCubeBuildsWatertightAndCenters(t *testing.T) {
	arena := matrix.NewArena()
	poly, err := Cube(mgl64.Vec3{2, 2, 2}, true, arena.Identity(), diag.Location{})
	if err != nil {
		t.Fatalf("Cube: %v", err)
	}
	if len(poly.Faces) != 6 || len(poly.Edges) != 12 {
		t.Fatalf("expected a 6-face 12-edge box, got %d faces %d edges", len(poly.Faces), len(poly.Edges))
	}
	for _, p := range poly.Points {
		if p.X != 1 && p.X != -1 {
			t.Fatalf("centered cube corner out of range: %v", p)
		}
	}
}

func TestCubeRejectsNonPositiveSize(t *testing.T) {
	arena := matrix.NewArena()
	if _, err := Cube(mgl64.Vec3{1, 0, 1}, false, arena.Identity(), diag.Location{}); err == nil {
		t.Fatal("expected error for a zero-size axis")
	}
}

func TestCylinderBuildsStraightWall(t *testing.T) {
	arena := matrix.NewArena()
	poly, err := Cylinder(2, 1, 1, false, 8, arena.Identity(), nil, diag.Location{})
	if err != nil {
		t.Fatalf("Cylinder: %v", err)
	}
	if len(poly.Faces) != 10 { // 2 caps + 8 sides
		t.Fatalf("expected 10 faces, got %d", len(poly.Faces))
	}
}

func TestCylinderApexWhenTopRadiusZero(t *testing.T) {
	arena := matrix.NewArena()
	poly, err := Cylinder(2, 1, 0, false, 8, arena.Identity(), nil, diag.Location{})
	if err != nil {
		t.Fatalf("Cylinder: %v", err)
	}
	if len(poly.Faces) != 9 { // 1 base cap + 8 apex triangles
		t.Fatalf("expected 9 faces, got %d", len(poly.Faces))
	}
}

func TestCylinderRejectsBothRadiiZero(t *testing.T) {
	arena := matrix.NewArena()
	if _, err := Cylinder(2, 0, 0, false, 8, arena.Identity(), nil, diag.Location{}); err == nil {
		t.Fatal("expected error when both radii are zero")
	}
}

func tetraPointsVec() []mgl64.Vec3 {
	return []mgl64.Vec3{
		{0, 0, 0}, {1, 0, 0}, {0, 1, 0}, {0, 0, 1},
	}
}

func TestPolyhedronBuildsWatertight(t *testing.T) {
	arena := matrix.NewArena()
	points := tetraPointsVec()
	locs := make([]diag.Location, len(points))
	faces := [][]int{
		{0, 2, 1},
		{0, 1, 3},
		{1, 2, 3},
		{2, 0, 3},
	}
	poly, err := Polyhedron(points, faces, locs, nil, arena.Identity(), nil)
	if err != nil {
		t.Fatalf("Polyhedron: %v", err)
	}
	if len(poly.Faces) != 4 || len(poly.Edges) != 6 {
		t.Fatalf("expected a 4-face 6-edge tetrahedron, got %d faces %d edges", len(poly.Faces), len(poly.Edges))
	}
}

func TestPolyhedronRejectsDuplicatePoints(t *testing.T) {
	arena := matrix.NewArena()
	points := append(tetraPointsVec(), mgl64.Vec3{0, 0, 0}) // duplicate of points[0]
	locs := make([]diag.Location, len(points))
	faces := [][]int{{0, 1, 2}, {0, 1, 3}, {1, 2, 3}, {2, 0, 4}}
	if _, err := Polyhedron(points, faces, locs, nil, arena.Identity(), nil); err == nil {
		t.Fatal("expected error for duplicate points")
	}
}

func TestPolyhedronTriangulatesNonConvexFace(t *testing.T) {
	arena := matrix.NewArena()
	// An L-shaped (non-convex) base face, wound clockwise seen from +z so
	// it faces out of the solid, plus six triangular walls closing it,
	// forcing triangulateFaceIfNeeded to ear-clip the base.
	points := []mgl64.Vec3{
		{0, 0, 0}, {2, 0, 0}, {2, 1, 0}, {1, 1, 0}, {1, 2, 0}, {0, 2, 0}, // L-shaped base, 6 points
		{0.5, 0.5, 1}, // apex
	}
	locs := make([]diag.Location, len(points))
	faces := [][]int{
		{5, 4, 3, 2, 1, 0}, // non-convex base
		{0, 1, 6},
		{1, 2, 6},
		{2, 3, 6},
		{3, 4, 6},
		{4, 5, 6},
		{5, 0, 6},
	}
	poly, err := Polyhedron(points, faces, locs, nil, arena.Identity(), triangulate.EarClip{})
	if err != nil {
		t.Fatalf("Polyhedron: %v", err)
	}
	if len(poly.Points) != len(points) {
		t.Fatalf("expected %d points, got %d", len(points), len(poly.Points))
	}
}

func TestCircleIsClockwiseWound(t *testing.T) {
	arena := matrix.NewArena()
	poly, err := Circle(1, 16, arena.Identity(), diag.Location{})
	if err != nil {
		t.Fatalf("Circle: %v", err)
	}
	if len(poly.Paths) != 1 || len(poly.Paths[0]) != 16 {
		t.Fatalf("expected a single 16-point path, got %+v", poly.Paths)
	}
	if a := twiceSignedArea(poly, poly.Paths[0]); a >= 0 {
		t.Fatalf("expected a clockwise (negative-area) path, got twice-area %v", a)
	}
}

// twiceSignedArea is the shoelace sum of one path: negative for a
// clockwise path, positive for a counterclockwise one.
func twiceSignedArea(poly sweep.Polygon, path []int) float64 {
	var sum float64
	for i := range path {
		a, b := poly.Points[path[i]], poly.Points[path[(i+1)%len(path)]]
		sum += a.X*b.Y - b.X*a.Y
	}
	return sum
}

func TestSquareCenters(t *testing.T) {
	arena := matrix.NewArena()
	poly, err := Square(mgl64.Vec2{2, 4}, true, arena.Identity(), diag.Location{})
	if err != nil {
		t.Fatalf("Square: %v", err)
	}
	for _, p := range poly.Points {
		if p.X != 1 && p.X != -1 {
			t.Fatalf("centered square corner X out of range: %v", p)
		}
		if p.Y != 2 && p.Y != -2 {
			t.Fatalf("centered square corner Y out of range: %v", p)
		}
	}
}

func TestPolygonCanonicalizesAndDefaultsPath(t *testing.T) {
	arena := matrix.NewArena()
	points := []mgl64.Vec2{{0, 0}, {1, 0}, {1, 1}, {0, 1}}
	poly, err := Polygon(points, nil, nil, arena.Identity())
	if err != nil {
		t.Fatalf("Polygon: %v", err)
	}
	if len(poly.Paths) != 1 || len(poly.Paths[0]) != 4 {
		t.Fatalf("expected one 4-point path, got %+v", poly.Paths)
	}
	if a := twiceSignedArea(poly, poly.Paths[0]); a >= 0 {
		t.Fatalf("expected the counterclockwise input to come back clockwise, got twice-area %v", a)
	}
}
