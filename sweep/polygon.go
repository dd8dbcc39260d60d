package sweep

import "github.com/akmonengine/csgkernel/diag"

// Op is a 2D boolean operator.
type Op int

const (
	Add Op = iota
	Sub
	Cut
	Xor
)

// Vertex is one point of an output (or input) polygon.
type Vertex struct {
	X, Y  float64
	Color [4]float64
	Loc   diag.Location
}

// Polygon is a point vector plus a set of paths (ordered index loops into
// that vector). After canonicalization, every path is clockwise.
type Polygon struct {
	Points []Vertex
	Paths  [][]int
}

func (p Polygon) aabb() (minX, minY, maxX, maxY float64) {
	if len(p.Points) == 0 {
		return 0, 0, 0, 0
	}
	minX, minY = p.Points[0].X, p.Points[0].Y
	maxX, maxY = minX, minY
	for _, v := range p.Points {
		if v.X < minX {
			minX = v.X
		}
		if v.X > maxX {
			maxX = v.X
		}
		if v.Y < minY {
			minY = v.Y
		}
		if v.Y > maxY {
			maxY = v.Y
		}
	}
	return
}

func aabbOverlap(a, b Polygon) bool {
	aMinX, aMinY, aMaxX, aMaxY := a.aabb()
	bMinX, bMinY, bMaxX, bMaxY := b.aabb()
	return aMaxX >= bMinX && aMinX <= bMaxX && aMaxY >= bMinY && aMinY <= bMaxY
}

func concatPaths(a, b Polygon) Polygon {
	out := Polygon{Points: append([]Vertex(nil), a.Points...)}
	offset := len(out.Points)
	out.Points = append(out.Points, b.Points...)
	for _, p := range a.Paths {
		out.Paths = append(out.Paths, append([]int(nil), p...))
	}
	for _, p := range b.Paths {
		np := make([]int, len(p))
		for i, idx := range p {
			np[i] = idx + offset
		}
		out.Paths = append(out.Paths, np)
	}
	return canonicalize(out)
}

// signedArea2 returns twice the signed area of a path (positive if the
// path is counterclockwise).
func signedArea2(pts []Vertex, path []int) float64 {
	area := 0.0
	n := len(path)
	for i := 0; i < n; i++ {
		a := pts[path[i]]
		b := pts[path[(i+1)%n]]
		area += a.X*b.Y - b.X*a.Y
	}
	return area
}

// Canonicalize reverses any counterclockwise path in p so every path is
// clockwise, per the polygon-output invariant. Exported for callers (such
// as primitive.Polygon) that build a Polygon outside the sweep engine.
func Canonicalize(p Polygon) Polygon { return canonicalize(p) }

// canonicalize reverses any counterclockwise path so every path in the
// result is clockwise, per the polygon-output invariant.
func canonicalize(p Polygon) Polygon {
	for i, path := range p.Paths {
		if signedArea2(p.Points, path) > 0 {
			reversed := make([]int, len(path))
			for j, idx := range path {
				reversed[len(path)-1-j] = idx
			}
			p.Paths[i] = reversed
		}
	}
	return p
}
