package sweep

import (
	"math"
	"sort"

	"github.com/akmonengine/csgkernel/diag"
)

// Epsilon is the rasterization grid size. Coordinates within Epsilon/2 of
// each other collapse to the same Point.
const Epsilon = 1e-7

func snap(v float64) float64 {
	return math.Round(v/Epsilon) * Epsilon
}

// Point is a canonical rasterized coordinate. Equal coordinates always
// resolve to the same *Point (pointer identity), via pointDict.
type Point struct {
	X, Y   float64
	Color  [4]float64
	Loc    diag.Location
	outIdx int // index into the output polygon's point vector, or -1
}

func newUnallocated(x, y float64) *Point {
	return &Point{X: x, Y: y, outIdx: -1}
}

// pointDict deduplicates rasterized coordinates into pointer-identical
// Points, via a slice kept sorted by (X,Y) and searched by binary search —
// the same sorted-slice-plus-bsearch dictionary idiom the teacher's
// PolytopeBuilder uses for 3D point dedup (epa/polytope.go), generalized
// to 2D.
type pointDict struct {
	pts []*Point
}

func newPointDict() *pointDict {
	return &pointDict{}
}

func (d *pointDict) get(x, y float64) *Point {
	return d.getWithAttrs(x, y, [4]float64{}, diag.Location{})
}

// getWithAttrs is get, but a freshly-created Point also records color and
// source location; a Point that already existed keeps whatever it had.
func (d *pointDict) getWithAttrs(x, y float64, color [4]float64, loc diag.Location) *Point {
	x, y = snap(x), snap(y)
	i := sort.Search(len(d.pts), func(i int) bool {
		if d.pts[i].X != x {
			return d.pts[i].X >= x
		}
		return d.pts[i].Y >= y
	})
	if i < len(d.pts) && d.pts[i].X == x && d.pts[i].Y == y {
		return d.pts[i]
	}
	p := newUnallocated(x, y)
	p.Color, p.Loc = color, loc
	d.pts = append(d.pts, nil)
	copy(d.pts[i+1:], d.pts[i:])
	d.pts[i] = p
	return p
}
