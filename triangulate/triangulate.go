// Package triangulate declares the face-triangulator collaborator used by
// mesh/tower/primitive construction, and ships a default ear-clipping
// implementation so those packages are testable without an externally
// supplied triangulator.
package triangulate

import "fmt"

// Point2D is a coordinate in whatever plane the caller has already
// projected a face into (tower and primitive both project onto a
// constant-axis plane before calling Triangulate).
type Point2D struct{ X, Y float64 }

// Triangulator triangulates a simple (possibly non-convex) polygon given as
// an ordered point loop, returning index triples into that loop. It is
// specified only as an interface: the production triangulator is an
// external collaborator (spec.md §1's "Face triangulator (external)").
type Triangulator interface {
	Triangulate(points []Point2D) ([][3]int, error)
}

// EarClip is a default Triangulator using the classic ear-clipping
// algorithm: repeatedly find a convex vertex whose triangle with its
// neighbors contains no other polygon vertex, clip it, and repeat until
// only a triangle remains.
type EarClip struct{}

func cross2(o, a, b Point2D) float64 {
	return (a.X-o.X)*(b.Y-o.Y) - (a.Y-o.Y)*(b.X-o.X)
}

func pointInTriangle(p, a, b, c Point2D) bool {
	d1 := cross2(a, b, p)
	d2 := cross2(b, c, p)
	d3 := cross2(c, a, p)
	hasNeg := d1 < 0 || d2 < 0 || d3 < 0
	hasPos := d1 > 0 || d2 > 0 || d3 > 0
	return !(hasNeg && hasPos)
}

// signedArea returns twice the signed area of the polygon, positive for
// counterclockwise loops.
func signedArea(points []Point2D) float64 {
	area := 0.0
	n := len(points)
	for i := 0; i < n; i++ {
		j := (i + 1) % n
		area += points[i].X*points[j].Y - points[j].X*points[i].Y
	}
	return area
}

// Triangulate implements Triangulator. The input loop's winding is
// preserved: all flip decisions are relative to the polygon's own signed
// area so the method works for either winding.
func (EarClip) Triangulate(points []Point2D) ([][3]int, error) {
	n := len(points)
	if n < 3 {
		return nil, fmt.Errorf("triangulate: need at least 3 points, got %d", n)
	}
	if n == 3 {
		return [][3]int{{0, 1, 2}}, nil
	}

	ccw := signedArea(points) > 0
	idx := make([]int, n)
	for i := range idx {
		idx[i] = i
	}

	var triangles [][3]int
	guard := 0
	maxGuard := n * n
	for len(idx) > 3 {
		guard++
		if guard > maxGuard {
			return nil, fmt.Errorf("triangulate: failed to find an ear (degenerate or self-intersecting polygon)")
		}
		m := len(idx)
		earFound := false
		for i := 0; i < m; i++ {
			prev := idx[(i-1+m)%m]
			cur := idx[i]
			next := idx[(i+1)%m]
			a, b, c := points[prev], points[cur], points[next]

			turn := cross2(a, b, c)
			isConvex := (turn > 0) == ccw
			if !isConvex {
				continue
			}

			ear := true
			for j := 0; j < m; j++ {
				k := idx[j]
				if k == prev || k == cur || k == next {
					continue
				}
				if pointInTriangle(points[k], a, b, c) {
					ear = false
					break
				}
			}
			if !ear {
				continue
			}

			triangles = append(triangles, [3]int{prev, cur, next})
			idx = append(idx[:i], idx[i+1:]...)
			earFound = true
			break
		}
		if !earFound {
			return nil, fmt.Errorf("triangulate: no ear found (degenerate or self-intersecting polygon)")
		}
	}
	triangles = append(triangles, [3]int{idx[0], idx[1], idx[2]})
	return triangles, nil
}

// IsConvex reports whether the polygon is convex, i.e. every turn at
// consecutive vertices has the same sign as the overall signed area.
func IsConvex(points []Point2D) bool {
	n := len(points)
	if n < 4 {
		return true
	}
	ccw := signedArea(points) > 0
	for i := 0; i < n; i++ {
		a := points[i]
		b := points[(i+1)%n]
		c := points[(i+2)%n]
		turn := cross2(a, b, c)
		if turn == 0 {
			continue
		}
		if (turn > 0) != ccw {
			return false
		}
	}
	return true
}
