// Package tower builds points+faces for stacked cross-section solids: cube,
// sphere, cylinder, and linear-extrusion bodies all reduce to a stack of
// fnz >= 1 rings of fn points each, optionally collapsing the top ring to a
// single apex point.
package tower

import (
	"fmt"

	"github.com/akmonengine/csgkernel/diag"
	"github.com/akmonengine/csgkernel/matrix"
	"github.com/akmonengine/csgkernel/mesh"
	"github.com/akmonengine/csgkernel/triangulate"
)

// TriSide chooses which diagonal splits a side quad into two triangles,
// kept consistent across every layer of the tower.
type TriSide int

const (
	// TriNone emits a quad face per side panel (no split).
	TriNone TriSide = iota
	// TriLeft splits each side quad along the (a0,b1) diagonal.
	TriLeft
	// TriRight splits each side quad along the (a1,b0) diagonal.
	TriRight
)

// Spec describes one tower to build. Points must already hold FNZ*FN
// points (plus one more, the apex, if Apex is set), laid out ring-major:
// ring i occupies Points[i*FN : i*FN+FN], with each ring's points ordered
// counterclockwise as viewed from +z in the tower's own (pre-transform)
// coordinate frame. M is applied to every point after face construction.
type Spec struct {
	Points     []mesh.Point
	FN, FNZ    int
	Apex       bool
	M          *matrix.Matrix
	Rev        bool
	TriSide    TriSide
	MayNeedTri bool
}

// Build constructs the polyhedron for spec, triangulating the bottom/top
// cap with tri if MayNeedTri is set and the cap turns out non-convex, then
// transforming every point by spec.M and running edge pairing.
func Build(spec Spec, tri triangulate.Triangulator) (*mesh.Polyhedron, error) {
	fn, fnz := spec.FN, spec.FNZ
	if fn < 3 {
		return nil, fmt.Errorf("tower: fn must be >= 3, got %d", fn)
	}
	if fnz < 1 {
		return nil, fmt.Errorf("tower: fnz must be >= 1, got %d", fnz)
	}
	if fnz == 1 && !spec.Apex {
		return nil, fmt.Errorf("tower: fnz == 1 requires an apex (a single ring needs a second cap)")
	}
	apexIdx := fn * fnz
	if spec.Apex && apexIdx >= len(spec.Points) {
		return nil, fmt.Errorf("tower: apex flag set but Points has no apex entry")
	}
	if !spec.Apex && fn*fnz > len(spec.Points) {
		return nil, fmt.Errorf("tower: Points too short for fn=%d fnz=%d", fn, fnz)
	}

	ring := func(i int) []int {
		base := i * fn
		r := make([]int, fn)
		for k := 0; k < fn; k++ {
			r[k] = base + k
		}
		return r
	}
	reversed := func(idx []int) []int {
		out := make([]int, len(idx))
		for i, v := range idx {
			out[len(idx)-1-i] = v
		}
		return out
	}
	project := func(idx []int) []triangulate.Point2D {
		pts := make([]triangulate.Point2D, len(idx))
		for i, id := range idx {
			p := spec.Points[id]
			pts[i] = triangulate.Point2D{X: p.X, Y: p.Y}
		}
		return pts
	}
	capLoops := func(idx []int, outward bool) ([][]int, error) {
		ordered := idx
		if !outward {
			ordered = reversed(idx)
		}
		if spec.MayNeedTri {
			pts := project(ordered)
			if !triangulate.IsConvex(pts) {
				if tri == nil {
					return nil, fmt.Errorf("tower: cap is non-convex but no triangulator was supplied")
				}
				tris, err := tri.Triangulate(pts)
				if err != nil {
					return nil, fmt.Errorf("tower: cap triangulation failed: %w", err)
				}
				out := make([][]int, 0, len(tris))
				for _, t := range tris {
					out = append(out, []int{ordered[t[0]], ordered[t[1]], ordered[t[2]]})
				}
				return out, nil
			}
		}
		return [][]int{ordered}, nil
	}

	var loops [][]int

	bottom, err := capLoops(ring(0), false)
	if err != nil {
		return nil, err
	}
	loops = append(loops, bottom...)

	if spec.Apex {
		last := ring(fnz - 1)
		for k := 0; k < fn; k++ {
			a := last[k]
			b := last[(k+1)%fn]
			loops = append(loops, []int{a, b, apexIdx})
		}
	} else {
		top, err := capLoops(ring(fnz-1), true)
		if err != nil {
			return nil, err
		}
		loops = append(loops, top...)
	}

	for i := 0; i < fnz-1; i++ {
		a := ring(i)
		b := ring(i + 1)
		for k := 0; k < fn; k++ {
			a0, a1 := a[k], a[(k+1)%fn]
			b0, b1 := b[k], b[(k+1)%fn]
			switch spec.TriSide {
			case TriNone:
				loops = append(loops, []int{a0, a1, b1, b0})
			case TriLeft:
				loops = append(loops, []int{a0, a1, b1}, []int{a0, b1, b0})
			case TriRight:
				loops = append(loops, []int{a0, a1, b0}, []int{a1, b1, b0})
			}
		}
	}

	// The caller's requested reversal is XORed with the transform's
	// mirror parity, so a mirrored tree still produces outward normals.
	if spec.Rev != (spec.M.DetSign() < 0) {
		for i, l := range loops {
			loops[i] = reversed(l)
		}
	}

	points := make([]mesh.Point, len(spec.Points))
	copy(points, spec.Points)

	faces := make([]mesh.FaceInput, len(loops))
	for i, l := range loops {
		refs := make([]mesh.PointRef, len(l))
		locs := make([]diag.Location, len(l))
		for j, id := range l {
			refs[j] = mesh.PointRef(id)
			locs[j] = spec.Points[id].Loc
		}
		faces[i] = mesh.FaceInput{Points: refs, Locs: locs}
	}

	for i := range points {
		v := spec.M.Apply(points[i].Vec())
		points[i].X, points[i].Y, points[i].Z = v[0], v[1], v[2]
	}

	poly, err := mesh.Build(points, faces)
	if err != nil {
		return nil, fmt.Errorf("tower: internal error building polyhedron: %w", err)
	}
	poly.PureRotation = spec.M.IsPureRotation()
	return poly, nil
}
