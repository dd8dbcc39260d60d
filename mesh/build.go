package mesh

import (
	"fmt"
	"sort"

	"github.com/akmonengine/csgkernel/diag"
)

// scratchEdge is one directed edge as it is first emitted from a face loop,
// before edges are paired into their canonical, deduplicated form.
type scratchEdge struct {
	min, max PointRef // canonical order: min < max
	src, dst PointRef // original face-traversal direction
	face     int
	pos      int // index into Faces[face].Edges/Points for this edge
}

// FaceInput is one face as supplied to Build: a point-index loop plus a
// parallel location loop (one location per directed edge leaving that
// point), both of the same length.
type FaceInput struct {
	Points []PointRef
	Locs   []diag.Location
}

// Build assigns the edge array and wires face<->edge references for the
// given points and faces, per the edge-pairing algorithm: emit a scratch
// directed edge per face-edge, sort into canonical (min,max) order,
// reject same-direction duplicates, assign each directed edge to the
// Fore or Back slot of its canonical edge, and verify every canonical
// edge ends up with both slots filled.
func Build(points []Point, faces []FaceInput) (*Polyhedron, error) {
	for i, f := range faces {
		if len(f.Points) < 3 {
			return nil, &Error{
				Kind:    diag.Internal,
				Message: fmt.Sprintf("face %d has fewer than 3 points", i),
			}
		}
	}

	total := 0
	for _, f := range faces {
		total += len(f.Points)
	}

	scratch := make([]scratchEdge, 0, total)
	for fi, f := range faces {
		n := len(f.Points)
		for i := 0; i < n; i++ {
			src := f.Points[i]
			dst := f.Points[(i+1)%n]
			lo, hi := src, dst
			if lo > hi {
				lo, hi = hi, lo
			}
			scratch = append(scratch, scratchEdge{
				min: lo, max: hi,
				src: src, dst: dst,
				face: fi, pos: i,
			})
		}
	}

	sort.Slice(scratch, func(i, j int) bool {
		a, b := scratch[i], scratch[j]
		if a.min != b.min {
			return a.min < b.min
		}
		if a.max != b.max {
			return a.max < b.max
		}
		return a.src < b.src
	})

	for i := 1; i < len(scratch); i++ {
		a, b := scratch[i-1], scratch[i]
		if a.min == b.min && a.max == b.max && a.src == b.src {
			return nil, &Error{
				Kind:    diag.Topology,
				Message: fmt.Sprintf("edge (%d,%d) is duplicated in the same direction", a.src, a.dst),
				Primary: faces[a.face].Locs[a.pos],
			}
		}
	}

	// Collapse into the unique canonical half: one Edge per distinct
	// (min,max) pair, preserving sorted order for binary search.
	var edges []Edge
	canonicalStart := make([]int, 0, total/2+1) // scratch index where each canonical edge's run starts
	for i := 0; i < len(scratch); {
		j := i
		for j < len(scratch) && scratch[j].min == scratch[i].min && scratch[j].max == scratch[i].max {
			j++
		}
		edges = append(edges, Edge{Src: scratch[i].min, Dst: scratch[i].max, Fore: NoFace, Back: NoFace})
		canonicalStart = append(canonicalStart, i)
		i = j
	}

	find := func(lo, hi PointRef) int {
		return sort.Search(len(edges), func(k int) bool {
			if edges[k].Src != lo {
				return edges[k].Src >= lo
			}
			return edges[k].Dst >= hi
		})
	}

	poly := &Polyhedron{Points: points}
	poly.Faces = make([]Face, len(faces))
	for fi, f := range faces {
		n := len(f.Points)
		poly.Faces[fi] = Face{
			Points:    append([]PointRef(nil), f.Points...),
			PointLocs: append([]diag.Location(nil), f.Locs...),
			Edges:     make([]EdgeRef, n),
		}
	}

	for _, se := range scratch {
		k := find(se.min, se.max)
		if k >= len(edges) || edges[k].Src != se.min || edges[k].Dst != se.max {
			return nil, &Error{
				Kind:    diag.Internal,
				Message: fmt.Sprintf("edge pairing: binary search missed canonical edge (%d,%d)", se.min, se.max),
				Primary: faces[se.face].Locs[se.pos],
			}
		}
		e := &edges[k]
		if se.src == se.min {
			if e.Fore != NoFace {
				return nil, &Error{
					Kind:    diag.Topology,
					Message: fmt.Sprintf("edge (%d,%d) appears more than twice in the same direction", se.src, se.dst),
					Primary: faces[se.face].Locs[se.pos],
				}
			}
			e.Fore = FaceRef(se.face)
		} else {
			if e.Back != NoFace {
				return nil, &Error{
					Kind:    diag.Topology,
					Message: fmt.Sprintf("edge (%d,%d) appears more than twice in the same direction", se.dst, se.src),
					Primary: faces[se.face].Locs[se.pos],
				}
			}
			e.Back = FaceRef(se.face)
		}
		poly.Faces[se.face].Edges[se.pos] = EdgeRef(k)
	}

	for k, e := range edges {
		if e.Fore == NoFace || e.Back == NoFace {
			start := canonicalStart[k]
			return nil, &Error{
				Kind:      diag.Topology,
				Message:   fmt.Sprintf("edge (%d,%d) has no mate on one side", e.Src, e.Dst),
				Primary:   faces[scratch[start].face].Locs[scratch[start].pos],
				Secondary: diag.Location{},
			}
		}
	}

	poly.Edges = edges
	return poly, nil
}
