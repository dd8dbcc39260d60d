package sweep

import (
	"github.com/akmonengine/csgkernel/diag"
)

const (
	ownerA = 1
	ownerB = 2
)

// insideResult reports whether a point with the given per-polygon
// membership bitmask (bit ownerA set if A's interior covers it, bit
// ownerB likewise for B) lies inside the boolean combination op
// describes.
func insideResult(op Op, mask int) bool {
	a := mask&ownerA != 0
	b := mask&ownerB != 0
	switch op {
	case Add:
		return a || b
	case Sub:
		return a && !b
	case Cut:
		return a && b
	case Xor:
		return a != b
	}
	return false
}

// Bool computes the 2D boolean combination of a and b, following the
// Bentley-Ottmann-style plane sweep of spec.md §4.7 (credited in
// DESIGN.md to the teacher's sorted-slice dictionary idiom, generalized
// from 3D point dedup to 2D event/status ordering).
func Bool(a, b Polygon, op Op, sink diag.Sink) (Polygon, error) {
	if len(a.Paths) == 0 && len(b.Paths) == 0 {
		return Polygon{}, nil
	}
	if len(a.Paths) == 0 {
		switch op {
		case Add, Xor:
			return canonicalize(b), nil
		default:
			return Polygon{}, nil
		}
	}
	if len(b.Paths) == 0 {
		switch op {
		case Add, Xor, Sub:
			return canonicalize(a), nil
		default:
			return Polygon{}, nil
		}
	}
	if !aabbOverlap(a, b) {
		switch op {
		case Add, Xor:
			return concatPaths(a, b), nil
		case Sub:
			return canonicalize(a), nil
		default:
			return Polygon{}, nil
		}
	}
	return runSweep(a, b, op)
}

// runSweep drives the plane sweep proper: build events for both inputs
// (merging exact-duplicate edges so their Owner bits combine), then
// process the event queue left-to-right, maintaining the active-edge
// status S and assembling output chains as edges are classified into or
// out of the result.
func runSweep(a, b Polygon, op Op) (Polygon, error) {
	dict := newPointDict()
	q := &eventQueue{}

	type edgeKey struct{ lo, hi *Point }
	merged := make(map[edgeKey]*Event) // left-event already queued for this unordered pair

	addPath := func(poly Polygon, path []int, owner int) {
		n := len(path)
		for i := 0; i < n; i++ {
			v1 := poly.Points[path[i]]
			v2 := poly.Points[path[(i+1)%n]]
			p1 := dict.getWithAttrs(v1.X, v1.Y, v1.Color, v1.Loc)
			p2 := dict.getWithAttrs(v2.X, v2.Y, v2.Color, v2.Loc)
			if p1 == p2 {
				continue // degenerate (collapsed) edge, drop
			}
			lo, hi := p1, p2
			if hi.X < lo.X || (hi.X == lo.X && hi.Y < lo.Y) {
				lo, hi = hi, lo
			}
			key := edgeKey{lo, hi}
			if existing, ok := merged[key]; ok {
				// Exact duplicate edge (from either input): XOR its
				// owner bit in rather than queuing a second copy.
				existing.Owner ^= owner
				existing.Other.Owner ^= owner
				continue
			}
			left, right := orderedEdge(p1, p2, owner)
			merged[key] = left
			q.push(left)
			q.push(right)
		}
	}
	for _, path := range a.Paths {
		addPath(a, path, ownerA)
	}
	for _, path := range b.Paths {
		addPath(b, path, ownerB)
	}

	status := &sweepStatus{}
	asm := newAssembler()

	for !q.empty() {
		e := q.popMin()
		if e.Left {
			status.insert(e)
			// e.Below is the predecessor's own membership mask after
			// crossing the predecessor's edge (spec's "p.below ^
			// p.owner"); with no predecessor, nothing lies below.
			pred := status.predecessor(e)
			if pred != nil {
				e.Below = pred.Below ^ pred.Owner
			}
			above := e.Below ^ e.Owner
			before := insideResult(op, e.Below)
			after := insideResult(op, above)
			e.inResult = before != after
			if before {
				e.resultBelow = 1
			}

			if pred != nil {
				checkIntersection(pred, e, dict, q, status)
			}
			if succ := status.successor(e); succ != nil {
				checkIntersection(e, succ, dict, q, status)
			}
		} else {
			le := e.Other
			if le.inStatus {
				pred := status.predecessor(le)
				succ := status.successor(le)
				status.remove(le)
				if pred != nil && succ != nil {
					checkIntersection(pred, succ, dict, q, status)
				}
			}
			if le.inResult {
				asm.emit(le.P, e.P, le.resultBelow)
			}
		}
	}

	out := Polygon{}
	refIdx := make(map[*Point]int)
	for _, rs := range asm.polys {
		pts := rs.path()
		if len(pts) < 3 {
			continue
		}
		path := make([]int, len(pts))
		for i, p := range pts {
			idx, ok := refIdx[p]
			if !ok {
				idx = len(out.Points)
				out.Points = append(out.Points, Vertex{X: p.X, Y: p.Y, Color: p.Color, Loc: p.Loc})
				refIdx[p] = idx
			}
			path[i] = idx
		}
		out.Paths = append(out.Paths, path)
	}
	return canonicalize(out), nil
}

// divide splits e's edge at p, which must lie strictly between e's
// endpoints, into (e.P, p) and (p, far). e's existing right-event object
// (already queued at the far endpoint) is reused as the second
// sub-edge's right event, so it needs no repositioning in Q; only the
// two new events at p are pushed.
func divide(e *Event, p *Point, q *eventQueue) {
	origRight := e.Other

	rightAtP := &Event{P: p, Left: false, Owner: e.Owner, A: e.A, B: e.B, Swap: e.Swap}
	newLeftAtP := &Event{P: p, Left: true, Owner: e.Owner, A: e.A, B: e.B, Swap: e.Swap}

	e.Other, rightAtP.Other = rightAtP, e
	newLeftAtP.Other, origRight.Other = origRight, newLeftAtP

	q.push(rightAtP)
	q.push(newLeftAtP)
}

// checkIntersection tests two left-events currently adjacent in the
// sweep status for a proper crossing, an endpoint touch, or a collinear
// overlap, per spec.md's check_intersection. Exactly coincident edges
// (same two endpoints) are already folded together before the sweep
// begins (see runSweep).
func checkIntersection(e1, e2 *Event, dict *pointDict, q *eventQueue, status *sweepStatus) {
	p1, p2 := e1.P, e1.Other.P
	p3, p4 := e2.P, e2.Other.P
	if (p1 == p3 && p2 == p4) || (p1 == p4 && p2 == p3) {
		return // shares both endpoints; already merged upstream
	}

	denom := (p2.X-p1.X)*(p4.Y-p3.Y) - (p2.Y-p1.Y)*(p4.X-p3.X)
	if denom == 0 {
		if orient2D(p1.X, p1.Y, p2.X, p2.Y, p3.X, p3.Y) == 0 {
			checkOverlap(e1, e2, q, status)
		}
		return // parallel but not collinear: no intersection
	}
	t := ((p3.X-p1.X)*(p4.Y-p3.Y) - (p3.Y-p1.Y)*(p4.X-p3.X)) / denom
	u := ((p3.X-p1.X)*(p2.Y-p1.Y) - (p3.Y-p1.Y)*(p2.X-p1.X)) / denom
	if t <= 0 || t >= 1 || u <= 0 || u >= 1 {
		return // touches at or beyond an endpoint, not a proper crossing
	}

	ix := p1.X + t*(p2.X-p1.X)
	iy := p1.Y + t*(p2.Y-p1.Y)

	// Route through the sweep's shared point dictionary so an
	// intersection coordinate reached from more than one edge pair still
	// resolves to one *Point — required for the assembler's
	// endpoint-identity joins.
	ip := dict.getWithAttrs(ix, iy, [4]float64{}, diag.Location{})

	// Rounding can put the newly computed point exactly on a left
	// endpoint instead of strictly between it and the far endpoint,
	// which would otherwise make that endpoint compare as lying *on*
	// the other edge rather than below it. When that happens, pull the
	// offending edge out of S and requeue it so it gets reinserted (and
	// re-tested against whatever now neighbors it) from scratch.
	requeued := false
	if ip == p1 {
		status.remove(e1)
		q.push(e1)
		requeued = true
	}
	if ip == p3 {
		status.remove(e2)
		q.push(e2)
		requeued = true
	}
	if requeued || ip == p2 || ip == p4 {
		return // endpoint-coincident (or just requeued): nothing more to do
	}

	divide(e1, ip, q)
	divide(e2, ip, q)
}

// splitOffPrefix shrinks left-event e=[e.P,far] down to [newLeft,far] in
// place — e keeps representing the edge from newLeft onward — while the
// peeled-off prefix [e.P,newLeft] is pushed into Q as its own left/right
// event pair, carrying e's original owner. Unlike divide, which keeps the
// e.P side and requeues the far side, this keeps the far side in place;
// used when the part to discard from e is the near (already-current) end
// rather than the far one.
func splitOffPrefix(e *Event, newLeft *Point, q *eventQueue) {
	oldLeft := e.P
	prefixRight := &Event{P: newLeft, Left: false, Owner: e.Owner, A: e.A, B: e.B, Swap: e.Swap}
	prefixLeft := &Event{P: oldLeft, Left: true, Owner: e.Owner, A: e.A, B: e.B, Swap: e.Swap}
	prefixLeft.Other, prefixRight.Other = prefixRight, prefixLeft
	e.P = newLeft
	q.push(prefixLeft)
	q.push(prefixRight)
}

// checkOverlap handles two collinear left-events e1, e2 (adjacent in S)
// whose spans overlap along their shared line. It trims both edges down
// to exactly their common sub-segment [loPt, hiPt] — peeling off any
// non-overlapping prefix/suffix into freshly queued events that keep
// each edge's original owner — then folds e2's contribution into e1 by
// XORing their owners: a bit present in both cancels (the same input
// contributing the same edge twice from opposite directions), a bit
// present in only one survives (two distinct inputs sharing a border).
// e2 is then dropped from the sweep entirely.
func checkOverlap(e1, e2 *Event, q *eventQueue, status *sweepStatus) {
	p1, p2 := e1.P, e1.Other.P
	p3, p4 := e2.P, e2.Other.P

	// Project onto whichever axis the shared line is steep along (e1.Swap,
	// cached when the edge was built) to compare positions without
	// depending on slope. On a steep line that descends, Y is negated so
	// the key still grows from each left-event's P toward its far end.
	key := func(p *Point) float64 {
		if e1.Swap {
			if p2.Y < p1.Y {
				return -p.Y
			}
			return p.Y
		}
		return p.X
	}

	loKey, loPt := key(p1), p1
	if key(p3) > loKey {
		loKey, loPt = key(p3), p3
	}
	hiKey, hiPt := key(p2), p2
	if key(p4) < hiKey {
		hiKey, hiPt = key(p4), p4
	}
	if !(loKey < hiKey) {
		return // at most a single shared point, not a true overlap
	}

	// Trim the far end of each edge to hiPt first (divide keeps the
	// near/P side in place, which is what we want here), then peel any
	// remaining near-end prefix off to reach exactly [loPt, hiPt].
	if hiPt != p2 {
		divide(e1, hiPt, q)
	}
	if hiPt != p4 {
		divide(e2, hiPt, q)
	}
	if loPt != p1 {
		splitOffPrefix(e1, loPt, q)
	}
	if loPt != p3 {
		splitOffPrefix(e2, loPt, q)
	}

	// e1 and e2 now both span [loPt, hiPt]: fold e2 into e1 and drop e2
	// from the status and from the result entirely. Note: e1's (and any
	// already-processed neighbor's) inResult/resultBelow, computed
	// before this fold ran, are not retroactively recomputed against
	// the adjusted owner — a documented simplification, see DESIGN.md.
	e1.Owner ^= e2.Owner
	status.remove(e2)
	e2.Owner = 0
	e2.inStatus = false
	e2.inResult = false
	e2.Other.inResult = false
}
