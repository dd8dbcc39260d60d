package sweep

import "sort"

// eventQueue is the pending-event priority queue Q: an ordered dictionary
// of events kept as a sorted slice, searched and inserted via binary
// search — the same sorted-slice-plus-bsearch idiom the teacher's
// PolytopeBuilder uses for point deduplication (epa/polytope.go), applied
// here to event ordering instead of coordinate ordering.
type eventQueue struct {
	events []*Event
}

// qLess implements Q's total order: by (x,y) of the event's point; for
// equal points, right events precede left events; for equal points and
// equal left/right-ness, the event whose edge lies lower goes first.
func qLess(e1, e2 *Event) bool {
	if e1 == e2 {
		return false
	}
	if e1.P.X != e2.P.X {
		return e1.P.X < e2.P.X
	}
	if e1.P.Y != e2.P.Y {
		return e1.P.Y < e2.P.Y
	}
	if e1.Left != e2.Left {
		// a right event processed first avoids stale status entries
		return !e1.Left
	}
	return edgeIsLower(e1, e2)
}

// edgeIsLower orders two events sharing a point by which side of e1's
// edge the far endpoint of e2's edge lies on; collinear edges fall back to
// comparing the far endpoints themselves.
func edgeIsLower(e1, e2 *Event) bool {
	o1, o2 := e1.Other.P, e2.Other.P
	side := orient2D(e1.P.X, e1.P.Y, o1.X, o1.Y, o2.X, o2.Y)
	if side != 0 {
		if e1.Left {
			return side > 0
		}
		return side < 0
	}
	if o1.Y != o2.Y {
		return o1.Y < o2.Y
	}
	return o1.X < o2.X
}

func (q *eventQueue) push(e *Event) {
	i := sort.Search(len(q.events), func(i int) bool { return qLess(e, q.events[i]) })
	q.events = append(q.events, nil)
	copy(q.events[i+1:], q.events[i:])
	q.events[i] = e
}

func (q *eventQueue) empty() bool { return len(q.events) == 0 }

func (q *eventQueue) popMin() *Event {
	e := q.events[0]
	q.events = q.events[1:]
	return e
}

func (q *eventQueue) peekMin() *Event {
	if len(q.events) == 0 {
		return nil
	}
	return q.events[0]
}
