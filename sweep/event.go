package sweep

// Event is one endpoint of one edge, as processed by the plane sweep.
// Every edge produces two Events (left and right), linked via Other. Owner
// and Below are only meaningful on the left event of each edge.
type Event struct {
	P     *Point
	Left  bool
	Other *Event

	// Owner is the bitmask of input polygons (bit 0 = A, bit 1 = B) this
	// edge belongs to, XOR-accumulated across coincident duplicate edges.
	Owner int
	// Below is the bitmask of input polygons whose interior lies
	// immediately below this edge, as of the edge's insertion into the
	// sweep status.
	Below int

	// A, B, Swap cache the edge's line equation: Swap=false means
	// y = A*x + B; Swap=true means x = A*y + B. The axis is chosen so
	// |A| <= 1, keeping the line well-conditioned regardless of slope.
	A, B float64
	Swap bool

	// inResult and resultBelow are filled in when the event is inserted
	// into the sweep status; inResult is only meaningful on left-events,
	// read back from e.Other when its matching right-event is processed.
	inResult    bool
	resultBelow int

	inStatus bool // transient: is this left-event currently in S?
}

func newEdge(p1, p2 *Point, owner int) (*Event, *Event) {
	left := &Event{P: p1, Left: true, Owner: owner}
	right := &Event{P: p2, Left: false, Owner: owner}
	left.Other, right.Other = right, left

	p1x, p1y := p1.X, p1.Y
	p2x, p2y := p2.X, p2.Y
	dx := p2x - p1x
	dy := p2y - p1y
	var a, b float64
	var swap bool
	if dx == 0 && dy == 0 {
		swap = false
	} else if abs(dx) >= abs(dy) {
		a = dy / dx
		b = p1y - a*p1x
		swap = false
	} else {
		a = dx / dy
		b = p1x - a*p1y
		swap = true
	}
	left.A, left.B, left.Swap = a, b, swap
	right.A, right.B, right.Swap = a, b, swap
	return left, right
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}

// orient2D returns the sign of the cross product (b-a) x (p-a): positive
// if p is to the left of the directed line a->b, negative if to the
// right, zero if collinear.
func orient2D(ax, ay, bx, by, px, py float64) float64 {
	return (bx-ax)*(py-ay) - (by-ay)*(px-ax)
}

// orderedEdge arranges a newly created edge's two Events so that the
// lexicographically smaller point is Left.
func orderedEdge(p1, p2 *Point, owner int) (left, right *Event) {
	if p1.X < p2.X || (p1.X == p2.X && p1.Y < p2.Y) {
		return newEdge(p1, p2, owner)
	}
	return newEdge(p2, p1, owner)
}
