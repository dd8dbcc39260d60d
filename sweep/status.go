package sweep

import "sort"

// sweepStatus is the active-left-edge status line S: an ordered dictionary
// of left-events, ordered bottom-to-top at the sweep's current x, backed
// by a sorted slice searched via a comparator (the balanced-BST role
// spec.md §9 calls for; see DESIGN.md for why a sorted slice stands in for
// it here — no ordered-map/tree library appears anywhere in the retrieval
// pack, and the teacher's own dictionary idiom is itself slice-based).
type sweepStatus struct {
	items []*Event
}

// statusLess is S's comparator: e1 < e2 if e2's point lies strictly above
// e1's line, or lies on e1's line and e2's far endpoint lies above it.
// Only left-events (which carry a well-defined line) are ever compared.
func statusLess(e1, e2 *Event) bool {
	if e1 == e2 {
		return false
	}
	side := orient2D(e1.P.X, e1.P.Y, e1.Other.P.X, e1.Other.P.Y, e2.P.X, e2.P.Y)
	if side != 0 {
		return side > 0
	}
	side2 := orient2D(e1.P.X, e1.P.Y, e1.Other.P.X, e1.Other.P.Y, e2.Other.P.X, e2.Other.P.Y)
	return side2 > 0
}

func (s *sweepStatus) find(e *Event) int {
	return sort.Search(len(s.items), func(i int) bool { return !statusLess(s.items[i], e) })
}

func (s *sweepStatus) insert(e *Event) int {
	i := s.find(e)
	s.items = append(s.items, nil)
	copy(s.items[i+1:], s.items[i:])
	s.items[i] = e
	e.inStatus = true
	return i
}

func (s *sweepStatus) remove(e *Event) {
	for i, it := range s.items {
		if it == e {
			s.items = append(s.items[:i], s.items[i+1:]...)
			e.inStatus = false
			return
		}
	}
}

func (s *sweepStatus) indexOf(e *Event) int {
	for i, it := range s.items {
		if it == e {
			return i
		}
	}
	return -1
}

// predecessor returns the event immediately below e in S, or nil if e is
// the lowest.
func (s *sweepStatus) predecessor(e *Event) *Event {
	i := s.indexOf(e)
	if i <= 0 {
		return nil
	}
	return s.items[i-1]
}

// successor returns the event immediately above e in S, or nil if e is the
// highest.
func (s *sweepStatus) successor(e *Event) *Event {
	i := s.indexOf(e)
	if i < 0 || i == len(s.items)-1 {
		return nil
	}
	return s.items[i+1]
}
