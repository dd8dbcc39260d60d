// Package layer drives per-slice reduction of a 2D CSG tree into the single
// output polygon a layer needs: a leaf asks the external slicer for its
// cross-section at this height, and interior nodes fold their children
// through the plane-sweep boolean engine bottom-up.
package layer

import (
	"fmt"

	"github.com/akmonengine/csgkernel/csg"
	"github.com/akmonengine/csgkernel/diag"
	"github.com/akmonengine/csgkernel/sweep"
)

// Slicer is the external collaborator that cross-sections a 3D leaf at a
// given slice index, producing the 2D polygon the layer driver folds. It
// plays the same "supplied by the caller, specified only as an interface"
// role for the layer driver that triangulate.Triangulator plays for tower
// construction.
type Slicer interface {
	Slice(leaf csg.Leaf, zi int) (sweep.Polygon, error)
}

// Reduce walks tree bottom-up for slice index zi, returning the slice's
// polygon and whether it is non-empty (spec: a result with zero points is
// an empty layer, not an error).
func Reduce(tree *csg.Node, zi int, slicer Slicer, sink diag.Sink) (sweep.Polygon, bool, error) {
	if tree == nil {
		return sweep.Polygon{}, false, nil
	}
	if tree.Leaf != nil {
		p, err := slicer.Slice(tree.Leaf, zi)
		if err != nil {
			return sweep.Polygon{}, false, err
		}
		return p, len(p.Paths) > 0, nil
	}

	switch tree.Op {
	case csg.Add:
		return reduceFold(tree.Children, zi, slicer, sink, sweep.Add)

	case csg.Sub:
		pos, posNonEmpty, err := Reduce(tree.Positive, zi, slicer, sink)
		if err != nil {
			return sweep.Polygon{}, false, err
		}
		if !posNonEmpty {
			return sweep.Polygon{}, false, nil
		}
		neg, negNonEmpty, err := Reduce(tree.Negative, zi, slicer, sink)
		if err != nil {
			return sweep.Polygon{}, false, err
		}
		if !negNonEmpty {
			return pos, posNonEmpty, nil
		}
		out, err := sweep.Bool(pos, neg, sweep.Sub, sink)
		if err != nil {
			return sweep.Polygon{}, false, err
		}
		return out, len(out.Paths) > 0, nil

	case csg.Cut:
		return reduceFold(tree.Children, zi, slicer, sink, sweep.Cut)

	case csg.Xor:
		return reduceFold(tree.Children, zi, slicer, sink, sweep.Xor)
	}
	return sweep.Polygon{}, false, fmt.Errorf("layer: unhandled op %v", tree.Op)
}

// reduceFold reduces children left-to-right through op via repeated
// sweep.Bool calls, skipping empty slices (an empty ADD/XOR operand drops
// out; an empty CUT operand makes the whole result empty).
func reduceFold(children []*csg.Node, zi int, slicer Slicer, sink diag.Sink, op sweep.Op) (sweep.Polygon, bool, error) {
	var acc sweep.Polygon
	haveAcc := false
	for _, c := range children {
		p, nonEmpty, err := Reduce(c, zi, slicer, sink)
		if err != nil {
			return sweep.Polygon{}, false, err
		}
		if !nonEmpty {
			if op == sweep.Cut {
				return sweep.Polygon{}, false, nil
			}
			continue
		}
		if !haveAcc {
			acc, haveAcc = p, true
			continue
		}
		acc, err = sweep.Bool(acc, p, op, sink)
		if err != nil {
			return sweep.Polygon{}, false, err
		}
		if op == sweep.Cut && len(acc.Paths) == 0 {
			return sweep.Polygon{}, false, nil
		}
	}
	return acc, haveAcc && len(acc.Paths) > 0, nil
}
