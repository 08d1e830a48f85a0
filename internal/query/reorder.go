package query

import (
	"sort"

	"github.com/rowspace/tracedb/internal/column"
)

// ColumnShape is what the reordering and cost-estimation heuristics need
// to know about a column, supplied by the host (internal/table) without
// this package depending on it directly.
type ColumnShape struct {
	IsID     bool
	IsSetID  bool
	IsSorted bool
	HasIndex bool
	RowCount int64
}

// constraintPriority ranks a constraint for reordering (§4.8): id columns
// first, then set-id columns, then equalities, then intrinsically sorted
// columns, then columns with a matching secondary index, everything else
// last.
func constraintPriority(shape ColumnShape, op column.FilterOp) int {
	switch {
	case shape.IsID:
		return 0
	case shape.IsSetID:
		return 1
	case op == column.Eq:
		return 2
	case shape.IsSorted:
		return 3
	case shape.HasIndex:
		return 4
	default:
		return 5
	}
}

// Reorder places constraints by ascending priority, preserving relative
// order among equal-priority constraints (§4.8's reordering rule for id
// columns, set-id columns, sorted columns, indexed columns and
// equalities).
func Reorder(constraints []Constraint, shapeOf func(colIdx int) ColumnShape) []Constraint {
	out := make([]Constraint, len(constraints))
	copy(out, constraints)
	sort.SliceStable(out, func(i, j int) bool {
		pi := constraintPriority(shapeOf(out[i].ColIdx), out[i].Op)
		pj := constraintPriority(shapeOf(out[j].ColIdx), out[j].Op)
		return pi < pj
	})
	return out
}

// DropRedundantOrders removes order-by entries whose column already has
// an equality constraint (the constraint pins every row to one value, so
// sorting by it is a no-op), then drops any trailing ascending order-bys
// on intrinsically sorted columns (§4.8).
func DropRedundantOrders(orders []Order, constraints []Constraint, shapeOf func(colIdx int) ColumnShape) []Order {
	eqCols := make(map[int]bool, len(constraints))
	for _, c := range constraints {
		if c.Op == column.Eq {
			eqCols[c.ColIdx] = true
		}
	}

	kept := make([]Order, 0, len(orders))
	for _, o := range orders {
		if eqCols[o.ColIdx] {
			continue
		}
		kept = append(kept, o)
	}

	for len(kept) > 0 {
		last := kept[len(kept)-1]
		shape := shapeOf(last.ColIdx)
		if shape.IsSorted && !last.Desc {
			kept = kept[:len(kept)-1]
			continue
		}
		break
	}
	return kept
}
