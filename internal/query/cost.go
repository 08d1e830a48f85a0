package query

import (
	"math"

	"github.com/rowspace/tracedb/internal/column"
)

// LogEst is a logarithmic cost/row-count estimate: ten times the base-2
// logarithm of the estimated quantity, so that adding two LogEst values
// corresponds to multiplying the underlying counts. Adapted from the
// teacher's planner package, which uses the same representation for
// SQLite-style query planning.
type LogEst int16

// NewLogEst converts an actual count to its LogEst encoding.
func NewLogEst(n int64) LogEst {
	if n <= 0 {
		return 0
	}
	x := 0
	for i := n; i > 1; i >>= 1 {
		x += 10
	}
	return LogEst(x)
}

// ToInt converts a LogEst back to an approximate count.
func (e LogEst) ToInt() int64 {
	if e <= 0 {
		return 1
	}
	return 1 << (int(e) / 10)
}

func (e LogEst) Add(other LogEst) LogEst { return e + other }
func (e LogEst) Sub(other LogEst) LogEst { return e - other }

// setupTeardownCost is the fixed ~100 row-iteration cost of entering and
// leaving query_to_rowmap (§4.8).
var setupTeardownCost = NewLogEst(100)

// EstimateConstraint returns the row-iteration cost of evaluating a single
// constraint against a column of the given shape, and the estimated
// number of rows it leaves as output, per §4.8's per-op table.
func EstimateConstraint(shape ColumnShape, op column.FilterOp) (cost LogEst, residualRows LogEst) {
	n := shape.RowCount
	if n <= 0 {
		return 0, 0
	}
	log2n := math.Log2(float64(n))
	if log2n < 1 {
		log2n = 1
	}

	switch {
	case op == column.Eq && shape.IsID:
		return NewLogEst(10), NewLogEst(1)
	case op == column.Eq && shape.IsSorted:
		residual := int64(float64(n) / (2 * log2n))
		return NewLogEst(int64(log2n)), NewLogEst(residual)
	case op.IsMonotonic() && shape.IsSorted:
		residual := int64(float64(n) / (2 * log2n))
		return NewLogEst(int64(log2n)), NewLogEst(residual)
	case op == column.Eq:
		residual := int64(float64(n) / (2 * log2n))
		return NewLogEst(n), NewLogEst(residual)
	default:
		return NewLogEst(n), NewLogEst(n / 2)
	}
}

// SortCost estimates the cost of sorting n rows by nOrders order-by
// columns: |orders| * n * log2(n) (§4.8).
func SortCost(nOrders int, n int64) LogEst {
	if n <= 1 || nOrders <= 0 {
		return 0
	}
	log2n := math.Log2(float64(n))
	return NewLogEst(int64(float64(nOrders) * float64(n) * log2n))
}

// IterationCost estimates the cost of materialising and returning n rows:
// 2*n (§4.8).
func IterationCost(n int64) LogEst {
	return NewLogEst(2 * n)
}

// EstimateQuery estimates the total cost and final residual row count for
// a already-reordered sequence of constraints followed by nOrders
// order-by columns, reported to the host as (estimatedCost,
// estimatedRows) per §6's best-index cost reporting.
func EstimateQuery(shapes []ColumnShape, ops []column.FilterOp, nOrders int, rowCount int64) (cost LogEst, rows LogEst) {
	total := setupTeardownCost.ToInt()
	residual := NewLogEst(rowCount)

	for i, shape := range shapes {
		c, r := EstimateConstraint(shape, ops[i])
		total += c.ToInt()
		residual = r
	}

	total += SortCost(nOrders, residual.ToInt()).ToInt()
	total += IterationCost(residual.ToInt()).ToInt()
	return NewLogEst(total), residual
}
