package bridge

import (
	"github.com/rowspace/tracedb/internal/column"
	"github.com/rowspace/tracedb/internal/query"
)

// ShapeLookup resolves a column index to the shape the cost model needs,
// implemented by internal/table.Table.ShapeOf.
type ShapeLookup func(colIdx int) query.ColumnShape

// BestIndexCost reports (estimatedCost, estimatedRows) for q against a
// table of rowCount rows, per §6's best-index cost reporting: the bridge
// forwards these two numbers to the host planner verbatim and always
// reports the order-by consumed flag as true, since this core handles any
// requested order itself.
func BestIndexCost(q *query.Query, shapeOf ShapeLookup, rowCount int64) (estimatedCost, estimatedRows int64) {
	shapes := make([]query.ColumnShape, len(q.Constraints))
	ops := make([]column.FilterOp, len(q.Constraints))
	for i, c := range q.Constraints {
		shapes[i] = shapeOf(c.ColIdx)
		ops[i] = c.Op
	}
	cost, rows := query.EstimateQuery(shapes, ops, len(q.Orders), rowCount)
	return cost.ToInt(), rows.ToInt()
}

// OrderByConsumed is always true: the core always handles any requested
// order itself, so the bridge never needs the host to re-sort (§6).
const OrderByConsumed = true
