// Package query holds the Query request shape the bridge builds from the
// index-string protocol (§6), the apply_constraint executor (§4.7), the
// constraint/order-by reordering heuristic and the LogEst cost model the
// host planner consults (§4.8). None of this depends on internal/table,
// so it can be exercised and tested against bare column.Chain values.
package query

import (
	"github.com/rowspace/tracedb/internal/column"
	"github.com/rowspace/tracedb/internal/sqlvalue"
)

// OrderType selects whether a query sorts, deduplicates, or both (§3).
type OrderType uint8

const (
	Sort OrderType = iota
	DistinctAndSort
	Distinct
)

// Order names a column to sort or dedup by and its direction.
type Order struct {
	ColIdx int
	Desc   bool
}

// Constraint is a single (column, operator, value) predicate.
type Constraint struct {
	ColIdx int
	Op     column.FilterOp
	Value  sqlvalue.Value
}

// Query is the fully decoded request passed to Table.QueryToRowMap. The
// bridge builds one of these from the index-string protocol (§6); it never
// crosses the core's boundary as SQL.
type Query struct {
	Constraints []Constraint
	Orders      []Order
	OrderType   OrderType
	ColsUsed    uint64
	Limit       *int64
	Offset      *int64
}

// IsMinMaxShaped reports whether q is the min/max one-row shortcut of §4.6
// step 5: a single sort order, Sort order type, and a limit of exactly 1.
func (q *Query) IsMinMaxShaped() bool {
	return len(q.Orders) == 1 && q.OrderType == Sort && q.Limit != nil && *q.Limit == 1
}
