package overlay

import (
	"fmt"

	"github.com/rowspace/tracedb/internal/bitvector"
	"github.com/rowspace/tracedb/internal/column"
	"github.com/rowspace/tracedb/internal/rowmap"
	"github.com/rowspace/tracedb/internal/sqlvalue"
)

// Arrangement wraps a child chain with an explicit, possibly duplicating,
// possibly unsorted index vector: overlay row r is child row Indices[r]
// (§4.5). When State is Monotonic, a monotonic search op can be pushed
// straight down to the child's ordered-index search, since Indices then
// reads as a sorted child-row sequence and the returned position range is
// itself a valid logical RowMap range.
type Arrangement struct {
	Child   column.Chain
	Indices []uint32
	State   rowmap.Monotonicity
}

var _ column.Chain = (*Arrangement)(nil)

func (o *Arrangement) Size() uint32 { return uint32(len(o.Indices)) }

func (o *Arrangement) DebugString() string {
	return fmt.Sprintf("Arrangement{len=%d, monotonic=%v}", len(o.Indices), o.State == rowmap.Monotonic)
}

func (o *Arrangement) GetSlow(row uint32) sqlvalue.Value {
	return o.Child.GetSlow(o.Indices[row])
}

func (o *Arrangement) SingleSearch(op column.FilterOp, value sqlvalue.Value, row uint32) column.MatchResult {
	return o.Child.SingleSearch(op, value, o.Indices[row])
}

func (o *Arrangement) ValidateSearchConstraints(op column.FilterOp, value sqlvalue.Value) column.ValidateResult {
	result := o.Child.ValidateSearchConstraints(op, value)
	if result == column.AllRowsMatch || result == column.NoRowsMatch {
		return result
	}
	return column.Ok
}

func (o *Arrangement) SearchValidated(op column.FilterOp, value sqlvalue.Value, r rowmap.RowMap) rowmap.RowMap {
	_, last, ok := r.Bounds()
	if !ok {
		return rowmap.Empty()
	}

	if o.State == rowmap.Monotonic && op.IsMonotonic() {
		oi := rowmap.OrderedIndices{Indices: o.Indices, State: rowmap.Monotonic}
		lo, hi := o.Child.OrderedIndexSearchValidated(op, value, oi)
		out := bitvector.New(int(last) + 1)
		r.Iterate(func(row uint32) bool {
			if int(row) >= lo && int(row) < hi {
				out.Set(int(row))
			}
			return true
		})
		return rowmap.NewBitVector(out)
	}

	out := bitvector.New(int(last) + 1)
	r.Iterate(func(row uint32) bool {
		if o.Child.SingleSearch(op, value, o.Indices[row]) == column.Match {
			out.Set(int(row))
		}
		return true
	})
	return rowmap.NewBitVector(out)
}

func (o *Arrangement) IndexSearchValidated(op column.FilterOp, value sqlvalue.Value, tokens *rowmap.Tokens) {
	column.GenericIndexSearch(tokens, func(row uint32) bool {
		return o.Child.SingleSearch(op, value, o.Indices[row]) == column.Match
	})
}

func (o *Arrangement) OrderedIndexSearchValidated(op column.FilterOp, value sqlvalue.Value, oi rowmap.OrderedIndices) (int, int) {
	return column.GenericOrderedIndexSearch(op, value, oi, o.GetSlow)
}

func (o *Arrangement) StableSort(tokens []rowmap.Token, desc bool) {
	column.GenericStableSort(tokens, desc, o.GetSlow)
}

// Distinct dedupes by resolved value, which also absorbs the case where
// Indices repeats the same child row under two different logical
// positions: both positions resolve to the same value and the second is
// dropped regardless of whether the duplication is row-level or
// value-level.
func (o *Arrangement) Distinct(tokens *rowmap.Tokens) {
	column.GenericDistinct(tokens, o.GetSlow)
}

func (o *Arrangement) MinElement(tokens rowmap.Tokens) (rowmap.Token, bool) {
	return column.GenericMinElement(tokens, o.GetSlow)
}

func (o *Arrangement) MaxElement(tokens rowmap.Tokens) (rowmap.Token, bool) {
	return column.GenericMaxElement(tokens, o.GetSlow)
}
