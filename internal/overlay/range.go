package overlay

import (
	"fmt"

	"github.com/rowspace/tracedb/internal/bitvector"
	"github.com/rowspace/tracedb/internal/column"
	"github.com/rowspace/tracedb/internal/rowmap"
	"github.com/rowspace/tracedb/internal/sqlvalue"
)

// Range wraps a child chain with a constant offset: overlay row r is
// child row r+Start, for r in [0, End-Start) (§4.5). It never introduces
// nulls or duplicates, so every operation is a row-index shift.
type Range struct {
	Child      column.Chain
	Start, End uint32
}

var _ column.Chain = (*Range)(nil)

func (o *Range) Size() uint32 { return o.End - o.Start }

func (o *Range) DebugString() string {
	return fmt.Sprintf("Range{start=%d, end=%d}", o.Start, o.End)
}

func (o *Range) GetSlow(row uint32) sqlvalue.Value {
	return o.Child.GetSlow(row + o.Start)
}

func (o *Range) SingleSearch(op column.FilterOp, value sqlvalue.Value, row uint32) column.MatchResult {
	return o.Child.SingleSearch(op, value, row+o.Start)
}

func (o *Range) ValidateSearchConstraints(op column.FilterOp, value sqlvalue.Value) column.ValidateResult {
	return o.Child.ValidateSearchConstraints(op, value)
}

func (o *Range) SearchValidated(op column.FilterOp, value sqlvalue.Value, r rowmap.RowMap) rowmap.RowMap {
	first, last, ok := r.Bounds()
	if !ok {
		return rowmap.Empty()
	}
	childResult := o.Child.SearchValidated(op, value, rowmap.NewRange(first+o.Start, last+o.Start+1))

	out := bitvector.New(int(last) + 1)
	r.Iterate(func(row uint32) bool {
		if childResult.Contains(row + o.Start) {
			out.Set(int(row))
		}
		return true
	})
	return rowmap.NewBitVector(out)
}

func (o *Range) IndexSearchValidated(op column.FilterOp, value sqlvalue.Value, tokens *rowmap.Tokens) {
	column.GenericIndexSearch(tokens, func(row uint32) bool {
		return o.SingleSearch(op, value, row) == column.Match
	})
}

func (o *Range) OrderedIndexSearchValidated(op column.FilterOp, value sqlvalue.Value, oi rowmap.OrderedIndices) (int, int) {
	return column.GenericOrderedIndexSearch(op, value, oi, o.GetSlow)
}

func (o *Range) StableSort(tokens []rowmap.Token, desc bool) {
	column.GenericStableSort(tokens, desc, o.GetSlow)
}

func (o *Range) Distinct(tokens *rowmap.Tokens) {
	column.GenericDistinct(tokens, o.GetSlow)
}

func (o *Range) MinElement(tokens rowmap.Tokens) (rowmap.Token, bool) {
	return column.GenericMinElement(tokens, o.GetSlow)
}

func (o *Range) MaxElement(tokens rowmap.Tokens) (rowmap.Token, bool) {
	return column.GenericMaxElement(tokens, o.GetSlow)
}
