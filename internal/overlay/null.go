// Package overlay implements the five overlay layers that sit above a
// terminal column storage: null, dense-null, range, selector and
// arrangement (§3, §4.3-§4.5). Each overlay implements column.Chain by
// delegating to a child chain after translating row indices.
//
// The projection algorithms here favor a single uniform strategy —
// translate the input RowMap's bounds into child coordinates, delegate,
// then re-test each candidate row against the child's result via
// RowMap.Contains — over the teacher's bit-packed word-at-a-time transfer
// (§9's "Bitvector word-level iteration" note). Both are observably
// equivalent per the chain contract's invariants (§8); the word-packed
// version is a throughput optimization this adaptation does not carry.
package overlay

import (
	"fmt"

	"github.com/rowspace/tracedb/internal/bitvector"
	"github.com/rowspace/tracedb/internal/column"
	"github.com/rowspace/tracedb/internal/rowmap"
	"github.com/rowspace/tracedb/internal/sqlvalue"
)

// Null wraps a dense child chain whose size equals the count of non-null
// rows. Row r in the overlay's sparse space is null iff NonNull.Get(r) is
// false; otherwise it maps to child row NonNull.Rank(r).
type Null struct {
	Child   column.Chain
	NonNull *bitvector.BitVector
}

var _ column.Chain = (*Null)(nil)

func (o *Null) Size() uint32 { return uint32(o.NonNull.Len()) }

func (o *Null) DebugString() string {
	return fmt.Sprintf("Null{size=%d, nonnull=%d}", o.NonNull.Len(), o.NonNull.CountSetBits())
}

func (o *Null) GetSlow(row uint32) sqlvalue.Value {
	if !o.NonNull.Get(int(row)) {
		return sqlvalue.Null
	}
	return o.Child.GetSlow(uint32(o.NonNull.Rank(int(row))))
}

func (o *Null) SingleSearch(op column.FilterOp, value sqlvalue.Value, row uint32) column.MatchResult {
	switch op {
	case column.IsNull:
		if !o.NonNull.Get(int(row)) {
			return column.Match
		}
		return column.NoMatch
	case column.IsNotNull:
		if o.NonNull.Get(int(row)) {
			return column.Match
		}
		return column.NoMatch
	}
	if !o.NonNull.Get(int(row)) {
		return column.NoMatch
	}
	return o.Child.SingleSearch(op, value, uint32(o.NonNull.Rank(int(row))))
}

func (o *Null) ValidateSearchConstraints(op column.FilterOp, value sqlvalue.Value) column.ValidateResult {
	nonNullCount := o.NonNull.CountSetBits()
	allNull := nonNullCount == 0
	noNull := nonNullCount == o.NonNull.Len()

	switch op {
	case column.IsNull:
		if allNull {
			return column.AllRowsMatch
		}
		if noNull {
			return column.NoRowsMatch
		}
		return column.Ok
	case column.IsNotNull:
		if allNull {
			return column.NoRowsMatch
		}
		if noNull {
			return column.AllRowsMatch
		}
		return column.Ok
	}

	if allNull {
		return column.NoRowsMatch
	}
	childResult := o.Child.ValidateSearchConstraints(op, value)
	if childResult == column.NoRowsMatch {
		return column.NoRowsMatch
	}
	if noNull {
		return childResult
	}
	return column.Ok
}

func (o *Null) SearchValidated(op column.FilterOp, value sqlvalue.Value, r rowmap.RowMap) rowmap.RowMap {
	first, last, ok := r.Bounds()
	if !ok {
		return rowmap.Empty()
	}

	switch op {
	case column.IsNull:
		bv := bitvector.New(int(last) + 1)
		r.Iterate(func(row uint32) bool {
			if !o.NonNull.Get(int(row)) {
				bv.Set(int(row))
			}
			return true
		})
		return rowmap.NewBitVector(bv)
	case column.IsNotNull:
		bv := bitvector.New(int(last) + 1)
		r.Iterate(func(row uint32) bool {
			if o.NonNull.Get(int(row)) {
				bv.Set(int(row))
			}
			return true
		})
		return rowmap.NewBitVector(bv)
	}

	childLo := o.NonNull.Rank(int(first))
	childHi := o.NonNull.Rank(int(last) + 1)
	childResult := o.Child.SearchValidated(op, value, rowmap.NewRange(uint32(childLo), uint32(childHi)))

	bv := bitvector.New(int(last) + 1)
	r.Iterate(func(row uint32) bool {
		if o.NonNull.Get(int(row)) && childResult.Contains(uint32(o.NonNull.Rank(int(row)))) {
			bv.Set(int(row))
		}
		return true
	})
	return rowmap.NewBitVector(bv)
}

func (o *Null) IndexSearchValidated(op column.FilterOp, value sqlvalue.Value, tokens *rowmap.Tokens) {
	column.GenericIndexSearch(tokens, func(row uint32) bool {
		return o.SingleSearch(op, value, row) == column.Match
	})
}

func (o *Null) OrderedIndexSearchValidated(op column.FilterOp, value sqlvalue.Value, oi rowmap.OrderedIndices) (int, int) {
	return column.GenericOrderedIndexSearch(op, value, oi, o.GetSlow)
}

func (o *Null) StableSort(tokens []rowmap.Token, desc bool) {
	column.GenericStableSort(tokens, desc, o.GetSlow)
}

func (o *Null) Distinct(tokens *rowmap.Tokens) {
	column.GenericDistinct(tokens, o.GetSlow)
}

func (o *Null) MinElement(tokens rowmap.Tokens) (rowmap.Token, bool) {
	return column.GenericMinElement(tokens, o.GetSlow)
}

func (o *Null) MaxElement(tokens rowmap.Tokens) (rowmap.Token, bool) {
	return column.GenericMaxElement(tokens, o.GetSlow)
}
