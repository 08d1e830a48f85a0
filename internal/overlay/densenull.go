package overlay

import (
	"fmt"

	"github.com/rowspace/tracedb/internal/bitvector"
	"github.com/rowspace/tracedb/internal/column"
	"github.com/rowspace/tracedb/internal/rowmap"
	"github.com/rowspace/tracedb/internal/sqlvalue"
)

// DenseNull wraps a same-size child chain with a parallel null bitmap: row
// r is null iff NullBits.Get(r), and otherwise reads straight through to
// child row r (§4.4). Unlike Null there is no rank translation — the child
// stores a don't-care value at null positions.
type DenseNull struct {
	Child    column.Chain
	NullBits *bitvector.BitVector
}

var _ column.Chain = (*DenseNull)(nil)

func (o *DenseNull) Size() uint32 { return o.Child.Size() }

func (o *DenseNull) DebugString() string {
	return fmt.Sprintf("DenseNull{size=%d, null=%d}", o.NullBits.Len(), o.NullBits.CountSetBits())
}

func (o *DenseNull) GetSlow(row uint32) sqlvalue.Value {
	if o.NullBits.Get(int(row)) {
		return sqlvalue.Null
	}
	return o.Child.GetSlow(row)
}

func (o *DenseNull) SingleSearch(op column.FilterOp, value sqlvalue.Value, row uint32) column.MatchResult {
	switch op {
	case column.IsNull:
		if o.NullBits.Get(int(row)) {
			return column.Match
		}
		return column.NoMatch
	case column.IsNotNull:
		if !o.NullBits.Get(int(row)) {
			return column.Match
		}
		return column.NoMatch
	}
	if o.NullBits.Get(int(row)) {
		return column.NoMatch
	}
	return o.Child.SingleSearch(op, value, row)
}

func (o *DenseNull) ValidateSearchConstraints(op column.FilterOp, value sqlvalue.Value) column.ValidateResult {
	nullCount := o.NullBits.CountSetBits()
	allNull := nullCount == o.NullBits.Len()
	noNull := nullCount == 0

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

func (o *DenseNull) SearchValidated(op column.FilterOp, value sqlvalue.Value, r rowmap.RowMap) rowmap.RowMap {
	_, last, ok := r.Bounds()
	if !ok {
		return rowmap.Empty()
	}

	switch op {
	case column.IsNull:
		bv := bitvector.New(int(last) + 1)
		r.Iterate(func(row uint32) bool {
			if o.NullBits.Get(int(row)) {
				bv.Set(int(row))
			}
			return true
		})
		return rowmap.NewBitVector(bv)
	case column.IsNotNull:
		bv := bitvector.New(int(last) + 1)
		r.Iterate(func(row uint32) bool {
			if !o.NullBits.Get(int(row)) {
				bv.Set(int(row))
			}
			return true
		})
		return rowmap.NewBitVector(bv)
	}

	childResult := o.Child.SearchValidated(op, value, r)
	bv := bitvector.New(int(last) + 1)
	r.Iterate(func(row uint32) bool {
		if !o.NullBits.Get(int(row)) && childResult.Contains(row) {
			bv.Set(int(row))
		}
		return true
	})
	return rowmap.NewBitVector(bv)
}

func (o *DenseNull) IndexSearchValidated(op column.FilterOp, value sqlvalue.Value, tokens *rowmap.Tokens) {
	column.GenericIndexSearch(tokens, func(row uint32) bool {
		return o.SingleSearch(op, value, row) == column.Match
	})
}

func (o *DenseNull) OrderedIndexSearchValidated(op column.FilterOp, value sqlvalue.Value, oi rowmap.OrderedIndices) (int, int) {
	return column.GenericOrderedIndexSearch(op, value, oi, o.GetSlow)
}

func (o *DenseNull) StableSort(tokens []rowmap.Token, desc bool) {
	column.GenericStableSort(tokens, desc, o.GetSlow)
}

func (o *DenseNull) Distinct(tokens *rowmap.Tokens) {
	column.GenericDistinct(tokens, o.GetSlow)
}

func (o *DenseNull) MinElement(tokens rowmap.Tokens) (rowmap.Token, bool) {
	return column.GenericMinElement(tokens, o.GetSlow)
}

func (o *DenseNull) MaxElement(tokens rowmap.Tokens) (rowmap.Token, bool) {
	return column.GenericMaxElement(tokens, o.GetSlow)
}
