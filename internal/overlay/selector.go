package overlay

import (
	"fmt"

	"github.com/rowspace/tracedb/internal/bitvector"
	"github.com/rowspace/tracedb/internal/column"
	"github.com/rowspace/tracedb/internal/rowmap"
	"github.com/rowspace/tracedb/internal/sqlvalue"
)

// selectorDenseTokenThreshold is the divisor of |bitmap| at or above which
// a token count makes IndexSearchValidated materialise a forward
// row->child lookup once rather than paying an IndexOfNthSet select per
// token: the lookup is used when |tokens| >= |bitmap| / 32 (open question
// #2; an empirical value).
const selectorDenseTokenThreshold = 32

// Selector wraps a child chain with a bitmap over the child's row space:
// overlay row r is the r'th set bit of Bitmap, i.e. child row
// Bitmap.IndexOfNthSet(r) (§4.5).
type Selector struct {
	Child  column.Chain
	Bitmap *bitvector.BitVector
}

var _ column.Chain = (*Selector)(nil)

func (o *Selector) Size() uint32 { return uint32(o.Bitmap.CountSetBits()) }

func (o *Selector) DebugString() string {
	return fmt.Sprintf("Selector{size=%d, child=%d}", o.Bitmap.CountSetBits(), o.Bitmap.Len())
}

func (o *Selector) childRow(row uint32) (uint32, bool) {
	c := o.Bitmap.IndexOfNthSet(int(row))
	if c < 0 {
		return 0, false
	}
	return uint32(c), true
}

func (o *Selector) GetSlow(row uint32) sqlvalue.Value {
	c, ok := o.childRow(row)
	if !ok {
		return sqlvalue.Null
	}
	return o.Child.GetSlow(c)
}

func (o *Selector) SingleSearch(op column.FilterOp, value sqlvalue.Value, row uint32) column.MatchResult {
	c, ok := o.childRow(row)
	if !ok {
		return column.NoMatch
	}
	return o.Child.SingleSearch(op, value, c)
}

func (o *Selector) ValidateSearchConstraints(op column.FilterOp, value sqlvalue.Value) column.ValidateResult {
	result := o.Child.ValidateSearchConstraints(op, value)
	if result == column.AllRowsMatch && o.Bitmap.CountSetBits() != o.Bitmap.Len() {
		// The selected subset may still all match even though rows
		// excluded by the bitmap would not have; AllRowsMatch only holds
		// over the child's full space, so fall back to Ok.
		return column.Ok
	}
	return result
}

func (o *Selector) SearchValidated(op column.FilterOp, value sqlvalue.Value, r rowmap.RowMap) rowmap.RowMap {
	_, last, ok := r.Bounds()
	if !ok {
		return rowmap.Empty()
	}
	// The child is searched over its full row space [0, Bitmap.Len())
	// rather than a rank-translated sub-range (no rank structure here).
	childResult := o.Child.SearchValidated(op, value, rowmap.NewRange(0, uint32(o.Bitmap.Len())))

	out := bitvector.New(int(last) + 1)
	r.Iterate(func(row uint32) bool {
		c, present := o.childRow(row)
		if present && childResult.Contains(c) {
			out.Set(int(row))
		}
		return true
	})
	return rowmap.NewBitVector(out)
}

func (o *Selector) IndexSearchValidated(op column.FilterOp, value sqlvalue.Value, tokens *rowmap.Tokens) {
	if len(tokens.Items) >= o.Bitmap.Len()/selectorDenseTokenThreshold {
		// Dense enough to amortise a single forward scan over a per-token
		// select.
		forward := o.Bitmap.SetBitIndices()
		column.GenericIndexSearch(tokens, func(row uint32) bool {
			if int(row) >= len(forward) {
				return false
			}
			return o.Child.SingleSearch(op, value, uint32(forward[row])) == column.Match
		})
		return
	}
	column.GenericIndexSearch(tokens, func(row uint32) bool {
		return o.SingleSearch(op, value, row) == column.Match
	})
}

func (o *Selector) OrderedIndexSearchValidated(op column.FilterOp, value sqlvalue.Value, oi rowmap.OrderedIndices) (int, int) {
	return column.GenericOrderedIndexSearch(op, value, oi, o.GetSlow)
}

func (o *Selector) StableSort(tokens []rowmap.Token, desc bool) {
	column.GenericStableSort(tokens, desc, o.GetSlow)
}

func (o *Selector) Distinct(tokens *rowmap.Tokens) {
	column.GenericDistinct(tokens, o.GetSlow)
}

func (o *Selector) MinElement(tokens rowmap.Tokens) (rowmap.Token, bool) {
	return column.GenericMinElement(tokens, o.GetSlow)
}

func (o *Selector) MaxElement(tokens rowmap.Tokens) (rowmap.Token, bool) {
	return column.GenericMaxElement(tokens, o.GetSlow)
}
