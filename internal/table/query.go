package table

import (
	"context"

	"github.com/google/uuid"

	"github.com/rowspace/tracedb/internal/bitvector"
	"github.com/rowspace/tracedb/internal/column"
	"github.com/rowspace/tracedb/internal/logging"
	"github.com/rowspace/tracedb/internal/query"
	"github.com/rowspace/tracedb/internal/rowmap"
	"github.com/rowspace/tracedb/internal/tqerrors"
)

// QueryToRowMap runs q against t, implementing all seven steps of §4.6:
// the id-equality fast path, the secondary-index prefix walk, the
// remaining-constraint executor, distinct, the min/max shortcut, sort,
// and limit/offset.
func (t *Table) QueryToRowMap(ctx context.Context, q *query.Query) (rowmap.RowMap, error) {
	queryID := uuid.NewString()
	ctx = logging.WithQueryID(ctx, queryID)
	logging.DebugContext(ctx, "query_to_rowmap start",
		"constraints", len(q.Constraints), "orders", len(q.Orders), "row_count", t.RowCount)

	if q.OrderType != query.Sort && len(q.Orders) != 1 {
		return rowmap.Empty(), tqerrors.Wrap(tqerrors.ErrProgrammer, "distinct requires exactly one order-by column")
	}

	rm := rowmap.NewRange(0, t.RowCount)
	consumed := 0

	// Step 1: id-equality join fast path.
	if len(q.Constraints) > 0 {
		c0 := q.Constraints[0]
		col0 := t.Columns[c0.ColIdx]
		if c0.Op == column.Eq && col0.PlainID {
			v, ok := c0.Value.AsLong()
			if !ok || v < 0 || uint32(v) >= t.RowCount {
				return rowmap.Empty(), nil
			}
			row := uint32(v)
			allMatch := true
			for _, c := range q.Constraints[1:] {
				switch t.Columns[c.ColIdx].Chain().SingleSearch(c.Op, c.Value, row) {
				case column.NoMatch:
					return rowmap.Empty(), nil
				case column.NeedsFullSearch:
					allMatch = false
				}
			}
			if allMatch {
				return rowmap.NewRange(row, row+1), nil
			}
			rm = rowmap.NewRange(row, row+1)
			consumed = 1
		}
	}

	// Step 2: secondary-index prefix walk.
	if consumed < len(q.Constraints) {
		if idx, n := t.matchSecondaryIndex(q.Constraints[consumed:]); n > 0 {
			lo, hi := 0, len(idx.Order)
			for i := 0; i < n; i++ {
				c := q.Constraints[consumed+i]
				chain := t.Columns[c.ColIdx].Chain()
				oi := rowmap.OrderedIndices{Indices: idx.Order[lo:hi], State: rowmap.Monotonic}
				l, h := chain.OrderedIndexSearchValidated(c.Op, c.Value, oi)
				lo, hi = lo+l, lo+h
			}
			surviving := idx.Order[lo:hi]
			if len(surviving) >= rowmap.IndexVectorThreshold {
				bv := bitvector.New(int(t.RowCount))
				for _, row := range surviving {
					bv.Set(int(row))
				}
				rm = rowmap.NewBitVector(bv)
			} else {
				rm = rowmap.NewIndexVector(sortedUint32(surviving))
			}
			consumed += n
		}
	}

	// Step 3: remaining constraints via the executor.
	for _, c := range q.Constraints[consumed:] {
		chain := t.Columns[c.ColIdx].Chain()
		rm = query.ApplyConstraint(chain, c.Op, c.Value, rm)
		if rm.Size() == 0 {
			return rm, nil
		}
	}

	// Step 4: distinct / distinct-and-sort.
	if q.OrderType == query.Distinct || q.OrderType == query.DistinctAndSort {
		chain := t.Columns[q.Orders[0].ColIdx].Chain()
		tokens := rowmap.NewTokensFromIndexVector(rm.ToIndexVector())
		chain.Distinct(&tokens)
		if q.OrderType == query.DistinctAndSort {
			chain.StableSort(tokens.Items, false)
		}
		rm = rowmap.NewIndexVector(tokens.ToIndexVector())
		return applyLimitOffset(rm, q), nil
	}

	// Step 5: min/max one-row shortcut.
	if q.IsMinMaxShaped() {
		if q.Offset != nil && *q.Offset > 0 {
			return rowmap.Empty(), nil
		}
		order := q.Orders[0]
		chain := t.Columns[order.ColIdx].Chain()
		tokens := rowmap.NewTokensFromIndexVector(rm.ToIndexVector())
		var tok rowmap.Token
		var ok bool
		if order.Desc {
			tok, ok = chain.MaxElement(tokens)
		} else {
			tok, ok = chain.MinElement(tokens)
		}
		if !ok {
			return rowmap.Empty(), nil
		}
		return rowmap.NewIndexVector([]uint32{tok.Index}), nil
	}

	// Step 6: sort, iterating orders in reverse so stability realises
	// lexicographic order.
	if len(q.Orders) > 0 {
		tokens := rowmap.NewTokensFromIndexVector(rm.ToIndexVector())
		for i := len(q.Orders) - 1; i >= 0; i-- {
			order := q.Orders[i]
			t.Columns[order.ColIdx].Chain().StableSort(tokens.Items, order.Desc)
		}
		rm = rowmap.NewIndexVector(tokens.ToIndexVector())
	}

	// Step 7: limit/offset.
	return applyLimitOffset(rm, q), nil
}

func applyLimitOffset(rm rowmap.RowMap, q *query.Query) rowmap.RowMap {
	if q.Limit == nil && q.Offset == nil {
		return rm
	}
	idx := rm.ToIndexVector()
	offset := int64(0)
	if q.Offset != nil {
		offset = *q.Offset
	}
	if offset < 0 {
		offset = 0
	}
	end := int64(len(idx))
	if q.Limit != nil {
		if lim := offset + *q.Limit; lim < end {
			end = lim
		}
	}
	if offset > int64(len(idx)) {
		offset = int64(len(idx))
	}
	if end < offset {
		end = offset
	}
	return rowmap.NewIndexVector(idx[offset:end])
}
