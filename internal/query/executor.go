package query

import (
	"github.com/rowspace/tracedb/internal/bitvector"
	"github.com/rowspace/tracedb/internal/column"
	"github.com/rowspace/tracedb/internal/rowmap"
	"github.com/rowspace/tracedb/internal/sqlvalue"
)

// indexModeBitvectorThreshold and indexModeSpanFactor implement the
// bitvector-branch half of the §4.7 heuristic: a sparse RowMap (few
// elements relative to its span) is cheaper to carry as an index vector
// through index_search_validated than to materialise as a bitvector.
const (
	indexModeBitvectorThreshold = 1024
	indexModeSpanFactor         = 10
	rangeLinearSpanFactor       = 100
)

// ApplyConstraint runs a single constraint against chain over the current
// working RowMap r, implementing the §4.7 executor: the single-row fast
// path, validate_search_constraints short-circuit, and the linear-vs-index
// mode choice.
func ApplyConstraint(chain column.Chain, op column.FilterOp, value sqlvalue.Value, r rowmap.RowMap) rowmap.RowMap {
	if r.Size() == 1 {
		row, _, _ := r.Bounds()
		switch chain.SingleSearch(op, value, row) {
		case column.Match:
			return r
		case column.NoMatch:
			return rowmap.Empty()
		}
		// column.NeedsFullSearch: fall through to the general path below.
	}

	switch chain.ValidateSearchConstraints(op, value) {
	case column.NoRowsMatch:
		return rowmap.Empty()
	case column.AllRowsMatch:
		return r
	}

	if useIndexMode(r) {
		return indexMode(chain, op, value, r)
	}
	return linearMode(chain, op, value, r)
}

func useIndexMode(r rowmap.RowMap) bool {
	switch r.Kind() {
	case rowmap.KindIndexVector:
		return true
	case rowmap.KindRange:
		_, last, ok := r.Bounds()
		if !ok {
			return false
		}
		size := r.Size()
		if int(last) < rangeLinearSpanFactor*size {
			return false
		}
		return true
	default: // bitvector
		first, last, ok := r.Bounds()
		if !ok {
			return false
		}
		size := r.Size()
		span := int(last) - int(first)
		return size < indexModeBitvectorThreshold || size*indexModeSpanFactor < span
	}
}

// indexMode converts r to a sorted, Monotonic-tagged index vector, runs
// index_search_validated, and reassembles a sorted index vector.
func indexMode(chain column.Chain, op column.FilterOp, value sqlvalue.Value, r rowmap.RowMap) rowmap.RowMap {
	tokens := rowmap.NewTokensFromIndexVector(r.ToIndexVector())
	chain.IndexSearchValidated(op, value, &tokens)
	return rowmap.NewIndexVector(tokens.ToIndexVector())
}

// linearMode runs search_validated over r's bounding range and intersects
// the result with r itself.
func linearMode(chain column.Chain, op column.FilterOp, value sqlvalue.Value, r rowmap.RowMap) rowmap.RowMap {
	first, last, ok := r.Bounds()
	if !ok {
		return rowmap.Empty()
	}
	result := chain.SearchValidated(op, value, rowmap.NewRange(first, last+1))
	return intersect(r, result)
}

// intersect computes the row-wise intersection of two arbitrary RowMaps.
func intersect(a, b rowmap.RowMap) rowmap.RowMap {
	_, last, ok := a.Bounds()
	if !ok {
		return rowmap.Empty()
	}
	bv := bitvector.New(int(last) + 1)
	a.Iterate(func(row uint32) bool {
		if b.Contains(row) {
			bv.Set(int(row))
		}
		return true
	})
	return rowmap.NewBitVector(bv)
}
