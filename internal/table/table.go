package table

import (
	"sort"

	"github.com/rowspace/tracedb/internal/column"
	"github.com/rowspace/tracedb/internal/query"
)

// SecondaryIndex is a named, precomputed row ordering over a prefix of
// columns, copied into the table at creation and never mutated by queries
// (§5's shared-resource policy).
type SecondaryIndex struct {
	Name    string
	ColIdxs []int
	// Order is a permutation of [0, RowCount) sorted lexicographically by
	// the values of ColIdxs, used to seed an OrderedIndices slice for
	// ordered_index_search.
	Order []uint32
}

// Table holds a row count, an ordered set of columns, and any named
// secondary indices.
type Table struct {
	RowCount uint32
	Columns  []*Column
	Indices  []SecondaryIndex
}

// ShapeOf implements the ColumnShape lookup query.Reorder and
// query.EstimateConstraint need, without internal/query depending on this
// package.
func (t *Table) ShapeOf(colIdx int) query.ColumnShape {
	c := t.Columns[colIdx]
	return query.ColumnShape{
		IsID:     c.PlainID,
		IsSetID:  c.SetID,
		IsSorted: c.Sorted,
		HasIndex: t.hasIndexOn(colIdx),
		RowCount: int64(t.RowCount),
	}
}

func (t *Table) hasIndexOn(colIdx int) bool {
	for _, idx := range t.Indices {
		if len(idx.ColIdxs) > 0 && idx.ColIdxs[0] == colIdx {
			return true
		}
	}
	return false
}

// isIndexableOp reports whether op belongs to the set the secondary-index
// prefix walk may consume: {Eq, Le, Lt, Ge, Gt, IsNull, IsNotNull} (§4.6
// step 2).
func isIndexableOp(op column.FilterOp) bool {
	switch op {
	case column.Eq, column.Le, column.Lt, column.Ge, column.Gt, column.IsNull, column.IsNotNull:
		return true
	default:
		return false
	}
}

// matchSecondaryIndex finds the named index whose column prefix matches
// constraints' leading column sequence, where every op in the matched
// prefix before the last is Eq (§4.6 step 2). Returns the index and the
// number of leading constraints it consumes; n == 0 if none match.
func (t *Table) matchSecondaryIndex(constraints []query.Constraint) (*SecondaryIndex, int) {
	var best *SecondaryIndex
	bestN := 0
	for i := range t.Indices {
		idx := &t.Indices[i]
		n := 0
		for n < len(idx.ColIdxs) && n < len(constraints) {
			c := constraints[n]
			if c.ColIdx != idx.ColIdxs[n] || !isIndexableOp(c.Op) {
				break
			}
			if n > 0 && constraints[n-1].Op != column.Eq {
				break
			}
			n++
		}
		if n > bestN {
			best, bestN = idx, n
		}
	}
	return best, bestN
}

// sortedUint32 returns a sorted copy of idx.
func sortedUint32(idx []uint32) []uint32 {
	out := make([]uint32, len(idx))
	copy(out, idx)
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}
