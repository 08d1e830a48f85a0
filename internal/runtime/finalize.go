package runtime

import (
	"github.com/rowspace/tracedb/internal/bitvector"
	"github.com/rowspace/tracedb/internal/column"
	"github.com/rowspace/tracedb/internal/overlay"
	"github.com/rowspace/tracedb/internal/stringpool"
	"github.com/rowspace/tracedb/internal/table"
)

// idFirstValueLimit bounds detectIDShape's (§4.9) cheap structural check:
// an id column's first observed value must be small.
const idFirstValueLimit = 1 << 20

// Finalize consumes the builder and produces a Table, running the §4.9
// null-wrapping and id-detection decisions column by column. The builder
// must not be used afterward.
func (b *Builder) Finalize() *table.Table {
	rowCount := b.rowCount()
	cols := make([]*table.Column, len(b.columns))
	for i, c := range b.columns {
		cols[i] = b.finalizeColumn(i, c, rowCount)
	}
	cols = append(cols, autoIDColumn(rowCount))
	return &table.Table{RowCount: rowCount, Columns: cols}
}

func (b *Builder) rowCount() uint32 {
	for _, c := range b.columns {
		switch c.kind {
		case kindNullInt, kindNullDouble:
			return uint32(len(c.nullMask))
		case kindString:
			return uint32(len(c.stringIDs))
		}
	}
	// every column saw only nulls (or the table has no rows with any
	// typed cell); fall back to the leading-null count of column 0.
	if len(b.columns) == 0 {
		return 0
	}
	return b.columns[0].leadingNulls
}

func autoIDColumn(rowCount uint32) *table.Column {
	col := table.NewColumn("_auto_id", column.TypeBigInt, column.FlagHidden,
		func() column.Chain { return column.NewIDStorage(rowCount) })
	col.PlainID = true
	return col
}

func (b *Builder) finalizeColumn(idx int, c *columnBuilder, rowCount uint32) *table.Column {
	name := b.names[idx]
	switch c.kind {
	case kindLeadingNulls:
		// every cell observed was null; model as a nullable int column
		// of all-null rows (no type was ever established). The child
		// chain is empty since NonNull has zero set bits.
		nullBits := bitvector.New(int(rowCount))
		return table.NewColumn(name, column.TypeBigInt, 0, func() column.Chain {
			child := column.NewNumericStorage([]int64{}, false)
			return &overlay.Null{Child: child, NonNull: nullBits}
		})
	case kindNullInt:
		return finalizeIntColumn(name, c)
	case kindNullDouble:
		return finalizeDoubleColumn(name, c)
	case kindString:
		return finalizeStringColumn(name, c, b.pool)
	default:
		panic("runtime: unknown column kind")
	}
}

func hasNulls(mask []bool) bool {
	for _, n := range mask {
		if n {
			return true
		}
	}
	return false
}

func nonNullBitVector(mask []bool) *bitvector.BitVector {
	bv := bitvector.New(len(mask))
	for i, n := range mask {
		if !n {
			bv.Set(i)
		}
	}
	return bv
}

// compactInts removes the masked-out null slots from ints, returning only
// the non-null values in row order (a Null overlay's child chain is dense
// over the surviving rows per §4.3).
func compactInts(ints []int64, mask []bool) []int64 {
	out := make([]int64, 0, len(ints))
	for i, v := range ints {
		if !mask[i] {
			out = append(out, v)
		}
	}
	return out
}

func compactDoubles(doubles []float64, mask []bool) []float64 {
	out := make([]float64, 0, len(doubles))
	for i, v := range doubles {
		if !mask[i] {
			out = append(out, v)
		}
	}
	return out
}

func compactStrings(ids []uint32) []uint32 {
	out := make([]uint32, 0, len(ids))
	for _, id := range ids {
		if id != 0 {
			out = append(out, id)
		}
	}
	return out
}

func isNonDecreasingInt(vals []int64) bool {
	for i := 1; i < len(vals); i++ {
		if vals[i] < vals[i-1] {
			return false
		}
	}
	return true
}

func isNonDecreasingDouble(vals []float64) bool {
	for i := 1; i < len(vals); i++ {
		if vals[i] < vals[i-1] {
			return false
		}
	}
	return true
}

// idShape is the result of detectIDShape: whether the column qualifies as
// an Id-typed column and, if so, whether it is exactly [0, n) ("dense")
// and so needs no overlay, or is a strictly increasing subset of ids that
// needs a Selector overlay over a bare IDStorage.
type idShape struct {
	isID  bool
	dense bool
}

// detectIDShape implements §4.9's id-column detection: values strictly
// increasing throughout, first value below 2^20, and last value below
// 64 times the row count. A column satisfying all three is treated as an
// Id column; it is "dense" (no overlay needed) only if it is exactly
// 0, 1, ..., n-1.
func detectIDShape(vals []int64) idShape {
	n := len(vals)
	if n == 0 {
		return idShape{}
	}
	if vals[0] < 0 || vals[0] >= idFirstValueLimit {
		return idShape{}
	}
	for i := 1; i < n; i++ {
		if vals[i] <= vals[i-1] {
			return idShape{}
		}
	}
	last := vals[n-1]
	if last < 0 || last >= int64(n)*64 {
		return idShape{}
	}
	dense := true
	for i, v := range vals {
		if v != int64(i) {
			dense = false
			break
		}
	}
	return idShape{isID: true, dense: dense}
}

func finalizeIntColumn(name string, c *columnBuilder) *table.Column {
	if !hasNulls(c.nullMask) {
		vals := c.ints
		shape := detectIDShape(vals)
		if shape.isID {
			n := uint32(len(vals))
			if shape.dense {
				col := table.NewColumn(name, column.TypeBigInt, 0, func() column.Chain {
					return column.NewIDStorage(n)
				})
				col.PlainID = true
				return col
			}
			childBound := uint32(vals[len(vals)-1]) + 1
			bitmap := bitvector.New(int(childBound))
			for _, v := range vals {
				bitmap.Set(int(v))
			}
			return table.NewColumn(name, column.TypeBigInt, 0, func() column.Chain {
				return &overlay.Selector{Child: column.NewIDStorage(childBound), Bitmap: bitmap}
			})
		}
		sorted := isNonDecreasingInt(vals)
		col := table.NewColumn(name, column.TypeBigInt, 0, func() column.Chain {
			return column.NewNumericStorage(vals, sorted)
		})
		col.Sorted = sorted
		return col
	}

	nonNull := nonNullBitVector(c.nullMask)
	vals := compactInts(c.ints, c.nullMask)
	sorted := isNonDecreasingInt(vals)
	return table.NewColumn(name, column.TypeBigInt, 0, func() column.Chain {
		child := column.NewNumericStorage(vals, sorted)
		return &overlay.Null{Child: child, NonNull: nonNull}
	})
}

func finalizeDoubleColumn(name string, c *columnBuilder) *table.Column {
	if !hasNulls(c.nullMask) {
		vals := c.doubles
		sorted := isNonDecreasingDouble(vals)
		col := table.NewColumn(name, column.TypeDouble, 0, func() column.Chain {
			return column.NewNumericStorage(vals, sorted)
		})
		col.Sorted = sorted
		return col
	}

	nonNull := nonNullBitVector(c.nullMask)
	vals := compactDoubles(c.doubles, c.nullMask)
	sorted := isNonDecreasingDouble(vals)
	return table.NewColumn(name, column.TypeDouble, 0, func() column.Chain {
		child := column.NewNumericStorage(vals, sorted)
		return &overlay.Null{Child: child, NonNull: nonNull}
	})
}

func finalizeStringColumn(name string, c *columnBuilder, pool *stringpool.Pool) *table.Column {
	ids := c.stringIDs
	if !hasStringNulls(ids) {
		sorted := isNonDecreasingStringIDs(pool, ids)
		col := table.NewColumn(name, column.TypeText, 0, func() column.Chain {
			return column.NewStringStorage(pool, ids, sorted)
		})
		col.Sorted = sorted
		return col
	}

	nonNull := bitvector.New(len(ids))
	for i, id := range ids {
		if id != stringpool.NullID {
			nonNull.Set(i)
		}
	}
	compact := compactStrings(ids)
	sorted := isNonDecreasingStringIDs(pool, compact)
	return table.NewColumn(name, column.TypeText, 0, func() column.Chain {
		child := column.NewStringStorage(pool, compact, sorted)
		return &overlay.Null{Child: child, NonNull: nonNull}
	})
}

func hasStringNulls(ids []uint32) bool {
	for _, id := range ids {
		if id == stringpool.NullID {
			return true
		}
	}
	return false
}

func isNonDecreasingStringIDs(pool *stringpool.Pool, ids []uint32) bool {
	for i := 1; i < len(ids); i++ {
		if pool.Compare(ids[i], ids[i-1]) < 0 {
			return false
		}
	}
	return true
}
