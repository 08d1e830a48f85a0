// Package runtime implements the forward-only runtime table builder of
// §4.9: it ingests an untyped stream of cells addressed by column index in
// row order and, at Finalize, produces an internal/table.Table whose
// columns have been promoted through the builder's type-unification rules
// and analysed into their terminal storage and overlay shape.
package runtime

import (
	"github.com/rowspace/tracedb/internal/sqlvalue"
	"github.com/rowspace/tracedb/internal/stringpool"
	"github.com/rowspace/tracedb/internal/tqerrors"
)

type columnKind uint8

const (
	kindLeadingNulls columnKind = iota
	kindNullInt
	kindNullDouble
	kindString
)

// columnBuilder is a column's in-progress state. Before any typed cell is
// observed it only counts leading nulls; the first typed append promotes
// it to the matching nullable storage, pre-filled with that many nulls.
type columnBuilder struct {
	kind         columnKind
	leadingNulls uint32

	ints     []int64
	doubles  []float64
	nullMask []bool // parallel to ints/doubles; true means the cell is null

	stringIDs []uint32 // parallel string-pool ids; stringpool.NullID means null
}

// Builder accumulates cells for every column of a table under
// construction.
type Builder struct {
	names   []string
	pool    *stringpool.Pool
	columns []*columnBuilder
}

// NewBuilder creates a builder for a table with the given column names,
// interning strings through pool.
func NewBuilder(names []string, pool *stringpool.Pool) *Builder {
	cols := make([]*columnBuilder, len(names))
	for i := range cols {
		cols[i] = &columnBuilder{kind: kindLeadingNulls}
	}
	return &Builder{names: names, pool: pool, columns: cols}
}

func (b *Builder) schemaConflict(colIdx int, value any) error {
	return &tqerrors.SchemaConflictError{Column: b.names[colIdx], Value: value, Err: tqerrors.ErrSchemaConflict}
}

// AppendNull appends a null cell to column colIdx.
func (b *Builder) AppendNull(colIdx int) {
	c := b.columns[colIdx]
	switch c.kind {
	case kindLeadingNulls:
		c.leadingNulls++
	case kindNullInt:
		c.ints = append(c.ints, 0)
		c.nullMask = append(c.nullMask, true)
	case kindNullDouble:
		c.doubles = append(c.doubles, 0)
		c.nullMask = append(c.nullMask, true)
	case kindString:
		c.stringIDs = append(c.stringIDs, stringpool.NullID)
	}
}

// AppendInt appends a non-null integer cell to column colIdx.
func (b *Builder) AppendInt(colIdx int, v int64) error {
	c := b.columns[colIdx]
	switch c.kind {
	case kindLeadingNulls:
		c.ints = make([]int64, c.leadingNulls, c.leadingNulls+1)
		c.nullMask = make([]bool, c.leadingNulls, c.leadingNulls+1)
		for i := range c.nullMask {
			c.nullMask[i] = true
		}
		c.kind = kindNullInt
		c.ints = append(c.ints, v)
		c.nullMask = append(c.nullMask, false)
	case kindNullInt:
		c.ints = append(c.ints, v)
		c.nullMask = append(c.nullMask, false)
	case kindNullDouble:
		if !sqlvalue.IsExactFloat64(v) {
			return b.schemaConflict(colIdx, v)
		}
		c.doubles = append(c.doubles, float64(v))
		c.nullMask = append(c.nullMask, false)
	case kindString:
		return b.schemaConflict(colIdx, v)
	}
	return nil
}

// AppendDouble appends a non-null double cell to column colIdx.
func (b *Builder) AppendDouble(colIdx int, v float64) error {
	c := b.columns[colIdx]
	switch c.kind {
	case kindLeadingNulls:
		c.doubles = make([]float64, c.leadingNulls, c.leadingNulls+1)
		c.nullMask = make([]bool, c.leadingNulls, c.leadingNulls+1)
		for i := range c.nullMask {
			c.nullMask[i] = true
		}
		c.kind = kindNullDouble
		c.doubles = append(c.doubles, v)
		c.nullMask = append(c.nullMask, false)
	case kindNullDouble:
		c.doubles = append(c.doubles, v)
		c.nullMask = append(c.nullMask, false)
	case kindNullInt:
		for _, iv := range c.ints {
			if !sqlvalue.IsExactFloat64(iv) {
				return b.schemaConflict(colIdx, iv)
			}
		}
		recast := make([]float64, len(c.ints))
		for i, iv := range c.ints {
			recast[i] = float64(iv)
		}
		c.doubles = append(recast, v)
		c.nullMask = append(c.nullMask, false)
		c.ints = nil
		c.kind = kindNullDouble
	case kindString:
		return b.schemaConflict(colIdx, v)
	}
	return nil
}

// AppendString appends a non-null string cell to column colIdx, interning
// it through the builder's string pool.
func (b *Builder) AppendString(colIdx int, s string) error {
	c := b.columns[colIdx]
	switch c.kind {
	case kindLeadingNulls:
		c.stringIDs = make([]uint32, c.leadingNulls, c.leadingNulls+1)
		c.kind = kindString
		c.stringIDs = append(c.stringIDs, b.pool.Intern(s))
	case kindString:
		c.stringIDs = append(c.stringIDs, b.pool.Intern(s))
	default:
		return b.schemaConflict(colIdx, s)
	}
	return nil
}
