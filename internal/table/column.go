// Package table implements Table and Column, the §4.6 composition layer:
// per-column chain construction (lazy, cached) and QueryToRowMap, the
// engine's single entry point for turning a Query into a RowMap.
package table

import (
	"sync"

	"github.com/rowspace/tracedb/internal/column"
)

// Column is one column of a Table: its declared type and flags, plus a
// lazily-built, cached Chain. The chain is built on first use by the
// build function passed to NewColumn,
// which stacks terminal storage -> null layer -> overlay layer in the
// order the column was constructed with (§4.6); building is deferred so a
// host that only walks the table (e.g. JSON export) without querying never
// pays for chain construction (§9 "Lazy chain construction").
type Column struct {
	Name  string
	Type  column.Type
	Flags column.Flags

	// PlainID marks a column eligible for the id-equality join fast path
	// of §4.6 step 1: an Id-typed column with no null layer and no
	// overlay.
	PlainID bool
	// SetID marks a column backed by SetIDStorage, used by the
	// constraint-reordering heuristic of §4.8.
	SetID bool
	// Sorted marks a column whose values are non-decreasing in row
	// order, used by both the reordering heuristic and the trailing
	// order-by drop rule of §4.8.
	Sorted bool

	build func() column.Chain
	once  sync.Once
	chain column.Chain
}

// NewColumn constructs a column whose chain is built lazily by build on
// first call to Chain.
func NewColumn(name string, typ column.Type, flags column.Flags, build func() column.Chain) *Column {
	return &Column{Name: name, Type: typ, Flags: flags, build: build}
}

// Chain returns the column's composed chain, building and caching it on
// first call.
func (c *Column) Chain() column.Chain {
	c.once.Do(func() {
		c.chain = c.build()
		c.build = nil
	})
	return c.chain
}
