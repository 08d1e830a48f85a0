// Package bridge implements the §6 external-interface surface: table
// schema declaration, the index-string protocol the host's virtual-table
// layer encodes a Query into, and best-index cost reporting. Nothing in
// this package touches SQL text; it is the contract a SQL-parsing host
// speaks against, not a parser itself.
package bridge

import (
	"fmt"

	"github.com/rowspace/tracedb/internal/column"
	"github.com/rowspace/tracedb/internal/tqerrors"
)

// ColumnSchema declares one column at the bridge boundary: its name, its
// declared SQL type, nullability, and whether it is hidden from `SELECT
// *`. Exactly one column of a TableSchema must have IsID set; it forms
// the PRIMARY KEY (§6).
type ColumnSchema struct {
	Name     string
	Type     column.Type
	Nullable bool
	Hidden   bool
	IsID     bool
}

// TableSchema is the declaration a virtual-table module registers for one
// table.
type TableSchema struct {
	Name    string
	Columns []ColumnSchema
}

// Validate checks that exactly one column is marked IsID, per §6.
func (s *TableSchema) Validate() error {
	n := 0
	for _, c := range s.Columns {
		if c.IsID {
			n++
		}
	}
	if n != 1 {
		return tqerrors.Wrap(tqerrors.ErrProgrammer,
			fmt.Sprintf("table %q must declare exactly one id column, found %d", s.Name, n))
	}
	return nil
}

// IDColumnIndex returns the index of the schema's id column. Must only be
// called after Validate has succeeded.
func (s *TableSchema) IDColumnIndex() int {
	for i, c := range s.Columns {
		if c.IsID {
			return i
		}
	}
	panic("bridge: TableSchema has no id column")
}
