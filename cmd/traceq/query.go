package main

import (
	"context"

	"github.com/rowspace/tracedb/internal/bridge"
)

// QueryCmd loads a trace cell file and runs a filter/order-by/limit query
// against it, printing the surviving rows.
type QueryCmd struct {
	Path    string `arg:"" help:"Path to trace cell file (.xz accepted)" type:"existingfile"`
	Filter  string `help:"Filter expression, e.g. 'age>30 AND city=\"NYC\"'"`
	OrderBy string `name:"order-by" help:"Comma separated column list, each optionally suffixed 'desc'"`
	Limit   *int64 `help:"Maximum number of rows to return"`
	Offset  *int64 `help:"Number of leading rows to skip"`
}

func (c *QueryCmd) Run() error {
	tbl, err := loadTable(c.Path)
	if err != nil {
		return err
	}
	q, err := buildQuery(tbl, c.Filter, c.OrderBy, c.Limit, c.Offset)
	if err != nil {
		return err
	}
	if err := bridge.ValidateConstraints(q); err != nil {
		return err
	}

	rm, err := tbl.QueryToRowMap(context.Background(), q)
	if err != nil {
		return err
	}
	printRows(tbl, rm.ToIndexVector())
	return nil
}
