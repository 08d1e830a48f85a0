package main

import (
	"fmt"

	"github.com/dustin/go-humanize"

	"github.com/rowspace/tracedb/internal/bridge"
)

// ExplainCmd loads a trace cell file and prints the cost model's estimate
// for a filter, without running the query: humanize.Comma-formatted row
// and cost estimates from query.EstimateQuery via bridge.BestIndexCost
// (§4.8/§6's best-index cost reporting, surfaced here for a host or a
// human to inspect before committing to a scan).
type ExplainCmd struct {
	Path   string `arg:"" help:"Path to trace cell file (.xz accepted)" type:"existingfile"`
	Filter string `help:"Filter expression, e.g. 'age>30 AND city=\"NYC\"'"`
}

func (c *ExplainCmd) Run() error {
	tbl, err := loadTable(c.Path)
	if err != nil {
		return err
	}
	q, err := buildQuery(tbl, c.Filter, "", nil, nil)
	if err != nil {
		return err
	}
	if err := bridge.ValidateConstraints(q); err != nil {
		return err
	}

	cost, rows := bridge.BestIndexCost(q, tbl.ShapeOf, int64(tbl.RowCount))
	fmt.Printf("Rows in table:    %s\n", humanize.Comma(int64(tbl.RowCount)))
	fmt.Printf("Constraints:      %d\n", len(q.Constraints))
	fmt.Printf("Estimated cost:   %s\n", humanize.Comma(cost))
	fmt.Printf("Estimated rows:   %s\n", humanize.Comma(rows))
	return nil
}
