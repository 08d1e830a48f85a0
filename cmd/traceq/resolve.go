package main

import (
	"fmt"
	"strings"

	"github.com/rowspace/tracedb/internal/column"
	"github.com/rowspace/tracedb/internal/query"
	"github.com/rowspace/tracedb/internal/sqlvalue"
	"github.com/rowspace/tracedb/internal/table"
)

// columnIndex resolves name against tbl's visible columns (hidden columns
// like _auto_id are not addressable by name from the CLI).
func columnIndex(tbl *table.Table, name string) (int, error) {
	for i, col := range tbl.Columns {
		if col.Flags.Has(column.FlagHidden) {
			continue
		}
		if col.Name == name {
			return i, nil
		}
	}
	return 0, fmt.Errorf("no such column %q", name)
}

// buildQuery resolves a filter expression and order-by/limit/offset flags
// against tbl's schema into a query.Query ready for Table.QueryToRowMap.
func buildQuery(tbl *table.Table, filter, orderBy string, limit, offset *int64) (*query.Query, error) {
	raw, err := ParseFilter(filter)
	if err != nil {
		return nil, err
	}

	q := &query.Query{Limit: limit, Offset: offset}
	for _, rc := range raw {
		idx, err := columnIndex(tbl, rc.Column)
		if err != nil {
			return nil, err
		}
		q.Constraints = append(q.Constraints, query.Constraint{ColIdx: idx, Op: rc.Op, Value: rc.Value})
	}

	if strings.TrimSpace(orderBy) != "" {
		for _, term := range strings.Split(orderBy, ",") {
			term = strings.TrimSpace(term)
			desc := false
			if rest, ok := strings.CutSuffix(term, " desc"); ok {
				term, desc = rest, true
			} else if rest, ok := strings.CutSuffix(term, " asc"); ok {
				term = rest
			}
			idx, err := columnIndex(tbl, strings.TrimSpace(term))
			if err != nil {
				return nil, err
			}
			q.Orders = append(q.Orders, query.Order{ColIdx: idx, Desc: desc})
		}
		q.OrderType = query.Sort
	}

	return q, nil
}

// printRows renders every visible column of every row in rows, in order.
func printRows(tbl *table.Table, rows []uint32) {
	var visible []int
	var header []string
	for i, col := range tbl.Columns {
		if col.Flags.Has(column.FlagHidden) {
			continue
		}
		visible = append(visible, i)
		header = append(header, col.Name)
	}
	fmt.Println(strings.Join(header, "\t"))

	chains := make([]column.Chain, len(visible))
	for i, colIdx := range visible {
		chains[i] = tbl.Columns[colIdx].Chain()
	}
	for _, row := range rows {
		cells := make([]string, len(visible))
		for i, chain := range chains {
			cells[i] = formatValue(chain.GetSlow(row))
		}
		fmt.Println(strings.Join(cells, "\t"))
	}
}

func formatValue(v sqlvalue.Value) string {
	switch v.Kind() {
	case sqlvalue.KindNull:
		return "NULL"
	case sqlvalue.KindLong:
		l, _ := v.AsLong()
		return fmt.Sprintf("%d", l)
	case sqlvalue.KindDouble:
		d, _ := v.AsDouble()
		return fmt.Sprintf("%g", d)
	case sqlvalue.KindString:
		s, _ := v.AsString()
		return s
	default:
		return fmt.Sprintf("%v", v)
	}
}
