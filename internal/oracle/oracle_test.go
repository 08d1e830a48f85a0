package oracle

import (
	"context"
	"testing"

	"github.com/rowspace/tracedb/internal/column"
	"github.com/rowspace/tracedb/internal/query"
	"github.com/rowspace/tracedb/internal/sqlvalue"
)

func fixture() *Scenario {
	return &Scenario{Rows: []Row{
		{"id": 0, "value": 30, "name": "alpha"},
		{"id": 1, "value": 10, "name": "bravo"},
		{"id": 2, "value": 20, "name": nil},
		{"id": 3, "value": 10, "name": "delta"},
		{"id": 4, "value": 40, "name": "echo"},
	}}
}

func runBoth(t *testing.T, s *Scenario, sqlText string, sqlArgs []any, q *query.Query) {
	t.Helper()
	ctx := context.Background()

	db, err := s.OracleDB(ctx)
	if err != nil {
		t.Fatalf("OracleDB() error = %v", err)
	}
	defer db.Close()

	want, err := RunOracle(ctx, db, sqlText, sqlArgs...)
	if err != nil {
		t.Fatalf("RunOracle() error = %v", err)
	}

	tbl := s.EngineTable()
	got, err := RunEngine(ctx, tbl, q)
	if err != nil {
		t.Fatalf("RunEngine() error = %v", err)
	}

	if ok, msg := Diff(got, want); !ok {
		t.Fatalf("engine result diverges from oracle: %s\n got=%v\nwant=%v", msg, got, want)
	}
}

func TestOracleEqualityFilter(t *testing.T) {
	runBoth(t, fixture(),
		`SELECT id, value, name FROM fixture WHERE value = ? ORDER BY id`, []any{10},
		&query.Query{Constraints: []query.Constraint{{ColIdx: 1, Op: column.Eq, Value: sqlvalue.Long(10)}}},
	)
}

func TestOracleRangeAndSortDesc(t *testing.T) {
	limit := int64(100)
	runBoth(t, fixture(),
		`SELECT id, value, name FROM fixture WHERE value > ? ORDER BY value DESC, id ASC LIMIT ?`,
		[]any{15, 100},
		&query.Query{
			Constraints: []query.Constraint{{ColIdx: 1, Op: column.Gt, Value: sqlvalue.Long(15)}},
			Orders:      []query.Order{{ColIdx: 1, Desc: true}},
			OrderType:   query.Sort,
			Limit:       &limit,
		},
	)
}

func TestOracleNullHandling(t *testing.T) {
	runBoth(t, fixture(),
		`SELECT id, value, name FROM fixture WHERE name IS NULL ORDER BY id`, nil,
		&query.Query{Constraints: []query.Constraint{{ColIdx: 2, Op: column.IsNull}}},
	)
}

func TestOracleLimitOffset(t *testing.T) {
	limit, offset := int64(2), int64(1)
	runBoth(t, fixture(),
		`SELECT id, value, name FROM fixture ORDER BY value ASC, id ASC LIMIT ? OFFSET ?`,
		[]any{2, 1},
		&query.Query{
			Orders:    []query.Order{{ColIdx: 1, Desc: false}},
			OrderType: query.Sort,
			Limit:     &limit,
			Offset:    &offset,
		},
	)
}

func TestOracleIDEquality(t *testing.T) {
	runBoth(t, fixture(),
		`SELECT id, value, name FROM fixture WHERE id = ? ORDER BY id`, []any{3},
		&query.Query{Constraints: []query.Constraint{{ColIdx: 0, Op: column.Eq, Value: sqlvalue.Long(3)}}},
	)
}
