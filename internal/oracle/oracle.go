// Package oracle runs identical logical queries against this engine and
// against modernc.org/sqlite, diffing the two row sets. It is a golden-
// comparison harness, not a SQL front-end: each scenario hand-builds both
// a SQL string (for the oracle) and an equivalent query.Query (for this
// engine's Table.QueryToRowMap), grounded on the teacher's comparison-test
// style (core/sqlite/comparison_test.go) but run purely in Go, with no
// CGO driver on either side.
package oracle

import (
	"context"
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite"

	"github.com/rowspace/tracedb/internal/query"
	"github.com/rowspace/tracedb/internal/runtime"
	"github.com/rowspace/tracedb/internal/sqlvalue"
	"github.com/rowspace/tracedb/internal/stringpool"
	"github.com/rowspace/tracedb/internal/table"
)

// Row is one row of scenario fixture data, keyed by column name. Values
// must be int (id, value), string (name), or nil.
type Row map[string]any

// Scenario describes a fixed three-column fixture table (an integer id,
// an integer value, and a nullable text name) loaded identically into
// both engines.
type Scenario struct {
	Rows []Row
}

// OracleDB opens an in-memory modernc.org/sqlite database and creates the
// scenario's fixture table.
func (s *Scenario) OracleDB(ctx context.Context) (*sql.DB, error) {
	db, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		return nil, err
	}
	if _, err := db.ExecContext(ctx, `CREATE TABLE fixture (id INTEGER PRIMARY KEY, value INTEGER, name TEXT)`); err != nil {
		db.Close()
		return nil, err
	}
	for _, r := range s.Rows {
		if _, err := db.ExecContext(ctx, `INSERT INTO fixture (id, value, name) VALUES (?, ?, ?)`,
			r["id"], r["value"], r["name"]); err != nil {
			db.Close()
			return nil, err
		}
	}
	return db, nil
}

// EngineTable builds this engine's Table from the same fixture rows via
// the runtime builder (§4.9), exercising the same promotion/id-detection
// path a real ingest would.
func (s *Scenario) EngineTable() *table.Table {
	pool := stringpool.New()
	b := runtime.NewBuilder([]string{"id", "value", "name"}, pool)
	for _, r := range s.Rows {
		mustAppendInt(b, 0, r["id"])
		mustAppendInt(b, 1, r["value"])
		mustAppendString(b, 2, r["name"])
	}
	return b.Finalize()
}

func mustAppendInt(b *runtime.Builder, colIdx int, v any) {
	if v == nil {
		b.AppendNull(colIdx)
		return
	}
	if err := b.AppendInt(colIdx, int64(v.(int))); err != nil {
		panic(err)
	}
}

func mustAppendString(b *runtime.Builder, colIdx int, v any) {
	if v == nil {
		b.AppendNull(colIdx)
		return
	}
	if err := b.AppendString(colIdx, v.(string)); err != nil {
		panic(err)
	}
}

// RowSet is a comparable row set: each row is the ordered (id, value,
// name) tuple, rendered through sqlvalue so NULL/int/string compare the
// same way regardless of which engine produced them.
type RowSet [][3]sqlvalue.Value

// RunOracle executes sqlText (with args) against db and returns the
// (id, value, name) rows it produces, in result order.
func RunOracle(ctx context.Context, db *sql.DB, sqlText string, args ...any) (RowSet, error) {
	rows, err := db.QueryContext(ctx, sqlText, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out RowSet
	for rows.Next() {
		var id, value sql.NullInt64
		var name sql.NullString
		if err := rows.Scan(&id, &value, &name); err != nil {
			return nil, err
		}
		out = append(out, [3]sqlvalue.Value{
			nullableLong(id),
			nullableLong(value),
			nullableString(name),
		})
	}
	return out, rows.Err()
}

func nullableLong(v sql.NullInt64) sqlvalue.Value {
	if !v.Valid {
		return sqlvalue.Null
	}
	return sqlvalue.Long(v.Int64)
}

func nullableString(v sql.NullString) sqlvalue.Value {
	if !v.Valid {
		return sqlvalue.Null
	}
	return sqlvalue.Str(v.String)
}

// RunEngine executes q against tbl and returns the (id, value, name) rows
// it produces, in result order.
func RunEngine(ctx context.Context, tbl *table.Table, q *query.Query) (RowSet, error) {
	rm, err := tbl.QueryToRowMap(ctx, q)
	if err != nil {
		return nil, err
	}
	idChain := tbl.Columns[0].Chain()
	valueChain := tbl.Columns[1].Chain()
	nameChain := tbl.Columns[2].Chain()

	var out RowSet
	for _, row := range rm.ToIndexVector() {
		out = append(out, [3]sqlvalue.Value{
			idChain.GetSlow(row),
			valueChain.GetSlow(row),
			nameChain.GetSlow(row),
		})
	}
	return out, nil
}

// Diff reports whether got and want agree row-for-row, column-for-column;
// on disagreement it returns a message identifying the first mismatch.
func Diff(got, want RowSet) (ok bool, message string) {
	if len(got) != len(want) {
		return false, fmt.Sprintf("row count: got %d, want %d", len(got), len(want))
	}
	for i := range got {
		for c := 0; c < 3; c++ {
			if sqlvalue.Compare(got[i][c], want[i][c]) != sqlvalue.CmpEqual {
				return false, fmt.Sprintf("row %d col %d: got %v, want %v", i, c, got[i][c], want[i][c])
			}
		}
	}
	return true, ""
}
