package bridge

import (
	"testing"

	"github.com/rowspace/tracedb/internal/column"
	"github.com/rowspace/tracedb/internal/query"
	"github.com/rowspace/tracedb/internal/sqlvalue"
)

func TestSchemaValidateRequiresExactlyOneID(t *testing.T) {
	s := &TableSchema{Name: "events", Columns: []ColumnSchema{
		{Name: "a", Type: column.TypeInt},
		{Name: "b", Type: column.TypeInt},
	}}
	if err := s.Validate(); err == nil {
		t.Fatal("expected error for zero id columns")
	}
	s.Columns[0].IsID = true
	s.Columns[1].IsID = true
	if err := s.Validate(); err == nil {
		t.Fatal("expected error for two id columns")
	}
	s.Columns[1].IsID = false
	if err := s.Validate(); err != nil {
		t.Fatalf("Validate() error = %v", err)
	}
	if s.IDColumnIndex() != 0 {
		t.Fatalf("IDColumnIndex() = %d, want 0", s.IDColumnIndex())
	}
}

func TestEncodeDecodeIndexStringRoundTrip(t *testing.T) {
	limit := int64(10)
	q := &query.Query{
		Constraints: []query.Constraint{
			{ColIdx: 0, Op: column.Eq, Value: sqlvalue.Long(42)},
			{ColIdx: 2, Op: column.IsNull},
		},
		Orders:    []query.Order{{ColIdx: 1, Desc: true}},
		OrderType: query.DistinctAndSort,
		ColsUsed:  0b101,
		Limit:     &limit,
	}
	s := EncodeIndexString(q)
	argv := []sqlvalue.Value{sqlvalue.Long(42), sqlvalue.Long(10)}

	got, err := DecodeIndexString(s, argv)
	if err != nil {
		t.Fatalf("DecodeIndexString() error = %v", err)
	}
	if len(got.Constraints) != 2 {
		t.Fatalf("Constraints = %v, want 2 entries", got.Constraints)
	}
	if got.Constraints[0].ColIdx != 0 || got.Constraints[0].Op != column.Eq {
		t.Fatalf("Constraints[0] = %+v", got.Constraints[0])
	}
	if v, ok := got.Constraints[0].Value.AsLong(); !ok || v != 42 {
		t.Fatalf("Constraints[0].Value = %v", got.Constraints[0].Value)
	}
	if got.Constraints[1].Op != column.IsNull {
		t.Fatalf("Constraints[1].Op = %v, want IsNull", got.Constraints[1].Op)
	}
	if len(got.Orders) != 1 || got.Orders[0].ColIdx != 1 || !got.Orders[0].Desc {
		t.Fatalf("Orders = %v", got.Orders)
	}
	if got.OrderType != query.DistinctAndSort {
		t.Fatalf("OrderType = %v", got.OrderType)
	}
	if got.ColsUsed != 0b101 {
		t.Fatalf("ColsUsed = %b, want 101", got.ColsUsed)
	}
	if got.Limit == nil || *got.Limit != 10 {
		t.Fatalf("Limit = %v, want 10", got.Limit)
	}
	if got.Offset != nil {
		t.Fatalf("Offset = %v, want nil", got.Offset)
	}
}

func TestDecodeIndexStringLimitMustBeLong(t *testing.T) {
	q := &query.Query{Limit: int64Ptr(1)}
	s := EncodeIndexString(q)
	_, err := DecodeIndexString(s, []sqlvalue.Value{sqlvalue.Str("nope")})
	if err == nil {
		t.Fatal("expected type-mismatch error for non-Long LIMIT")
	}
}

func TestValidateConstraintsRejectsBadRegex(t *testing.T) {
	q := &query.Query{Constraints: []query.Constraint{
		{ColIdx: 0, Op: column.Regex, Value: sqlvalue.Str("(unclosed")},
	}}
	if err := ValidateConstraints(q); err == nil {
		t.Fatal("expected error for invalid regex pattern")
	}
}

func TestValidateConstraintsAcceptsGoodRegex(t *testing.T) {
	q := &query.Query{Constraints: []query.Constraint{
		{ColIdx: 0, Op: column.Regex, Value: sqlvalue.Str("^foo.*bar$")},
	}}
	if err := ValidateConstraints(q); err != nil {
		t.Fatalf("ValidateConstraints() error = %v", err)
	}
}

func TestBestIndexCost(t *testing.T) {
	q := &query.Query{Constraints: []query.Constraint{
		{ColIdx: 0, Op: column.Eq, Value: sqlvalue.Long(1)},
	}}
	shapeOf := func(colIdx int) query.ColumnShape {
		return query.ColumnShape{IsID: true, RowCount: 1000}
	}
	cost, rows := BestIndexCost(q, shapeOf, 1000)
	if cost <= 0 {
		t.Fatalf("cost = %d, want > 0", cost)
	}
	if rows != 1 {
		t.Fatalf("rows = %d, want 1 (id equality narrows to one row)", rows)
	}
}

func int64Ptr(v int64) *int64 { return &v }
