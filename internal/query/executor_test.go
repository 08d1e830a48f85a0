package query

import (
	"testing"

	"github.com/rowspace/tracedb/internal/bitvector"
	"github.com/rowspace/tracedb/internal/column"
	"github.com/rowspace/tracedb/internal/rowmap"
	"github.com/rowspace/tracedb/internal/sqlvalue"
)

func TestApplyConstraintSingleRowFastPath(t *testing.T) {
	s := column.NewIDStorage(1000)
	r := rowmap.NewRange(42, 43)
	got := ApplyConstraint(s, column.Eq, sqlvalue.Long(42), r)
	if got.Size() != 1 || !got.Contains(42) {
		t.Fatalf("ApplyConstraint single-row fast path = %v, want {42}", got)
	}

	got = ApplyConstraint(s, column.Eq, sqlvalue.Long(7), r)
	if got.Size() != 0 {
		t.Fatalf("ApplyConstraint single-row mismatch = %v, want empty", got)
	}
}

func TestApplyConstraintValidateShortCircuit(t *testing.T) {
	s := column.NewIDStorage(1000)
	r := rowmap.NewRange(0, 1000)
	got := ApplyConstraint(s, column.Lt, sqlvalue.Long(-5), r)
	if got.Size() != 0 {
		t.Fatalf("ApplyConstraint(Lt, -5) = %v, want empty (NoRowsMatch)", got)
	}
}

func TestApplyConstraintIndexEquality(t *testing.T) {
	s := column.NewIDStorage(1000)
	r := rowmap.NewRange(0, 1000)
	got := ApplyConstraint(s, column.Eq, sqlvalue.Long(42), r)
	if got.Size() != 1 || !got.Contains(42) {
		t.Fatalf("ApplyConstraint(Eq, 42) = %v, want {42}", got)
	}
}

func TestUseIndexModeIndexVectorAlwaysIndex(t *testing.T) {
	r := rowmap.NewIndexVector([]uint32{1, 2, 3})
	if !useIndexMode(r) {
		t.Fatal("index vector RowMap should always select index mode")
	}
}

func TestUseIndexModeSmallSparseBitvector(t *testing.T) {
	// size well under 1024 elements should select index mode.
	bv := bitvector.New(100)
	for _, i := range []int{3, 10, 40, 41, 99} {
		bv.Set(i)
	}
	if !useIndexMode(rowmap.NewBitVector(bv)) {
		t.Fatal("expected index mode")
	}
}

// TestMinMaxShortcut reproduces spec scenario F: an unsorted ts column
// [5,3,8,1,7], orders=[(ts, desc=true)], limit=1 should identify row 2
// (value 8) via MaxElement rather than a full sort.
func TestMinMaxShortcut(t *testing.T) {
	s := column.NewNumericStorage([]int64{5, 3, 8, 1, 7}, false)
	limit := int64(1)
	q := &Query{
		Orders:    []Order{{ColIdx: 0, Desc: true}},
		OrderType: Sort,
		Limit:     &limit,
	}
	if !q.IsMinMaxShaped() {
		t.Fatal("expected query to be min/max shaped")
	}
	tokens := rowmap.NewTokensFromIndexVector([]uint32{0, 1, 2, 3, 4})
	maxTok, ok := s.MaxElement(tokens)
	if !ok || maxTok.Index != 2 {
		t.Fatalf("MaxElement = %+v, want index 2", maxTok)
	}
}
