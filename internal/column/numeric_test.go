package column

import (
	"testing"

	"github.com/rowspace/tracedb/internal/rowmap"
	"github.com/rowspace/tracedb/internal/sqlvalue"
)

func TestNumericSortedEq(t *testing.T) {
	s := NewNumericStorage([]int64{1, 3, 3, 5, 7, 9}, true)
	r := s.SearchValidated(Eq, sqlvalue.Long(3), rowmap.NewRange(0, 6))
	if got := r.ToIndexVector(); len(got) != 2 || got[0] != 1 || got[1] != 2 {
		t.Fatalf("SearchValidated(Eq, 3) = %v, want [1 2]", got)
	}
}

func TestNumericUnsortedLinear(t *testing.T) {
	s := NewNumericStorage([]int64{5, 3, 8, 1, 7}, false)
	r := s.SearchValidated(Gt, sqlvalue.Long(4), rowmap.NewRange(0, 5))
	want := map[uint32]bool{0: true, 2: true, 4: true}
	for i := uint32(0); i < 5; i++ {
		if r.Contains(i) != want[i] {
			t.Errorf("Contains(%d) = %v, want %v", i, r.Contains(i), want[i])
		}
	}
}

func TestNumericDoubleStorageAcceptsLong(t *testing.T) {
	s := NewNumericStorage([]float64{1.5, 2.5, 3.5}, true)
	if got := s.SingleSearch(Gt, sqlvalue.Long(2), 1); got != Match {
		t.Fatalf("SingleSearch = %v, want Match", got)
	}
}

func TestNumericMinMaxElement(t *testing.T) {
	s := NewNumericStorage([]int64{5, 3, 8, 1, 7}, false)
	tokens := rowmap.NewTokensFromIndexVector([]uint32{0, 1, 2, 3, 4})
	minTok, ok := s.MinElement(tokens)
	if !ok || minTok.Index != 3 {
		t.Fatalf("MinElement() index = %d, want 3", minTok.Index)
	}
	maxTok, ok := s.MaxElement(tokens)
	if !ok || maxTok.Index != 2 {
		t.Fatalf("MaxElement() index = %d, want 2", maxTok.Index)
	}
}

func TestNumericStableSortAscendingDescending(t *testing.T) {
	s := NewNumericStorage([]int64{5, 3, 8, 1, 7}, false)
	tokens := []rowmap.Token{{Index: 0}, {Index: 1}, {Index: 2}, {Index: 3}, {Index: 4}}
	s.StableSort(tokens, false)
	want := []uint32{3, 1, 0, 4, 2}
	for i, tok := range tokens {
		if tok.Index != want[i] {
			t.Fatalf("ascending sort = %v, want order %v", tokens, want)
		}
	}
	s.StableSort(tokens, true)
	wantDesc := []uint32{2, 4, 0, 1, 3}
	for i, tok := range tokens {
		if tok.Index != wantDesc[i] {
			t.Fatalf("descending sort = %v, want order %v", tokens, wantDesc)
		}
	}
}

func TestNumericValidateNonNumericRHS(t *testing.T) {
	s := NewNumericStorage([]int64{1, 2, 3}, true)
	if got := s.ValidateSearchConstraints(Eq, sqlvalue.Str("x")); got != NoRowsMatch {
		t.Fatalf("ValidateSearchConstraints(Eq, string) = %v, want NoRowsMatch", got)
	}
}
