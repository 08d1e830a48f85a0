package column

import (
	"testing"

	"github.com/rowspace/tracedb/internal/rowmap"
	"github.com/rowspace/tracedb/internal/sqlvalue"
)

func TestIDStorageEq(t *testing.T) {
	s := NewIDStorage(1000)
	r := s.SearchValidated(Eq, sqlvalue.Long(42), rowmap.NewRange(0, 1000))
	if r.Size() != 1 {
		t.Fatalf("Size() = %d, want 1", r.Size())
	}
	if !r.Contains(42) {
		t.Fatal("expected row 42 to be the sole member")
	}
}

func TestIDStorageSingleSearch(t *testing.T) {
	s := NewIDStorage(1000)
	if got := s.SingleSearch(Eq, sqlvalue.Long(42), 42); got != Match {
		t.Fatalf("SingleSearch = %v, want Match", got)
	}
	if got := s.SingleSearch(Eq, sqlvalue.Long(42), 43); got != NoMatch {
		t.Fatalf("SingleSearch = %v, want NoMatch", got)
	}
}

func TestIDStorageValidateOutOfRange(t *testing.T) {
	s := NewIDStorage(1000)
	if got := s.ValidateSearchConstraints(Lt, sqlvalue.Long(-5)); got != NoRowsMatch {
		t.Fatalf("ValidateSearchConstraints(Lt, -5) = %v, want NoRowsMatch", got)
	}
	if got := s.ValidateSearchConstraints(Eq, sqlvalue.Long(-5)); got != NoRowsMatch {
		t.Fatalf("ValidateSearchConstraints(Eq, -5) = %v, want NoRowsMatch", got)
	}
	if got := s.ValidateSearchConstraints(IsNull, sqlvalue.Null); got != NoRowsMatch {
		t.Fatalf("ValidateSearchConstraints(IsNull, Null) = %v, want NoRowsMatch", got)
	}
	if got := s.ValidateSearchConstraints(IsNotNull, sqlvalue.Null); got != AllRowsMatch {
		t.Fatalf("ValidateSearchConstraints(IsNotNull, Null) = %v, want AllRowsMatch", got)
	}
}

func TestIDStorageNeComplement(t *testing.T) {
	s := NewIDStorage(10)
	r := s.SearchValidated(Ne, sqlvalue.Long(3), rowmap.NewRange(0, 10))
	for i := uint32(0); i < 10; i++ {
		want := i != 3
		if got := r.Contains(i); got != want {
			t.Errorf("Contains(%d) = %v, want %v", i, got, want)
		}
	}
}
