package column

import (
	"testing"

	"github.com/rowspace/tracedb/internal/rowmap"
	"github.com/rowspace/tracedb/internal/sqlvalue"
)

func TestSetIDEqFound(t *testing.T) {
	s := NewSetIDStorage([]uint32{0, 0, 0, 3, 3, 5, 6, 6, 7})
	r := s.SearchValidated(Eq, sqlvalue.Long(3), rowmap.NewRange(0, 9))
	if got := r.ToIndexVector(); len(got) != 2 || got[0] != 3 || got[1] != 4 {
		t.Fatalf("Eq(3) = %v, want [3 4]", got)
	}
}

func TestSetIDEqNotFound(t *testing.T) {
	s := NewSetIDStorage([]uint32{0, 0, 0, 3, 3, 5, 6, 6, 7})
	r := s.SearchValidated(Eq, sqlvalue.Long(4), rowmap.NewRange(0, 9))
	if r.Size() != 0 {
		t.Fatalf("Eq(4) size = %d, want 0", r.Size())
	}
}

func TestSetIDNe(t *testing.T) {
	s := NewSetIDStorage([]uint32{0, 0, 3, 3})
	r := s.SearchValidated(Ne, sqlvalue.Long(0), rowmap.NewRange(0, 4))
	want := map[uint32]bool{2: true, 3: true}
	for i := uint32(0); i < 4; i++ {
		if r.Contains(i) != want[i] {
			t.Errorf("Contains(%d) = %v, want %v", i, r.Contains(i), want[i])
		}
	}
}
