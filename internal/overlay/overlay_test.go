package overlay

import (
	"testing"

	"github.com/rowspace/tracedb/internal/bitvector"
	"github.com/rowspace/tracedb/internal/column"
	"github.com/rowspace/tracedb/internal/rowmap"
	"github.com/rowspace/tracedb/internal/sqlvalue"
)

// TestNullRankTranslation reproduces the spec's scenario C: a 10-row
// nullable int column whose non-null mask is 1101001110, child storage
// [5,7,3,9,2,1]. Querying value > 4 must re-project the child's matches
// {0,1,3} back to overlay rows {0,1,6}, the positions of the 0th, 1st
// and 3rd set bits of the mask.
func TestNullRankTranslation(t *testing.T) {
	mask := bitvector.FromBits([]bool{true, true, false, true, false, false, true, true, true, false})
	child := column.NewNumericStorage([]int64{5, 7, 3, 9, 2, 1}, false)
	o := &Null{Child: child, NonNull: mask}

	r := o.SearchValidated(column.Gt, sqlvalue.Long(4), rowmap.NewRange(0, 10))
	want := map[uint32]bool{0: true, 1: true, 6: true}
	for i := uint32(0); i < 10; i++ {
		if r.Contains(i) != want[i] {
			t.Errorf("Contains(%d) = %v, want %v", i, r.Contains(i), want[i])
		}
	}
}

func TestNullGetSlow(t *testing.T) {
	mask := bitvector.FromBits([]bool{true, false, true})
	child := column.NewNumericStorage([]int64{10, 20}, false)
	o := &Null{Child: child, NonNull: mask}

	got, _ := o.GetSlow(0).AsLong()
	if got != 10 {
		t.Fatalf("GetSlow(0) = %d, want 10", got)
	}
	if !o.GetSlow(1).IsNull() {
		t.Fatalf("GetSlow(1) should be null")
	}
	got2, _ := o.GetSlow(2).AsLong()
	if got2 != 20 {
		t.Fatalf("GetSlow(2) = %d, want 20", got2)
	}
}

func TestNullIsNullIsNotNull(t *testing.T) {
	mask := bitvector.FromBits([]bool{true, true, false, true, false, false, true, true, true, false})
	child := column.NewNumericStorage([]int64{5, 7, 3, 9, 2, 1}, false)
	o := &Null{Child: child, NonNull: mask}

	r := o.SearchValidated(column.IsNull, sqlvalue.Null, rowmap.NewRange(0, 10))
	want := map[uint32]bool{2: true, 4: true, 5: true, 9: true}
	for i := uint32(0); i < 10; i++ {
		if r.Contains(i) != want[i] {
			t.Errorf("IsNull Contains(%d) = %v, want %v", i, r.Contains(i), want[i])
		}
	}
}

// TestDenseNullIsNull reproduces scenario D: the same mask stored dense;
// IsNull must return rows {2,4,5,9} exactly, independent of child content.
func TestDenseNullIsNull(t *testing.T) {
	mask := bitvector.FromBits([]bool{false, false, true, false, true, true, false, false, false, true})
	child := column.NewNumericStorage([]int64{5, 7, 0, 3, 0, 0, 9, 2, 1, 0}, false)
	o := &DenseNull{Child: child, NullBits: mask}

	r := o.SearchValidated(column.IsNull, sqlvalue.Null, rowmap.NewRange(0, 10))
	want := map[uint32]bool{2: true, 4: true, 5: true, 9: true}
	for i := uint32(0); i < 10; i++ {
		if r.Contains(i) != want[i] {
			t.Errorf("Contains(%d) = %v, want %v", i, r.Contains(i), want[i])
		}
	}
}

func TestRangeShift(t *testing.T) {
	child := column.NewNumericStorage([]int64{0, 1, 2, 9, 8, 7, 6}, false)
	o := &Range{Child: child, Start: 3, End: 7}
	r := o.SearchValidated(column.Gt, sqlvalue.Long(7), rowmap.NewRange(0, 4))
	want := map[uint32]bool{0: true, 1: true}
	for i := uint32(0); i < 4; i++ {
		if r.Contains(i) != want[i] {
			t.Errorf("Contains(%d) = %v, want %v", i, r.Contains(i), want[i])
		}
	}
}

func TestSelectorMapsThroughBitmap(t *testing.T) {
	bitmap := bitvector.FromBits([]bool{false, true, false, true, true, false})
	child := column.NewNumericStorage([]int64{10, 20, 30, 40, 50, 60}, false)
	o := &Selector{Child: child, Bitmap: bitmap}

	if o.Size() != 3 {
		t.Fatalf("Size() = %d, want 3", o.Size())
	}
	got, _ := o.GetSlow(0).AsLong()
	if got != 20 {
		t.Fatalf("GetSlow(0) = %d, want 20 (child row 1)", got)
	}
	got, _ = o.GetSlow(2).AsLong()
	if got != 50 {
		t.Fatalf("GetSlow(2) = %d, want 50 (child row 4)", got)
	}
}

func TestArrangementMonotonicPushdown(t *testing.T) {
	child := column.NewNumericStorage([]int64{1, 3, 5, 7, 9}, true)
	o := &Arrangement{Child: child, Indices: []uint32{0, 1, 2, 3, 4}, State: rowmap.Monotonic}

	r := o.SearchValidated(column.Ge, sqlvalue.Long(5), rowmap.NewRange(0, 5))
	want := map[uint32]bool{2: true, 3: true, 4: true}
	for i := uint32(0); i < 5; i++ {
		if r.Contains(i) != want[i] {
			t.Errorf("Contains(%d) = %v, want %v", i, r.Contains(i), want[i])
		}
	}
}

func TestArrangementDuplicateRowsDistinct(t *testing.T) {
	child := column.NewNumericStorage([]int64{100, 200}, false)
	o := &Arrangement{Child: child, Indices: []uint32{0, 1, 0, 1}, State: rowmap.NonMonotonic}
	tokens := rowmap.NewTokensFromIndexVector([]uint32{0, 1, 2, 3})
	o.Distinct(&tokens)
	if len(tokens.Items) != 2 {
		t.Fatalf("Distinct() left %d tokens, want 2", len(tokens.Items))
	}
}
