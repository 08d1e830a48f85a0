package rowmap

import (
	"reflect"
	"testing"

	"github.com/rowspace/tracedb/internal/bitvector"
)

func TestRangeSizeAndBounds(t *testing.T) {
	r := NewRange(5, 10)
	if got := r.Size(); got != 5 {
		t.Fatalf("Size() = %d, want 5", got)
	}
	first, last, ok := r.Bounds()
	if !ok || first != 5 || last != 9 {
		t.Fatalf("Bounds() = (%d,%d,%v), want (5,9,true)", first, last, ok)
	}
}

func TestEmptyRangeBounds(t *testing.T) {
	r := NewRange(5, 5)
	if _, _, ok := r.Bounds(); ok {
		t.Fatal("expected empty range to report ok=false")
	}
}

func TestToIndexVectorFromRange(t *testing.T) {
	r := NewRange(2, 5)
	want := []uint32{2, 3, 4}
	if got := r.ToIndexVector(); !reflect.DeepEqual(got, want) {
		t.Fatalf("ToIndexVector() = %v, want %v", got, want)
	}
}

func TestBitVectorRowMap(t *testing.T) {
	bv := bitvector.New(8)
	bv.Set(1)
	bv.Set(4)
	r := NewBitVector(bv)
	if got := r.Size(); got != 2 {
		t.Fatalf("Size() = %d, want 2", got)
	}
	if !r.Contains(1) || !r.Contains(4) || r.Contains(2) {
		t.Fatal("Contains() mismatch")
	}
}

func TestIndexVectorContains(t *testing.T) {
	r := NewIndexVector([]uint32{3, 7, 9})
	if !r.Contains(7) || r.Contains(8) {
		t.Fatal("Contains() mismatch for index vector")
	}
}

func TestIntersectRange(t *testing.T) {
	r := NewRange(0, 100)
	got := r.Intersect(20, 30)
	if got.Size() != 10 {
		t.Fatalf("Intersect Size() = %d, want 10", got.Size())
	}

	iv := NewIndexVector([]uint32{1, 5, 10, 50})
	got2 := iv.Intersect(5, 11)
	want := []uint32{5, 10}
	if got2Vec := got2.ToIndexVector(); !reflect.DeepEqual(got2Vec, want) {
		t.Fatalf("Intersect on index vector = %v, want %v", got2Vec, want)
	}
}

func TestIterateStopsEarly(t *testing.T) {
	r := NewRange(0, 10)
	var seen []uint32
	r.Iterate(func(row uint32) bool {
		seen = append(seen, row)
		return row < 3
	})
	want := []uint32{0, 1, 2, 3}
	if !reflect.DeepEqual(seen, want) {
		t.Fatalf("Iterate() visited %v, want %v", seen, want)
	}
}

func TestTokensFromIndexVectorRoundTrip(t *testing.T) {
	idx := []uint32{4, 2, 9}
	tokens := NewTokensFromIndexVector(idx)
	if tokens.State != Monotonic {
		t.Fatal("expected freshly seeded tokens to be tagged Monotonic")
	}
	if got := tokens.ToIndexVector(); !reflect.DeepEqual(got, idx) {
		t.Fatalf("ToIndexVector() = %v, want %v", got, idx)
	}
}

func TestIsSortedAscending(t *testing.T) {
	sorted := Tokens{Items: []Token{{Index: 1}, {Index: 2}, {Index: 3}}}
	if !sorted.IsSortedAscending() {
		t.Fatal("expected strictly increasing tokens to report sorted")
	}
	unsorted := Tokens{Items: []Token{{Index: 2}, {Index: 1}}}
	if unsorted.IsSortedAscending() {
		t.Fatal("expected decreasing tokens to report not sorted")
	}
}

func TestStableSortTokensByPreservesPayloadOrderOnTies(t *testing.T) {
	values := map[uint32]int{0: 5, 1: 5, 2: 1}
	tokens := []Token{{Index: 0, Payload: 0}, {Index: 1, Payload: 1}, {Index: 2, Payload: 2}}
	StableSortTokensBy(tokens, false, func(a, b uint32) bool { return values[a] < values[b] })
	if tokens[0].Index != 2 {
		t.Fatalf("expected smallest value first, got %+v", tokens)
	}
	if tokens[1].Payload != 0 || tokens[2].Payload != 1 {
		t.Fatalf("expected stable tie order preserved, got %+v", tokens)
	}
}
