package bitvector

import (
	"reflect"
	"testing"
)

func TestSetGetClear(t *testing.T) {
	bv := New(10)
	bv.Set(3)
	bv.Set(7)
	for i := 0; i < 10; i++ {
		want := i == 3 || i == 7
		if got := bv.Get(i); got != want {
			t.Errorf("Get(%d) = %v, want %v", i, got, want)
		}
	}
	bv.Clear(3)
	if bv.Get(3) {
		t.Fatal("expected bit 3 cleared")
	}
}

func TestCountSetBitsAndRank(t *testing.T) {
	bv := FromBits([]bool{true, true, false, true, false, false, true})
	if got := bv.CountSetBits(); got != 4 {
		t.Fatalf("CountSetBits() = %d, want 4", got)
	}
	cases := []struct {
		i    int
		want int
	}{
		{0, 0}, {1, 1}, {2, 2}, {3, 2}, {4, 3}, {7, 4},
	}
	for _, c := range cases {
		if got := bv.Rank(c.i); got != c.want {
			t.Errorf("Rank(%d) = %d, want %d", c.i, got, c.want)
		}
	}
}

func TestIndexOfNthSet(t *testing.T) {
	bv := FromBits([]bool{false, true, false, true, true, false})
	cases := []struct {
		k    int
		want int
	}{
		{0, 1}, {1, 3}, {2, 4}, {3, -1},
	}
	for _, c := range cases {
		if got := bv.IndexOfNthSet(c.k); got != c.want {
			t.Errorf("IndexOfNthSet(%d) = %d, want %d", c.k, got, c.want)
		}
	}
}

func TestSetBitIndices(t *testing.T) {
	bv := FromBits([]bool{true, false, true, true})
	want := []int{0, 2, 3}
	if got := bv.SetBitIndices(); !reflect.DeepEqual(got, want) {
		t.Fatalf("SetBitIndices() = %v, want %v", got, want)
	}
}

func TestIntersectRange(t *testing.T) {
	bv := FromBits([]bool{true, true, true, true, true})
	bv.IntersectRange(1, 3)
	want := []int{1, 2}
	if got := bv.SetBitIndices(); !reflect.DeepEqual(got, want) {
		t.Fatalf("SetBitIndices() after IntersectRange = %v, want %v", got, want)
	}
}

func TestCrossWordBoundary(t *testing.T) {
	bv := New(130)
	for i := 0; i < 130; i += 7 {
		bv.Set(i)
	}
	count := 0
	for i := 0; i < 130; i += 7 {
		count++
	}
	if got := bv.CountSetBits(); got != count {
		t.Fatalf("CountSetBits() = %d, want %d", got, count)
	}
	if got := bv.Rank(130); got != count {
		t.Fatalf("Rank(130) = %d, want %d", got, count)
	}
}

func TestUpdateSetBits(t *testing.T) {
	bv := FromBits([]bool{true, false, true, true, false, true})
	child := FromBits([]bool{true, false, true, true})
	bv.UpdateSetBits(child)
	want := []int{0, 3, 5}
	if got := bv.SetBitIndices(); !reflect.DeepEqual(got, want) {
		t.Fatalf("SetBitIndices() after UpdateSetBits = %v, want %v", got, want)
	}
}

func TestClone(t *testing.T) {
	bv := FromBits([]bool{true, false, true})
	clone := bv.Clone()
	clone.Set(1)
	if bv.Get(1) {
		t.Fatal("mutating clone must not affect original")
	}
}
