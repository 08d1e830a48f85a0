package sqlvalue

import "testing"

func TestCompareNullSortsFirst(t *testing.T) {
	if got := Compare(Null, Long(0)); got != CmpLess {
		t.Fatalf("Compare(Null, 0) = %v, want CmpLess", got)
	}
	if got := Compare(Long(0), Null); got != CmpGreater {
		t.Fatalf("Compare(0, Null) = %v, want CmpGreater", got)
	}
	if got := Compare(Null, Null); got != CmpEqual {
		t.Fatalf("Compare(Null, Null) = %v, want CmpEqual", got)
	}
}

func TestCompareNumericCrossKind(t *testing.T) {
	cases := []struct {
		a, b Value
		want CmpResult
	}{
		{Long(3), Double(3.0), CmpEqual},
		{Long(3), Double(3.5), CmpLess},
		{Double(4.5), Long(4), CmpGreater},
	}
	for _, c := range cases {
		if got := Compare(c.a, c.b); got != c.want {
			t.Errorf("Compare(%v, %v) = %v, want %v", c.a, c.b, got, c.want)
		}
	}
}

func TestCompareStrings(t *testing.T) {
	if got := Compare(Str("abc"), Str("abd")); got != CmpLess {
		t.Fatalf("Compare(abc, abd) = %v, want CmpLess", got)
	}
	if got := Compare(Str("x"), Str("x")); got != CmpEqual {
		t.Fatalf("Compare(x, x) = %v, want CmpEqual", got)
	}
}

func TestCompareBytes(t *testing.T) {
	if got := Compare(Bytes([]byte{1, 2}), Bytes([]byte{1, 3})); got != CmpLess {
		t.Fatalf("Compare bytes = %v, want CmpLess", got)
	}
}

func TestCompareIncomparable(t *testing.T) {
	if got := Compare(Long(1), Str("1")); got != CmpIncomparable {
		t.Fatalf("Compare(Long, String) = %v, want CmpIncomparable", got)
	}
}

func TestIsIntegerRepresentable(t *testing.T) {
	if !IsIntegerRepresentable(3.0) {
		t.Fatal("3.0 should be integer-representable")
	}
	if IsIntegerRepresentable(3.5) {
		t.Fatal("3.5 should not be integer-representable")
	}
}

func TestIsExactFloat64(t *testing.T) {
	if !IsExactFloat64(1 << 40) {
		t.Fatal("1<<40 should round-trip exactly through float64")
	}
	if IsExactFloat64(1<<63 - 1) {
		t.Fatal("max int64 should not round-trip exactly through float64")
	}
}
