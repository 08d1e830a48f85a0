package column

import (
	"sort"

	"github.com/rowspace/tracedb/internal/bitvector"
	"github.com/rowspace/tracedb/internal/rowmap"
	"github.com/rowspace/tracedb/internal/sqlvalue"
)

// ValueAt resolves the value a chain presents at a given row. Every layer
// supplies one (directly for a terminal storage, by delegating through its
// child for an overlay); the generic helpers below implement StableSort,
// Distinct, MinElement and MaxElement once in terms of it, since those four
// operations have the same algorithm at every layer and differ only in
// where the value comes from.
type ValueAt func(row uint32) sqlvalue.Value

// GenericIndexSearch filters tokens in place using a per-row predicate.
func GenericIndexSearch(tokens *rowmap.Tokens, matches func(row uint32) bool) {
	out := tokens.Items[:0]
	for _, tok := range tokens.Items {
		if matches(tok.Index) {
			out = append(out, tok)
		}
	}
	tokens.Items = out
}

// GenericSearchLinear runs a per-row predicate over the bounding range and
// returns a bit vector RowMap of length r.end (bits below r's start are
// left clear, matching the search_validated contract), intersected with r.
func GenericSearchLinear(r rowmap.RowMap, matches func(row uint32) bool) rowmap.RowMap {
	_, last, ok := r.Bounds()
	if !ok {
		return rowmap.Empty()
	}
	bv := bitvector.New(int(last) + 1)
	r.Iterate(func(row uint32) bool {
		if matches(row) {
			bv.Set(int(row))
		}
		return true
	})
	return rowmap.NewBitVector(bv)
}

// GenericStableSort stable-sorts tokens by valueAt(token.Index), with NULL
// sorting strictly before any non-null value.
func GenericStableSort(tokens []rowmap.Token, desc bool, valueAt ValueAt) {
	sort.SliceStable(tokens, func(i, j int) bool {
		a, b := valueAt(tokens[i].Index), valueAt(tokens[j].Index)
		cmp := sqlvalue.Compare(a, b)
		if desc {
			return cmp == sqlvalue.CmpGreater
		}
		return cmp == sqlvalue.CmpLess
	})
}

// GenericDistinct removes tokens whose value has already been seen at an
// earlier position.
func GenericDistinct(tokens *rowmap.Tokens, valueAt ValueAt) {
	seen := make(map[distinctKey]struct{}, len(tokens.Items))
	out := tokens.Items[:0]
	for _, tok := range tokens.Items {
		key := keyFor(valueAt(tok.Index))
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, tok)
	}
	tokens.Items = out
}

type distinctKey struct {
	kind sqlvalue.Kind
	i    int64
	f    float64
	s    string
}

func keyFor(v sqlvalue.Value) distinctKey {
	k := distinctKey{kind: v.Kind()}
	switch v.Kind() {
	case sqlvalue.KindLong:
		k.i, _ = v.AsLong()
	case sqlvalue.KindDouble:
		k.f, _ = v.AsDouble()
	case sqlvalue.KindString:
		k.s, _ = v.AsString()
	case sqlvalue.KindBytes:
		b, _ := v.AsBytes()
		k.s = string(b)
	}
	return k
}

// GenericMinElement returns the token whose value is minimal, ties broken
// by earliest position in tokens.
func GenericMinElement(tokens rowmap.Tokens, valueAt ValueAt) (rowmap.Token, bool) {
	if len(tokens.Items) == 0 {
		return rowmap.Token{}, false
	}
	best := tokens.Items[0]
	bestVal := valueAt(best.Index)
	for _, tok := range tokens.Items[1:] {
		v := valueAt(tok.Index)
		if sqlvalue.Compare(v, bestVal) == sqlvalue.CmpLess {
			best, bestVal = tok, v
		}
	}
	return best, true
}

// GenericMaxElement returns the token whose value is maximal, ties broken
// by earliest position in tokens.
func GenericMaxElement(tokens rowmap.Tokens, valueAt ValueAt) (rowmap.Token, bool) {
	if len(tokens.Items) == 0 {
		return rowmap.Token{}, false
	}
	best := tokens.Items[0]
	bestVal := valueAt(best.Index)
	for _, tok := range tokens.Items[1:] {
		v := valueAt(tok.Index)
		if sqlvalue.Compare(v, bestVal) == sqlvalue.CmpGreater {
			best, bestVal = tok, v
		}
	}
	return best, true
}

// GenericOrderedIndexSearch binary-searches oi.Indices using valueAt as the
// comparator, returning the surviving sub-range of positions within
// oi.Indices for a monotonic op. Not valid for Ne/Glob/Regex (callers must
// reject those before calling this).
func GenericOrderedIndexSearch(op FilterOp, value sqlvalue.Value, oi rowmap.OrderedIndices, valueAt ValueAt) (lo, hi int) {
	n := len(oi.Indices)
	// lowerBound: first position whose value >= value
	lowerBound := sort.Search(n, func(i int) bool {
		return sqlvalue.Compare(valueAt(oi.Indices[i]), value) != sqlvalue.CmpLess
	})
	// upperBound: first position whose value > value
	upperBound := sort.Search(n, func(i int) bool {
		return sqlvalue.Compare(valueAt(oi.Indices[i]), value) == sqlvalue.CmpGreater
	})

	switch op {
	case Eq:
		return lowerBound, upperBound
	case Lt:
		return 0, lowerBound
	case Le:
		return 0, upperBound
	case Gt:
		return upperBound, n
	case Ge:
		return lowerBound, n
	case IsNull:
		// Nulls sort first; find the end of the null run.
		end := sort.Search(n, func(i int) bool {
			return !valueAt(oi.Indices[i]).IsNull()
		})
		return 0, end
	case IsNotNull:
		start := sort.Search(n, func(i int) bool {
			return !valueAt(oi.Indices[i]).IsNull()
		})
		return start, n
	default:
		return 0, 0
	}
}
