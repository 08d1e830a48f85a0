// Package rowmap implements RowMap, the engine's external return type: a
// compact representation of a set of row indices as a range, a bit vector,
// or an index vector, along with the Token and OrderedIndices types used to
// carry caller-defined state through the column chain's index-based
// operations.
package rowmap

import (
	"fmt"
	"sort"
	"strings"

	"github.com/rowspace/tracedb/internal/bitvector"
)

// Kind tags which representation a RowMap currently holds.
type Kind uint8

const (
	KindRange Kind = iota
	KindBitVector
	KindIndexVector
)

// IndexVectorThreshold is the element count at or above which the index path
// (§4.6 step 2) materialises a bitvector instead of a sorted index vector.
// Empirical; tune for the target workload rather than treating it as load
// bearing.
const IndexVectorThreshold = 1024

// RowMap is a multiset of row indices. For sorted queries the order of the
// index vector representation is meaningful; otherwise it is immaterial.
type RowMap struct {
	kind  Kind
	start uint32
	end   uint32
	bv    *bitvector.BitVector
	idx   []uint32
}

// NewRange returns a RowMap over the half-open range [start, end).
func NewRange(start, end uint32) RowMap {
	if end < start {
		end = start
	}
	return RowMap{kind: KindRange, start: start, end: end}
}

// NewBitVector returns a RowMap backed by bv. bv is taken by reference.
func NewBitVector(bv *bitvector.BitVector) RowMap {
	return RowMap{kind: KindBitVector, bv: bv}
}

// NewIndexVector returns a RowMap backed by an explicit set of indices.
func NewIndexVector(idx []uint32) RowMap {
	return RowMap{kind: KindIndexVector, idx: idx}
}

// Empty returns the empty RowMap.
func Empty() RowMap { return NewRange(0, 0) }

// Kind reports the current representation.
func (r RowMap) Kind() Kind { return r.kind }

// Size returns the number of rows represented.
func (r RowMap) Size() int {
	switch r.kind {
	case KindRange:
		return int(r.end - r.start)
	case KindBitVector:
		return r.bv.CountSetBits()
	case KindIndexVector:
		return len(r.idx)
	default:
		return 0
	}
}

// Bounds returns [first, last] inclusive row indices covered, and ok=false
// for an empty RowMap. For a bit vector or index vector this is the min/max
// element, not the popcount.
func (r RowMap) Bounds() (first, last uint32, ok bool) {
	switch r.kind {
	case KindRange:
		if r.end <= r.start {
			return 0, 0, false
		}
		return r.start, r.end - 1, true
	case KindBitVector:
		idx := r.bv.SetBitIndices()
		if len(idx) == 0 {
			return 0, 0, false
		}
		return uint32(idx[0]), uint32(idx[len(idx)-1]), true
	case KindIndexVector:
		if len(r.idx) == 0 {
			return 0, 0, false
		}
		lo, hi := r.idx[0], r.idx[0]
		for _, v := range r.idx {
			if v < lo {
				lo = v
			}
			if v > hi {
				hi = v
			}
		}
		return lo, hi, true
	default:
		return 0, 0, false
	}
}

// ToIndexVector materialises the RowMap as a vector of indices: ascending
// for a range or bit vector, and in stored order for an index vector.
func (r RowMap) ToIndexVector() []uint32 {
	switch r.kind {
	case KindRange:
		out := make([]uint32, r.end-r.start)
		for i := range out {
			out[i] = r.start + uint32(i)
		}
		return out
	case KindBitVector:
		bits := r.bv.SetBitIndices()
		out := make([]uint32, len(bits))
		for i, b := range bits {
			out[i] = uint32(b)
		}
		return out
	case KindIndexVector:
		out := make([]uint32, len(r.idx))
		copy(out, r.idx)
		return out
	default:
		return nil
	}
}

// ToBitVector materialises the RowMap as a bit vector of the given total
// length.
func (r RowMap) ToBitVector(length int) *bitvector.BitVector {
	bv := bitvector.New(length)
	switch r.kind {
	case KindRange:
		for i := r.start; i < r.end; i++ {
			bv.Set(int(i))
		}
	case KindBitVector:
		for _, i := range r.bv.SetBitIndices() {
			bv.Set(i)
		}
	case KindIndexVector:
		for _, i := range r.idx {
			bv.Set(int(i))
		}
	}
	return bv
}

// Contains reports whether row i is a member.
func (r RowMap) Contains(i uint32) bool {
	switch r.kind {
	case KindRange:
		return i >= r.start && i < r.end
	case KindBitVector:
		return r.bv.Get(int(i))
	case KindIndexVector:
		for _, v := range r.idx {
			if v == i {
				return true
			}
		}
		return false
	default:
		return false
	}
}

// Intersect returns the intersection of r and a plain sub-range, preferring
// to stay a Range when both operands are ranges.
func (r RowMap) Intersect(start, end uint32) RowMap {
	switch r.kind {
	case KindRange:
		lo, hi := r.start, r.end
		if start > lo {
			lo = start
		}
		if end < hi {
			hi = end
		}
		return NewRange(lo, hi)
	case KindBitVector:
		bv := r.bv.Clone()
		bv.IntersectRange(int(start), int(end))
		return NewBitVector(bv)
	case KindIndexVector:
		out := make([]uint32, 0, len(r.idx))
		for _, v := range r.idx {
			if v >= start && v < end {
				out = append(out, v)
			}
		}
		return NewIndexVector(out)
	default:
		return Empty()
	}
}

// Iterate calls f once per member row, stopping early if f returns false.
// Ranges and bit vectors are walked in ascending order, index vectors in
// stored order.
func (r RowMap) Iterate(f func(row uint32) bool) {
	switch r.kind {
	case KindRange:
		for i := r.start; i < r.end; i++ {
			if !f(i) {
				return
			}
		}
	case KindBitVector:
		for _, i := range r.bv.SetBitIndices() {
			if !f(uint32(i)) {
				return
			}
		}
	case KindIndexVector:
		for _, i := range r.idx {
			if !f(i) {
				return
			}
		}
	}
}

// String renders a short debug form, in the style of a SetBits dump: the
// kind tag followed by the bounds or the element list for small vectors.
func (r RowMap) String() string {
	switch r.kind {
	case KindRange:
		return fmt.Sprintf("Range[%d,%d)", r.start, r.end)
	case KindBitVector:
		idx := r.bv.SetBitIndices()
		return fmt.Sprintf("BitVector{n=%d, set=%d}", r.bv.Len(), len(idx))
	case KindIndexVector:
		if len(r.idx) <= 16 {
			parts := make([]string, len(r.idx))
			for i, v := range r.idx {
				parts[i] = fmt.Sprintf("%d", v)
			}
			return fmt.Sprintf("IndexVector[%s]", strings.Join(parts, ","))
		}
		return fmt.Sprintf("IndexVector{len=%d}", len(r.idx))
	default:
		return "RowMap{?}"
	}
}

// Monotonicity tags whether a token vector's indices are strictly
// increasing.
type Monotonicity uint8

const (
	Monotonic Monotonicity = iota
	NonMonotonic
)

// Token is the unit of work for index-based chain operations: index is the
// row being processed, payload is free for the caller and is preserved
// across layer translations.
type Token struct {
	Index   uint32
	Payload uint32
}

// Tokens is a vector of tokens tagged with its monotonicity state.
type Tokens struct {
	Items []Token
	State Monotonicity
}

// NewTokensFromIndexVector seeds a Tokens vector from a sorted index
// vector, with payload equal to position, tagged Monotonic.
func NewTokensFromIndexVector(idx []uint32) Tokens {
	items := make([]Token, len(idx))
	for i, v := range idx {
		items[i] = Token{Index: v, Payload: uint32(i)}
	}
	return Tokens{Items: items, State: Monotonic}
}

// ToIndexVector extracts the Index field of every surviving token, in
// order.
func (t Tokens) ToIndexVector() []uint32 {
	out := make([]uint32, len(t.Items))
	for i, tok := range t.Items {
		out[i] = tok.Index
	}
	return out
}

// IsSortedAscending reports whether t's indices are strictly increasing,
// independent of the State tag (used to validate the tag after a
// translation step that may have degraded it).
func (t Tokens) IsSortedAscending() bool {
	for i := 1; i < len(t.Items); i++ {
		if t.Items[i].Index <= t.Items[i-1].Index {
			return false
		}
	}
	return true
}

// OrderedIndices is a borrowed, sorted slice of row indices tagged with a
// monotonicity state, used for binary-search-style range reduction.
type OrderedIndices struct {
	Indices []uint32
	State   Monotonicity
}

// Len returns the number of indices.
func (o OrderedIndices) Len() int { return len(o.Indices) }

// StableSortTokensBy stable-sorts tokens by key(token.Index), ascending if
// !desc; stability is what realises lexicographic multi-order sorts in
// §4.6 step 6.
func StableSortTokensBy(tokens []Token, desc bool, less func(ai, bi uint32) bool) {
	sort.SliceStable(tokens, func(i, j int) bool {
		if desc {
			return less(tokens[j].Index, tokens[i].Index)
		}
		return less(tokens[i].Index, tokens[j].Index)
	})
}
