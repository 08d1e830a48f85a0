package column

import (
	"fmt"
	"regexp"
	"sort"

	"github.com/rowspace/tracedb/internal/rowmap"
	"github.com/rowspace/tracedb/internal/sqlvalue"
	"github.com/rowspace/tracedb/internal/stringpool"
)

// StringStorage holds a vector of interned string ids. Null is represented
// by stringpool.NullID. is_sorted refers to lexicographic order of the
// resolved strings, with Null sorting smallest.
type StringStorage struct {
	Pool     *stringpool.Pool
	Ids      []uint32
	IsSorted bool
}

// NewStringStorage returns a String storage over ids resolved through pool.
func NewStringStorage(pool *stringpool.Pool, ids []uint32, sorted bool) *StringStorage {
	return &StringStorage{Pool: pool, Ids: ids, IsSorted: sorted}
}

var _ Chain = (*StringStorage)(nil)

func (s *StringStorage) Size() uint32 { return uint32(len(s.Ids)) }

func (s *StringStorage) GetSlow(index uint32) sqlvalue.Value {
	id := s.Ids[index]
	if id == stringpool.NullID {
		return sqlvalue.Null
	}
	return sqlvalue.Str(s.Pool.Get(id))
}

func (s *StringStorage) DebugString() string {
	return fmt.Sprintf("String{n=%d, sorted=%v}", len(s.Ids), s.IsSorted)
}

func (s *StringStorage) matches(op FilterOp, value sqlvalue.Value, row uint32) bool {
	id := s.Ids[row]
	switch op {
	case IsNull:
		return id == stringpool.NullID
	case IsNotNull:
		return id != stringpool.NullID
	}
	if id == stringpool.NullID {
		return false
	}
	rowStr := s.Pool.Get(id)
	switch op {
	case Glob:
		pattern, ok := value.AsString()
		return ok && matchGlob(pattern, rowStr)
	case Regex:
		pattern, ok := value.AsString()
		if !ok {
			return false
		}
		re, err := regexp.Compile(pattern)
		if err != nil {
			return false
		}
		return re.MatchString(rowStr)
	default:
		rv, ok := value.AsString()
		if !ok {
			return false
		}
		var cmp sqlvalue.CmpResult
		switch {
		case rowStr < rv:
			cmp = sqlvalue.CmpLess
		case rowStr > rv:
			cmp = sqlvalue.CmpGreater
		default:
			cmp = sqlvalue.CmpEqual
		}
		return matchCmp(cmp, op)
	}
}

// matchGlob implements GLOB pattern matching (* and ?), case-sensitive,
// grounded on the teacher's recursive LIKE/GLOB matcher.
func matchGlob(pattern, str string) bool {
	return matchGlobRunes([]rune(pattern), []rune(str), 0, 0)
}

func matchGlobRunes(pattern, str []rune, pi, si int) bool {
	for pi < len(pattern) {
		pc := pattern[pi]
		switch pc {
		case '*':
			pi++
			if pi >= len(pattern) {
				return true
			}
			for si <= len(str) {
				if matchGlobRunes(pattern, str, pi, si) {
					return true
				}
				si++
			}
			return false
		case '?':
			if si >= len(str) {
				return false
			}
			pi++
			si++
		default:
			if si >= len(str) || str[si] != pc {
				return false
			}
			pi++
			si++
		}
	}
	return si >= len(str)
}

func (s *StringStorage) SingleSearch(op FilterOp, value sqlvalue.Value, row uint32) MatchResult {
	if row >= uint32(len(s.Ids)) {
		return NoMatch
	}
	if s.matches(op, value, row) {
		return Match
	}
	return NoMatch
}

func (s *StringStorage) ValidateSearchConstraints(op FilterOp, value sqlvalue.Value) ValidateResult {
	switch op {
	case IsNull, IsNotNull:
		return Ok
	}
	if value.IsNull() {
		return NoRowsMatch
	}
	switch op {
	case Regex:
		pattern, ok := value.AsString()
		if !ok {
			return NoRowsMatch
		}
		if _, err := regexp.Compile(pattern); err != nil {
			return NoRowsMatch
		}
		return Ok
	case Glob:
		if _, ok := value.AsString(); !ok {
			return NoRowsMatch
		}
		return Ok
	default:
		if _, ok := value.AsString(); !ok {
			return NoRowsMatch
		}
		return Ok
	}
}

func (s *StringStorage) SearchValidated(op FilterOp, value sqlvalue.Value, r rowmap.RowMap) rowmap.RowMap {
	if s.IsSorted && op.IsMonotonic() && op != Glob && op != Regex {
		rv, _ := value.AsString()
		isNullRHS := value.IsNull()
		first, last, ok := r.Bounds()
		if !ok {
			return rowmap.Empty()
		}
		end := int(last) + 1
		if end > len(s.Ids) {
			end = len(s.Ids)
		}
		resolved := func(i int) string {
			id := s.Ids[i]
			if id == stringpool.NullID {
				return ""
			}
			return s.Pool.Get(id)
		}
		isNull := func(i int) bool { return s.Ids[i] == stringpool.NullID }

		switch op {
		case IsNull:
			endIdx := sort.Search(end, func(i int) bool { return !isNull(i) })
			return r.Intersect(first, uint32(endIdx))
		case IsNotNull:
			startIdx := sort.Search(end, func(i int) bool { return !isNull(i) })
			return r.Intersect(uint32(startIdx), uint32(end))
		}
		if isNullRHS {
			return rowmap.Empty()
		}
		lo := sort.Search(end, func(i int) bool { return !isNull(i) && resolved(i) >= rv })
		hi := sort.Search(end, func(i int) bool { return !isNull(i) && resolved(i) > rv })
		var rlo, rhi uint32
		switch op {
		case Eq:
			rlo, rhi = uint32(lo), uint32(hi)
		case Lt:
			rlo, rhi = 0, uint32(lo)
		case Le:
			rlo, rhi = 0, uint32(hi)
		case Gt:
			rlo, rhi = uint32(hi), uint32(end)
		case Ge:
			rlo, rhi = uint32(lo), uint32(end)
		}
		return r.Intersect(max32(first, rlo), rhi)
	}

	if s.IsSorted && op == Ne {
		eqResult := s.SearchValidated(Eq, value, r)
		first, last, ok := r.Bounds()
		if !ok {
			return rowmap.Empty()
		}
		bv := eqResult.ToBitVector(int(last) + 1)
		full := r.ToBitVector(int(last) + 1)
		for i := int(first); i <= int(last); i++ {
			if bv.Get(i) {
				full.Clear(i)
			}
		}
		return rowmap.NewBitVector(full)
	}

	return GenericSearchLinear(r, func(row uint32) bool { return s.matches(op, value, row) })
}

func (s *StringStorage) IndexSearchValidated(op FilterOp, value sqlvalue.Value, tokens *rowmap.Tokens) {
	GenericIndexSearch(tokens, func(row uint32) bool { return s.matches(op, value, row) })
}

func (s *StringStorage) OrderedIndexSearchValidated(op FilterOp, value sqlvalue.Value, oi rowmap.OrderedIndices) (int, int) {
	return GenericOrderedIndexSearch(op, value, oi, s.GetSlow)
}

func (s *StringStorage) StableSort(tokens []rowmap.Token, desc bool) {
	GenericStableSort(tokens, desc, s.GetSlow)
}

func (s *StringStorage) Distinct(tokens *rowmap.Tokens) {
	GenericDistinct(tokens, s.GetSlow)
}

func (s *StringStorage) MinElement(tokens rowmap.Tokens) (rowmap.Token, bool) {
	return GenericMinElement(tokens, s.GetSlow)
}

func (s *StringStorage) MaxElement(tokens rowmap.Tokens) (rowmap.Token, bool) {
	return GenericMaxElement(tokens, s.GetSlow)
}
