package column

import (
	"fmt"
	"sort"

	"github.com/rowspace/tracedb/internal/rowmap"
	"github.com/rowspace/tracedb/internal/sqlvalue"
)

// SetIDStorage holds a sorted, monotonic-non-strict vector of u32 where
// data[i] <= i for every i, and the first occurrence of value v sits at
// index v. This lets Eq run in O(log n) using only positional reads: if
// data[v] == v, the run of v starts at v; otherwise v never occurs.
type SetIDStorage struct {
	Data []uint32
}

// NewSetIDStorage returns a SetId storage over data. Callers must uphold
// the invariants described above; they are not re-validated here.
func NewSetIDStorage(data []uint32) *SetIDStorage {
	return &SetIDStorage{Data: data}
}

var _ Chain = (*SetIDStorage)(nil)

func (s *SetIDStorage) Size() uint32 { return uint32(len(s.Data)) }

func (s *SetIDStorage) GetSlow(index uint32) sqlvalue.Value {
	return sqlvalue.Long(int64(s.Data[index]))
}

func (s *SetIDStorage) DebugString() string {
	return fmt.Sprintf("SetId{n=%d}", len(s.Data))
}

// eqRange returns the [lo, hi) range of positions holding value v, or
// (0, 0, false) if v does not occur.
func (s *SetIDStorage) eqRange(v uint32) (lo, hi uint32, ok bool) {
	if int(v) >= len(s.Data) || s.Data[v] != v {
		return 0, 0, false
	}
	upper := uint32(sort.Search(len(s.Data), func(i int) bool {
		return s.Data[i] > v
	}))
	return v, upper, true
}

func (s *SetIDStorage) SingleSearch(op FilterOp, value sqlvalue.Value, row uint32) MatchResult {
	switch op {
	case IsNull:
		return NoMatch
	case IsNotNull:
		return Match
	case Glob, Regex:
		return NoMatch
	}
	if row >= uint32(len(s.Data)) {
		return NoMatch
	}
	l, ok := value.AsLong()
	if !ok {
		return NoMatch
	}
	var cmp sqlvalue.CmpResult
	switch {
	case int64(s.Data[row]) < l:
		cmp = sqlvalue.CmpLess
	case int64(s.Data[row]) > l:
		cmp = sqlvalue.CmpGreater
	default:
		cmp = sqlvalue.CmpEqual
	}
	if matchCmp(cmp, op) {
		return Match
	}
	return NoMatch
}

func (s *SetIDStorage) ValidateSearchConstraints(op FilterOp, value sqlvalue.Value) ValidateResult {
	if value.IsNull() {
		if op == IsNotNull {
			return AllRowsMatch
		}
		return NoRowsMatch
	}
	switch op {
	case IsNull:
		return NoRowsMatch
	case IsNotNull:
		return AllRowsMatch
	case Glob, Regex:
		return NoRowsMatch
	}
	if !value.IsNumeric() {
		return NoRowsMatch
	}
	return Ok
}

func (s *SetIDStorage) SearchValidated(op FilterOp, value sqlvalue.Value, r rowmap.RowMap) rowmap.RowMap {
	f, _ := value.AsFloat64()
	if !sqlvalue.IsIntegerRepresentable(f) {
		return GenericSearchLinear(r, func(row uint32) bool { return s.SingleSearch(op, value, row) == Match })
	}
	if f < 0 || f > float64(^uint32(0)) {
		return rowmap.Empty()
	}
	target := uint32(f)

	switch op {
	case Eq:
		lo, hi, ok := s.eqRange(target)
		if !ok {
			return rowmap.Empty()
		}
		return r.Intersect(lo, hi)
	case Ne:
		lo, hi, ok := s.eqRange(target)
		_, last, rok := r.Bounds()
		if !rok {
			return rowmap.Empty()
		}
		bv := r.ToBitVector(int(last) + 1)
		if ok {
			for i := lo; i < hi; i++ {
				bv.Clear(int(i))
			}
		}
		return rowmap.NewBitVector(bv)
	default:
		return GenericSearchLinear(r, func(row uint32) bool { return s.SingleSearch(op, value, row) == Match })
	}
}

func (s *SetIDStorage) IndexSearchValidated(op FilterOp, value sqlvalue.Value, tokens *rowmap.Tokens) {
	GenericIndexSearch(tokens, func(row uint32) bool {
		return s.SingleSearch(op, value, row) == Match
	})
}

func (s *SetIDStorage) OrderedIndexSearchValidated(op FilterOp, value sqlvalue.Value, oi rowmap.OrderedIndices) (int, int) {
	return GenericOrderedIndexSearch(op, value, oi, s.GetSlow)
}

func (s *SetIDStorage) StableSort(tokens []rowmap.Token, desc bool) {
	GenericStableSort(tokens, desc, s.GetSlow)
}

func (s *SetIDStorage) Distinct(tokens *rowmap.Tokens) {
	GenericDistinct(tokens, s.GetSlow)
}

func (s *SetIDStorage) MinElement(tokens rowmap.Tokens) (rowmap.Token, bool) {
	return GenericMinElement(tokens, s.GetSlow)
}

func (s *SetIDStorage) MaxElement(tokens rowmap.Tokens) (rowmap.Token, bool) {
	return GenericMaxElement(tokens, s.GetSlow)
}
