package column

import (
	"fmt"

	"github.com/rowspace/tracedb/internal/rowmap"
	"github.com/rowspace/tracedb/internal/sqlvalue"
)

// IDStorage presents the identity mapping Get(i) = i over [0, bound). The
// storage is notionally unbounded (§3); this implementation carries the
// bound passed to NewIDStorage and is not wrapped in a Range overlay, so
// Size() reports that bound.
type IDStorage struct {
	bound uint32
}

// NewIDStorage returns an Id storage bounded at n rows.
func NewIDStorage(n uint32) *IDStorage {
	return &IDStorage{bound: n}
}

var _ Chain = (*IDStorage)(nil)

func (s *IDStorage) Size() uint32 { return s.bound }

func (s *IDStorage) GetSlow(index uint32) sqlvalue.Value { return sqlvalue.Long(int64(index)) }

func (s *IDStorage) DebugString() string { return fmt.Sprintf("Id{bound=%d}", s.bound) }

func (s *IDStorage) SingleSearch(op FilterOp, value sqlvalue.Value, row uint32) MatchResult {
	switch op {
	case IsNull:
		return NoMatch
	case IsNotNull:
		return Match
	case Glob, Regex:
		return NoMatch
	}

	if sv, ok := value.AsString(); ok {
		_ = sv
		switch op {
		case Lt, Le:
			return Match
		default:
			return NoMatch
		}
	}

	target, ok := idTarget(value)
	if !ok {
		// Non-integer-representable double folds to a range shift; a
		// single-row search can still answer directly via matchCmp.
		f, _ := value.AsFloat64()
		cmp := sqlvalue.CmpLess
		if float64(row) > f {
			cmp = sqlvalue.CmpGreater
		} else if float64(row) == f {
			cmp = sqlvalue.CmpEqual
		}
		if matchCmp(cmp, op) {
			return Match
		}
		return NoMatch
	}

	var cmp sqlvalue.CmpResult
	switch {
	case row < target:
		cmp = sqlvalue.CmpLess
	case row > target:
		cmp = sqlvalue.CmpGreater
	default:
		cmp = sqlvalue.CmpEqual
	}
	if matchCmp(cmp, op) {
		return Match
	}
	return NoMatch
}

// idTarget extracts an in-range u32 target from a constraint value. It
// returns ok=false for negative or above-u32-max longs and for doubles
// that are out of range or not integer-representable.
func idTarget(value sqlvalue.Value) (uint32, bool) {
	if l, ok := value.AsLong(); ok {
		if l < 0 || l > int64(^uint32(0)) {
			return 0, false
		}
		return uint32(l), true
	}
	if f, ok := value.AsDouble(); ok {
		if !sqlvalue.IsIntegerRepresentable(f) {
			return 0, false
		}
		if f < 0 || f > float64(^uint32(0)) {
			return 0, false
		}
		return uint32(f), true
	}
	return 0, false
}

func (s *IDStorage) ValidateSearchConstraints(op FilterOp, value sqlvalue.Value) ValidateResult {
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

	if _, ok := value.AsString(); ok {
		switch op {
		case Lt, Le:
			return AllRowsMatch
		default:
			return NoRowsMatch
		}
	}

	if l, ok := value.AsLong(); ok {
		maxU := int64(^uint32(0))
		if l < 0 {
			switch op {
			case Gt, Ge, Ne:
				return AllRowsMatch
			default:
				return NoRowsMatch
			}
		}
		if l > maxU {
			switch op {
			case Lt, Le, Ne:
				return AllRowsMatch
			default:
				return NoRowsMatch
			}
		}
		return Ok
	}

	if f, ok := value.AsDouble(); ok {
		if f < 0 {
			switch op {
			case Gt, Ge, Ne:
				return AllRowsMatch
			default:
				return NoRowsMatch
			}
		}
		if f > float64(^uint32(0)) {
			switch op {
			case Lt, Le, Ne:
				return AllRowsMatch
			default:
				return NoRowsMatch
			}
		}
		if !sqlvalue.IsIntegerRepresentable(f) {
			switch op {
			case Eq:
				return NoRowsMatch
			case Ne:
				return AllRowsMatch
			}
		}
		return Ok
	}

	return NoRowsMatch
}

// rewriteDouble folds a non-integer-representable double RHS to an
// equivalent integer-typed constraint, per §4.2's IntColumnWithDouble rule.
func rewriteDouble(op FilterOp, f float64) (FilterOp, int64) {
	switch op {
	case Lt:
		return Lt, int64(ceil(f))
	case Le:
		return Lt, int64(ceil(f)) // x <= f, f non-integer, equals x < ceil(f)
	case Gt:
		return Gt, int64(floorF(f))
	case Ge:
		return Gt, int64(floorF(f)) // x >= f equals x > floor(f)
	case Eq:
		return Eq, 0 // never matches; caller short-circuits via NoRowsMatch upstream
	default:
		return op, int64(f)
	}
}

func ceil(f float64) float64 {
	i := float64(int64(f))
	if f > i {
		return i + 1
	}
	return i
}

func floorF(f float64) float64 {
	i := float64(int64(f))
	if f < i {
		return i - 1
	}
	return i
}

func (s *IDStorage) SearchValidated(op FilterOp, value sqlvalue.Value, r rowmap.RowMap) rowmap.RowMap {
	target, ok := idTarget(value)
	if !ok {
		f, _ := value.AsFloat64()
		rop, iv := rewriteDouble(op, f)
		if iv < 0 {
			return rowmap.Empty()
		}
		target, op = uint32(iv), rop
	}

	first, last, rok := r.Bounds()
	if !rok {
		return rowmap.Empty()
	}

	switch op {
	case Eq:
		if target < first || target > last {
			return rowmap.Empty()
		}
		return rowmap.NewRange(target, target+1)
	case Lt:
		hi := target
		if hi > last+1 {
			hi = last + 1
		}
		return r.Intersect(first, hi)
	case Le:
		hi := target + 1
		if hi > last+1 {
			hi = last + 1
		}
		return r.Intersect(first, hi)
	case Gt:
		lo := target + 1
		if lo < first {
			lo = first
		}
		return r.Intersect(lo, last+1)
	case Ge:
		lo := target
		if lo < first {
			lo = first
		}
		return r.Intersect(lo, last+1)
	case Ne:
		return GenericSearchLinear(r, func(row uint32) bool { return row != target })
	default:
		return rowmap.Empty()
	}
}

func (s *IDStorage) IndexSearchValidated(op FilterOp, value sqlvalue.Value, tokens *rowmap.Tokens) {
	GenericIndexSearch(tokens, func(row uint32) bool {
		return s.SingleSearch(op, value, row) == Match
	})
}

func (s *IDStorage) OrderedIndexSearchValidated(op FilterOp, value sqlvalue.Value, oi rowmap.OrderedIndices) (int, int) {
	return GenericOrderedIndexSearch(op, value, oi, s.GetSlow)
}

func (s *IDStorage) StableSort(tokens []rowmap.Token, desc bool) {
	GenericStableSort(tokens, desc, s.GetSlow)
}

func (s *IDStorage) Distinct(tokens *rowmap.Tokens) {
	GenericDistinct(tokens, s.GetSlow)
}

func (s *IDStorage) MinElement(tokens rowmap.Tokens) (rowmap.Token, bool) {
	return GenericMinElement(tokens, s.GetSlow)
}

func (s *IDStorage) MaxElement(tokens rowmap.Tokens) (rowmap.Token, bool) {
	return GenericMaxElement(tokens, s.GetSlow)
}
