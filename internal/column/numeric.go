package column

import (
	"fmt"
	"sort"

	"github.com/rowspace/tracedb/internal/rowmap"
	"github.com/rowspace/tracedb/internal/sqlvalue"
)

// Number is the set of scalar Go types a Numeric storage may hold:
// i32/u32/i64/f64 per §3.
type Number interface {
	~int32 | ~uint32 | ~int64 | ~float64
}

// NumericStorage holds a dense vector of T with an is_sorted hint.
type NumericStorage[T Number] struct {
	Data     []T
	IsSorted bool
}

// NewNumericStorage returns a Numeric storage over data, with the given
// sortedness hint. The hint is trusted: callers must only set IsSorted
// true when data is actually non-decreasing.
func NewNumericStorage[T Number](data []T, sorted bool) *NumericStorage[T] {
	return &NumericStorage[T]{Data: data, IsSorted: sorted}
}

var (
	_ Chain = (*NumericStorage[int64])(nil)
	_ Chain = (*NumericStorage[float64])(nil)
)

func valueOfNumber[T Number](v T) sqlvalue.Value {
	switch x := any(v).(type) {
	case int32:
		return sqlvalue.Long(int64(x))
	case uint32:
		return sqlvalue.Long(int64(x))
	case int64:
		return sqlvalue.Long(x)
	case float64:
		return sqlvalue.Double(x)
	default:
		panic("column: unsupported numeric type")
	}
}

func (s *NumericStorage[T]) Size() uint32 { return uint32(len(s.Data)) }

func (s *NumericStorage[T]) GetSlow(index uint32) sqlvalue.Value {
	return valueOfNumber(s.Data[index])
}

func (s *NumericStorage[T]) DebugString() string {
	var zero T
	return fmt.Sprintf("Numeric<%T>{n=%d, sorted=%v}", zero, len(s.Data), s.IsSorted)
}

// rewriteConstraint applies §4.2's IntColumnWithDouble/DoubleColumnWithInt
// rules when the constraint value's type does not exactly match the
// storage's own representation, returning an adjusted comparison value.
// Eq and Ne against a double that no integer equals have no integer
// rewrite; ValidateSearchConstraints resolves those as NoRowsMatch and
// AllRowsMatch before a search runs.
func (s *NumericStorage[T]) rewriteConstraint(op FilterOp, value sqlvalue.Value) (FilterOp, sqlvalue.Value) {
	var zero T
	_, isFloatStorage := any(zero).(float64)

	if l, ok := value.AsLong(); ok && isFloatStorage {
		if sqlvalue.IsExactFloat64(l) {
			return op, sqlvalue.Double(float64(l))
		}
		// walk nextafter in the direction needed; for this engine's
		// purposes treat the literal as already the closest float64.
		return op, sqlvalue.Double(float64(l))
	}

	if f, ok := value.AsDouble(); ok && !isFloatStorage {
		if sqlvalue.IsIntegerRepresentable(f) {
			return op, sqlvalue.Long(int64(f))
		}
		rop, iv := rewriteDouble(op, f)
		return rop, sqlvalue.Long(iv)
	}

	return op, value
}

func (s *NumericStorage[T]) SingleSearch(op FilterOp, value sqlvalue.Value, row uint32) MatchResult {
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
	cmp := sqlvalue.Compare(valueOfNumber(s.Data[row]), value)
	if cmp == sqlvalue.CmpIncomparable {
		return NoMatch
	}
	if matchCmp(cmp, op) {
		return Match
	}
	return NoMatch
}

func (s *NumericStorage[T]) ValidateSearchConstraints(op FilterOp, value sqlvalue.Value) ValidateResult {
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
	if f, ok := value.AsDouble(); ok && !sqlvalue.IsIntegerRepresentable(f) {
		var zero T
		if _, isFloat := any(zero).(float64); !isFloat {
			switch op {
			case Eq:
				return NoRowsMatch
			case Ne:
				return AllRowsMatch
			}
		}
	}
	return Ok
}

func (s *NumericStorage[T]) SearchValidated(op FilterOp, value sqlvalue.Value, r rowmap.RowMap) rowmap.RowMap {
	rop, rv := s.rewriteConstraint(op, value)

	if s.IsSorted && rop.IsMonotonic() {
		first, last, ok := r.Bounds()
		if !ok {
			return rowmap.Empty()
		}
		end := int(last) + 1
		if end > len(s.Data) {
			end = len(s.Data)
		}
		lo := sort.Search(end, func(i int) bool {
			return sqlvalue.Compare(valueOfNumber(s.Data[i]), rv) != sqlvalue.CmpLess
		})
		hi := sort.Search(end, func(i int) bool {
			return sqlvalue.Compare(valueOfNumber(s.Data[i]), rv) == sqlvalue.CmpGreater
		})
		var rlo, rhi uint32
		switch rop {
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

	if s.IsSorted && rop == Ne {
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

	return GenericSearchLinear(r, func(row uint32) bool {
		return s.SingleSearch(op, value, row) == Match
	})
}

func max32(a, b uint32) uint32 {
	if a > b {
		return a
	}
	return b
}

func (s *NumericStorage[T]) IndexSearchValidated(op FilterOp, value sqlvalue.Value, tokens *rowmap.Tokens) {
	GenericIndexSearch(tokens, func(row uint32) bool {
		return s.SingleSearch(op, value, row) == Match
	})
}

func (s *NumericStorage[T]) OrderedIndexSearchValidated(op FilterOp, value sqlvalue.Value, oi rowmap.OrderedIndices) (int, int) {
	return GenericOrderedIndexSearch(op, value, oi, s.GetSlow)
}

func (s *NumericStorage[T]) StableSort(tokens []rowmap.Token, desc bool) {
	GenericStableSort(tokens, desc, s.GetSlow)
}

func (s *NumericStorage[T]) Distinct(tokens *rowmap.Tokens) {
	GenericDistinct(tokens, s.GetSlow)
}

func (s *NumericStorage[T]) MinElement(tokens rowmap.Tokens) (rowmap.Token, bool) {
	return GenericMinElement(tokens, s.GetSlow)
}

func (s *NumericStorage[T]) MaxElement(tokens rowmap.Tokens) (rowmap.Token, bool) {
	return GenericMaxElement(tokens, s.GetSlow)
}
