package column

import "github.com/rowspace/tracedb/internal/sqlvalue"

// matchCmp applies a comparison-style FilterOp to a CmpResult (this is the
// value compared to the constraint's RHS). IsNull/IsNotNull/Glob/Regex are
// not comparison ops and are never passed here.
func matchCmp(cmp sqlvalue.CmpResult, op FilterOp) bool {
	switch op {
	case Eq:
		return cmp == sqlvalue.CmpEqual
	case Ne:
		return cmp != sqlvalue.CmpEqual
	case Lt:
		return cmp == sqlvalue.CmpLess
	case Le:
		return cmp == sqlvalue.CmpLess || cmp == sqlvalue.CmpEqual
	case Gt:
		return cmp == sqlvalue.CmpGreater
	case Ge:
		return cmp == sqlvalue.CmpGreater || cmp == sqlvalue.CmpEqual
	default:
		return false
	}
}
