package bridge

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/rowspace/tracedb/internal/column"
	"github.com/rowspace/tracedb/internal/query"
	"github.com/rowspace/tracedb/internal/sqlvalue"
	"github.com/rowspace/tracedb/internal/tqerrors"
)

// EncodeIndexString serialises q into the comma-separated token stream of
// §6: a C<n> token followed by n (col_idx, op) pairs, an O<m> token
// followed by m (col_idx, desc) pairs, a D<d> order-type token, a U<u64>
// cols-used token, and L/F presence flags for limit/offset.
func EncodeIndexString(q *query.Query) string {
	var b strings.Builder
	fmt.Fprintf(&b, "C%d", len(q.Constraints))
	for _, c := range q.Constraints {
		fmt.Fprintf(&b, ",%d,%d", c.ColIdx, uint32(c.Op))
	}
	fmt.Fprintf(&b, ",O%d", len(q.Orders))
	for _, o := range q.Orders {
		desc := 0
		if o.Desc {
			desc = 1
		}
		fmt.Fprintf(&b, ",%d,%d", o.ColIdx, desc)
	}
	fmt.Fprintf(&b, ",D%d", int(q.OrderType))
	fmt.Fprintf(&b, ",U%d", q.ColsUsed)
	limitFlag, offsetFlag := 0, 0
	if q.Limit != nil {
		limitFlag = 1
	}
	if q.Offset != nil {
		offsetFlag = 1
	}
	fmt.Fprintf(&b, ",L%d,F%d", limitFlag, offsetFlag)
	return b.String()
}

// DecodeIndexString parses the token stream back into a Query, pulling
// constraint values and any limit/offset from argv in the order they
// appear: every constraint's value first, then limit (if present), then
// offset (if present). LIMIT/OFFSET values must be Long or decoding fails
// (§7 type-mismatch error).
func DecodeIndexString(s string, argv []sqlvalue.Value) (*query.Query, error) {
	tokens := strings.Split(s, ",")
	q := &query.Query{}
	argIdx := 0
	nextArg := func() (sqlvalue.Value, error) {
		if argIdx >= len(argv) {
			return sqlvalue.Null, tqerrors.Wrap(tqerrors.ErrProgrammer, "index string references more argv values than supplied")
		}
		v := argv[argIdx]
		argIdx++
		return v, nil
	}

	i := 0
	readInt := func(tok string, prefix byte) (int64, error) {
		if len(tok) == 0 || tok[0] != prefix {
			return 0, tqerrors.Wrap(tqerrors.ErrProgrammer, fmt.Sprintf("expected %c-token, got %q", prefix, tok))
		}
		return strconv.ParseInt(tok[1:], 10, 64)
	}

	if i >= len(tokens) {
		return nil, tqerrors.Wrap(tqerrors.ErrProgrammer, "empty index string")
	}
	n, err := readInt(tokens[i], 'C')
	if err != nil {
		return nil, err
	}
	i++
	q.Constraints = make([]query.Constraint, 0, n)
	for k := int64(0); k < n; k++ {
		if i+1 >= len(tokens) {
			return nil, tqerrors.Wrap(tqerrors.ErrProgrammer, "truncated constraint pair")
		}
		colIdx, err := strconv.Atoi(tokens[i])
		if err != nil {
			return nil, err
		}
		opVal, err := strconv.ParseUint(tokens[i+1], 10, 32)
		if err != nil {
			return nil, err
		}
		i += 2
		op := column.FilterOp(opVal)
		var value sqlvalue.Value
		if op != column.IsNull && op != column.IsNotNull {
			value, err = nextArg()
			if err != nil {
				return nil, err
			}
		}
		q.Constraints = append(q.Constraints, query.Constraint{ColIdx: colIdx, Op: op, Value: value})
	}

	if i >= len(tokens) {
		return nil, tqerrors.Wrap(tqerrors.ErrProgrammer, "missing O-token")
	}
	m, err := readInt(tokens[i], 'O')
	if err != nil {
		return nil, err
	}
	i++
	q.Orders = make([]query.Order, 0, m)
	for k := int64(0); k < m; k++ {
		if i+1 >= len(tokens) {
			return nil, tqerrors.Wrap(tqerrors.ErrProgrammer, "truncated order pair")
		}
		colIdx, err := strconv.Atoi(tokens[i])
		if err != nil {
			return nil, err
		}
		desc, err := strconv.Atoi(tokens[i+1])
		if err != nil {
			return nil, err
		}
		i += 2
		q.Orders = append(q.Orders, query.Order{ColIdx: colIdx, Desc: desc != 0})
	}

	if i >= len(tokens) {
		return nil, tqerrors.Wrap(tqerrors.ErrProgrammer, "missing D-token")
	}
	d, err := readInt(tokens[i], 'D')
	if err != nil {
		return nil, err
	}
	i++
	switch d {
	case 0:
		q.OrderType = query.Sort
	case 1:
		q.OrderType = query.DistinctAndSort
	case 2:
		q.OrderType = query.Distinct
	default:
		return nil, tqerrors.Wrap(tqerrors.ErrProgrammer, fmt.Sprintf("unknown order type %d", d))
	}

	if i >= len(tokens) {
		return nil, tqerrors.Wrap(tqerrors.ErrProgrammer, "missing U-token")
	}
	u, err := readInt(tokens[i], 'U')
	if err != nil {
		return nil, err
	}
	i++
	q.ColsUsed = uint64(u)

	if i >= len(tokens) {
		return nil, tqerrors.Wrap(tqerrors.ErrProgrammer, "missing L-token")
	}
	l, err := readInt(tokens[i], 'L')
	if err != nil {
		return nil, err
	}
	i++
	if l != 0 {
		v, err := nextArg()
		if err != nil {
			return nil, err
		}
		lim, ok := v.AsLong()
		if !ok {
			return nil, tqerrors.Wrap(tqerrors.ErrTypeMismatch, "LIMIT value must be Long")
		}
		q.Limit = &lim
	}

	if i >= len(tokens) {
		return nil, tqerrors.Wrap(tqerrors.ErrProgrammer, "missing F-token")
	}
	f, err := readInt(tokens[i], 'F')
	if err != nil {
		return nil, err
	}
	if f != 0 {
		v, err := nextArg()
		if err != nil {
			return nil, err
		}
		off, ok := v.AsLong()
		if !ok {
			return nil, tqerrors.Wrap(tqerrors.ErrTypeMismatch, "OFFSET value must be Long")
		}
		q.Offset = &off
	}

	return q, nil
}
