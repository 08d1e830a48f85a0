package bridge

import (
	"regexp"

	"github.com/rowspace/tracedb/internal/column"
	"github.com/rowspace/tracedb/internal/query"
	"github.com/rowspace/tracedb/internal/tqerrors"
)

// ValidateConstraints precompiles every Regex constraint's pattern,
// surfacing a compile failure synchronously before the query ever reaches
// a chain (§7's "invalid regex... surfaced synchronously as an error from
// the constraint parser; the chain is never entered"). Every other
// constraint op is the column storages' problem at validate_search_
// constraints time and is left alone here.
func ValidateConstraints(q *query.Query) error {
	for _, c := range q.Constraints {
		if c.Op != column.Regex {
			continue
		}
		pattern, ok := c.Value.AsString()
		if !ok {
			return tqerrors.Wrap(tqerrors.ErrTypeMismatch, "REGEXP pattern must be a string")
		}
		if _, err := regexp.Compile(pattern); err != nil {
			return tqerrors.Wrap(tqerrors.ErrInvalidRegex, err.Error())
		}
	}
	return nil
}
