// Package column implements the terminal column storages and the Chain
// capability contract every storage and overlay layer exposes. It is the
// layered-column half of the engine (§4.1-§4.2): composition into
// per-column chains and the query executor live in internal/overlay,
// internal/table and internal/query.
package column

import (
	"github.com/rowspace/tracedb/internal/rowmap"
	"github.com/rowspace/tracedb/internal/sqlvalue"
)

// FilterOp is a constraint operator.
type FilterOp uint8

const (
	Eq FilterOp = iota
	Ne
	Lt
	Le
	Gt
	Ge
	IsNull
	IsNotNull
	Glob
	Regex
)

func (op FilterOp) String() string {
	switch op {
	case Eq:
		return "Eq"
	case Ne:
		return "Ne"
	case Lt:
		return "Lt"
	case Le:
		return "Le"
	case Gt:
		return "Gt"
	case Ge:
		return "Ge"
	case IsNull:
		return "IsNull"
	case IsNotNull:
		return "IsNotNull"
	case Glob:
		return "Glob"
	case Regex:
		return "Regex"
	default:
		return "?"
	}
}

// IsMonotonic reports whether op is one of the ops eligible for
// ordered-index-search push-down (excludes Ne, Glob, Regex per §4.1/§4.5).
func (op FilterOp) IsMonotonic() bool {
	switch op {
	case Eq, Lt, Le, Gt, Ge, IsNull, IsNotNull:
		return true
	default:
		return false
	}
}

// MatchResult is the outcome of SingleSearch.
type MatchResult uint8

const (
	Match MatchResult = iota
	NoMatch
	NeedsFullSearch
)

// ValidateResult is the outcome of ValidateSearchConstraints.
type ValidateResult uint8

const (
	Ok ValidateResult = iota
	AllRowsMatch
	NoRowsMatch
)

// Flags is the per-column flags bitset.
type Flags uint8

const (
	FlagSorted Flags = 1 << iota
	FlagNonNull
	FlagHidden
	FlagDense
	FlagSetID
)

func (f Flags) Has(flag Flags) bool { return f&flag != 0 }

// Chain is the capability set every storage and overlay layer exposes over
// a logical row range [0, Size()). See §4.1 for the full contract.
type Chain interface {
	// SingleSearch resolves a single row without constructing a RowMap.
	// May return NeedsFullSearch whenever the layer cannot cheaply resolve
	// a single row.
	SingleSearch(op FilterOp, value sqlvalue.Value, row uint32) MatchResult

	// ValidateSearchConstraints classifies a constraint before any row is
	// touched.
	ValidateSearchConstraints(op FilterOp, value sqlvalue.Value) ValidateResult

	// SearchValidated returns either a sub-range of r (must be a subset)
	// or a RowMap holding a bit vector of length r.end.
	SearchValidated(op FilterOp, value sqlvalue.Value, r rowmap.RowMap) rowmap.RowMap

	// IndexSearchValidated filters tokens in place, erasing entries that
	// do not match. It must not introduce new tokens.
	IndexSearchValidated(op FilterOp, value sqlvalue.Value, tokens *rowmap.Tokens)

	// OrderedIndexSearchValidated binary-searches over already-ordered
	// indices, returning the surviving sub-range [lo, hi) of positions
	// within oi.Indices. Not valid for Ne, Glob, Regex.
	OrderedIndexSearchValidated(op FilterOp, value sqlvalue.Value, oi rowmap.OrderedIndices) (lo, hi int)

	// StableSort stably sorts tokens by the chain's value at each token's
	// Index. Nulls sort strictly less than any non-null.
	StableSort(tokens []rowmap.Token, desc bool)

	// Distinct removes tokens whose values have already appeared earlier
	// in the slice.
	Distinct(tokens *rowmap.Tokens)

	// MinElement/MaxElement return the token of the minimum/maximum value,
	// ties broken by first occurrence.
	MinElement(tokens rowmap.Tokens) (rowmap.Token, bool)
	MaxElement(tokens rowmap.Tokens) (rowmap.Token, bool)

	// GetSlow performs a scalar lookup, walking the full layer stack.
	// Expensive; OrderedIndexSearchValidated's binary search and the
	// generic sort, distinct and min/max helpers all read values through it.
	GetSlow(index uint32) sqlvalue.Value

	// Size returns the chain's logical row count.
	Size() uint32

	// DebugString returns a short human-readable description.
	DebugString() string
}
