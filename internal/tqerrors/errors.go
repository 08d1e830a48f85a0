// Package tqerrors provides the sentinel and contextual error types
// used across the query engine's validation and construction paths.
package tqerrors

import (
	"errors"
	"fmt"
)

// Sentinel errors for the error kinds named in the error handling design.
var (
	// ErrTypeMismatch indicates a constraint value cannot be compared with
	// the column's type in any meaningful way.
	ErrTypeMismatch = errors.New("type mismatch")
	// ErrOutOfRange indicates a numeric RHS outside the column's representable range.
	ErrOutOfRange = errors.New("value out of range")
	// ErrInvalidRegex indicates a REGEXP pattern failed to compile.
	ErrInvalidRegex = errors.New("invalid regex")
	// ErrSchemaConflict indicates two typed appends to a runtime column
	// could not be unified.
	ErrSchemaConflict = errors.New("schema conflict")
	// ErrProgrammer indicates a precondition was violated by the caller
	// (unsupported op reaching a chain, Ne passed to ordered_index_search,
	// sort on a column with no chain). These are bugs, not expected
	// runtime conditions.
	ErrProgrammer = errors.New("programmer error")
)

// SchemaConflictError reports a runtime-table type promotion that could
// not be unified, naming the offending column and value.
type SchemaConflictError struct {
	Column string
	Value  any
	Err    error
}

func (e *SchemaConflictError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("column %q: cannot unify value %v: %v", e.Column, e.Value, e.Err)
	}
	return fmt.Sprintf("column %q: cannot unify value %v", e.Column, e.Value)
}

func (e *SchemaConflictError) Unwrap() error {
	if e.Err != nil {
		return e.Err
	}
	return ErrSchemaConflict
}

// ConstraintError reports a constraint that could not be validated against
// a column, naming the column index and operator.
type ConstraintError struct {
	ColIdx int
	Op     string
	Err    error
}

func (e *ConstraintError) Error() string {
	return fmt.Sprintf("constraint on column %d (%s): %v", e.ColIdx, e.Op, e.Err)
}

func (e *ConstraintError) Unwrap() error {
	if e.Err != nil {
		return e.Err
	}
	return ErrTypeMismatch
}

// Wrap adds context to an error. If err is nil, returns nil.
func Wrap(err error, message string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", message, err)
}

// Is wraps errors.Is for convenience.
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As wraps errors.As for convenience.
func As(err error, target any) bool {
	return errors.As(err, target)
}
