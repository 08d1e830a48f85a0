package tqerrors

import (
	"errors"
	"testing"
)

func TestSchemaConflictErrorUnwrap(t *testing.T) {
	e := &SchemaConflictError{Column: "ts", Value: "abc"}
	if !errors.Is(e, ErrSchemaConflict) {
		t.Fatal("expected SchemaConflictError to unwrap to ErrSchemaConflict")
	}
	if got := e.Error(); got == "" {
		t.Fatal("expected non-empty error string")
	}
}

func TestConstraintErrorUnwrap(t *testing.T) {
	base := errors.New("boom")
	e := &ConstraintError{ColIdx: 2, Op: "Eq", Err: base}
	if !errors.Is(e, base) {
		t.Fatal("expected ConstraintError to unwrap to its wrapped error")
	}
}

func TestConstraintErrorDefaultUnwrap(t *testing.T) {
	e := &ConstraintError{ColIdx: 0, Op: "Glob"}
	if !errors.Is(e, ErrTypeMismatch) {
		t.Fatal("expected ConstraintError with no Err to unwrap to ErrTypeMismatch")
	}
}

func TestWrapNil(t *testing.T) {
	if Wrap(nil, "context") != nil {
		t.Fatal("Wrap(nil, ...) must return nil")
	}
}
