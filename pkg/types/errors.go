package types

import (
	"errors"
	"fmt"
)

// Store error categories. Every error returned by a jeeves backend wraps
// exactly one of these, so callers branch with errors.Is.
var (
	ErrConfiguration    = errors.New("configuration error")
	ErrInvalidName      = errors.New("invalid name")
	ErrArity            = errors.New("arity mismatch")
	ErrUnsupportedInput = errors.New("unsupported input shape")
	ErrUnsupportedType  = errors.New("unsupported value type")
	ErrTypeMismatch     = errors.New("type mismatch")
	ErrNotFound         = errors.New("not found")
	ErrDuplicateKey     = errors.New("duplicate key")
	ErrEngine           = errors.New("engine error")
)

// StoreError records the operation and the offending name, key, or shape
// together with the underlying cause.
type StoreError struct {
	Op   string
	Name string
	Err  error
}

func (e *StoreError) Error() string {
	if e.Name == "" {
		return fmt.Sprintf("jeeves: %s: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("jeeves: %s %q: %v", e.Op, e.Name, e.Err)
}

func (e *StoreError) Unwrap() error { return e.Err }

// Errorf builds a StoreError whose cause wraps kind with a formatted detail.
func Errorf(op, name string, kind error, format string, args ...any) error {
	detail := fmt.Sprintf(format, args...)
	if detail == "" {
		return &StoreError{Op: op, Name: name, Err: kind}
	}
	return &StoreError{Op: op, Name: name, Err: fmt.Errorf("%w: %s", kind, detail)}
}

// EngineError wraps a driver failure so it matches both ErrEngine and the
// driver's own error value.
func EngineError(op, name string, err error) error {
	if err == nil {
		return nil
	}
	var se *StoreError
	if errors.As(err, &se) {
		return err
	}
	return &StoreError{Op: op, Name: name, Err: engineCause{err}}
}

type engineCause struct{ err error }

func (c engineCause) Error() string { return ErrEngine.Error() + ": " + c.err.Error() }

func (c engineCause) Unwrap() []error { return []error{ErrEngine, c.err} }
