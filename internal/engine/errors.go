package engine

import (
	"errors"
	"fmt"

	"github.com/roach88/discern/internal/object"
)

// ComparisonError reports a comparison aborted by a store failure.
//
// Defined outcomes (type mismatch, absent related instance, rule clashes)
// are never errors; they are plain results. A ComparisonError means no
// result could be decided, and nothing about the pair was cached.
type ComparisonError struct {
	// Code identifies the error category.
	Code ComparisonErrorCode

	// Left and Right are the pair being compared when the read failed.
	Left, Right object.Ref

	// Message is a human-readable description.
	Message string

	// Err is the underlying store error.
	Err error
}

// ComparisonErrorCode categorizes comparison errors.
type ComparisonErrorCode string

const (
	// ErrCodeStoreRead indicates an accessor returned an error.
	ErrCodeStoreRead ComparisonErrorCode = "STORE_READ"

	// ErrCodeUnknownInstance indicates a ref names no instance in any store.
	ErrCodeUnknownInstance ComparisonErrorCode = "UNKNOWN_INSTANCE"
)

// Error implements the error interface.
func (e *ComparisonError) Error() string {
	msg := fmt.Sprintf("%s: %s (left=%s, right=%s)", e.Code, e.Message, e.Left, e.Right)
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

// Unwrap returns the underlying store error.
func (e *ComparisonError) Unwrap() error {
	return e.Err
}

// IsComparisonError returns true if err is or wraps a ComparisonError.
func IsComparisonError(err error) bool {
	var ce *ComparisonError
	return errors.As(err, &ce)
}

// IsUnknownInstance returns true if err reports a ref with no instance.
func IsUnknownInstance(err error) bool {
	var ce *ComparisonError
	if errors.As(err, &ce) {
		return ce.Code == ErrCodeUnknownInstance
	}
	return false
}

func newReadError(a, b object.Ref, what string, err error) *ComparisonError {
	code := ErrCodeStoreRead
	if errors.Is(err, object.ErrNotFound) || errors.Is(err, object.ErrUnknownStore) {
		code = ErrCodeUnknownInstance
	}
	return &ComparisonError{
		Code:    code,
		Left:    a,
		Right:   b,
		Message: "failed to read " + what,
		Err:     err,
	}
}
