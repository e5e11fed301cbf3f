package schema

import (
	"errors"
	"fmt"
)

// ValidationErrorCode categorizes schema validation errors.
type ValidationErrorCode string

const (
	ErrCodeEmptyName        ValidationErrorCode = "EMPTY_NAME"
	ErrCodeDuplicate        ValidationErrorCode = "DUPLICATE"
	ErrCodeUnknownParent    ValidationErrorCode = "UNKNOWN_PARENT"
	ErrCodeInheritanceCycle ValidationErrorCode = "INHERITANCE_CYCLE"
	ErrCodeUnknownTarget    ValidationErrorCode = "UNKNOWN_TARGET"
	ErrCodeInvalidKind      ValidationErrorCode = "INVALID_KIND"
	ErrCodeRedeclared       ValidationErrorCode = "REDECLARED"
)

// ValidationError reports a structural problem with a Model.
type ValidationError struct {
	Code    ValidationErrorCode
	Entity  string
	Message string
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	if e.Entity != "" {
		return fmt.Sprintf("%s: %s (entity=%s)", e.Code, e.Message, e.Entity)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// IsValidationError returns true if err is or wraps a ValidationError.
func IsValidationError(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
