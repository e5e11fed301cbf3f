package rules

import (
	"errors"
	"fmt"
)

// ConfigErrorCode categorizes rule registration errors.
type ConfigErrorCode string

const (
	ErrCodeUnknownEntity       ConfigErrorCode = "UNKNOWN_ENTITY"
	ErrCodeUnknownAttribute    ConfigErrorCode = "UNKNOWN_ATTRIBUTE"
	ErrCodeUnknownRelationship ConfigErrorCode = "UNKNOWN_RELATIONSHIP"
	ErrCodeInvalidUnit         ConfigErrorCode = "INVALID_UNIT"
)

// ConfigError is returned by Register when a unit does not fit the schema.
type ConfigError struct {
	Code    ConfigErrorCode
	Entity  string
	Name    string // offending attribute or relationship, if any
	Message string
}

// Error implements the error interface.
func (e *ConfigError) Error() string {
	if e.Name != "" {
		return fmt.Sprintf("%s: %s (entity=%s, name=%s)", e.Code, e.Message, e.Entity, e.Name)
	}
	if e.Entity != "" {
		return fmt.Sprintf("%s: %s (entity=%s)", e.Code, e.Message, e.Entity)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// IsConfigError returns true if err is or wraps a ConfigError.
func IsConfigError(err error) bool {
	var ce *ConfigError
	return errors.As(err, &ce)
}
