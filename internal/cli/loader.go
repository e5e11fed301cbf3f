package cli

import (
	"errors"
	"fmt"
	"os"

	"cuelang.org/go/cue/token"

	"github.com/roach88/discern/internal/compiler"
	"github.com/roach88/discern/internal/rules"
	"github.com/roach88/discern/internal/schema"
)

// LoadError represents an error that occurred during spec loading.
type LoadError struct {
	Code    string
	Message string
	Pos     token.Pos // CUE position if available
}

func (e *LoadError) Error() string {
	if e.Pos.IsValid() {
		return fmt.Sprintf("%s:%d:%d: %s: %s", e.Pos.Filename(), e.Pos.Line(), e.Pos.Column(), e.Code, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// LoadSpecs compiles the entity and rule declarations in dir.
func LoadSpecs(dir string) (*compiler.Bundle, *LoadError) {
	info, err := os.Stat(dir)
	if os.IsNotExist(err) {
		return nil, &LoadError{Code: ErrCodeNotFound, Message: fmt.Sprintf("specs directory not found: %s", dir)}
	}
	if err != nil {
		return nil, &LoadError{Code: ErrCodeNotFound, Message: fmt.Sprintf("error accessing specs directory: %v", err)}
	}
	if !info.IsDir() {
		return nil, &LoadError{Code: ErrCodeNotFound, Message: fmt.Sprintf("not a directory: %s", dir)}
	}

	files, err := compiler.FindCUEFiles(dir)
	if err != nil {
		return nil, &LoadError{Code: ErrCodeScanError, Message: fmt.Sprintf("error scanning directory: %v", err)}
	}
	if len(files) == 0 {
		return nil, &LoadError{Code: ErrCodeNoFiles, Message: fmt.Sprintf("no CUE files found in %s", dir)}
	}

	bundle, err := compiler.LoadDir(dir)
	if err != nil {
		return nil, convertCompileError(err)
	}
	return bundle, nil
}

// convertCompileError classifies a compiler error and keeps its position.
func convertCompileError(err error) *LoadError {
	var compileErr *compiler.CompileError
	if errors.As(err, &compileErr) {
		return &LoadError{
			Code:    MapFieldToErrorCode(compileErr.Field),
			Message: err.Error(),
			Pos:     compileErr.Pos,
		}
	}
	switch {
	case schema.IsValidationError(err):
		return &LoadError{Code: ErrCodeInvalidSchema, Message: err.Error()}
	case rules.IsConfigError(err):
		return &LoadError{Code: ErrCodeInvalidRule, Message: err.Error()}
	}
	return &LoadError{Code: ErrCodeLoadFailed, Message: err.Error()}
}

// Error code constants - unified across all CLI commands.
const (
	ErrCodeGeneric     = "E001" // Generic/unknown error
	ErrCodeScanError   = "E002" // Directory scan error
	ErrCodeNoFiles     = "E003" // No CUE files found
	ErrCodeLoadFailed  = "E004" // CUE load or build failed
	ErrCodeNotFound    = "E005" // Path not found
	ErrCodeWriteFailed = "E007" // Snapshot write error

	// Declaration errors
	ErrCodeInvalidSchema = "E101" // Entity schema does not validate
	ErrCodeInvalidRule   = "E102" // Rule does not fit the schema
	ErrCodeInvalidKind   = "E103" // Unknown or unsupported attribute kind
	ErrCodeUnknownField  = "E104" // Misspelled or unsupported declaration field

	// Comparison errors
	ErrCodeInvalidFlag    = "E201" // Bad profile, strategy or ref
	ErrCodeSchemaMismatch = "E202" // Snapshot recorded a different schema
	ErrCodeCompareFailed  = "E203" // Store read failed during comparison
)

// MapFieldToErrorCode maps a compiler error field to an error code.
func MapFieldToErrorCode(field string) string {
	switch field {
	case "kind":
		return ErrCodeInvalidKind
	case "entity", "rule", "relationship":
		return ErrCodeUnknownField
	case "parent", "relationship.target":
		return ErrCodeInvalidSchema
	case "ignore_entity",
		"include_attributes", "ignore_attributes",
		"include_relationships", "ignore_relationships":
		return ErrCodeInvalidRule
	case "cue":
		return ErrCodeLoadFailed
	default:
		return ErrCodeGeneric
	}
}
