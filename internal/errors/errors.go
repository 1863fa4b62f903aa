// Package errors defines stable error codes and structured errors for the
// render engine, so callers can act on failures without parsing free text.
package errors

import (
	stderrors "errors"
	"fmt"
	"strings"
)

// As and Is re-export the standard helpers so callers need only one
// errors import.
func As(err error, target interface{}) bool { return stderrors.As(err, target) }

// Is reports whether any error in err's chain matches target.
func Is(err, target error) bool { return stderrors.Is(err, target) }

// ErrorCode represents stable error codes for all failure modes
type ErrorCode string

const (
	// ConfigInvalid indicates the render plan failed validation
	ConfigInvalid ErrorCode = "CONFIG_INVALID"
	// BudgetExceeded indicates the token budget was exceeded under strict policy
	BudgetExceeded ErrorCode = "BUDGET_EXCEEDED"
	// EmptyResult indicates no files matched after scanning
	EmptyResult ErrorCode = "EMPTY_RESULT"
	// ExtractionFailed indicates a file could not be parsed at all
	ExtractionFailed ErrorCode = "EXTRACTION_FAILED"
	// UnsupportedLanguage indicates structural extraction fell back to raw handling
	UnsupportedLanguage ErrorCode = "UNSUPPORTED_LANGUAGE"
	// Cancelled indicates the pipeline was cancelled by the caller
	Cancelled ErrorCode = "CANCELLED"
	// InternalError indicates an unexpected error
	InternalError ErrorCode = "INTERNAL_ERROR"
)

// EngineError represents an engine failure with a stable code and optional
// structured details.
type EngineError struct {
	Code    ErrorCode   `json:"code"`
	Message string      `json:"message"`
	Details interface{} `json:"details,omitempty"`
	cause   error
}

// New creates a new EngineError.
func New(code ErrorCode, message string, cause error) *EngineError {
	return &EngineError{Code: code, Message: message, cause: cause}
}

// Error implements the error interface
func (e *EngineError) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.cause)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap returns the underlying error
func (e *EngineError) Unwrap() error {
	return e.cause
}

// WithDetails adds details to the error
func (e *EngineError) WithDetails(details interface{}) *EngineError {
	e.Details = details
	return e
}

// Violation is a single validation failure with the path to the offending
// field.
type Violation struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ConfigError reports every validation violation in a render plan, never
// just the first.
type ConfigError struct {
	Violations []Violation `json:"violations"`
}

// NewConfigError creates a ConfigError from a list of violations.
func NewConfigError(violations []Violation) *ConfigError {
	return &ConfigError{Violations: violations}
}

// Error implements the error interface
func (e *ConfigError) Error() string {
	var b strings.Builder
	b.WriteString("invalid render plan:")
	for _, v := range e.Violations {
		b.WriteString("\n  - ")
		b.WriteString(v.Field)
		b.WriteString(": ")
		b.WriteString(v.Message)
	}
	return b.String()
}

// Code returns the stable code for config errors.
func (e *ConfigError) Code() ErrorCode {
	return ConfigInvalid
}
