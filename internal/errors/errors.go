// Package errors provides a lightweight structured error type (ComposeError)
// for category-based classification in the CLI and daemon admin surface.
package errors

import (
	"fmt"
)

// ErrorCategory represents the category of a compose error for classification
type ErrorCategory string

const (
	// User-facing configuration and input errors
	CategoryConfig     ErrorCategory = "config"
	CategoryValidation ErrorCategory = "validation"

	// Composition and content errors
	CategoryCompose ErrorCategory = "compose"
	CategoryPages   ErrorCategory = "pages"

	// Runtime and infrastructure errors
	CategoryHistory    ErrorCategory = "history"
	CategoryFileSystem ErrorCategory = "filesystem"
	CategoryDaemon     ErrorCategory = "daemon"
	CategoryInternal   ErrorCategory = "internal"
)

// ErrorSeverity indicates how critical an error is
type ErrorSeverity string

const (
	SeverityFatal   ErrorSeverity = "fatal"   // Stops execution
	SeverityError   ErrorSeverity = "error"   // Error, but not fatal
	SeverityWarning ErrorSeverity = "warning" // Continues with degraded functionality
	SeverityInfo    ErrorSeverity = "info"    // Informational, no impact
)

// ComposeError is a structured error with category, severity, and context
type ComposeError struct {
	Category ErrorCategory `json:"category"`
	Severity ErrorSeverity `json:"severity"`
	Message  string        `json:"message"`
	Cause    error         `json:"cause,omitempty"`
	Context  ContextFields `json:"context,omitempty"`
}

// ContextFields carries structured context for ComposeError
type ContextFields map[string]any

// Error implements the error interface
func (e *ComposeError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s (%s): %s: %v", e.Category, e.Severity, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s (%s): %s", e.Category, e.Severity, e.Message)
}

// Unwrap implements error unwrapping for Go 1.13+ error handling
func (e *ComposeError) Unwrap() error {
	return e.Cause
}

// WithContext adds context information to the error
func (e *ComposeError) WithContext(key string, value any) *ComposeError {
	if e.Context == nil {
		e.Context = make(ContextFields)
	}
	e.Context[key] = value
	return e
}

// New creates a new ComposeError
func New(category ErrorCategory, severity ErrorSeverity, message string) *ComposeError {
	return &ComposeError{
		Category: category,
		Severity: severity,
		Message:  message,
	}
}

// Wrap creates a new ComposeError that wraps an existing error
func Wrap(err error, category ErrorCategory, severity ErrorSeverity, message string) *ComposeError {
	return &ComposeError{
		Category: category,
		Severity: severity,
		Message:  message,
		Cause:    err,
	}
}

// IsCategory checks if an error belongs to a specific category
func IsCategory(err error, category ErrorCategory) bool {
	if ce, ok := err.(*ComposeError); ok {
		return ce.Category == category
	}
	return false
}

// GetCategory extracts the category from an error, or returns CategoryInternal if not a ComposeError
func GetCategory(err error) ErrorCategory {
	if ce, ok := err.(*ComposeError); ok {
		return ce.Category
	}
	return CategoryInternal
}
