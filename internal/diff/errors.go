package diff

import (
	"errors"
	"fmt"
)

// Error categories for comparison failures.
const (
	// ErrInvalidInput represents validation errors in input parameters
	ErrInvalidInput = "invalid_input"

	// ErrSchemaMismatch represents a desired document that violates the
	// declared listing schema
	ErrSchemaMismatch = "schema_mismatch"
)

// Error represents a failure during listing comparison with context about
// which field was at fault.
type Error struct {
	// Category helps with programmatic error handling
	Category string

	// Message provides human-readable details
	Message string

	// Field identifies the offending field (if applicable)
	Field string

	// Underlying is the wrapped cause of this error
	Underlying error
}

// Error returns the error message
func (e *Error) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("%s: %s (field: %s)", e.Category, e.Message, e.Field)
	}
	return fmt.Sprintf("%s: %s", e.Category, e.Message)
}

// Unwrap returns the underlying error (for errors.Is/As support)
func (e *Error) Unwrap() error {
	return e.Underlying
}

// NewError creates a new comparison error with the given category and details
func NewError(category, message, field string, underlying error) *Error {
	return &Error{
		Category:   category,
		Message:    message,
		Field:      field,
		Underlying: underlying,
	}
}

// IsErrorCategory checks if an error belongs to a specific error category
func IsErrorCategory(err error, category string) bool {
	if err == nil {
		return false
	}
	var e *Error
	if errors.As(err, &e) {
		return e.Category == category
	}
	return false
}
