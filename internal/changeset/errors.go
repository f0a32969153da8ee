package changeset

import (
	"errors"
	"fmt"
)

// Error categories for change operation building.
const (
	// ErrInvalidInput represents validation errors in input parameters
	ErrInvalidInput = "invalid_input"

	// ErrMissingTargetID represents an operation that needs an entity id
	// the caller did not supply
	ErrMissingTargetID = "missing_target_id"

	// ErrUnsupportedChange represents a diff entry no change operation can
	// express against the remote API
	ErrUnsupportedChange = "unsupported_change"
)

// Error represents a failure while building or rendering change operations.
type Error struct {
	// Category helps with programmatic error handling
	Category string

	// Message provides human-readable details
	Message string

	// Field identifies the diff entry or operation at fault (if applicable)
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

// NewError creates a new builder error with the given category and details
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
