package orchestrator

import (
	"errors"
	"fmt"
)

type ErrorCategory string

// Error categories for reconciliation lifecycle failures.
const (
	// ErrInvalidInput is returned when a required argument is missing or malformed
	ErrInvalidInput ErrorCategory = "invalid_input"

	// ErrEmptyChangeSet is returned when a submission carries no changes
	ErrEmptyChangeSet ErrorCategory = "empty_change_set"

	// ErrSubmissionFailed is returned when the remote API rejects the submission outright
	ErrSubmissionFailed ErrorCategory = "submission_failed"

	// ErrPollTimeout is returned when a change set does not settle within the poll timeout
	ErrPollTimeout ErrorCategory = "poll_timeout"

	// ErrAborted is returned when the caller cancels a wait through its context
	ErrAborted ErrorCategory = "aborted"

	// ErrRemoteFailed is returned when the remote API reports the change set failed
	ErrRemoteFailed ErrorCategory = "remote_failed"

	// ErrRemoteCancelled is returned when the change set was cancelled remotely
	ErrRemoteCancelled ErrorCategory = "remote_cancelled"
)

// Error represents a reconciliation failure with the change set it concerned.
type Error struct {
	// Category for programmatic error handling
	Category ErrorCategory

	// ChangeSetID identifies the change set when one exists
	ChangeSetID string

	// Message provides human-readable details
	Message string

	// Underlying is the wrapped cause of this error
	Underlying error
}

// Error returns a formatted error message
func (e *Error) Error() string {
	if e.ChangeSetID != "" {
		return fmt.Sprintf("%s: %s [change set: %s]", e.Category, e.Message, e.ChangeSetID)
	}
	return fmt.Sprintf("%s: %s", e.Category, e.Message)
}

// Unwrap returns the underlying error
func (e *Error) Unwrap() error {
	return e.Underlying
}

// NewError creates a new reconciliation error with the specified details
func NewError(category ErrorCategory, message, changeSetID string, underlying error) *Error {
	return &Error{
		Category:    category,
		ChangeSetID: changeSetID,
		Message:     message,
		Underlying:  underlying,
	}
}

// IsErrorCategory checks if an error belongs to a specific error category
func IsErrorCategory(err error, category ErrorCategory) bool {
	if err == nil {
		return false
	}

	var rErr *Error
	if errors.As(err, &rErr) {
		return rErr.Category == category
	}

	return false
}
