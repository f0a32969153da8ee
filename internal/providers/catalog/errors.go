package catalog

import (
	"errors"
	"fmt"
	"strings"
)

type ErrorCategory string

// Error categories for programmatic handling of catalog API failures.
const (
	// ErrResourceNotFound is returned when a requested entity or change set doesn't exist
	ErrResourceNotFound ErrorCategory = "resource_not_found"

	// ErrPermissionDenied is returned when catalog API access is denied
	ErrPermissionDenied ErrorCategory = "permission_denied"

	// ErrThrottling is returned when the catalog API throttles the request
	ErrThrottling ErrorCategory = "request_throttled"

	// ErrConfigurationError is returned when there's an issue with AWS configuration
	ErrConfigurationError ErrorCategory = "configuration_error"

	// ErrNetworkError is returned for network-related errors reaching the catalog API
	ErrNetworkError ErrorCategory = "network_error"

	// ErrInvalidInput is returned when the catalog API rejects the request contents
	ErrInvalidInput ErrorCategory = "invalid_input"

	// ErrInternalError is returned for unexpected internal errors
	ErrInternalError ErrorCategory = "internal_error"
)

// Error represents a failure of a catalog operation with additional context
// about the entity involved.
type Error struct {
	// Category for programmatic error handling
	Category ErrorCategory

	// EntityType identifies the catalog entity type (e.g. AmiProduct, Offer)
	EntityType string

	// EntityID identifies the specific entity or change set when applicable
	EntityID string

	// Message provides human-readable details
	Message string

	// Underlying is the wrapped cause of this error
	Underlying error
}

// Error returns a formatted error message
func (e *Error) Error() string {
	if e.EntityID != "" {
		return fmt.Sprintf("%s: %s [entity: %s/%s]", e.Category, e.Message, e.EntityType, e.EntityID)
	}
	if e.EntityType != "" {
		return fmt.Sprintf("%s: %s [entity type: %s]", e.Category, e.Message, e.EntityType)
	}
	return fmt.Sprintf("%s: %s", e.Category, e.Message)
}

// Unwrap returns the underlying error
func (e *Error) Unwrap() error {
	return e.Underlying
}

// NewCatalogError creates a new catalog error with the specified details
func NewCatalogError(category ErrorCategory, entityType, entityID, message string, underlying error) *Error {
	return &Error{
		Category:   category,
		EntityType: entityType,
		EntityID:   entityID,
		Message:    message,
		Underlying: underlying,
	}
}

// IsErrorCategory checks if an error belongs to a specific error category
func IsErrorCategory(err error, category ErrorCategory) bool {
	if err == nil {
		return false
	}

	var catErr *Error
	if errors.As(err, &catErr) {
		return catErr.Category == category
	}

	return false
}

// ClassifyCatalogError classifies a catalog API error based on its message
// and the entity it concerned.
func ClassifyCatalogError(err error, entityType, entityID string) *Error {
	if err == nil {
		return nil
	}

	errMsg := err.Error()

	switch {
	// Classify based on the Marketplace Catalog API error codes
	// Reference: https://docs.aws.amazon.com/marketplace-catalog/latest/api-reference/CommonErrors.html
	case contains(errMsg, "ResourceNotFoundException") ||
		contains(errMsg, "ResourceNotFound"):
		return NewCatalogError(ErrResourceNotFound, entityType, entityID,
			"Entity not found", err)

	case contains(errMsg, "AccessDeniedException") ||
		contains(errMsg, "UnrecognizedClientException") ||
		contains(errMsg, "UnauthorizedOperation"):
		return NewCatalogError(ErrPermissionDenied, entityType, entityID,
			"Access denied", err)

	case contains(errMsg, "ThrottlingException") ||
		contains(errMsg, "RequestLimitExceeded"):
		return NewCatalogError(ErrThrottling, entityType, entityID,
			"Request throttled", err)

	case contains(errMsg, "ValidationException") ||
		contains(errMsg, "BadRequestException"):
		return NewCatalogError(ErrInvalidInput, entityType, entityID,
			"Invalid request", err)

		// Fall back to string-based analysis for non-standard errors
	case contains(errMsg, "no such host") ||
		contains(errMsg, "connection refused") ||
		contains(errMsg, "timeout"):
		return NewCatalogError(ErrNetworkError, entityType, entityID,
			"Network error while accessing the catalog API", err)

	case contains(errMsg, "InvalidClientTokenId") ||
		contains(errMsg, "could not find region") ||
		contains(errMsg, "failed to retrieve credentials"):
		return NewCatalogError(ErrConfigurationError, entityType, entityID,
			"AWS SDK configuration error", err)

	default:
		return NewCatalogError(ErrInternalError, entityType, entityID,
			"Internal error occurred", err)
	}
}

// contains checks if the error message contains any of the provided substrings
func contains(s string, substrings ...string) bool {
	for _, substr := range substrings {
		if strings.Contains(strings.ToLower(s), strings.ToLower(substr)) {
			return true
		}
	}
	return false
}
