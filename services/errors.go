package services

import (
	"errors"
	"fmt"
)

// ErrorType represents the type/category of error
type ErrorType string

const (
	ErrorTypeValidation  ErrorType = "validation"
	ErrorTypeNotFound    ErrorType = "not_found"
	ErrorTypeRetrieval   ErrorType = "retrieval"
	ErrorTypeBackend     ErrorType = "backend_unavailable"
	ErrorTypePersistence ErrorType = "persistence"
	ErrorTypeInternal    ErrorType = "internal"
)

// DomainError represents a structured error with a category. Validation and
// not-found errors map to client responses; retrieval and internal errors map
// to server errors; backend and persistence errors are absorbed by the
// pipeline and never reach the caller.
type DomainError struct {
	Type    ErrorType
	Message string
	Err     error
}

// Error implements the error interface
func (e *DomainError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s (%v)", e.Type, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Type, e.Message)
}

// Unwrap implements errors.Unwrap
func (e *DomainError) Unwrap() error {
	return e.Err
}

// Is implements errors.Is
func (e *DomainError) Is(target error) bool {
	t, ok := target.(*DomainError)
	if !ok {
		return false
	}
	return e.Type == t.Type
}

// NewDomainError creates a new domain error
func NewDomainError(errType ErrorType, message string, err error) *DomainError {
	return &DomainError{
		Type:    errType,
		Message: message,
		Err:     err,
	}
}

var (
	ErrEmptyQuestion        = NewDomainError(ErrorTypeValidation, "question cannot be empty", nil)
	ErrMissingField         = NewDomainError(ErrorTypeValidation, "missing required field", nil)
	ErrConversationNotFound = NewDomainError(ErrorTypeNotFound, "conversation not found", nil)
	ErrRetrievalFailed      = NewDomainError(ErrorTypeRetrieval, "vector store query failed", nil)
	ErrBackendUnavailable   = NewDomainError(ErrorTypeBackend, "generation backend unavailable", nil)
	ErrPersistenceFailed    = NewDomainError(ErrorTypePersistence, "conversation store write failed", nil)
	ErrInternal             = NewDomainError(ErrorTypeInternal, "internal server error", nil)
)

// IsValidationError checks if an error is a validation error
func IsValidationError(err error) bool {
	return hasType(err, ErrorTypeValidation)
}

// IsNotFoundError checks if an error is a not found error
func IsNotFoundError(err error) bool {
	return hasType(err, ErrorTypeNotFound)
}

// IsRetrievalError checks if an error is a retrieval error
func IsRetrievalError(err error) bool {
	return hasType(err, ErrorTypeRetrieval)
}

// IsPersistenceError checks if an error is a persistence error
func IsPersistenceError(err error) bool {
	return hasType(err, ErrorTypePersistence)
}

func hasType(err error, t ErrorType) bool {
	var domainErr *DomainError
	if errors.As(err, &domainErr) {
		return domainErr.Type == t
	}
	return false
}

// GetErrorType returns the ErrorType of a domain error, or empty string if not a domain error
func GetErrorType(err error) ErrorType {
	var domainErr *DomainError
	if errors.As(err, &domainErr) {
		return domainErr.Type
	}
	return ""
}

// WrapError wraps an error with a category and message
func WrapError(errType ErrorType, message string, err error) error {
	return NewDomainError(errType, message, err)
}
