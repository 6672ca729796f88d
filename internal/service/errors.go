package service

import (
	"errors"
	"fmt"

	"github.com/phrazzld/estate-api/internal/store"
)

// Common service errors - sentinel errors used across service implementations.
// Callers use errors.Is to check for them; the API layer maps them to HTTP statuses.
var (
	// ErrPropertyNotFound indicates that the property does not exist.
	// API layer should map this to HTTP 404 Not Found.
	ErrPropertyNotFound = errors.New("property not found")

	// ErrCategoryNotFound indicates that a referenced category does not exist.
	ErrCategoryNotFound = errors.New("category not found")
)

// ServiceError wraps errors from the service layer with context.
type ServiceError struct {
	// Operation is the operation that failed (e.g., "regenerate", "request_regeneration")
	Operation string
	// Message is a human-readable description of the error
	Message string
	// Err is the underlying error that caused the failure
	Err error
}

// Error implements the error interface for ServiceError.
func (e *ServiceError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("service %s failed: %s: %v", e.Operation, e.Message, e.Err)
	}
	return fmt.Sprintf("service %s failed: %s", e.Operation, e.Message)
}

// Unwrap returns the wrapped error to support errors.Is/errors.As.
func (e *ServiceError) Unwrap() error {
	return e.Err
}

// NewServiceError creates a new ServiceError.
// Store "not found" errors are translated to the service sentinels and
// returned unwrapped.
func NewServiceError(operation, message string, err error) error {
	if err == nil {
		return nil
	}
	switch {
	case errors.Is(err, ErrPropertyNotFound), errors.Is(err, store.ErrPropertyNotFound):
		return ErrPropertyNotFound
	case errors.Is(err, ErrCategoryNotFound), errors.Is(err, store.ErrCategoryNotFound):
		return ErrCategoryNotFound
	}
	return &ServiceError{Operation: operation, Message: message, Err: err}
}
