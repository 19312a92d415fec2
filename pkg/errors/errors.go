package errors

import (
	"fmt"
	"net/http"
	"strings"
)

// StatusError is implemented by errors that map to a specific HTTP status.
type StatusError interface {
	error
	HTTPStatus() int
}

// BadRequestError represents a rejected request payload. The status is
// explicit because empty create bodies are reported as 404.
type BadRequestError struct {
	Status  int
	Message string
}

// NewBadRequestError creates a new bad request error with an explicit status.
func NewBadRequestError(status int, message string) *BadRequestError {
	return &BadRequestError{
		Status:  status,
		Message: message,
	}
}

// Error implements the error interface
func (e *BadRequestError) Error() string {
	return e.Message
}

// HTTPStatus returns the HTTP status for this error
func (e *BadRequestError) HTTPStatus() int {
	if e.Status != 0 {
		return e.Status
	}
	return http.StatusBadRequest
}

// NotFoundError represents a lookup that yielded no record
type NotFoundError struct {
	Resource string
	Message  string
}

// NewNotFoundError creates a new not found error
func NewNotFoundError(resource, message string) *NotFoundError {
	return &NotFoundError{
		Resource: resource,
		Message:  message,
	}
}

// Error implements the error interface
func (e *NotFoundError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return fmt.Sprintf("%s not found", e.Resource)
}

// HTTPStatus returns the HTTP status for this error
func (e *NotFoundError) HTTPStatus() int {
	return http.StatusNotFound
}

// ValidationError represents a schema-level required/unique violation.
// It carries no intrinsic status; the transport layer assigns the configured
// validation status when translating it.
type ValidationError struct {
	Fields  []string
	Message string
}

// NewValidationError creates a new validation error
func NewValidationError(message string, fields ...string) *ValidationError {
	return &ValidationError{
		Fields:  fields,
		Message: message,
	}
}

// Error implements the error interface
func (e *ValidationError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return fmt.Sprintf("validation failed: %s", strings.Join(e.Fields, ", "))
}

// InternalError represents an unexpected failure with context
type InternalError struct {
	Message string
	Err     error
}

// NewInternalError creates a new internal error
func NewInternalError(message string, err error) *InternalError {
	return &InternalError{
		Message: message,
		Err:     err,
	}
}

// Error implements the error interface
func (e *InternalError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

// Unwrap returns the wrapped error
func (e *InternalError) Unwrap() error {
	return e.Err
}

// HTTPStatus returns the HTTP status for this error
func (e *InternalError) HTTPStatus() int {
	return http.StatusInternalServerError
}
