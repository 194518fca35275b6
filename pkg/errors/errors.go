package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrorType classifies an application error for the HTTP boundary.
type ErrorType string

const (
	ErrorTypeValidation ErrorType = "ValidationError"
	ErrorTypeNotFound   ErrorType = "NotFound"
	ErrorTypeConflict   ErrorType = "Conflict"
	ErrorTypeExternal   ErrorType = "UpstreamError"
	ErrorTypeInternal   ErrorType = "ServerError"
)

// AppError is an application-specific error with an HTTP mapping. The
// store's own "not found" is a sentinel, not an AppError; this type covers
// everything that must cross the HTTP boundary with a specific status.
type AppError struct {
	Type       ErrorType
	Message    string
	Cause      error
	HTTPStatus int
}

// Error implements the error interface.
func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Type, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Type, e.Message)
}

// Unwrap returns the underlying error.
func (e *AppError) Unwrap() error {
	return e.Cause
}

// WithCause wraps an underlying error.
func (e *AppError) WithCause(err error) *AppError {
	e.Cause = err
	return e
}

// NewValidationError creates a validation error.
func NewValidationError(message string) *AppError {
	return &AppError{Type: ErrorTypeValidation, Message: message, HTTPStatus: http.StatusBadRequest}
}

// NewNotFoundError creates a not found error.
func NewNotFoundError(resource string) *AppError {
	return &AppError{Type: ErrorTypeNotFound, Message: fmt.Sprintf("%s not found", resource), HTTPStatus: http.StatusNotFound}
}

// NewConflictError creates a conflict error.
func NewConflictError(message string) *AppError {
	return &AppError{Type: ErrorTypeConflict, Message: message, HTTPStatus: http.StatusConflict}
}

// NewExternalError creates an upstream-failure error.
func NewExternalError(message string) *AppError {
	return &AppError{Type: ErrorTypeExternal, Message: message, HTTPStatus: http.StatusBadGateway}
}

// NewInternalError creates an unclassified server error.
func NewInternalError(message string) *AppError {
	return &AppError{Type: ErrorTypeInternal, Message: message, HTTPStatus: http.StatusInternalServerError}
}

// AsAppError extracts an AppError from an error chain.
func AsAppError(err error) (*AppError, bool) {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}
