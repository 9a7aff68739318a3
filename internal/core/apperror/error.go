// Package apperror provides structured error handling following RFC 7807 Problem Details.
// Every error surfaced to API clients or batch callers should be an AppError.
package apperror

import (
	"errors"
	"fmt"
	"net/http"
)

// Error codes
const (
	// Infrastructure errors (5xx)
	CodeInternal           = "INTERNAL_ERROR"
	CodeBackendUnavailable = "BACKEND_UNAVAILABLE"

	// Validation errors (400)
	CodeValidation = "VALIDATION_ERROR"

	// Record shape violations (422)
	CodeMalformedRecord = "MALFORMED_RECORD"

	// Not found (404)
	CodeUnknownEntity = "UNKNOWN_ENTITY"
)

// AppError is the standard error type for the service.
// It implements error interface and provides structured details for API responses.
type AppError struct {
	// Code is a machine-readable error identifier
	Code string `json:"code"`

	// Message is a human-readable error description
	Message string `json:"message"`

	// Details contains additional context (entity, index, field...)
	Details map[string]any `json:"details,omitempty"`

	// HTTPStatus is the suggested HTTP status code
	HTTPStatus int `json:"-"`

	// Err is the underlying error (not exposed in JSON)
	Err error `json:"-"`
}

// Error implements error interface
func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s (caused by: %v)", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying error for errors.Is/As support
func (e *AppError) Unwrap() error {
	return e.Err
}

// WithDetail adds a key-value pair to error details
func (e *AppError) WithDetail(key string, value any) *AppError {
	if e.Details == nil {
		e.Details = make(map[string]any)
	}
	e.Details[key] = value
	return e
}

// WithCause sets the underlying error
func (e *AppError) WithCause(err error) *AppError {
	e.Err = err
	return e
}

// --- Factory functions ---

// NewValidation creates a validation error (400)
func NewValidation(message string) *AppError {
	return &AppError{
		Code:       CodeValidation,
		Message:    message,
		HTTPStatus: http.StatusBadRequest,
	}
}

// NewMalformedRecord reports a raw record that is not an object at all.
// kind names what was received instead ("array", "string", "null"...).
// Missing or oddly typed fields never produce this error.
func NewMalformedRecord(entity, kind string) *AppError {
	return &AppError{
		Code:       CodeMalformedRecord,
		Message:    fmt.Sprintf("%s record must be an object, got %s", entity, kind),
		HTTPStatus: http.StatusUnprocessableEntity,
		Details:    map[string]any{"entity": entity, "got": kind},
	}
}

// NewUnknownEntity is returned when no normalizer is registered for a name.
func NewUnknownEntity(name string) *AppError {
	return &AppError{
		Code:       CodeUnknownEntity,
		Message:    fmt.Sprintf("unknown entity %q", name),
		HTTPStatus: http.StatusNotFound,
		Details:    map[string]any{"entity": name},
	}
}

// NewBackendUnavailable wraps a failed call to the ERP backend (502).
func NewBackendUnavailable(err error) *AppError {
	return &AppError{
		Code:       CodeBackendUnavailable,
		Message:    "Backend request failed",
		HTTPStatus: http.StatusBadGateway,
		Err:        err,
	}
}

// NewInternal creates an internal server error (hides details from client)
func NewInternal(err error) *AppError {
	return &AppError{
		Code:       CodeInternal,
		Message:    "Internal server error",
		HTTPStatus: http.StatusInternalServerError,
		Err:        err,
	}
}

// --- Helper functions ---

// AsAppError extracts AppError from error chain
func AsAppError(err error) (*AppError, bool) {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}

// CodeOf returns the AppError code, or CodeInternal for foreign errors.
func CodeOf(err error) string {
	if appErr, ok := AsAppError(err); ok {
		return appErr.Code
	}
	return CodeInternal
}
