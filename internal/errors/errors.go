// Package errors defines the structured API error type and the fixed
// error taxonomy surfaced to users. Every computation-stage failure is
// converted to one of these at the handler boundary; nothing propagates
// into a later, unrelated action.
package errors

import (
	"fmt"
	"net/http"

	"github.com/go-chi/render"
)

// APIError is a structured, user-visible error response.
type APIError struct {
	StatusCode int         `json:"status_code"`
	ErrorCode  string      `json:"error_code"`
	Message    string      `json:"message"`
	Details    interface{} `json:"details,omitempty"`
}

// Error implements the error interface.
func (e *APIError) Error() string {
	return e.Message
}

// Render implements render.Renderer.
func (e *APIError) Render(w http.ResponseWriter, r *http.Request) error {
	render.Status(r, e.StatusCode)
	return nil
}

// New creates an APIError.
func New(statusCode int, errorCode, message string) *APIError {
	return &APIError{StatusCode: statusCode, ErrorCode: errorCode, Message: message}
}

// NewWithDetails creates an APIError with additional details.
func NewWithDetails(statusCode int, errorCode, message string, details interface{}) *APIError {
	return &APIError{StatusCode: statusCode, ErrorCode: errorCode, Message: message, Details: details}
}

// Predefined errors for the fixed taxonomy.
var (
	ErrInvalidRequest     = New(http.StatusBadRequest, "INVALID_REQUEST", "Invalid request format")
	ErrInvalidCredentials = New(http.StatusUnauthorized, "INVALID_CREDENTIALS", "Invalid credentials")
	ErrUnauthorized       = New(http.StatusUnauthorized, "UNAUTHORIZED", "Authentication required")
	ErrDefaultMissing     = New(http.StatusNotFound, "DEFAULT_COEFFICIENTS_MISSING", "Default coefficient file not found. Please generate or upload one.")
	ErrNoMedianRow        = New(http.StatusUnprocessableEntity, "MEDIAN_ROW_MISSING", "Median row not found in cost rate file")
	ErrInternalServer     = New(http.StatusInternalServerError, "INTERNAL_SERVER_ERROR", "Internal server error")
)

// MissingColumnError creates an error naming the absent upload column.
func MissingColumnError(column string) *APIError {
	return NewWithDetails(http.StatusBadRequest, "MISSING_COLUMN",
		fmt.Sprintf("Uploaded file is missing required column %q", column), column)
}

// FileProcessingError wraps a computation-stage failure for one upload.
func FileProcessingError(err error) *APIError {
	return NewWithDetails(http.StatusUnprocessableEntity, "FILE_PROCESSING_FAILED",
		"Failed to process uploaded file", err.Error())
}

// MissingFileError reports an absent multipart file field.
func MissingFileError(field string) *APIError {
	return NewWithDetails(http.StatusBadRequest, "MISSING_FILE",
		fmt.Sprintf("Request is missing required file %q", field), field)
}

// ErrValidation creates a validation error with field details.
func ErrValidation(field, message string) *APIError {
	return NewWithDetails(http.StatusBadRequest, "VALIDATION_FAILED",
		"Request validation failed", map[string]string{"field": field, "message": message})
}

// ErrorResponse is the standard error envelope.
type ErrorResponse struct {
	Success bool      `json:"success"`
	Error   *APIError `json:"error"`
}

// NewErrorResponse wraps an APIError in the standard envelope.
func NewErrorResponse(err *APIError) *ErrorResponse {
	return &ErrorResponse{Success: false, Error: err}
}

// Render implements render.Renderer.
func (e *ErrorResponse) Render(w http.ResponseWriter, r *http.Request) error {
	return e.Error.Render(w, r)
}
