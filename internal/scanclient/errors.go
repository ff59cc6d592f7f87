package scanclient

import (
	"fmt"
	"net/http"
)

// APIError is returned when the scanning service answers with a non-success status.
type APIError struct {
	StatusCode int
	Message    string
}

// Error implements the error interface.
func (e *APIError) Error() string {
	return e.Message
}

// NewAPIError creates an APIError, falling back to the HTTP status text when the service sent no message.
func NewAPIError(statusCode int, message string) *APIError {
	if message == "" {
		message = fmt.Sprintf("scanning service returned %d %s", statusCode, http.StatusText(statusCode))
	}
	return &APIError{
		StatusCode: statusCode,
		Message:    message,
	}
}
