package spotify

import (
	"errors"
	"fmt"
)

// ErrMalformedResponse marks a body that is not valid JSON or lacks required fields
var ErrMalformedResponse = errors.New("malformed response")

// APIError represents a non-success response from the Web API
type APIError struct {
	StatusCode int
	Message    string
	Endpoint   string
}

func (e APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("API error from %s (status %d)", e.Endpoint, e.StatusCode)
	}
	return fmt.Sprintf("API error from %s (status %d): %s", e.Endpoint, e.StatusCode, e.Message)
}

// NewAPIError creates a new APIError
func NewAPIError(endpoint string, statusCode int, message string) error {
	return APIError{
		Endpoint:   endpoint,
		StatusCode: statusCode,
		Message:    message,
	}
}
