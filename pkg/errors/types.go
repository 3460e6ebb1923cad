package errors

import (
	stderrors "errors"
	"fmt"
)

// ErrorCode represents a structured error code
type ErrorCode string

const (
	// Input errors
	ErrCodeInvalidReference ErrorCode = "INVALID_REFERENCE"
	ErrCodeInvalidInput     ErrorCode = "INVALID_INPUT"

	// Platform errors
	ErrCodeFetch        ErrorCode = "FETCH_ERROR"
	ErrCodeUnauthorized ErrorCode = "UNAUTHORIZED"

	// Destination errors
	ErrCodeOutput ErrorCode = "OUTPUT_ERROR"

	// Configuration errors
	ErrCodeConfigInvalid ErrorCode = "CONFIG_INVALID"

	// Internal errors
	ErrCodeInternal ErrorCode = "INTERNAL"
)

// Process exit statuses, one per error family
const (
	ExitOK           = 0
	ExitFailure      = 1
	ExitInvalidInput = 2
	ExitFetch        = 3
	ExitOutput       = 4
	ExitConfig       = 5
)

// AppError represents a structured application error
type AppError struct {
	Code    ErrorCode
	Message string
	Details map[string]interface{}
	Cause   error
}

// Error implements the error interface
func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s (caused by: %v)", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause
func (e *AppError) Unwrap() error {
	return e.Cause
}

// WithDetail adds a detail to the error
func (e *AppError) WithDetail(key string, value interface{}) *AppError {
	if e.Details == nil {
		e.Details = make(map[string]interface{})
	}
	e.Details[key] = value
	return e
}

// WithCause sets the underlying cause
func (e *AppError) WithCause(cause error) *AppError {
	e.Cause = cause
	return e
}

// ExitCode returns the process exit status for this error
func (e *AppError) ExitCode() int {
	switch e.Code {
	case ErrCodeInvalidReference, ErrCodeInvalidInput:
		return ExitInvalidInput
	case ErrCodeFetch:
		return ExitFetch
	case ErrCodeOutput:
		return ExitOutput
	case ErrCodeConfigInvalid, ErrCodeUnauthorized:
		return ExitConfig
	default:
		return ExitFailure
	}
}

// New creates a new AppError
func New(code ErrorCode, message string) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
	}
}

// Newf creates a new AppError with formatted message
func Newf(code ErrorCode, format string, args ...interface{}) *AppError {
	return &AppError{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
	}
}

// Wrap wraps an existing error with an AppError
func Wrap(cause error, code ErrorCode, message string) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
		Cause:   cause,
	}
}

// Wrapf wraps an existing error with a formatted message
func Wrapf(cause error, code ErrorCode, format string, args ...interface{}) *AppError {
	return &AppError{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Cause:   cause,
	}
}

// Common error constructors

// InvalidReference creates an error for a show reference that cannot be resolved
func InvalidReference(input string, reason string) *AppError {
	return Newf(ErrCodeInvalidReference, "invalid show reference %q: %s", input, reason).
		WithDetail("input", input)
}

// FetchError creates an error for a failed page request at the given offset
func FetchError(offset int, cause error) *AppError {
	return Wrapf(cause, ErrCodeFetch, "fetching episodes at offset %d failed", offset).
		WithDetail("offset", offset)
}

// OutputError creates an error for a destination that cannot be opened or written
func OutputError(destination string, cause error) *AppError {
	return Wrapf(cause, ErrCodeOutput, "writing to %s failed", destination).
		WithDetail("destination", destination)
}

// ConfigError creates a configuration error
func ConfigError(key string, reason string) *AppError {
	return New(ErrCodeConfigInvalid, fmt.Sprintf("configuration error for '%s': %s", key, reason)).
		WithDetail("key", key).
		WithDetail("reason", reason)
}

// Unauthorized creates an error for missing or rejected API credentials
func Unauthorized(reason string, cause error) *AppError {
	return Wrap(cause, ErrCodeUnauthorized, reason)
}

// Is checks if an error, or any error it wraps, carries a specific code
func Is(err error, code ErrorCode) bool {
	var appErr *AppError
	if stderrors.As(err, &appErr) {
		return appErr.Code == code
	}
	return false
}

// GetCode extracts the error code from an error
func GetCode(err error) ErrorCode {
	var appErr *AppError
	if stderrors.As(err, &appErr) {
		return appErr.Code
	}
	return ErrCodeInternal
}

// GetDetail extracts a detail value from an error chain
func GetDetail(err error, key string) (interface{}, bool) {
	var appErr *AppError
	if !stderrors.As(err, &appErr) || appErr.Details == nil {
		return nil, false
	}
	v, ok := appErr.Details[key]
	return v, ok
}

// ExitCode maps any error to a process exit status
func ExitCode(err error) int {
	if err == nil {
		return ExitOK
	}
	var appErr *AppError
	if stderrors.As(err, &appErr) {
		return appErr.ExitCode()
	}
	return ExitFailure
}
