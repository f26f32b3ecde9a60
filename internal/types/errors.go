package types

import (
	"errors"
	"fmt"
)

// ErrorCode represents a namespaced error code for tripeval errors.
type ErrorCode string

// Configuration error codes
const (
	CONFIG_LOAD_FAILED       ErrorCode = "CONFIG_LOAD_FAILED"
	CONFIG_PARSE_FAILED      ErrorCode = "CONFIG_PARSE_FAILED"
	CONFIG_VALIDATION_FAILED ErrorCode = "CONFIG_VALIDATION_FAILED"
	CONFIG_NOT_FOUND         ErrorCode = "CONFIG_NOT_FOUND"
)

// Evaluation input error codes
const (
	CONTEXT_LOAD_FAILED  ErrorCode = "CONTEXT_LOAD_FAILED"
	CONTEXT_PARSE_FAILED ErrorCode = "CONTEXT_PARSE_FAILED"
	ITINERARY_NOT_FOUND  ErrorCode = "ITINERARY_NOT_FOUND"
)

// Transcript replay error codes
const (
	TRANSCRIPT_READ_FAILED  ErrorCode = "TRANSCRIPT_READ_FAILED"
	TRANSCRIPT_PARSE_FAILED ErrorCode = "TRANSCRIPT_PARSE_FAILED"
)

// Results persistence error codes
const (
	RESULTS_WRITE_FAILED ErrorCode = "RESULTS_WRITE_FAILED"
	RESULTS_READ_FAILED  ErrorCode = "RESULTS_READ_FAILED"
)

// TripevalError represents a structured error with error code, message, and optional cause.
type TripevalError struct {
	Code      ErrorCode
	Message   string
	Retryable bool
	Cause     error
}

// Error implements the error interface, returning a formatted error message.
// Format: "[CODE] message" or "[CODE] message: cause" if cause exists.
func (e *TripevalError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause error for error unwrapping chains.
func (e *TripevalError) Unwrap() error {
	return e.Cause
}

// Is reports whether target is a TripevalError with the same Code.
func (e *TripevalError) Is(target error) bool {
	var other *TripevalError
	if errors.As(target, &other) {
		return e.Code == other.Code
	}
	return false
}

// NewError creates a new non-retryable TripevalError with the given code and message.
func NewError(code ErrorCode, message string) *TripevalError {
	return &TripevalError{
		Code:    code,
		Message: message,
	}
}

// NewRetryableError creates a new retryable TripevalError.
// Use this for transient errors such as a temporarily unwritable output directory.
func NewRetryableError(code ErrorCode, message string) *TripevalError {
	return &TripevalError{
		Code:      code,
		Message:   message,
		Retryable: true,
	}
}

// WrapError creates a new non-retryable TripevalError that wraps an existing error.
func WrapError(code ErrorCode, message string, cause error) *TripevalError {
	return &TripevalError{
		Code:    code,
		Message: message,
		Cause:   cause,
	}
}

// CodeOf returns the ErrorCode of the first TripevalError in err's chain,
// or the empty code if there is none.
func CodeOf(err error) ErrorCode {
	var te *TripevalError
	if errors.As(err, &te) {
		return te.Code
	}
	return ""
}

// IsRetryable reports whether err carries a retryable TripevalError.
func IsRetryable(err error) bool {
	var te *TripevalError
	if errors.As(err, &te) {
		return te.Retryable
	}
	return false
}
