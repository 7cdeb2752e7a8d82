package clamd

import (
	"errors"
	"fmt"
)

// Error codes for machine-readable error classification.
const (
	CodeConnection = "connection_error"
	CodeIO         = "io_error"
	CodeTimeout    = "timeout"
	CodeParse      = "parse_error"
	CodeValidation = "validation_error"
)

// Error is the base error type for all client errors.
type Error struct {
	// Code is a machine-readable error code.
	Code string
	// Message is a human-readable error description.
	Message string
	// Cause is the underlying error, if any.
	Cause error
}

// Error returns the human-readable error message.
func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

// Unwrap returns the underlying cause for use with errors.Is and errors.As.
func (e *Error) Unwrap() error {
	return e.Cause
}

// NewConnectionError creates an error indicating the TCP connection to the
// daemon could not be established.
func NewConnectionError(msg string, cause error) *Error {
	return &Error{
		Code:    CodeConnection,
		Message: msg,
		Cause:   cause,
	}
}

// NewIOError creates an error indicating a send or receive failure on an
// established connection.
func NewIOError(msg string, cause error) *Error {
	return &Error{
		Code:    CodeIO,
		Message: msg,
		Cause:   cause,
	}
}

// NewTimeoutError creates an error indicating a timeout or cancellation.
func NewTimeoutError(msg string, cause error) *Error {
	return &Error{
		Code:    CodeTimeout,
		Message: msg,
		Cause:   cause,
	}
}

// NewParseError creates an error indicating the daemon's reply did not match
// any known grammar. This signals protocol drift or daemon incompatibility,
// not a daemon-reported scan error.
func NewParseError(msg string, cause error) *Error {
	return &Error{
		Code:    CodeParse,
		Message: msg,
		Cause:   cause,
	}
}

// NewValidationError creates an error indicating invalid input.
func NewValidationError(msg string, cause error) *Error {
	return &Error{
		Code:    CodeValidation,
		Message: msg,
		Cause:   cause,
	}
}

// IsConnectionError reports whether err is or wraps a connection error.
func IsConnectionError(err error) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Code == CodeConnection
	}
	return false
}

// IsIOError reports whether err is or wraps an I/O error.
func IsIOError(err error) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Code == CodeIO
	}
	return false
}

// IsTimeoutError reports whether err is or wraps a timeout error.
func IsTimeoutError(err error) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Code == CodeTimeout
	}
	return false
}

// IsParseError reports whether err is or wraps a parse error.
func IsParseError(err error) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Code == CodeParse
	}
	return false
}

// IsValidationError reports whether err is or wraps a validation error.
func IsValidationError(err error) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Code == CodeValidation
	}
	return false
}
