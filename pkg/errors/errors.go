// Package errors provides structured error types for relfetch.
//
// Every externally-facing operation in relfetch returns either a value or an
// *Error carrying one of the codes below. Callers can tell a release that
// does not exist apart from a feed that could not be reached:
//
//	rel, err := client.LatestRelease(ctx, "owner/repo")
//	switch {
//	case errors.Is(err, errors.ErrCodeNotFound):
//	    // nothing published yet
//	case errors.Is(err, errors.ErrCodeNetwork):
//	    // transient; retry later
//	}
//
// # Error Codes
//
// Error codes follow a hierarchical naming convention:
//   - INVALID_*: Input validation failures
//   - NOT_FOUND / *_NOT_FOUND: Absent resources
//   - NETWORK_*: Transport failures
//   - MALFORMED_*: Payloads with an unexpected shape
//   - INTERNAL_*: Unexpected internal errors
package errors

import (
	"errors"
	"fmt"
)

// Code represents a machine-readable error code.
type Code string

// Error codes for different error categories.
const (
	// Input validation errors
	ErrCodeInvalidInput Code = "INVALID_INPUT"
	ErrCodeInvalidRepo  Code = "INVALID_REPO"
	ErrCodeInvalidTag   Code = "INVALID_TAG"

	// Absence
	ErrCodeNotFound        Code = "NOT_FOUND"
	ErrCodeVersionNotFound Code = "VERSION_NOT_FOUND"
	ErrCodeMissingMapping  Code = "MISSING_MAPPING"

	// Transport and payload errors
	ErrCodeNetwork   Code = "NETWORK_ERROR"
	ErrCodeMalformed Code = "MALFORMED_PAYLOAD"

	// Internal errors
	ErrCodeInternal Code = "INTERNAL_ERROR"
)

// Error is a structured error with a code and optional cause.
type Error struct {
	Code    Code   // Machine-readable error code
	Message string // Human-readable message
	Cause   error  // Underlying error (optional)
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause for errors.Is/As compatibility.
func (e *Error) Unwrap() error {
	return e.Cause
}

// New creates a new Error with the given code and formatted message.
func New(code Code, format string, args ...any) *Error {
	return &Error{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
	}
}

// Wrap creates a new Error wrapping an existing error.
func Wrap(code Code, cause error, format string, args ...any) *Error {
	return &Error{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Cause:   cause,
	}
}

// Is reports whether err has the given error code.
// The outermost *Error in the chain decides.
func Is(err error, code Code) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Code == code
	}
	return false
}

// GetCode extracts the error code from an error, if available.
// Returns empty string if the error is not an *Error.
func GetCode(err error) Code {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return ""
}

// Recode returns err unchanged when it already carries a code, and otherwise
// wraps it under code. Useful at package boundaries where lower layers may
// return plain errors.
func Recode(code Code, err error, format string, args ...any) error {
	if err == nil {
		return nil
	}
	if GetCode(err) != "" {
		return err
	}
	return Wrap(code, err, format, args...)
}

// IsAbsent reports whether err describes a missing resource rather than a
// failure to reach or understand the feed.
func IsAbsent(err error) bool {
	switch GetCode(err) {
	case ErrCodeNotFound, ErrCodeVersionNotFound, ErrCodeMissingMapping:
		return true
	}
	return false
}

// UserMessage returns a user-friendly message for the error.
// For *Error types, returns the message without the code prefix.
// For other errors, returns the error string as-is.
func UserMessage(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Message
	}
	return err.Error()
}
