// Package errors provides the coded error taxonomy used across gdm.
//
// Errors fall into three tiers:
//   - Validation: a declaration is malformed (INVALID_SOURCE, INVALID_CONFIG).
//     Raised before any filesystem work happens for that entry.
//   - Fatal: the run must stop and the user must decide (UNCOMMITTED_CHANGES,
//     LINK_OCCUPIED). Messages name the offending path and the --force flag.
//   - Operational: git, filesystem, or traversal failures.
//
// Library code only returns these values. The entry point alone decides to
// terminate the process.
//
// # Usage
//
//	err := errors.New(errors.ErrCodeInvalidSource, "'repo' missing on %s", src)
//	if errors.Is(err, errors.ErrCodeInvalidSource) {
//	    // Handle validation error
//	}
//
//	err := errors.Wrap(errors.ErrCodeVCS, origErr, "git fetch in %s", dir)
package errors

import (
	"errors"
	"fmt"
)

// Code represents a machine-readable error code.
type Code string

// Error codes for different error categories.
const (
	// Validation errors
	ErrCodeInvalidSource Code = "INVALID_SOURCE"
	ErrCodeInvalidConfig Code = "INVALID_CONFIG"

	// Fatal, user-actionable errors
	ErrCodeUncommittedChanges Code = "UNCOMMITTED_CHANGES"
	ErrCodeLinkOccupied       Code = "LINK_OCCUPIED"

	// Lookup errors
	ErrCodeNotFound         Code = "NOT_FOUND"
	ErrCodeUnresolvedSource Code = "UNRESOLVED_SOURCE"

	// Operational errors
	ErrCodeVCS              Code = "VCS_ERROR"
	ErrCodeFilesystem       Code = "FILESYSTEM_ERROR"
	ErrCodeMaxDepthExceeded Code = "MAX_DEPTH_EXCEEDED"
	ErrCodeInternal         Code = "INTERNAL_ERROR"
	ErrCodeUnsupported      Code = "UNSUPPORTED"
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
// Only the outermost *Error in the chain is consulted, so a wrapped cause
// does not change the classification of the error that wraps it.
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

// UserMessage returns a user-friendly message for the error.
// For *Error types, returns the message without the code prefix, followed by
// the cause when one is present.
// For other errors, returns the error string as-is.
func UserMessage(err error) string {
	var e *Error
	if errors.As(err, &e) {
		if e.Cause != nil {
			return fmt.Sprintf("%s: %s", e.Message, UserMessage(e.Cause))
		}
		return e.Message
	}
	return err.Error()
}

// IsFatal reports whether err requires a user decision before a rerun, such
// as passing --force.
func IsFatal(err error) bool {
	switch GetCode(err) {
	case ErrCodeUncommittedChanges, ErrCodeLinkOccupied:
		return true
	}
	return false
}
