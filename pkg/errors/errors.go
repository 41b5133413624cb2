// Package errors provides structured error types for dbccheck.
//
// Structural problems with a design (an unreadable file, a missing section,
// a malformed gate or cut list) are reported as *Error values carrying a
// machine-readable Code. Geometric defects are never errors: they are data in
// the precheck report.
//
// # Error Codes
//
// Error codes follow a hierarchical naming convention:
//   - INVALID_*: Input validation failures
//   - MISSING_* / MALFORMED_*: Design structure problems
//   - NOT_FOUND_*: Resource not found
//   - INTERNAL_*: Unexpected internal errors
//
// # Usage
//
//	err := errors.New(errors.ErrCodeMissingSection, "missing section %q", "dies")
//	if errors.Is(err, errors.ErrCodeMissingSection) {
//	    // Handle structural error
//	}
//
//	// Wrap existing errors
//	err := errors.Wrap(errors.ErrCodeInvalidDesign, origErr, "parse %s", path)
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
	ErrCodeInvalidInput   Code = "INVALID_INPUT"
	ErrCodeInvalidDesign  Code = "INVALID_DESIGN"
	ErrCodeInvalidExtreme Code = "INVALID_EXTREME"
	ErrCodeInvalidPath    Code = "INVALID_PATH"
	ErrCodeUnsupported    Code = "UNSUPPORTED_FORMAT"

	// Design structure errors
	ErrCodeMissingSection        Code = "MISSING_SECTION"
	ErrCodeMalformedFeature      Code = "MALFORMED_FEATURE"
	ErrCodeInconsistentPlacement Code = "INCONSISTENT_PLACEMENT"

	// Resource not found errors
	ErrCodeNotFound     Code = "NOT_FOUND"
	ErrCodeFileNotFound Code = "FILE_NOT_FOUND"

	// Gate errors
	ErrCodePrecheckFailed Code = "PRECHECK_FAILED"

	// Internal errors
	ErrCodeInternal Code = "INTERNAL_ERROR"
	ErrCodeStorage  Code = "STORAGE_ERROR"
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
// It unwraps the error chain looking for an *Error with a matching code.
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
// For *Error types, returns the message without the code prefix.
// For other errors, returns the error string as-is.
func UserMessage(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Message
	}
	return err.Error()
}

// IsStructural reports whether err describes a broken design input rather
// than an infrastructure failure.
func IsStructural(err error) bool {
	switch GetCode(err) {
	case ErrCodeInvalidInput, ErrCodeInvalidDesign, ErrCodeInvalidExtreme, ErrCodeInvalidPath,
		ErrCodeUnsupported, ErrCodeMissingSection, ErrCodeMalformedFeature,
		ErrCodeInconsistentPlacement, ErrCodeFileNotFound:
		return true
	}
	return false
}
