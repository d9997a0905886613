// Package errors provides structured error types for mutmap.
//
// This package defines error codes and types that enable:
//   - Consistent error handling across CLI and API
//   - Machine-readable error codes for programmatic handling
//   - User-friendly error messages
//   - Error wrapping with context preservation
//
// # Error Codes
//
// Structural failures while building the pedigree graph or mapping the
// kinship layout (DUPLICATE_ID, NOT_FOUND, LAYOUT_INCONSISTENT) are fatal and
// propagate to the caller of the pipeline. Overlay misses (OVERLAY_NOT_FOUND,
// UNMATCHED_SAMPLE) are expected conditions; IsFatal tells them apart.
//
// # Usage
//
//	err := errors.New(errors.ErrCodeDuplicateID, "person %d already exists", id)
//	if errors.Is(err, errors.ErrCodeDuplicateID) {
//	    // Handle collision
//	}
//
//	// Wrap existing errors
//	err := errors.Wrap(errors.ErrCodeInvalidFormat, origErr, "decode %s", path)
package errors

import (
	"errors"
	"fmt"
	"strings"
)

// Code represents a machine-readable error code.
type Code string

// Error codes for different error categories.
const (
	// Input validation errors
	ErrCodeInvalidInput  Code = "INVALID_INPUT"
	ErrCodeInvalidFormat Code = "INVALID_FORMAT"
	ErrCodeInvalidPath   Code = "INVALID_PATH"

	// Pedigree graph errors
	ErrCodeDuplicateID        Code = "DUPLICATE_ID"
	ErrCodeNotFound           Code = "NOT_FOUND"
	ErrCodeFileNotFound       Code = "FILE_NOT_FOUND"
	ErrCodeLayoutInconsistent Code = "LAYOUT_INCONSISTENT"

	// Overlay conditions (reported, not returned, by the overlay)
	ErrCodeOverlayNotFound Code = "OVERLAY_NOT_FOUND"
	ErrCodeUnmatchedSample Code = "UNMATCHED_SAMPLE"

	// Internal errors
	ErrCodeInternal    Code = "INTERNAL_ERROR"
	ErrCodeUnsupported Code = "UNSUPPORTED"
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

// Detail returns the full error chain with every code prefix removed, so
// context added by fmt.Errorf wrappers (row, record, column) is kept.
func Detail(err error) string {
	msg := err.Error()
	for e := err; e != nil; e = errors.Unwrap(e) {
		if ce, ok := e.(*Error); ok {
			msg = strings.Replace(msg, string(ce.Code)+": ", "", 1)
		}
	}
	return msg
}

// IsFatal reports whether err is a structural failure that must halt the
// pipeline. Overlay conditions are the only non-fatal codes.
func IsFatal(err error) bool {
	if err == nil {
		return false
	}
	switch GetCode(err) {
	case ErrCodeOverlayNotFound, ErrCodeUnmatchedSample:
		return false
	}
	return true
}
