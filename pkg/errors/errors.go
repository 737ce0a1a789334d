// Package errors provides structured error types for the Canvastack
// application.
//
// This package defines error codes and types that enable:
//   - Consistent error handling across CLI, HTTP API, and registry
//   - Machine-readable error codes for programmatic handling
//   - User-friendly error messages with recovery suggestions
//   - Error wrapping with context preservation
//
// # Error Codes
//
// Error codes follow a hierarchical naming convention:
//   - VALIDATION_*: Input validation failures
//   - CONFLICT_*: Resource conflicts (duplicate ids)
//   - NOT_FOUND_*: Resource not found
//   - PLACEMENT_*: Layout/placement failures
//   - STATE_*: Layout-mode state machine violations
//   - INTERNAL_*: Unexpected internal errors
//
// # Usage
//
//	err := errors.New(errors.ErrCodeValidation, "container id cannot be empty")
//	if errors.Is(err, errors.ErrCodeValidation) {
//	    // Handle validation error
//	}
//
//	// Wrap existing errors
//	err := errors.Wrap(errors.ErrCodeInternal, origErr, "broadcast %s", id)
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
	ErrCodeValidation       Code = "VALIDATION_ERROR"
	ErrCodeInvalidDimension Code = "VALIDATION_INVALID_DIMENSION"

	// Resource conflicts
	ErrCodeDuplicateID Code = "CONFLICT_DUPLICATE_ID"

	// Resource not found
	ErrCodeContainerNotFound Code = "NOT_FOUND_CONTAINER"
	ErrCodeCommandNotFound   Code = "NOT_FOUND_COMMAND"

	// Placement failures
	ErrCodePlacementExhausted Code = "PLACEMENT_EXHAUSTED"

	// Layout-mode state machine
	ErrCodeInvalidTransition    Code = "STATE_TRANSITION_INVALID"
	ErrCodeRequiresConfirmation Code = "STATE_REQUIRES_CONFIRMATION"

	// Delivery (non-fatal, logged rather than returned as failure)
	ErrCodeDeliveryWarning Code = "DELIVERY_WARNING"

	// Internal errors
	ErrCodeInternal Code = "INTERNAL_ERROR"
)

// Error is a structured error with a code, optional cause, and optional
// recovery suggestions (e.g. the list of valid container ids for a
// NOT_FOUND_CONTAINER error).
type Error struct {
	Code        Code     // Machine-readable error code
	Message     string   // Human-readable message
	Cause       error    // Underlying error (optional)
	Suggestions []string // Actionable recovery hints (optional)
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

// WithSuggestions attaches recovery hints and returns the error.
func (e *Error) WithSuggestions(suggestions ...string) *Error {
	e.Suggestions = suggestions
	return e
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

// GetSuggestions extracts recovery suggestions from an error, if any.
func GetSuggestions(err error) []string {
	var e *Error
	if errors.As(err, &e) {
		return e.Suggestions
	}
	return nil
}

// UserMessage returns a user-friendly message for the error.
// For *Error types, returns the message without the code prefix,
// appending suggestions when present.
// For other errors, returns the error string as-is.
func UserMessage(err error) string {
	var e *Error
	if !errors.As(err, &e) {
		return err.Error()
	}
	if len(e.Suggestions) == 0 {
		return e.Message
	}
	return e.Message + " (valid options: " + strings.Join(e.Suggestions, ", ") + ")"
}
