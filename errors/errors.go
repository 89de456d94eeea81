package errors

import (
	stderrors "errors"
	"fmt"
)

// Error is the unified pipeline error type.
type Error struct {
	// Code is a machine-readable error code.
	Code ErrorCode `json:"code"`
	// Message is a human-readable error message.
	Message string `json:"message"`
	// Details contains additional context for the error.
	Details map[string]any `json:"details,omitempty"`
	// Cause is the underlying error that caused this error.
	Cause error `json:"-"`
}

// Error returns the string representation of the error.
func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s (cause: %v)", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause of the error.
func (e *Error) Unwrap() error { return e.Cause }

// WithCause sets the underlying cause of the error and returns the receiver.
func (e *Error) WithCause(cause error) *Error {
	e.Cause = cause
	return e
}

// WithDetail sets a single detail key-value pair and returns the receiver.
func (e *Error) WithDetail(key string, value any) *Error {
	if e.Details == nil {
		e.Details = make(map[string]any)
	}
	e.Details[key] = value
	return e
}

// New creates a new Error with the given code and message.
func New(code ErrorCode, message string) *Error {
	return &Error{Code: code, Message: message}
}

// --- Common Error Constructors ---

// InvalidState creates an Error for a protocol violation: Accept called
// on a stage that cannot accept.
func InvalidState(message string) *Error {
	return &Error{Code: ErrCodeInvalidState, Message: message}
}

// EmptyResult creates an Error for a terminal operation that required at
// least one element and saw none.
func EmptyResult(operation string) *Error {
	return &Error{
		Code: ErrCodeEmptyResult, Message: "no result",
		Details: map[string]any{"operation": operation},
	}
}

// MultipleResults creates an Error for a single-result terminal
// operation that observed more than one element.
func MultipleResults(operation string) *Error {
	return &Error{
		Code: ErrCodeMultipleResults, Message: "multiple results",
		Details: map[string]any{"operation": operation},
	}
}

// Exhausted creates an Error for iteration past the end of a sequence.
func Exhausted(operation string) *Error {
	return &Error{
		Code: ErrCodeExhausted, Message: "sequence exhausted",
		Details: map[string]any{"operation": operation},
	}
}

// --- Classification ---

// Code returns the ErrorCode carried by err, or "" if err is not an
// *Error.
func Code(err error) ErrorCode {
	var e *Error
	if stderrors.As(err, &e) {
		return e.Code
	}
	return ""
}

// IsInvalidState reports whether err carries ErrCodeInvalidState.
func IsInvalidState(err error) bool { return Code(err) == ErrCodeInvalidState }

// IsEmptyResult reports whether err carries ErrCodeEmptyResult.
func IsEmptyResult(err error) bool { return Code(err) == ErrCodeEmptyResult }

// IsMultipleResults reports whether err carries ErrCodeMultipleResults.
func IsMultipleResults(err error) bool { return Code(err) == ErrCodeMultipleResults }

// IsExhausted reports whether err carries ErrCodeExhausted.
func IsExhausted(err error) bool { return Code(err) == ErrCodeExhausted }
