package errors

// ErrorCode represents a machine-readable error code.
type ErrorCode string

// Protocol misuse (always a programming error)
const (
	// ErrCodeInvalidState indicates Accept was called on a stage whose
	// CanAccept reports false.
	ErrCodeInvalidState ErrorCode = "INVALID_STATE"
)

// Terminal-result errors
const (
	// ErrCodeEmptyResult indicates a terminal operation that requires at
	// least one element saw none.
	ErrCodeEmptyResult ErrorCode = "EMPTY_RESULT"
	// ErrCodeMultipleResults indicates a single-result terminal
	// operation observed a second element.
	ErrCodeMultipleResults ErrorCode = "MULTIPLE_RESULTS"
	// ErrCodeExhausted indicates Next was called on an iterator with no
	// remaining elements.
	ErrCodeExhausted ErrorCode = "SEQUENCE_EXHAUSTED"
)
