// Package errors provides unified error handling for streamkit
// pipelines. It implements a structured error type with machine-readable
// codes covering the pipeline failure taxonomy: protocol misuse
// (invalid state), terminal operations that found no result, terminal
// operations that found more than one result, and iteration past the
// end of a sequence.
//
// Every failure in this library is terminal and synchronous; there is no
// retry machinery. Callback errors raised by caller-supplied functions
// are not wrapped — they propagate unmodified out of the drive loop.
package errors
