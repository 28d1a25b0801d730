// Package errors provides the typed error taxonomy for the docqa service.
//
// Errors fall into two caller-visible kinds: invalid input (4xx, reported
// directly, never retried) and processing failures (5xx, wrapping the
// underlying cause as a single opaque failure). Each error carries a unique
// code and an HTTP status so handlers never need to inspect error strings.
//
// Code format: ABBB (4 digits)
//
//	A   (1-9): kind - 1 for invalid input, 5 for processing failures
//	BBB (001-999): sequence number within the kind
//
// Usage:
//
//	// Reject bad input with a specific message
//	return errors.ErrUnsupportedFileType
//
//	// Wrap an underlying failure
//	return errors.ErrVectorStore.WithCause(err)
package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// Errno represents a structured error with a stable code and HTTP mapping.
type Errno struct {
	// Code is the unique error code.
	Code int `json:"code"`

	// HTTP is the HTTP status code to return.
	HTTP int `json:"-"`

	// Message is the caller-visible error message.
	Message string `json:"message"`

	// cause is the underlying error, if any.
	cause error
}

// Error implements the error interface.
func (e *Errno) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("errno %d: %s: %v", e.Code, e.Message, e.cause)
	}
	return fmt.Sprintf("errno %d: %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause.
func (e *Errno) Unwrap() error {
	return e.cause
}

// Is reports whether target is an Errno with the same code, so wrapped
// copies created by WithCause or WithMessage still match their original.
func (e *Errno) Is(target error) bool {
	var t *Errno
	if errors.As(target, &t) {
		return e.Code == t.Code
	}
	return false
}

// WithCause returns a copy of the Errno carrying the given cause.
func (e *Errno) WithCause(cause error) *Errno {
	return &Errno{
		Code:    e.Code,
		HTTP:    e.HTTP,
		Message: e.Message,
		cause:   cause,
	}
}

// WithMessage returns a copy of the Errno with a custom message.
func (e *Errno) WithMessage(format string, args ...any) *Errno {
	return &Errno{
		Code:    e.Code,
		HTTP:    e.HTTP,
		Message: fmt.Sprintf(format, args...),
		cause:   e.cause,
	}
}

// FromError converts any error into an Errno. Errno values pass through
// unchanged; everything else is wrapped as ErrProcessing.
func FromError(err error) *Errno {
	if err == nil {
		return nil
	}
	var e *Errno
	if errors.As(err, &e) {
		return e
	}
	return ErrProcessing.WithCause(err)
}

// IsInvalidInput reports whether err is an invalid-input error (4xx kind).
func IsInvalidInput(err error) bool {
	var e *Errno
	if errors.As(err, &e) {
		return e.HTTP >= http.StatusBadRequest && e.HTTP < http.StatusInternalServerError
	}
	return false
}

// Invalid input errors (kind 1). Reported directly to the caller.
var (
	// ErrBadRequest indicates a malformed request.
	ErrBadRequest = &Errno{Code: 1001, HTTP: http.StatusBadRequest, Message: "Bad request"}

	// ErrUnsupportedFileType indicates an upload with an unsupported extension.
	ErrUnsupportedFileType = &Errno{Code: 1002, HTTP: http.StatusBadRequest, Message: "Only PDF and TXT files are supported"}

	// ErrInvalidEncoding indicates text content that is not valid UTF-8.
	ErrInvalidEncoding = &Errno{Code: 1003, HTTP: http.StatusBadRequest, Message: "File content is not valid UTF-8"}

	// ErrEmptyDocument indicates a document with no extractable text.
	ErrEmptyDocument = &Errno{Code: 1004, HTTP: http.StatusBadRequest, Message: "Document contains no extractable text"}
)

// Processing failures (kind 5). Wrap the underlying cause and surface as a
// single opaque failure.
var (
	// ErrProcessing is the generic pipeline failure.
	ErrProcessing = &Errno{Code: 5001, HTTP: http.StatusInternalServerError, Message: "Error processing request"}

	// ErrVectorStore indicates a vector index operation failure.
	ErrVectorStore = &Errno{Code: 5002, HTTP: http.StatusInternalServerError, Message: "Vector index operation failed"}

	// ErrDocumentStore indicates a document store operation failure.
	ErrDocumentStore = &Errno{Code: 5003, HTTP: http.StatusInternalServerError, Message: "Document store operation failed"}

	// ErrProvider indicates an embedding or generation provider failure.
	ErrProvider = &Errno{Code: 5004, HTTP: http.StatusInternalServerError, Message: "Model provider request failed"}
)
