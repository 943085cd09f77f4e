// Package errors carries coded errors across the laddergrid edges.
//
// The converters never fail: malformed ladder trees and grids degrade to
// empty or partial results. Errors come from decoding program and grid
// documents, loading configuration, reaching the cache backend and serving
// HTTP. Each carries a [Code] that the API reports verbatim and maps to a
// status with [Code.Status]; the CLI prints [UserMessage] instead.
//
//	err := errors.New(errors.ErrCodeInvalidProgram, "network %d: empty block", step)
//	if errors.Is(err, errors.ErrCodeInvalidProgram) {
//	    ...
//	}
package errors

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// Code is the machine-readable half of an Error. Codes prefixed INVALID_
// describe bad input.
type Code string

const (
	ErrCodeInvalidInput   Code = "INVALID_INPUT"
	ErrCodeInvalidProgram Code = "INVALID_PROGRAM"
	ErrCodeInvalidGrid    Code = "INVALID_GRID"
	ErrCodeInvalidConfig  Code = "INVALID_CONFIG"
	ErrCodeInvalidFormat  Code = "INVALID_FORMAT"
	ErrCodeInvalidPath    Code = "INVALID_PATH"

	ErrCodeNotFound     Code = "NOT_FOUND"
	ErrCodeFileNotFound Code = "FILE_NOT_FOUND"

	// ErrCodeUnsupported marks well-formed input the converters cannot
	// honor, such as a lossy round trip under --strict.
	ErrCodeUnsupported Code = "UNSUPPORTED"
	ErrCodeInternal    Code = "INTERNAL_ERROR"
)

// Invalid reports whether c describes bad input.
func (c Code) Invalid() bool {
	return strings.HasPrefix(string(c), "INVALID_")
}

// Status is the HTTP status the API answers with for c. Unknown and empty
// codes are internal errors.
func (c Code) Status() int {
	switch {
	case c.Invalid():
		return http.StatusBadRequest
	case c == ErrCodeNotFound, c == ErrCodeFileNotFound:
		return http.StatusNotFound
	case c == ErrCodeUnsupported:
		return http.StatusUnprocessableEntity
	}
	return http.StatusInternalServerError
}

// Error pairs a Code with a message and an optional cause.
type Error struct {
	Code    Code
	Message string
	Cause   error
}

func (e *Error) Error() string {
	if e.Cause == nil {
		return string(e.Code) + ": " + e.Message
	}
	return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Cause)
}

func (e *Error) Unwrap() error { return e.Cause }

// New returns an Error with a formatted message.
func New(code Code, format string, args ...any) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...)}
}

// Wrap is New with a cause.
func Wrap(code Code, cause error, format string, args ...any) *Error {
	e := New(code, format, args...)
	e.Cause = cause
	return e
}

// Is reports whether any Error in the chain of err carries code.
func Is(err error, code Code) bool {
	for err != nil {
		if e, ok := err.(*Error); ok && e.Code == code {
			return true
		}
		err = errors.Unwrap(err)
	}
	return false
}

// GetCode returns the code of the outermost Error in the chain, or "".
func GetCode(err error) Code {
	var e *Error
	if !errors.As(err, &e) {
		return ""
	}
	return e.Code
}

// UserMessage renders err for a terminal: messages joined by ": " with the
// codes left out.
func UserMessage(err error) string {
	var parts []string
	for err != nil {
		var e *Error
		if !errors.As(err, &e) {
			parts = append(parts, err.Error())
			break
		}
		parts = append(parts, e.Message)
		err = e.Cause
	}
	return strings.Join(parts, ": ")
}
