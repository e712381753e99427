// Package apperrors defines the closed error taxonomy shared by the
// services and the HTTP boundary. Handlers switch on the code to pick a
// status; internal error text never leaks to clients.
package apperrors

import (
	"errors"
	"fmt"
)

// Code identifies the category of a service-level failure.
type Code string

const (
	CodeValidation Code = "validation"
	CodeDuplicate  Code = "duplicate"
	CodeNotFound   Code = "not_found"
	CodeAuth       Code = "auth"
	CodeUpstream   Code = "upstream"
	CodeInternal   Code = "internal"
)

// Error is a coded error. Message is safe to show to callers; Err carries
// the internal cause for logs only.
type Error struct {
	Code    Code
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Err
}

func Validation(format string, args ...any) *Error {
	return &Error{Code: CodeValidation, Message: fmt.Sprintf(format, args...)}
}

func Duplicate(message string) *Error {
	return &Error{Code: CodeDuplicate, Message: message}
}

func NotFound(message string) *Error {
	return &Error{Code: CodeNotFound, Message: message}
}

func Auth(message string) *Error {
	return &Error{Code: CodeAuth, Message: message}
}

func Upstream(message string, err error) *Error {
	return &Error{Code: CodeUpstream, Message: message, Err: err}
}

func Internal(err error) *Error {
	return &Error{Code: CodeInternal, Message: "internal error", Err: err}
}

// CodeOf extracts the taxonomy code from err. Errors that were not created
// by this package are classified as internal.
func CodeOf(err error) Code {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return CodeInternal
}

// MessageOf returns the caller-safe message for err.
func MessageOf(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Message
	}
	return "internal error"
}

// Is reports whether err carries the given code.
func Is(err error, code Code) bool {
	return CodeOf(err) == code
}
