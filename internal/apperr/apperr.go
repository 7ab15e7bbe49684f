package apperr

import (
	"errors"
	"fmt"
)

// Stable domain error codes. The API layer maps these to HTTP statuses;
// services and repositories never touch HTTP concepts directly.
const (
	CodeInvalidInput      = 1000
	CodeNotFound          = 1001
	CodeAlreadyExists     = 1002
	CodeInsufficientStock = 1003
	CodeUnauthorized      = 1004
	CodeUpstream          = 1005
)

// Error is the single error type that crosses service boundaries.
type Error struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

func (e *Error) Error() string {
	return e.Message
}

func New(code int, message string) *Error {
	return &Error{Code: code, Message: message}
}

func InvalidInput(format string, args ...interface{}) *Error {
	return &Error{Code: CodeInvalidInput, Message: fmt.Sprintf(format, args...)}
}

func NotFound(format string, args ...interface{}) *Error {
	return &Error{Code: CodeNotFound, Message: fmt.Sprintf(format, args...)}
}

func AlreadyExists(format string, args ...interface{}) *Error {
	return &Error{Code: CodeAlreadyExists, Message: fmt.Sprintf(format, args...)}
}

func InsufficientStock(format string, args ...interface{}) *Error {
	return &Error{Code: CodeInsufficientStock, Message: fmt.Sprintf(format, args...)}
}

func Unauthorized(format string, args ...interface{}) *Error {
	return &Error{Code: CodeUnauthorized, Message: fmt.Sprintf(format, args...)}
}

// Upstream wraps a collaborator failure (mailer, AI, object storage) as an
// opaque domain error. The original cause is kept out of the client message.
func Upstream(message string) *Error {
	return &Error{Code: CodeUpstream, Message: message}
}

// CodeOf returns the domain code of err, or 0 if err is not an *Error.
func CodeOf(err error) int {
	var ae *Error
	if errors.As(err, &ae) {
		return ae.Code
	}
	return 0
}

// Is reports whether err carries the given domain code.
func Is(err error, code int) bool {
	return CodeOf(err) == code
}
