// Package apperr defines the error taxonomy shared by services and handlers.
package apperr

import (
	"errors"
	"fmt"
	"net/http"
)

// Code classifies an error and selects its HTTP status.
type Code string

// Error codes returned by the API.
const (
	CodeInvalidInput       Code = "INVALID_INPUT"
	CodeInsufficientPoints Code = "INSUFFICIENT_POINTS"
	CodeUnauthorized       Code = "UNAUTHORIZED"
	CodeNotFound           Code = "NOT_FOUND"
	CodeConflict           Code = "CONFLICT"
	CodeStore              Code = "STORE_ERROR"
	CodeInternal           Code = "INTERNAL_ERROR"
)

var statusByCode = map[Code]int{
	CodeInvalidInput:       http.StatusBadRequest,
	CodeInsufficientPoints: http.StatusBadRequest,
	CodeUnauthorized:       http.StatusUnauthorized,
	CodeNotFound:           http.StatusNotFound,
	CodeConflict:           http.StatusConflict,
	CodeStore:              http.StatusInternalServerError,
	CodeInternal:           http.StatusInternalServerError,
}

// HTTPStatus returns the response status for a code. Unknown codes map to 500.
func HTTPStatus(code Code) int {
	if status, ok := statusByCode[code]; ok {
		return status
	}
	return http.StatusInternalServerError
}

// Error is an application error with a public message, optional details and an internal cause.
type Error struct {
	code    Code
	message string
	details any
	cause   error
}

// New returns an error with the given code and message.
func New(code Code, message string) *Error {
	return &Error{code: code, message: message}
}

// Newf is New with a formatted message.
func Newf(code Code, format string, args ...any) *Error {
	return New(code, fmt.Sprintf(format, args...))
}

// Wrap returns an error with the given code and message that keeps err as its cause.
func Wrap(code Code, err error, message string) *Error {
	if err == nil {
		return New(code, message)
	}
	return &Error{code: code, message: message, cause: err}
}

// Code returns the error code. A nil error reports CodeInternal.
func (e *Error) Code() Code {
	if e == nil {
		return CodeInternal
	}
	return e.code
}

// Message returns the message meant for API clients.
func (e *Error) Message() string {
	if e == nil {
		return ""
	}
	return e.message
}

// Details returns the structured details, if any.
func (e *Error) Details() any {
	if e == nil {
		return nil
	}
	return e.details
}

// WithDetails attaches details to e and returns it.
func (e *Error) WithDetails(details any) *Error {
	if e == nil {
		return nil
	}
	e.details = details
	return e
}

// Error formats the code, message and cause.
func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	if e.cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.code, e.message, e.cause)
	}
	return fmt.Sprintf("%s: %s", e.code, e.message)
}

// Unwrap returns the cause.
func (e *Error) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.cause
}

// As extracts the first *Error in err's chain.
func As(err error) *Error {
	if err == nil {
		return nil
	}
	var typed *Error
	if errors.As(err, &typed) {
		return typed
	}
	return nil
}

// CodeOf returns the code of err, or CodeInternal for untyped errors.
func CodeOf(err error) Code {
	if typed := As(err); typed != nil {
		return typed.Code()
	}
	return CodeInternal
}

// IsCode reports whether err carries the given code.
func IsCode(err error, code Code) bool {
	return err != nil && CodeOf(err) == code
}

// InvalidInput returns a CodeInvalidInput error.
func InvalidInput(message string) *Error { return New(CodeInvalidInput, message) }

// NotFound returns a CodeNotFound error.
func NotFound(message string) *Error { return New(CodeNotFound, message) }

// Conflict returns a CodeConflict error.
func Conflict(message string) *Error { return New(CodeConflict, message) }

// Unauthorized returns a CodeUnauthorized error.
func Unauthorized(message string) *Error { return New(CodeUnauthorized, message) }

// Store wraps a persistence failure; the cause's message is exposed to callers.
func Store(err error, message string) *Error { return Wrap(CodeStore, err, message) }
