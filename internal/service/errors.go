package service

import (
	"errors"
	"fmt"
)

// ErrorCode classifies a failure for callers that branch on kind
// rather than message.
type ErrorCode string

const (
	// CodeValidation marks a local pre-network validation failure.
	CodeValidation ErrorCode = "VALIDATION"

	// CodeAuth marks rejected credentials or an expired token.
	CodeAuth ErrorCode = "AUTH"

	// CodeNotAuthenticated marks an operation attempted without a session.
	CodeNotAuthenticated ErrorCode = "NOT_AUTHENTICATED"

	// CodeNotFound marks a missing resource.
	CodeNotFound ErrorCode = "NOT_FOUND"

	// CodeService marks a network or server failure.
	CodeService ErrorCode = "SERVICE"
)

// Error is a classified failure crossing the service boundary.
type Error struct {
	Code    ErrorCode
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// NewError builds a classified error.
func NewError(code ErrorCode, message string) *Error {
	return &Error{Code: code, Message: message}
}

// WrapError classifies an existing error.
func WrapError(code ErrorCode, message string, err error) *Error {
	return &Error{Code: code, Message: message, Err: err}
}

// ErrNotAuthenticated is returned when a task or profile operation is
// attempted while the session is anonymous.
var ErrNotAuthenticated = NewError(CodeNotAuthenticated, "not signed in")

// IsCode reports whether err carries the given classification.
func IsCode(err error, code ErrorCode) bool {
	var se *Error
	if errors.As(err, &se) {
		return se.Code == code
	}
	return false
}
