// Package apperrors defines the error taxonomy shared by all handlers and
// stores, with a single mapping from error kind to HTTP status.
package apperrors

import (
	"errors"
	"net/http"
)

// Kind classifies an application error.
type Kind int

const (
	Validation Kind = iota
	NotFound
	AuthRequired
	AuthInvalid
	Forbidden
	InsufficientStock
	Payment
	Storage
)

// Error carries a client-safe message and an optional wrapped cause.
// The cause is for logs only and is never written to a response.
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

// StatusCode maps the error kind to its HTTP status.
func (e *Error) StatusCode() int {
	switch e.Kind {
	case Validation, InsufficientStock:
		return http.StatusBadRequest
	case NotFound:
		return http.StatusNotFound
	case AuthRequired, AuthInvalid:
		return http.StatusUnauthorized
	case Forbidden:
		return http.StatusForbidden
	default:
		return http.StatusInternalServerError
	}
}

// New creates an error with a client-safe message.
func New(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

// Wrap attaches a cause to a client-safe message.
func Wrap(kind Kind, message string, err error) *Error {
	return &Error{Kind: kind, Message: message, Err: err}
}

// IsKind reports whether err is an application error of the given kind.
func IsKind(err error, kind Kind) bool {
	var appErr *Error
	return errors.As(err, &appErr) && appErr.Kind == kind
}
