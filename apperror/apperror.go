package apperror

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind is the machine-readable class of a failure.
type Kind string

const (
	KindValidation    Kind = "ValidationFailed"
	KindNotFound      Kind = "NotFound"
	KindUnauthed      Kind = "Unauthenticated"
	KindInvalidToken  Kind = "InvalidToken"
	KindTokenExpired  Kind = "TokenExpired"
	KindStaleIdentity Kind = "StaleIdentity"
	KindForbidden     Kind = "Forbidden"
	KindDuplicateKey  Kind = "DuplicateKey"
	KindInternal      Kind = "Internal"
)

// Error is the single error shape handlers forward to the central
// translator. Operational errors are anticipated, user-facing failures;
// everything else is flattened to a generic message outside debug mode.
type Error struct {
	Kind        Kind
	Status      int
	Message     string
	Operational bool
	Err         error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error { return e.Err }

// New creates an operational error.
func New(kind Kind, status int, message string) *Error {
	return &Error{Kind: kind, Status: status, Message: message, Operational: true}
}

func Validation(message string) *Error {
	return New(KindValidation, http.StatusBadRequest, message)
}

func NotFound(message string) *Error {
	return New(KindNotFound, http.StatusNotFound, message)
}

func Unauthenticated(message string) *Error {
	return New(KindUnauthed, http.StatusUnauthorized, message)
}

func InvalidToken() *Error {
	return New(KindInvalidToken, http.StatusUnauthorized, "Invalid token. Please log in again")
}

func TokenExpired() *Error {
	return New(KindTokenExpired, http.StatusUnauthorized, "Your token has expired! Please log in again!")
}

func StaleIdentity(message string) *Error {
	return New(KindStaleIdentity, http.StatusUnauthorized, message)
}

func Forbidden() *Error {
	return New(KindForbidden, http.StatusForbidden, "You do not have permission to perform this action")
}

func DuplicateKey(message string) *Error {
	return New(KindDuplicateKey, http.StatusBadRequest, message)
}

// Internal wraps an unexpected fault. Not operational: the message is never
// shown to callers outside debug mode.
func Internal(err error) *Error {
	return &Error{
		Kind:    KindInternal,
		Status:  http.StatusInternalServerError,
		Message: "Something went very wrong!",
		Err:     err,
	}
}

// Wrap attaches a cause to an operational error.
func (e *Error) Wrap(err error) *Error {
	e.Err = err
	return e
}

// As extracts an *Error from any error chain, converting unknown errors
// into Internal ones so every failure has a status and a kind.
func As(err error) *Error {
	var ae *Error
	if errors.As(err, &ae) {
		return ae
	}
	return Internal(err)
}
