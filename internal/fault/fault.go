// Package fault defines the failure taxonomy shared by repositories, services and
// the HTTP layer. Every failure carries a Kind that the HTTP layer maps to a status
// code and a short message that is safe to show to the caller.
package fault

import (
	"errors"
	"fmt"
)

// Kind classifies a failure.
type Kind int

const (
	KindInternal Kind = iota
	KindValidation
	KindConflict
	KindNotFound
	KindForbidden
	KindUnauthenticated
)

func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindConflict:
		return "conflict"
	case KindNotFound:
		return "not_found"
	case KindForbidden:
		return "forbidden"
	case KindUnauthenticated:
		return "unauthenticated"
	default:
		return "internal"
	}
}

// Error is a classified failure. Message is user visible, Err is the cause and is
// only ever logged.
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

func newError(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

// Validation creates a field-level validation failure.
func Validation(message string) *Error { return newError(KindValidation, message) }

// Conflict creates a uniqueness violation failure.
func Conflict(message string) *Error { return newError(KindConflict, message) }

// NotFound creates a missing entity failure.
func NotFound(message string) *Error { return newError(KindNotFound, message) }

// Forbidden creates an ownership mismatch failure.
func Forbidden(message string) *Error { return newError(KindForbidden, message) }

// Unauthenticated creates a missing or invalid credential failure.
func Unauthenticated(message string) *Error { return newError(KindUnauthenticated, message) }

// Internal wraps an unexpected error. The message stays generic.
func Internal(err error) *Error {
	return &Error{Kind: KindInternal, Message: "Internal server error", Err: err}
}

// KindOf reports the kind of the first *Error in err's chain. Errors outside the
// taxonomy are internal.
func KindOf(err error) Kind {
	var fe *Error
	if errors.As(err, &fe) {
		return fe.Kind
	}
	return KindInternal
}

// MessageOf returns the user visible message of err.
func MessageOf(err error) string {
	var fe *Error
	if errors.As(err, &fe) && fe.Kind != KindInternal {
		return fe.Message
	}
	return "Internal server error"
}
