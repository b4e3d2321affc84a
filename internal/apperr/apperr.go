package apperr

import (
	"errors"
	"fmt"
)

// Kind is the stable, machine-checkable category of a failure.
type Kind int

const (
	Unknown Kind = iota
	Unauthenticated
	Forbidden
	NotFound
	Conflict
	InvalidArgument
	Closed
)

func (k Kind) String() string {
	switch k {
	case Unauthenticated:
		return "UNAUTHENTICATED"
	case Forbidden:
		return "FORBIDDEN"
	case NotFound:
		return "NOT_FOUND"
	case Conflict:
		return "CONFLICT"
	case InvalidArgument:
		return "INVALID_ARGUMENT"
	case Closed:
		return "BOOTH_CLOSED"
	default:
		return "UNKNOWN"
	}
}

// Error pairs a Kind with a human-readable message.
type Error struct {
	Kind    Kind
	Message string
}

func (e *Error) Error() string {
	return e.Message
}

// Is matches any *Error of the same kind, so errors.Is(err, apperr.ErrNotFound) works
// regardless of message.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Kind == e.Kind
}

// Sentinels for errors.Is comparisons.
var (
	ErrUnauthenticated = &Error{Kind: Unauthenticated, Message: "unauthenticated"}
	ErrForbidden       = &Error{Kind: Forbidden, Message: "forbidden"}
	ErrNotFound        = &Error{Kind: NotFound, Message: "not found"}
	ErrConflict        = &Error{Kind: Conflict, Message: "conflict"}
	ErrInvalidArgument = &Error{Kind: InvalidArgument, Message: "invalid argument"}
	ErrClosed          = &Error{Kind: Closed, Message: "booth closed"}
)

func New(kind Kind, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

func Unauthenticatedf(format string, args ...any) *Error {
	return New(Unauthenticated, format, args...)
}

func Forbiddenf(format string, args ...any) *Error {
	return New(Forbidden, format, args...)
}

func NotFoundf(format string, args ...any) *Error {
	return New(NotFound, format, args...)
}

func Conflictf(format string, args ...any) *Error {
	return New(Conflict, format, args...)
}

func Invalidf(format string, args ...any) *Error {
	return New(InvalidArgument, format, args...)
}

func Closedf(format string, args ...any) *Error {
	return New(Closed, format, args...)
}

// KindOf returns the Kind of the first *Error in err's chain, or Unknown.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return Unknown
}

// Message returns the human-readable message of the first *Error in err's chain,
// falling back to err.Error().
func Message(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Message
	}
	if err == nil {
		return ""
	}
	return err.Error()
}
