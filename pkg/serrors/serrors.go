// Package serrors attaches a semantic kind to errors so that transport layers
// can pick a response without inspecting causes. A kind is a sentinel; an
// *Error carries the kind, an optional message for the caller and an optional
// cause that is only meant for logs.
package serrors

import (
	"errors"
	"fmt"
)

// Kind is a semantic error category created with NewKind.
type Kind interface {
	error
	isKind()
}

type kind struct{ s string }

func (k kind) Error() string { return k.s }
func (k kind) isKind()       {}

// NewKind returns a new kind sentinel named name.
func NewKind(name string) Kind { return kind{s: name} }

var (
	// ErrNotFound means the entity does not exist or is not visible to the caller.
	ErrNotFound = NewKind("NOT_FOUND")
	// ErrUnauthorized means the caller could not be authenticated.
	ErrUnauthorized = NewKind("UNAUTHORIZED")
	// ErrForbidden means the caller is known but may not perform the operation.
	ErrForbidden = NewKind("FORBIDDEN")
	// ErrBadRequest means the input was rejected.
	ErrBadRequest = NewKind("BAD_REQUEST")
	// ErrConflict means the operation does not apply to the current state.
	ErrConflict = NewKind("CONFLICT")
	// ErrInternal is an unexpected failure.
	ErrInternal = NewKind("INTERNAL")
	// ErrTimeout means the operation ran out of time.
	ErrTimeout = NewKind("TIMEOUT")
	// ErrUnavailable means a dependency is temporarily unavailable.
	ErrUnavailable = NewKind("UNAVAILABLE")
)

// Error is an error of a given Kind.
//
// errors.Is and errors.As match both the kind and anything in the cause chain.
// Error() renders "<msg>: <cause>", or whichever of the two is set, falling
// back to the kind name.
type Error struct {
	kind Kind
	err  error
	msg  string
}

// With returns an error of kind k with a formatted message.
func With(k Kind, msgFmt string, args ...any) *Error {
	return &Error{kind: k, msg: fmt.Sprintf(msgFmt, args...)}
}

// Wrap returns an error of kind k with a formatted message and a cause.
func Wrap(k Kind, err error, msgFmt string, args ...any) *Error {
	return &Error{kind: k, err: err, msg: fmt.Sprintf(msgFmt, args...)}
}

// KindOnly returns an error of kind k with neither message nor cause.
func KindOnly(k Kind) *Error { return &Error{kind: k} }

func (e *Error) Error() string {
	switch {
	case e == nil:
		return "<nil>"
	case e.msg != "" && e.err != nil:
		return e.msg + ": " + e.err.Error()
	case e.msg != "":
		return e.msg
	case e.err != nil:
		return e.err.Error()
	case e.kind != nil:
		return e.kind.Error()
	default:
		return "unknown error"
	}
}

func (e *Error) Unwrap() error { return e.err }

// Is matches target against the kind first, then against the cause chain.
func (e *Error) Is(target error) bool {
	if e == nil || target == nil {
		return e == nil && target == nil
	}

	return (e.kind != nil && errors.Is(e.kind, target)) ||
		(e.err != nil && errors.Is(e.err, target))
}

// As resolves target against the kind first, then against the cause chain.
func (e *Error) As(target any) bool {
	if e == nil || target == nil {
		return false
	}

	return (e.kind != nil && errors.As(e.kind, target)) ||
		(e.err != nil && errors.As(e.err, target))
}

// Kind returns the kind of e, or nil.
func (e *Error) Kind() Kind { return e.kind }

// Message returns the message of e without the cause.
func (e *Error) Message() string { return e.msg }

// Cause returns the wrapped cause, or nil.
func (e *Error) Cause() error { return e.err }

// KindOf returns the kind of the outermost *Error in err's chain, or the kind
// err itself is. It returns nil for errors without a kind.
func KindOf(err error) Kind {
	var k Kind
	if errors.As(err, &k) {
		return k
	}

	return nil
}

// MessageOf returns the message of the outermost *Error in err's chain that
// carries one, or "".
func MessageOf(err error) string {
	for err != nil {
		var e *Error
		if !errors.As(err, &e) {
			return ""
		}
		if e.msg != "" {
			return e.msg
		}
		err = e.err
	}

	return ""
}
