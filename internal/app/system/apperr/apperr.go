// Package apperr defines the error taxonomy shared by the enrollment core,
// the directory clients, and the HTTP handlers.
//
// Handlers branch on the Kind to pick a status/message; the wrapped cause is
// preserved for logging. Anything coming back from a remote system that is
// not one of the domain kinds should be wrapped as Remote.
package apperr

import (
	"errors"
	"fmt"
)

// Kind classifies an error for callers that need to branch on it.
type Kind int

const (
	// Validation means the input was malformed or missing a required field.
	Validation Kind = iota + 1
	// Conflict means a uniqueness constraint was violated.
	Conflict
	// NotFound means a referenced record does not exist.
	NotFound
	// State means the operation is not allowed in the record's current
	// lifecycle state.
	State
	// Remote means a call to the Account Directory or the data store failed
	// for infrastructure reasons.
	Remote
)

func (k Kind) String() string {
	switch k {
	case Validation:
		return "validation"
	case Conflict:
		return "conflict"
	case NotFound:
		return "not_found"
	case State:
		return "state"
	case Remote:
		return "remote"
	}
	return "unknown"
}

// Error carries a kind, a human-readable message, and an optional cause.
type Error struct {
	Kind Kind
	Msg  string
	Err  error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Msg + ": " + e.Err.Error()
	}
	return e.Msg
}

func (e *Error) Unwrap() error { return e.Err }

// New returns an error of the given kind with a human-readable message.
func New(kind Kind, msg string) error {
	return &Error{Kind: kind, Msg: msg}
}

// Newf is New with fmt.Sprintf formatting.
func Newf(kind Kind, format string, args ...any) error {
	return &Error{Kind: kind, Msg: fmt.Sprintf(format, args...)}
}

// Wrap attaches a kind and message to an underlying cause.
func Wrap(kind Kind, msg string, err error) error {
	return &Error{Kind: kind, Msg: msg, Err: err}
}

// KindOf returns the kind of err, or 0 if err carries none.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return 0
}

// Is reports whether err (or anything it wraps) has the given kind.
func Is(err error, kind Kind) bool {
	return KindOf(err) == kind
}

// Message returns the human-readable message of err without the wrapped
// cause, falling back to err.Error() for unclassified errors.
func Message(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Msg
	}
	if err != nil {
		return err.Error()
	}
	return ""
}
