package sandbox

import "errors"

var (
	ErrNotFound     = errors.New("not found")
	ErrConflict     = errors.New("conflict")
	ErrInvalid      = errors.New("invalid input")
	ErrUnauthorized = errors.New("unauthorized")
)

// Error carries the message returned to the client next to the kind
// (one of the sentinels above) that picks the HTTP status.
type Error struct {
	Kind    error
	Message string
}

func (e *Error) Error() string {
	return e.Kind.Error() + ": " + e.Message
}

func (e *Error) Unwrap() error {
	return e.Kind
}

func fail(kind error, msg string) error {
	return &Error{Kind: kind, Message: msg}
}
