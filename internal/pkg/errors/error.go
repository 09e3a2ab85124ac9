package xerrors

import (
	"errors"
	"fmt"
)

// Common reusable application errors
var (
	ErrNotFound     = errors.New("resource not found")
	ErrUnauthorized = errors.New("unauthorized access")
	ErrForbidden    = errors.New("forbidden")
	ErrInvalidInput = errors.New("invalid input")
	ErrConflict     = errors.New("conflict: resource already exists")
	ErrInactive     = errors.New("resource is not active")
	ErrInternal     = errors.New("internal server error")
	ErrRateLimited  = errors.New("too many requests")
)

// Conflict refinements. Both satisfy errors.Is(err, ErrConflict).
var (
	ErrEmailTaken       = &Error{Kind: ErrConflict, Msg: "email already in use"}
	ErrCapacityExceeded = &Error{Kind: ErrConflict, Msg: "not enough capacity left in slot"}
)

// Error carries a caller-facing message on top of one of the sentinel kinds.
type Error struct {
	Kind error
	Msg  string
}

func (e *Error) Error() string { return e.Msg }

func (e *Error) Unwrap() error { return e.Kind }

// NotFound reports that the named entity could not be resolved.
func NotFound(entity string) error {
	return &Error{Kind: ErrNotFound, Msg: entity + " not found"}
}

// Invalid reports a domain-level input problem the binder could not catch.
func Invalid(format string, args ...interface{}) error {
	return &Error{Kind: ErrInvalidInput, Msg: fmt.Sprintf(format, args...)}
}

// Inactive reports that the named entity exists but cannot be operated on.
func Inactive(entity string) error {
	return &Error{Kind: ErrInactive, Msg: entity + " is not active"}
}

// Wrap adds context to an error (similar to fmt.Errorf("%w")).
func Wrap(err error, message string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", message, err)
}

// Is allows checking whether an error is a specific sentinel error.
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// Unwrap extracts the underlying wrapped error.
func Unwrap(err error) error {
	return errors.Unwrap(err)
}

// PublicMessage returns the message safe to show a caller: the innermost
// *Error message when present, otherwise the sentinel text.
func PublicMessage(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Msg
	}
	return MessageOrDefault(err, "")
}

// MessageOrDefault returns err.Error() or a fallback message if err is nil.
func MessageOrDefault(err error, fallback string) string {
	if err != nil {
		return err.Error()
	}
	return fallback
}
