package apperr

import (
	"errors"
	"fmt"
)

// Error kinds. Every failure returned by the core wraps exactly one of these,
// so callers compare with errors.Is.
var (
	ErrUnauthenticated = errors.New("unauthenticated")
	ErrNotFound        = errors.New("not found")
	ErrForbidden       = errors.New("forbidden")
	ErrValidation      = errors.New("validation failed")
	ErrConflict        = errors.New("conflict")
)

// Error carries the operation and entity involved in a failure.
type Error struct {
	Op      string // e.g. "lists.SetItemChecked"
	Kind    error  // one of the Err* kinds above
	ID      string // optional entity id
	Message string
}

func (e *Error) Error() string {
	msg := e.Kind.Error()
	if e.Message != "" {
		msg = fmt.Sprintf("%s: %s", msg, e.Message)
	}
	if e.ID != "" {
		return fmt.Sprintf("%s [%s]: %s", e.Op, e.ID, msg)
	}
	return fmt.Sprintf("%s: %s", e.Op, msg)
}

// Unwrap returns the kind so errors.Is matches it.
func (e *Error) Unwrap() error {
	return e.Kind
}

func Unauthenticated(op string) *Error {
	return &Error{Op: op, Kind: ErrUnauthenticated}
}

func NotFound(op, id, what string) *Error {
	return &Error{Op: op, Kind: ErrNotFound, ID: id, Message: what + " not found"}
}

func Forbidden(op, id string) *Error {
	return &Error{Op: op, Kind: ErrForbidden, ID: id, Message: "caller is not the owner"}
}

func Validation(op, format string, args ...any) *Error {
	return &Error{Op: op, Kind: ErrValidation, Message: fmt.Sprintf(format, args...)}
}

func Conflict(op, id, format string, args ...any) *Error {
	return &Error{Op: op, Kind: ErrConflict, ID: id, Message: fmt.Sprintf(format, args...)}
}

func IsNotFound(err error) bool { return errors.Is(err, ErrNotFound) }

func IsForbidden(err error) bool { return errors.Is(err, ErrForbidden) }

func IsUnauthenticated(err error) bool { return errors.Is(err, ErrUnauthenticated) }

func IsValidation(err error) bool { return errors.Is(err, ErrValidation) }

func IsConflict(err error) bool { return errors.Is(err, ErrConflict) }

// IsDomain reports whether err is one of the expected domain failures rather
// than an infrastructure error.
func IsDomain(err error) bool {
	return IsNotFound(err) || IsForbidden(err) || IsUnauthenticated(err) ||
		IsValidation(err) || IsConflict(err)
}
