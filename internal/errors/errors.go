package errors

import (
	"errors"
	"fmt"
)

// Error kinds. Every error the service surfaces to a caller matches exactly
// one of these through errors.Is.
var (
	ErrConfiguration  = errors.New("configuration error")
	ErrValidation     = errors.New("validation error")
	ErrAuthentication = errors.New("authentication error")
	ErrCollaborator   = errors.New("collaborator error")
	ErrInternal       = errors.New("internal error")
)

// More specific errors, each wrapping one of the kinds above.
var (
	ErrInvalidCredentials = &Error{Kind: ErrAuthentication, Message: "Invalid email or password"}
	ErrUnauthenticated    = &Error{Kind: ErrAuthentication, Message: "Unauthorized"}
	ErrConflict           = errors.New("conflict")
)

// Error carries a message that is safe to return to a client alongside the
// kind and an optional internal cause that must never leave the process.
type Error struct {
	Kind    error
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() []error {
	if e.Err != nil {
		return []error{e.Kind, e.Err}
	}
	return []error{e.Kind}
}

func Configuration(msg string) error {
	return &Error{Kind: ErrConfiguration, Message: msg}
}

func Validation(msg string) error {
	return &Error{Kind: ErrValidation, Message: msg}
}

func Conflict(msg string) error {
	return &Error{Kind: ErrValidation, Message: msg, Err: ErrConflict}
}

func Internal(err error, msg string) error {
	return &Error{Kind: ErrInternal, Message: msg, Err: err}
}

// PublicMessage returns the client-safe message of err, or fallback when err
// carries none.
func PublicMessage(err error, fallback string) string {
	var e *Error
	if errors.As(err, &e) && e.Message != "" && !errors.Is(e.Kind, ErrInternal) {
		return e.Message
	}
	return fallback
}

// Wrapf wraps an error with context using fmt.Errorf
func Wrapf(err error, format string, args ...interface{}) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf(format+": %w", append(args, err)...)
}

// Is reports whether any error in err's chain matches target
func Is(err, target error) bool {
	return errors.Is(err, target)
}
