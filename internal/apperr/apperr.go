// Package apperr defines the error taxonomy shared by services and HTTP handlers.
package apperr

import (
	"errors"
	"fmt"
)

var (
	// ErrValidation marks missing or malformed input.
	ErrValidation = errors.New("validation failed")
	// ErrNotFound marks a missing record.
	ErrNotFound = errors.New("not found")
	// ErrUnauthenticated marks a request without a valid admin session.
	ErrUnauthenticated = errors.New("authentication required")
	// ErrInvalidCredentials marks an unknown username or a password mismatch.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrInvalidTwoFactorCode marks a TOTP code that failed verification.
	ErrInvalidTwoFactorCode = errors.New("invalid two-factor authentication code")
	// ErrRateLimited marks a caller that exceeded its request budget.
	ErrRateLimited = errors.New("too many requests")
	// ErrDependency marks a failing external collaborator (mail, payment API).
	ErrDependency = errors.New("dependency failure")
)

// messageError carries a caller-facing message and unwraps to its kind.
type messageError struct {
	kind error
	msg  string
}

func (e *messageError) Error() string { return e.msg }

func (e *messageError) Unwrap() error { return e.kind }

// WithMessage returns an error matching kind whose text is msg.
func WithMessage(kind error, msg string) error {
	return &messageError{kind: kind, msg: msg}
}

// Validation returns an ErrValidation carrying msg verbatim.
func Validation(msg string) error {
	return WithMessage(ErrValidation, msg)
}

// Validationf formats a validation message.
func Validationf(format string, args ...any) error {
	return WithMessage(ErrValidation, fmt.Sprintf(format, args...))
}

// NotFound returns an ErrNotFound naming the missing entity, e.g. "Product".
func NotFound(what string) error {
	return WithMessage(ErrNotFound, what+" not found")
}

// Message returns the caller-facing message attached to err, if any.
func Message(err error) (string, bool) {
	var me *messageError
	if errors.As(err, &me) {
		return me.msg, true
	}
	return "", false
}

// Dependency wraps err from an external collaborator as ErrDependency.
func Dependency(op string, err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w: %w", op, ErrDependency, err)
}
