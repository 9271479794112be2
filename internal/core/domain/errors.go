package domain

import "errors"

var (
	// ErrAuthRequired: no identity was presented on a guarded operation.
	ErrAuthRequired = errors.New("authentication required")
	// ErrInvalidToken: the presented token failed verification. Expired,
	// tampered and mis-issued tokens all collapse to this one error.
	ErrInvalidToken = errors.New("invalid token")
	// ErrInvalidCredentials: login failed. Deliberately does not say whether
	// the email or the password was wrong.
	ErrInvalidCredentials = errors.New("invalid email or password")
	// ErrAccountInactive: the account exists but has been deactivated.
	ErrAccountInactive = errors.New("account is inactive")
	// ErrTooManyAttempts: the login throttle kicked in for this email.
	ErrTooManyAttempts = errors.New("too many failed login attempts")

	// ErrMissingCredentials: login called without an email or password.
	ErrMissingCredentials = errors.New("email and password are required")

	ErrUserNotFound = errors.New("user not found")
	ErrEmailTaken   = errors.New("email already in use")
	ErrWeakPassword = errors.New("password must be at least 8 characters long and contain at least one uppercase letter, one lowercase letter, and one number")
	ErrForbidden    = errors.New("access denied")
)

// DeniedError is an authorization denial carrying the guard-specific message.
// It unwraps to ErrForbidden so callers can branch with errors.Is.
type DeniedError struct {
	Reason string
}

func (e *DeniedError) Error() string { return e.Reason }

func (e *DeniedError) Unwrap() error { return ErrForbidden }

// Denied builds a DeniedError with the given message.
func Denied(reason string) error {
	return &DeniedError{Reason: reason}
}
