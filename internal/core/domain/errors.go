package domain

import (
	"errors"
	"fmt"
)

// ErrNotFound is the root of every "record missing or not owned by caller" error.
// Ownership mismatches are reported exactly like missing rows.
var ErrNotFound = errors.New("not found")

var (
	ErrUserNotFound     = fmt.Errorf("user %w", ErrNotFound)
	ErrClientNotFound   = fmt.Errorf("client %w", ErrNotFound)
	ErrProjectNotFound  = fmt.Errorf("project %w", ErrNotFound)
	ErrPaymentNotFound  = fmt.Errorf("payment %w", ErrNotFound)
	ErrReminderNotFound = fmt.Errorf("reminder %w", ErrNotFound)
	ErrScopeNotFound    = fmt.Errorf("scope version %w", ErrNotFound)
)

var ErrValidation = errors.New("validation failed")
var ErrInvalidStatus = errors.New("invalid status")
var ErrForbidden = errors.New("access forbidden")

var ErrInvalidCredentials = errors.New("invalid credentials")
var ErrUserExists = errors.New("user already exists")
var ErrMFARequired = errors.New("mfa verification required")
var ErrInvalidMFACode = errors.New("invalid mfa code")
var ErrMFANotEnrolled = errors.New("mfa enrollment not started")

// ErrIdempotencyKeyTaken is returned when a payment insert loses to an earlier
// insert carrying the same idempotency key.
var ErrIdempotencyKeyTaken = errors.New("idempotency key already used")

// ErrClientEmailMissing is returned when an email must be sent to a client
// that has no address on file and none was supplied with the request.
var ErrClientEmailMissing = errors.New("client has no email address")

// Invalidf wraps ErrValidation with a field-level message.
func Invalidf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrValidation, fmt.Sprintf(format, args...))
}
