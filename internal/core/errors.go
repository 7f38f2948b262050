package core

import "errors"

var (
	// ErrUserNotFound is returned when an operation names an unknown user
	ErrUserNotFound = errors.New("user not found")

	// ErrConferenceNotFound is returned when an acronym is not in the current catalog
	ErrConferenceNotFound = errors.New("conference not found")

	// ErrUnknownDeadlineType is returned for deadline type names outside the fixed set
	ErrUnknownDeadlineType = errors.New("unknown deadline type")

	// ErrInvalidReminderDays is returned when a reminder lead time is out of range
	ErrInvalidReminderDays = errors.New("reminder days must be between 0 and 365")

	// ErrInvalidEmail is returned when an address cannot be parsed
	ErrInvalidEmail = errors.New("invalid email address")

	// ErrDomainNotAllowed is returned when the recipient domain is not allowed
	ErrDomainNotAllowed = errors.New("email domain is not allowed")

	// ErrMalformedLedgerKey is returned when a stored ledger key cannot be decoded
	ErrMalformedLedgerKey = errors.New("malformed ledger key")
)
