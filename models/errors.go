package models

import "errors"

// Sentinel errors shared by the store, services and handlers. Handlers map
// these onto HTTP statuses; the check-in flow maps them onto stage
// transitions. Anything that does not match one of these is treated as a
// transport/server failure.
var (
	// ErrInvalidToken means the scanned payload is syntactically wrong for
	// the operation: not an email for identity lookups, or missing the badge
	// URL prefix for badge operations.
	ErrInvalidToken = errors.New("invalid token")

	// ErrNotFound means no hacker matched the given email or badge code.
	ErrNotFound = errors.New("hacker not found")

	// ErrAlreadyRecorded means the (badge, event) pair was already credited.
	ErrAlreadyRecorded = errors.New("event already recorded")

	// ErrBadgeTaken means the badge code is already bound to a different hacker.
	ErrBadgeTaken = errors.New("badge code already assigned to another hacker")

	// ErrEmailTaken means a hacker with that email is already registered.
	ErrEmailTaken = errors.New("email already registered")

	// ErrUnknownEvent means the event catalog has no row for the event id.
	ErrUnknownEvent = errors.New("event not found in catalog")
)
