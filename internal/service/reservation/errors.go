package reservation

import "errors"

var (
	// ErrWindowUnavailable is returned when any required slot is already
	// claimed by a competing appointment. It is an expected, recoverable
	// outcome: the caller re-searches and retries.
	ErrWindowUnavailable = errors.New("reservation: window no longer available")

	// ErrNoInventory is returned when slot rows for the window have not been
	// generated, which means the window was never bookable.
	ErrNoInventory = errors.New("reservation: no slot inventory for window")

	// ErrInvalidWindow is returned for a zero or negative duration.
	ErrInvalidWindow = errors.New("reservation: invalid reservation window")

	// ErrInternal is returned on storage failures.
	ErrInternal = errors.New("reservation: internal error")
)
