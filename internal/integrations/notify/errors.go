package notify

import "errors"

var (
	// ErrInternal is returned on client-side failures.
	ErrInternal = errors.New("notify client: internal error")

	// ErrInvalidResponse is returned when the notification service answers
	// with an unexpected status.
	ErrInvalidResponse = errors.New("notify client: invalid response")
)
