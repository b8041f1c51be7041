package book_appointment

import "errors"

var (
	ErrNoServices            = errors.New("book_appointment: at least one service id is required")
	ErrServiceNotFound       = errors.New("book_appointment: service not found")
	ErrMissingPhone          = errors.New("book_appointment: customer phone is required")
	ErrMissingCustomerFields = errors.New("book_appointment: first and last name are required for a new customer")
	ErrOutsideBusinessHours  = errors.New("book_appointment: window is outside business hours")
	ErrWindowUnavailable     = errors.New("book_appointment: requested window is no longer available")
	ErrInternal              = errors.New("book_appointment: internal error")
)
