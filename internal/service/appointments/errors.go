package appointments

import "errors"

var (
	ErrAppointmentNotFound = errors.New("appointments: appointment not found")
	ErrInvalidTransition   = errors.New("appointments: transition not allowed from current status")
	ErrUnknownTransition   = errors.New("appointments: unknown transition")
	ErrInternal            = errors.New("appointments: internal error")
)
