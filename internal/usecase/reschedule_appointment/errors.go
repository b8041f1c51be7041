package reschedule_appointment

import "errors"

var (
	ErrAppointmentNotFound  = errors.New("reschedule_appointment: appointment not found")
	ErrNotReschedulable     = errors.New("reschedule_appointment: appointment can no longer be rescheduled")
	ErrOutsideBusinessHours = errors.New("reschedule_appointment: window is outside business hours")
	ErrWindowUnavailable    = errors.New("reschedule_appointment: requested window is not available")
	ErrInternal             = errors.New("reschedule_appointment: internal error")
)
