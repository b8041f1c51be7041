package cancel_appointment

import "errors"

var (
	ErrAppointmentNotFound = errors.New("cancel_appointment: appointment not found")
	ErrNotCancellable      = errors.New("cancel_appointment: appointment can no longer be cancelled")
	ErrInternal            = errors.New("cancel_appointment: internal error")
)
