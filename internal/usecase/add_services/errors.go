package add_services

import "errors"

var (
	ErrNoServices          = errors.New("add_services: at least one service id is required")
	ErrServiceNotFound     = errors.New("add_services: service not found")
	ErrAppointmentNotFound = errors.New("add_services: appointment not found")
	ErrNotExtendable       = errors.New("add_services: appointment does not accept new services in its current status")
	ErrInternal            = errors.New("add_services: internal error")
)
