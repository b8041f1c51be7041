package appointment

import "errors"

var (
	// ErrAppointmentNotFound is returned when the appointment does not exist
	// or has been soft-deleted.
	ErrAppointmentNotFound = errors.New("appointment.repository: appointment not found")

	// ErrBuildQuery is returned when building a SQL statement fails.
	ErrBuildQuery = errors.New("appointment.repository: failed to build query")

	// ErrExecQuery is returned when executing a SQL statement fails.
	ErrExecQuery = errors.New("appointment.repository: failed to execute query")

	// ErrScanRow is returned when scanning a result row fails.
	ErrScanRow = errors.New("appointment.repository: failed to scan row")
)
