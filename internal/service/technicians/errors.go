package technicians

import "errors"

var (
	// ErrNoTechnicianAvailable means no qualified technician is free for the
	// requested window. Booking proceeds without an assignment.
	ErrNoTechnicianAvailable = errors.New("technicians: no technician available for the window")

	ErrInternal = errors.New("technicians: internal error")
)
