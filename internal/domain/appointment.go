package domain

import (
	"time"

	"github.com/autobay/shop-scheduling-service/pkg/types"
)

// AppointmentStatus is the persisted lifecycle state of an appointment.
type AppointmentStatus string

const (
	StatusScheduled     AppointmentStatus = "scheduled"
	StatusConfirmed     AppointmentStatus = "confirmed"
	StatusCheckedIn     AppointmentStatus = "checked_in"
	StatusInProgress    AppointmentStatus = "in_progress"
	StatusCheckingOut   AppointmentStatus = "checking_out"
	StatusCompleted     AppointmentStatus = "completed"
	StatusCancelled     AppointmentStatus = "cancelled"
	StatusNoShow        AppointmentStatus = "no_show"
	StatusBookingFailed AppointmentStatus = "booking_failed"
	StatusInvoiced      AppointmentStatus = "invoiced"
	StatusPaid          AppointmentStatus = "paid"
)

// ActiveStatuses are the states in which an appointment owns its slots and
// counts toward bay/technician conflicts.
var ActiveStatuses = []AppointmentStatus{
	StatusScheduled,
	StatusConfirmed,
	StatusCheckedIn,
	StatusInProgress,
	StatusCheckingOut,
	StatusCompleted,
	StatusInvoiced,
	StatusPaid,
}

// InactiveStatuses never hold slots and are excluded from conflict checks.
var InactiveStatuses = []AppointmentStatus{
	StatusCancelled,
	StatusNoShow,
	StatusBookingFailed,
}

// ValidStatus reports whether s is a known appointment status.
func ValidStatus(s AppointmentStatus) bool {
	switch s {
	case StatusScheduled, StatusConfirmed, StatusCheckedIn, StatusInProgress,
		StatusCheckingOut, StatusCompleted, StatusCancelled, StatusNoShow,
		StatusBookingFailed, StatusInvoiced, StatusPaid:
		return true
	}
	return false
}

// Appointment is a booked visit. It exclusively owns the contiguous block of
// slots covering [ScheduledTime, ScheduledTime+Duration) in its bay for its
// whole lifetime; ownership moves atomically on reschedule.
type Appointment struct {
	ID              int64
	Reference       string // external confirmation code (UUID)
	CustomerID      int64
	VehicleID       int64
	BayID           int64
	TechnicianID    *int64 // best-effort assignment, may be nil
	ScheduledDate   time.Time
	ScheduledTime   types.TimeString
	DurationMinutes int
	Status          AppointmentStatus
	Notes           *string

	// Denormalized for history
	ServiceNames []string
	TotalPrice   float64

	CancellationReason *string
	CancelledAt        *time.Time
	DeletedAt          *time.Time

	CreatedAt time.Time
	UpdatedAt time.Time
}

// EndTime returns the scheduled end of the appointment.
func (a *Appointment) EndTime() (types.TimeString, error) {
	return a.ScheduledTime.AddMinutes(a.DurationMinutes)
}

// IsActive reports whether the appointment currently owns its slots.
func (a *Appointment) IsActive() bool {
	if a.DeletedAt != nil {
		return false
	}
	switch a.Status {
	case StatusCancelled, StatusNoShow, StatusBookingFailed:
		return false
	}
	return true
}

// IsTerminal reports whether the status is final and exempt from
// time-derived display status.
func (a *Appointment) IsTerminal() bool {
	switch a.Status {
	case StatusCompleted, StatusCancelled, StatusNoShow, StatusBookingFailed,
		StatusInvoiced, StatusPaid:
		return true
	}
	return false
}

// CanBeCancelled reports whether a cancel transition is allowed.
func (a *Appointment) CanBeCancelled() bool {
	switch a.Status {
	case StatusScheduled, StatusConfirmed, StatusCheckedIn:
		return true
	}
	return false
}

// CanBeRescheduled reports whether the appointment may move to a new window.
func (a *Appointment) CanBeRescheduled() bool {
	return a.Status == StatusScheduled || a.Status == StatusConfirmed
}

// CanBeExtended reports whether extra services may still be added.
func (a *Appointment) CanBeExtended() bool {
	switch a.Status {
	case StatusScheduled, StatusConfirmed, StatusCheckedIn, StatusInProgress:
		return true
	}
	return false
}

// AppointmentsFilter narrows appointment list queries.
type AppointmentsFilter struct {
	BayID           *int64
	TechnicianID    *int64
	CustomerID      *int64
	StartDate       *time.Time
	EndDate         *time.Time
	Status          *AppointmentStatus
	IncludeInactive bool
}
