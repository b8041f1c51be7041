package reservation

import (
	"context"
	"time"

	"github.com/autobay/shop-scheduling-service/internal/domain"
	"github.com/autobay/shop-scheduling-service/pkg/types"
)

// SlotRepository is the slot store surface the coordinator needs.
type SlotRepository interface {
	Reserve(ctx context.Context, bayID int64, date time.Time, starts []types.TimeString, appointmentID int64) error
	Release(ctx context.Context, appointmentID int64) error
	GetByAppointment(ctx context.Context, appointmentID int64) ([]*domain.Slot, error)
}

// AppointmentRepository is the appointment store surface the coordinator
// needs for the transfer and cancel protocols.
type AppointmentRepository interface {
	UpdateSchedule(ctx context.Context, id int64, bayID int64, date time.Time, start types.TimeString) error
	Cancel(ctx context.Context, id int64, reason string) error
}

// TransactionManager runs a function inside a serializable transaction.
type TransactionManager interface {
	DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error
}

// Logger is the logging surface the coordinator needs.
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
