package cancel_appointment

import (
	"context"

	"github.com/autobay/shop-scheduling-service/internal/domain"
	"github.com/autobay/shop-scheduling-service/internal/integrations/notify"
)

// AppointmentRepository reads the appointment being cancelled. The row update
// happens inside the coordinator's transaction.
type AppointmentRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Appointment, error)
}

// ReservationCoordinator releases slots and marks the cancellation
// atomically.
type ReservationCoordinator interface {
	Cancel(ctx context.Context, appointmentID int64, reason string) error
}

// NotifyClient tells the customer, fire-and-forget.
type NotifyClient interface {
	SendCancellation(ctx context.Context, msg *notify.Message) error
}

// Logger is the logging surface of the use case.
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
