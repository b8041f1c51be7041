package reschedule_appointment

import (
	"context"
	"time"

	"github.com/autobay/shop-scheduling-service/internal/domain"
	"github.com/autobay/shop-scheduling-service/internal/integrations/notify"
	"github.com/autobay/shop-scheduling-service/internal/service/reservation"
)

// AppointmentRepository reads the appointment being moved. The schedule row
// itself is updated inside the coordinator's transaction.
type AppointmentRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Appointment, error)
}

// ReservationCoordinator moves slot ownership atomically.
type ReservationCoordinator interface {
	Transfer(ctx context.Context, appointmentID int64, to reservation.Window) error
}

// NotifyClient tells the customer about the new time, fire-and-forget.
type NotifyClient interface {
	SendConfirmation(ctx context.Context, msg *notify.Message) error
}

// TimeProvider abstracts the clock for business-window validation.
type TimeProvider interface {
	Now() time.Time
}

// RealTimeProvider serves the wall clock.
type RealTimeProvider struct{}

func (RealTimeProvider) Now() time.Time {
	return time.Now()
}

// Logger is the logging surface of the use case.
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
