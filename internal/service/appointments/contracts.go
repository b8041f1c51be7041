package appointments

import (
	"context"
	"time"

	"github.com/autobay/shop-scheduling-service/internal/domain"
)

// AppointmentRepository is the persistence surface for reads and status
// updates.
type AppointmentRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Appointment, error)
	GetByReference(ctx context.Context, reference string) (*domain.Appointment, error)
	ListWithFilter(ctx context.Context, filter domain.AppointmentsFilter) ([]*domain.Appointment, error)
	UpdateStatus(ctx context.Context, id int64, status domain.AppointmentStatus) error
}

// TimeProvider abstracts the clock for display-status derivation.
type TimeProvider interface {
	Now() time.Time
}

// RealTimeProvider serves the wall clock.
type RealTimeProvider struct{}

func (RealTimeProvider) Now() time.Time {
	return time.Now()
}

// Logger is the logging surface the service needs.
type Logger interface {
	Info(format string, v ...interface{})
}
