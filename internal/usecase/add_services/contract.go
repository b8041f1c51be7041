package add_services

import (
	"context"

	"github.com/autobay/shop-scheduling-service/internal/domain"
	"github.com/autobay/shop-scheduling-service/internal/service/reservation"
)

// ServiceCatalog resolves the added service ids.
type ServiceCatalog interface {
	GetByIDs(ctx context.Context, ids []int64) ([]*domain.Service, error)
}

// AppointmentRepository reads and updates the appointment's service list.
type AppointmentRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Appointment, error)
	AddServices(ctx context.Context, appointmentID int64, services []*domain.Service) error
	UpdateServices(ctx context.Context, id int64, serviceNames []string, totalPrice float64, durationMinutes int) error
}

// ReservationCoordinator claims the trailing slots for an extension.
type ReservationCoordinator interface {
	Extend(ctx context.Context, appointmentID int64, w reservation.Window, newDurationMinutes int) error
}

// Logger is the logging surface of the use case.
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
