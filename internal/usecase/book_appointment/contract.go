package book_appointment

import (
	"context"
	"time"

	"github.com/autobay/shop-scheduling-service/internal/domain"
	"github.com/autobay/shop-scheduling-service/internal/integrations/customers"
	"github.com/autobay/shop-scheduling-service/internal/integrations/notify"
	"github.com/autobay/shop-scheduling-service/internal/service/reservation"
	"github.com/autobay/shop-scheduling-service/internal/service/technicians"
	"github.com/autobay/shop-scheduling-service/pkg/types"
)

// ServiceCatalog resolves requested service ids to catalog entries.
type ServiceCatalog interface {
	GetByIDs(ctx context.Context, ids []int64) ([]*domain.Service, error)
}

// AppointmentRepository persists the appointment record.
type AppointmentRepository interface {
	Create(ctx context.Context, appt *domain.Appointment) (*domain.Appointment, error)
	AddServices(ctx context.Context, appointmentID int64, services []*domain.Service) error
	MarkBookingFailed(ctx context.Context, id int64) error
	AssignTechnician(ctx context.Context, id int64, technicianID *int64) error
}

// ReservationCoordinator is the atomic slot-claiming protocol.
type ReservationCoordinator interface {
	Reserve(ctx context.Context, appointmentID int64, w reservation.Window) error
}

// TechnicianMatcher picks a technician for the booked window, best effort.
type TechnicianMatcher interface {
	Match(ctx context.Context, req technicians.Request) (*domain.Technician, error)
}

// CustomersClient resolves or creates the customer and vehicle records.
type CustomersClient interface {
	LookupOrCreateByPhone(ctx context.Context, req *customers.LookupOrCreateRequest) (*customers.Customer, error)
	ResolveVehicle(ctx context.Context, customerID int64, req *customers.VehicleRequest) (*customers.Vehicle, error)
}

// NotifyClient sends the confirmation, fire-and-forget.
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

// scheduleWindow narrows a request to the reservation window shape.
func scheduleWindow(bayID int64, date time.Time, start types.TimeString, durationMinutes int) reservation.Window {
	return reservation.Window{
		BayID:           bayID,
		Date:            date,
		StartTime:       start,
		DurationMinutes: durationMinutes,
	}
}
