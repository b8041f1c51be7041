package technicians

import (
	"context"
	"time"

	"github.com/autobay/shop-scheduling-service/internal/domain"
)

// TechnicianRepository supplies the candidate pool for one bay.
type TechnicianRepository interface {
	ListCandidatesByBay(ctx context.Context, bayID int64) ([]*domain.TechnicianCandidate, error)
	ListShifts(ctx context.Context, technicianIDs []int64, day time.Weekday) ([]*domain.Shift, error)
}

// AppointmentRepository supplies the existing workload used for the overlap
// check.
type AppointmentRepository interface {
	ListWithFilter(ctx context.Context, filter domain.AppointmentsFilter) ([]*domain.Appointment, error)
}

// Logger is the logging surface the matcher needs.
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
}
