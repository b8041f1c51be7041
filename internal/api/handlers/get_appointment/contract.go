package get_appointment

import (
	"context"

	"github.com/autobay/shop-scheduling-service/internal/service/appointments"
)

type AppointmentsService interface {
	Get(ctx context.Context, id int64) (*appointments.View, error)
	GetByReference(ctx context.Context, reference string) (*appointments.View, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
