package transition_appointment

import (
	"context"

	"github.com/autobay/shop-scheduling-service/internal/service/appointments"
)

type AppointmentsService interface {
	Apply(ctx context.Context, id int64, tr appointments.Transition) (*appointments.View, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
