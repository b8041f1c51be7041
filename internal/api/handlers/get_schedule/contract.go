package get_schedule

import (
	"context"

	"github.com/autobay/shop-scheduling-service/internal/domain"
	"github.com/autobay/shop-scheduling-service/internal/service/appointments"
)

type AppointmentsService interface {
	ListSchedule(ctx context.Context, filter domain.AppointmentsFilter) ([]*appointments.View, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
