package get_utilization

import (
	"context"
	"time"

	"github.com/autobay/shop-scheduling-service/internal/service/analytics"
)

type AnalyticsService interface {
	Utilization(ctx context.Context, date time.Time) (*analytics.Report, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
