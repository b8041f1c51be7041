package search_availability

import (
	"context"

	searchAvailability "github.com/autobay/shop-scheduling-service/internal/usecase/search_availability"
)

type SearchAvailabilityUseCase interface {
	Execute(ctx context.Context, req *searchAvailability.Request) (*searchAvailability.Response, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
