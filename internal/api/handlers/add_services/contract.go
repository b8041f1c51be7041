package add_services

import (
	"context"

	addServices "github.com/autobay/shop-scheduling-service/internal/usecase/add_services"
)

type AddServicesUseCase interface {
	Execute(ctx context.Context, req *addServices.Request) (*addServices.Response, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
