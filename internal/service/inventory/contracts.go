package inventory

import (
	"context"
	"time"

	"github.com/autobay/shop-scheduling-service/internal/domain"
)

// SlotRepository persists generated slot inventory.
type SlotRepository interface {
	InsertMany(ctx context.Context, slots []domain.Slot) (int64, error)
	Prune(ctx context.Context, before time.Time) (int64, error)
}

// BayRepository lists the bays inventory is generated for.
type BayRepository interface {
	ListActive(ctx context.Context) ([]*domain.Bay, error)
}

// TimeProvider abstracts the clock so the rolling window is testable.
type TimeProvider interface {
	Now() time.Time
}

// RealTimeProvider serves the wall clock.
type RealTimeProvider struct{}

func (RealTimeProvider) Now() time.Time {
	return time.Now()
}

// Logger is the logging surface the generator needs.
type Logger interface {
	Info(format string, v ...interface{})
	Error(format string, v ...interface{})
}
