package search_availability

import (
	"context"
	"time"

	"github.com/autobay/shop-scheduling-service/internal/domain"
)

// ServiceCatalog resolves requested service ids to catalog entries.
type ServiceCatalog interface {
	GetByIDs(ctx context.Context, ids []int64) ([]*domain.Service, error)
}

// BayRepository resolves the candidate bays for a visit.
type BayRepository interface {
	ListActiveByType(ctx context.Context, bayType domain.BayType) ([]*domain.Bay, error)
}

// SlotRepository reads free inventory. Results are advisory: every window
// found here is re-validated under lock at booking time.
type SlotRepository interface {
	GetAvailableByBayAndDate(ctx context.Context, bayID int64, date time.Time) ([]*domain.Slot, error)
}

// TimeProvider abstracts the clock for the lead-time cutoff.
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
