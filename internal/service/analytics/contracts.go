package analytics

import (
	"context"
	"time"

	"github.com/autobay/shop-scheduling-service/internal/domain"
)

// SlotRepository supplies per-bay slot counts for one date.
type SlotRepository interface {
	CountBookedByBayAndDate(ctx context.Context, date time.Time) (map[int64]int, error)
	CountTotalByBayAndDate(ctx context.Context, date time.Time) (map[int64]int, error)
}

// BayRepository names the bays in the report.
type BayRepository interface {
	ListActive(ctx context.Context) ([]*domain.Bay, error)
}

// Cache is the read-through cache surface. A nil Cache disables caching.
type Cache interface {
	Get(ctx context.Context, key string, dest interface{}) error
	Set(ctx context.Context, key string, value interface{}) error
}

// Logger is the logging surface the service needs.
type Logger interface {
	Warn(format string, v ...interface{})
}
