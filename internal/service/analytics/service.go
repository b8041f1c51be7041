// Package analytics computes advisory utilization summaries over the slot
// inventory. Results are cached with a TTL; the booking path never reads
// them, so stale numbers can mislead a dashboard but never double-book a bay.
package analytics

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/autobay/shop-scheduling-service/internal/domain"
	"github.com/autobay/shop-scheduling-service/internal/infra/cache"
)

// BayUtilization is the per-bay slice of a daily report.
type BayUtilization struct {
	BayID       int64          `json:"bay_id"`
	BayName     string         `json:"bay_name"`
	BayType     domain.BayType `json:"bay_type"`
	TotalSlots  int            `json:"total_slots"`
	BookedSlots int            `json:"booked_slots"`
	Utilization float64        `json:"utilization"`
}

// Report is one day of utilization across all active bays.
type Report struct {
	Date string           `json:"date"`
	Bays []BayUtilization `json:"bays"`
}

type Service struct {
	slotRepo SlotRepository
	bayRepo  BayRepository
	cache    Cache
	logger   Logger
}

func NewService(slotRepo SlotRepository, bayRepo BayRepository, c Cache, logger Logger) *Service {
	return &Service{
		slotRepo: slotRepo,
		bayRepo:  bayRepo,
		cache:    c,
		logger:   logger,
	}
}

// Utilization returns the report for date, serving from cache when possible.
// Cache failures degrade to a direct read, never to an error.
func (s *Service) Utilization(ctx context.Context, date time.Time) (*Report, error) {
	key := cacheKey(date)
	if s.cache != nil {
		var cached Report
		err := s.cache.Get(ctx, key, &cached)
		if err == nil {
			return &cached, nil
		}
		if !errors.Is(err, cache.ErrCacheMiss) {
			s.logger.Warn("Utilization: cache read failed, computing directly: %v", err)
		}
	}

	report, err := s.compute(ctx, date)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, key, report); err != nil {
			s.logger.Warn("Utilization: cache write failed: %v", err)
		}
	}
	return report, nil
}

func (s *Service) compute(ctx context.Context, date time.Time) (*Report, error) {
	bays, err := s.bayRepo.ListActive(ctx)
	if err != nil {
		return nil, fmt.Errorf("analytics: compute - list bays: %w", err)
	}
	total, err := s.slotRepo.CountTotalByBayAndDate(ctx, date)
	if err != nil {
		return nil, fmt.Errorf("analytics: compute - total counts: %w", err)
	}
	booked, err := s.slotRepo.CountBookedByBayAndDate(ctx, date)
	if err != nil {
		return nil, fmt.Errorf("analytics: compute - booked counts: %w", err)
	}

	report := &Report{
		Date: date.Format(domain.DateFormat),
		Bays: make([]BayUtilization, 0, len(bays)),
	}
	for _, b := range bays {
		u := BayUtilization{
			BayID:       b.ID,
			BayName:     b.Name,
			BayType:     b.BayType,
			TotalSlots:  total[b.ID],
			BookedSlots: booked[b.ID],
		}
		if u.TotalSlots > 0 {
			u.Utilization = float64(u.BookedSlots) / float64(u.TotalSlots)
		}
		report.Bays = append(report.Bays, u)
	}
	return report, nil
}

func cacheKey(date time.Time) string {
	return "analytics:utilization:" + date.Format(domain.DateFormat)
}
