// Package inventory maintains the rolling window of bookable slots: a
// periodic job generates the grid for upcoming business days and prunes
// stale, never-booked slots past the retention horizon.
package inventory

import (
	"context"
	"fmt"
	"time"

	"github.com/autobay/shop-scheduling-service/internal/config"
	"github.com/autobay/shop-scheduling-service/internal/domain"
)

type Service struct {
	slotRepo SlotRepository
	bayRepo  BayRepository
	hours    config.Hours
	window   int // days of inventory kept ahead, today included
	retain   int // days booked history is kept before pruning
	timeNow  TimeProvider
	logger   Logger
}

func NewService(
	slotRepo SlotRepository,
	bayRepo BayRepository,
	hours config.Hours,
	rollingWindowDays int,
	retentionDays int,
	timeProvider TimeProvider,
	logger Logger,
) *Service {
	return &Service{
		slotRepo: slotRepo,
		bayRepo:  bayRepo,
		hours:    hours,
		window:   rollingWindowDays,
		retain:   retentionDays,
		timeNow:  timeProvider,
		logger:   logger,
	}
}

// GenerateWindow tops up inventory for every open business day in the
// rolling window across all active bays. Re-running is safe: slots that
// already exist are left untouched, booked or not.
func (s *Service) GenerateWindow(ctx context.Context) (int64, error) {
	bays, err := s.bayRepo.ListActive(ctx)
	if err != nil {
		return 0, fmt.Errorf("inventory: GenerateWindow - list bays: %w", err)
	}
	if len(bays) == 0 {
		s.logger.Info("GenerateWindow: no active bays, nothing to generate")
		return 0, nil
	}

	today := truncateToDay(s.timeNow.Now())
	slots := make([]domain.Slot, 0, s.window*len(bays)*16)
	for offset := 0; offset < s.window; offset++ {
		date := today.AddDate(0, 0, offset)
		if !s.hours.IsOpenOn(date) {
			continue
		}
		for _, b := range bays {
			daySlots, err := s.daySlots(b.ID, date)
			if err != nil {
				return 0, fmt.Errorf("inventory: GenerateWindow - grid for bay=%d date=%s: %w",
					b.ID, date.Format(domain.DateFormat), err)
			}
			slots = append(slots, daySlots...)
		}
	}

	inserted, err := s.slotRepo.InsertMany(ctx, slots)
	if err != nil {
		return 0, fmt.Errorf("inventory: GenerateWindow - insert slots: %w", err)
	}
	s.logger.Info("GenerateWindow: %d new slots of %d candidates across %d bays",
		inserted, len(slots), len(bays))
	return inserted, nil
}

// daySlots builds the full grid for one bay and date. Only whole slots fit:
// a remainder shorter than the granularity at closing time is dropped.
func (s *Service) daySlots(bayID int64, date time.Time) ([]domain.Slot, error) {
	openMin, err := s.hours.OpenTime.Minutes()
	if err != nil {
		return nil, err
	}
	closeMin, err := s.hours.CloseTime.Minutes()
	if err != nil {
		return nil, err
	}
	slots := make([]domain.Slot, 0, (closeMin-openMin)/s.hours.SlotGranularity)

	start := s.hours.OpenTime
	for {
		end, err := start.AddMinutes(s.hours.SlotGranularity)
		if err != nil {
			return nil, err
		}
		if end.IsAfter(s.hours.CloseTime) {
			break
		}
		slots = append(slots, domain.Slot{
			BayID:       bayID,
			Date:        date,
			StartTime:   start,
			EndTime:     end,
			IsAvailable: true,
		})
		if end.Equal(s.hours.CloseTime) {
			break
		}
		start = end
	}
	return slots, nil
}

// Prune removes free slots older than the retention horizon. Booked slots
// stay for appointment history.
func (s *Service) Prune(ctx context.Context) (int64, error) {
	cutoff := truncateToDay(s.timeNow.Now()).AddDate(0, 0, -s.retain)
	pruned, err := s.slotRepo.Prune(ctx, cutoff)
	if err != nil {
		return 0, fmt.Errorf("inventory: Prune - delete before %s: %w",
			cutoff.Format(domain.DateFormat), err)
	}
	s.logger.Info("Prune: removed %d free slots before %s", pruned, cutoff.Format(domain.DateFormat))
	return pruned, nil
}

// Run executes one generate+prune cycle immediately, then repeats on the
// interval until the context is cancelled.
func (s *Service) Run(ctx context.Context, interval time.Duration) {
	s.cycle(ctx)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			s.logger.Info("Run: inventory loop stopped")
			return
		case <-ticker.C:
			s.cycle(ctx)
		}
	}
}

func (s *Service) cycle(ctx context.Context) {
	if _, err := s.GenerateWindow(ctx); err != nil {
		s.logger.Error("cycle: generate failed: %v", err)
	}
	if _, err := s.Prune(ctx); err != nil {
		s.logger.Error("cycle: prune failed: %v", err)
	}
}

func truncateToDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
