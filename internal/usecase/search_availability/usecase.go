// Package search_availability finds candidate consecutive-slot windows for a
// requested service list across a date range. Results are advisory reads:
// booking re-validates every window under lock before committing.
package search_availability

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/autobay/shop-scheduling-service/internal/config"
	"github.com/autobay/shop-scheduling-service/internal/domain"
	catalogRepo "github.com/autobay/shop-scheduling-service/internal/infra/storage/servicecatalog"
	"github.com/autobay/shop-scheduling-service/pkg/types"
)

type UseCase struct {
	catalog      ServiceCatalog
	bayRepo      BayRepository
	slotRepo     SlotRepository
	hours        config.Hours
	bayRanking   domain.BayTypeRanking
	skillRanking domain.SkillRanking
	timeProvider TimeProvider
	logger       Logger
}

func NewUseCase(
	catalog ServiceCatalog,
	bayRepo BayRepository,
	slotRepo SlotRepository,
	hours config.Hours,
	bayRanking domain.BayTypeRanking,
	skillRanking domain.SkillRanking,
	logger Logger,
) *UseCase {
	return &UseCase{
		catalog:      catalog,
		bayRepo:      bayRepo,
		slotRepo:     slotRepo,
		hours:        hours,
		bayRanking:   bayRanking,
		skillRanking: skillRanking,
		timeProvider: RealTimeProvider{},
		logger:       logger,
	}
}

// Execute runs the search.
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("SearchAvailability: validation failed: %v", err)
		return nil, err
	}

	services, err := uc.catalog.GetByIDs(ctx, req.ServiceIDs)
	if err != nil {
		if errors.Is(err, catalogRepo.ErrServiceNotFound) {
			uc.logger.Warn("SearchAvailability: unknown service in %v", req.ServiceIDs)
			return nil, fmt.Errorf("%w: %v", ErrServiceNotFound, err)
		}
		uc.logger.Error("SearchAvailability: catalog lookup failed: %v", err)
		return nil, fmt.Errorf("%w: resolve services: %v", ErrInternal, err)
	}

	visit, err := domain.ComputeVisitRequirements(services, uc.bayRanking, uc.skillRanking)
	if err != nil {
		return nil, fmt.Errorf("%w: compute requirements: %v", ErrInternal, err)
	}
	needed := domain.SlotsNeeded(visit.TotalDurationMinutes, uc.hours.SlotGranularity)
	openMin, err := uc.hours.OpenTime.Minutes()
	if err != nil {
		return nil, fmt.Errorf("%w: parse open time: %v", ErrInternal, err)
	}
	closeMin, err := uc.hours.CloseTime.Minutes()
	if err != nil {
		return nil, fmt.Errorf("%w: parse close time: %v", ErrInternal, err)
	}
	if needed*uc.hours.SlotGranularity > closeMin-openMin {
		uc.logger.Warn("SearchAvailability: %d min visit does not fit the business day", visit.TotalDurationMinutes)
		return nil, ErrDurationTooLong
	}

	bays, err := uc.bayRepo.ListActiveByType(ctx, visit.BayType)
	if err != nil {
		uc.logger.Error("SearchAvailability: list bays type=%s failed: %v", visit.BayType, err)
		return nil, fmt.Errorf("%w: list bays: %v", ErrInternal, err)
	}
	if len(bays) == 0 {
		uc.logger.Info("SearchAvailability: no active %s bays, nothing to offer", visit.BayType)
		return &Response{Available: false, Windows: []Window{}}, nil
	}

	windows, err := uc.collectWindows(ctx, req, bays, needed, visit.TotalDurationMinutes)
	if err != nil {
		return nil, err
	}

	windows = dedupeByDateStart(windows)
	limit := req.MaxResults
	if limit == 0 {
		limit = uc.hours.MaxSearchResults
	}
	if len(windows) > limit {
		windows = windows[:limit]
	}

	uc.logger.Info("SearchAvailability: services=%v duration=%dmin bay_type=%s -> %d windows",
		req.ServiceIDs, visit.TotalDurationMinutes, visit.BayType, len(windows))
	return &Response{Available: len(windows) > 0, Windows: windows}, nil
}

// collectWindows scans every (bay, business day) pair in parallel. Each pair
// is one slot query, so a week-wide search over a handful of bays stays at a
// few dozen cheap indexed reads.
func (uc *UseCase) collectWindows(ctx context.Context, req *Request, bays []*domain.Bay, needed, durationMinutes int) ([]Window, error) {
	endDate := req.EndDate
	if endDate.IsZero() {
		endDate = req.StartDate
	}
	now := uc.timeProvider.Now()
	cutoff := now.Add(time.Duration(uc.hours.MinLeadTime) * time.Minute)

	var (
		mu       sync.Mutex
		wg       sync.WaitGroup
		windows  []Window
		firstErr error
	)
	for date := req.StartDate; !date.After(endDate); date = date.AddDate(0, 0, 1) {
		if !uc.hours.IsOpenOn(date) {
			continue
		}
		for _, b := range bays {
			wg.Add(1)
			go func(bayID int64, date time.Time) {
				defer wg.Done()
				found, err := uc.scanBayDay(ctx, bayID, date, needed, durationMinutes, req.TimePreference, cutoff)

				mu.Lock()
				defer mu.Unlock()
				if err != nil {
					if firstErr == nil {
						firstErr = err
					}
					return
				}
				windows = append(windows, found...)
			}(b.ID, date)
		}
	}
	wg.Wait()

	if firstErr != nil {
		uc.logger.Error("SearchAvailability: slot scan failed: %v", firstErr)
		return nil, fmt.Errorf("%w: scan slots: %v", ErrInternal, firstErr)
	}
	return windows, nil
}

// scanBayDay finds every run of `needed` gapless slots for one bay and date.
func (uc *UseCase) scanBayDay(ctx context.Context, bayID int64, date time.Time, needed, durationMinutes int, pref TimePreference, cutoff time.Time) ([]Window, error) {
	slots, err := uc.slotRepo.GetAvailableByBayAndDate(ctx, bayID, date)
	if err != nil {
		return nil, err
	}
	sort.Slice(slots, func(i, j int) bool {
		return slots[i].StartTime.IsBefore(slots[j].StartTime)
	})

	windows := make([]Window, 0)
	for i := 0; i+needed <= len(slots); i++ {
		if !isGaplessRun(slots[i : i+needed]) {
			continue
		}
		start := slots[i].StartTime
		end := slots[i+needed-1].EndTime
		if end.IsAfter(uc.hours.CloseTime) {
			continue
		}
		if !matchesPreference(start, pref) {
			continue
		}
		startAt, err := start.At(date)
		if err != nil {
			return nil, fmt.Errorf("anchor start %s on %s: %w", start, date.Format(domain.DateFormat), err)
		}
		if startAt.Before(cutoff) {
			continue
		}
		windows = append(windows, Window{
			Date:            date.Format(domain.DateFormat),
			StartTime:       start,
			EndTime:         end,
			BayID:           bayID,
			DurationMinutes: durationMinutes,
		})
	}
	return windows, nil
}

// isGaplessRun reports whether each slot starts exactly where the previous
// one ends.
func isGaplessRun(run []*domain.Slot) bool {
	for i := 1; i < len(run); i++ {
		if !run[i-1].EndTime.Equal(run[i].StartTime) {
			return false
		}
	}
	return true
}

func matchesPreference(start types.TimeString, pref TimePreference) bool {
	switch pref {
	case PreferenceMorning:
		return start.IsBefore(noonBoundary)
	case PreferenceAfternoon:
		return !start.IsBefore(noonBoundary)
	default:
		return true
	}
}

// dedupeByDateStart keeps one window per (date, start) across bays, lowest
// bay id first so repeated searches over the same state return the same list.
func dedupeByDateStart(windows []Window) []Window {
	sort.Slice(windows, func(i, j int) bool {
		if windows[i].Date != windows[j].Date {
			return windows[i].Date < windows[j].Date
		}
		if !windows[i].StartTime.Equal(windows[j].StartTime) {
			return windows[i].StartTime.IsBefore(windows[j].StartTime)
		}
		return windows[i].BayID < windows[j].BayID
	})

	deduped := windows[:0]
	for _, w := range windows {
		if len(deduped) > 0 {
			last := deduped[len(deduped)-1]
			if last.Date == w.Date && last.StartTime.Equal(w.StartTime) {
				continue
			}
		}
		deduped = append(deduped, w)
	}
	return deduped
}
