// Package technicians selects a qualified, free technician for a booked
// window. Assignment is best effort: callers treat ErrNoTechnicianAvailable
// as "book without a technician", never as a booking failure.
package technicians

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/autobay/shop-scheduling-service/internal/domain"
	"github.com/autobay/shop-scheduling-service/pkg/types"
)

type Service struct {
	techRepo     TechnicianRepository
	apptRepo     AppointmentRepository
	skillRanking domain.SkillRanking
	logger       Logger
}

func NewService(
	techRepo TechnicianRepository,
	apptRepo AppointmentRepository,
	skillRanking domain.SkillRanking,
	logger Logger,
) *Service {
	return &Service{
		techRepo:     techRepo,
		apptRepo:     apptRepo,
		skillRanking: skillRanking,
		logger:       logger,
	}
}

// Request describes the window a technician is needed for.
type Request struct {
	BayID           int64
	Date            time.Time
	StartTime       types.TimeString
	DurationMinutes int
	RequiredSkill   domain.SkillLevel
}

// Match picks the best technician for the request, or
// ErrNoTechnicianAvailable when nobody qualifies.
//
// Candidates must be active, assigned to the bay, at or above the required
// skill level, on shift for the whole window, and free of overlapping active
// appointments that day. Among those, a primary bay assignment wins; then the
// least over-qualified technician; then the lowest id, so repeated runs over
// the same state pick the same person.
func (s *Service) Match(ctx context.Context, req Request) (*domain.Technician, error) {
	end, err := req.StartTime.AddMinutes(req.DurationMinutes)
	if err != nil {
		return nil, fmt.Errorf("%w: Match - compute window end: %v", ErrInternal, err)
	}

	candidates, err := s.techRepo.ListCandidatesByBay(ctx, req.BayID)
	if err != nil {
		return nil, fmt.Errorf("%w: Match - list candidates: %v", ErrInternal, err)
	}

	qualified := make([]*domain.TechnicianCandidate, 0, len(candidates))
	ids := make([]int64, 0, len(candidates))
	for _, c := range candidates {
		if !c.Technician.IsActive {
			continue
		}
		if !s.skillRanking.Meets(c.Technician.SkillLevel, req.RequiredSkill) {
			continue
		}
		qualified = append(qualified, c)
		ids = append(ids, c.Technician.ID)
	}
	if len(qualified) == 0 {
		return nil, ErrNoTechnicianAvailable
	}

	shifts, err := s.techRepo.ListShifts(ctx, ids, req.Date.Weekday())
	if err != nil {
		return nil, fmt.Errorf("%w: Match - list shifts: %v", ErrInternal, err)
	}
	onShift := make(map[int64]bool, len(ids))
	for _, sh := range shifts {
		if sh.IsActive && sh.Covers(req.StartTime, end) {
			onShift[sh.TechnicianID] = true
		}
	}

	busy, err := s.busyTechnicians(ctx, req, end)
	if err != nil {
		return nil, err
	}

	free := make([]*domain.TechnicianCandidate, 0, len(qualified))
	for _, c := range qualified {
		if onShift[c.Technician.ID] && !busy[c.Technician.ID] {
			free = append(free, c)
		}
	}
	if len(free) == 0 {
		return nil, ErrNoTechnicianAvailable
	}

	sort.Slice(free, func(i, j int) bool {
		if free[i].IsPrimary != free[j].IsPrimary {
			return free[i].IsPrimary
		}
		ri := s.skillRanking.Rank(free[i].Technician.SkillLevel)
		rj := s.skillRanking.Rank(free[j].Technician.SkillLevel)
		if ri != rj {
			return ri < rj
		}
		return free[i].Technician.ID < free[j].Technician.ID
	})

	best := free[0].Technician
	s.logger.Info("Match: technician=%d assigned to bay=%d window %s %s",
		best.ID, req.BayID, req.Date.Format(domain.DateFormat), req.StartTime)
	return &best, nil
}

// busyTechnicians returns the ids of technicians whose active appointments
// overlap the [start, end) window on the request date.
func (s *Service) busyTechnicians(ctx context.Context, req Request, end types.TimeString) (map[int64]bool, error) {
	date := req.Date
	appts, err := s.apptRepo.ListWithFilter(ctx, domain.AppointmentsFilter{
		StartDate: &date,
		EndDate:   &date,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: busyTechnicians - list appointments: %v", ErrInternal, err)
	}

	busy := make(map[int64]bool)
	for _, a := range appts {
		if a.TechnicianID == nil || !a.IsActive() {
			continue
		}
		existingEnd, err := a.EndTime()
		if err != nil {
			s.logger.Warn("busyTechnicians: appointment=%d has unusable schedule: %v", a.ID, err)
			continue
		}
		if a.ScheduledTime.IsBefore(end) && existingEnd.IsAfter(req.StartTime) {
			busy[*a.TechnicianID] = true
		}
	}
	return busy, nil
}
