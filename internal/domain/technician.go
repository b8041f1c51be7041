package domain

import (
	"time"

	"github.com/autobay/shop-scheduling-service/pkg/types"
)

// SkillLevel is a technician competency tier.
type SkillLevel string

const (
	SkillJunior       SkillLevel = "junior"
	SkillIntermediate SkillLevel = "intermediate"
	SkillSenior       SkillLevel = "senior"
	SkillMaster       SkillLevel = "master"
)

// SkillRanking totally orders skill levels. Like BayTypeRanking it is loaded
// from configuration.
type SkillRanking map[SkillLevel]int

// DefaultSkillRanking orders the stock tiers from junior to master.
func DefaultSkillRanking() SkillRanking {
	return SkillRanking{
		SkillJunior:       1,
		SkillIntermediate: 2,
		SkillSenior:       3,
		SkillMaster:       4,
	}
}

// Rank returns the rank of level. Unknown levels rank lowest.
func (r SkillRanking) Rank(level SkillLevel) int {
	return r[level]
}

// Known reports whether level appears in the ranking.
func (r SkillRanking) Known(level SkillLevel) bool {
	_, ok := r[level]
	return ok
}

// Meets reports whether level satisfies required under the ranking.
func (r SkillRanking) Meets(level, required SkillLevel) bool {
	return r.Rank(level) >= r.Rank(required)
}

// HighestRequired returns the most demanding level among levels.
func (r SkillRanking) HighestRequired(levels []SkillLevel) SkillLevel {
	var best SkillLevel
	bestRank := -1
	for _, l := range levels {
		if rank := r.Rank(l); rank > bestRank {
			best = l
			bestRank = rank
		}
	}
	return best
}

// Technician is a member of the shop staff who can be assigned to
// appointments.
type Technician struct {
	ID         int64
	Name       string
	SkillLevel SkillLevel
	IsActive   bool
}

// BayAssignment links a technician to a bay they are equipped to work in.
// At most one assignment per technician is primary; it wins conflict
// tie-breaks during matching.
type BayAssignment struct {
	TechnicianID int64
	BayID        int64
	IsPrimary    bool
}

// TechnicianCandidate pairs a technician with their assignment flag for one
// bay, as produced by the matcher's candidate query.
type TechnicianCandidate struct {
	Technician Technician
	IsPrimary  bool
}

// Shift is a recurring weekly working window for a technician.
type Shift struct {
	TechnicianID int64
	DayOfWeek    time.Weekday
	StartTime    types.TimeString
	EndTime      types.TimeString
	IsActive     bool
}

// Covers reports whether the shift fully contains the [start, end) window.
func (s Shift) Covers(start, end types.TimeString) bool {
	return !s.StartTime.IsAfter(start) && !s.EndTime.IsBefore(end)
}
