package domain

import "fmt"

// Service is a bookable catalog entry (oil change, alignment, ...).
type Service struct {
	ID                 int64
	Name               string
	DurationMinutes    int
	RequiredBayType    BayType
	RequiredSkillLevel SkillLevel
	Price              float64
	IsActive           bool
}

// VisitRequirements is what a set of requested services demands from the
// schedule: one bay of the most specialized required class, one technician at
// the highest required skill, for the summed duration.
type VisitRequirements struct {
	TotalDurationMinutes int
	BayType              BayType
	SkillLevel           SkillLevel
}

// ComputeVisitRequirements folds the requested services into a single
// requirement set. services must be non-empty.
func ComputeVisitRequirements(services []*Service, bayRanking BayTypeRanking, skillRanking SkillRanking) (VisitRequirements, error) {
	if len(services) == 0 {
		return VisitRequirements{}, fmt.Errorf("no services requested")
	}

	var req VisitRequirements
	bayTypes := make([]BayType, 0, len(services))
	skills := make([]SkillLevel, 0, len(services))

	for _, svc := range services {
		req.TotalDurationMinutes += svc.DurationMinutes
		bayTypes = append(bayTypes, svc.RequiredBayType)
		skills = append(skills, svc.RequiredSkillLevel)
	}

	req.BayType = bayRanking.MostSpecialized(bayTypes)
	req.SkillLevel = skillRanking.HighestRequired(skills)

	return req, nil
}

// SlotsNeeded returns how many granularity-sized slots cover durationMinutes,
// rounding up. A 65-minute visit on a 30-minute grid claims 3 slots.
func SlotsNeeded(durationMinutes, granularityMinutes int) int {
	if durationMinutes <= 0 || granularityMinutes <= 0 {
		return 0
	}
	return (durationMinutes + granularityMinutes - 1) / granularityMinutes
}
