package domain

// BayType is the equipment/specialization class of a service bay.
type BayType string

const (
	BayTypeGeneral     BayType = "general_service"
	BayTypeAlignment   BayType = "alignment"
	BayTypeDiagnostic  BayType = "diagnostic"
	BayTypeHeavyRepair BayType = "heavy_repair"
)

// Bay is a physical service bay. A bay serves exactly one bay type.
type Bay struct {
	ID       int64
	Name     string
	BayType  BayType
	IsActive bool
}

// BayTypeRanking orders bay types by specialization. Higher rank means more
// specialized. The ranking is configuration, loaded at startup, so a shop can
// reorder or extend its bay classes without a code change.
type BayTypeRanking map[BayType]int

// DefaultBayTypeRanking orders the stock bay classes from least to most
// specialized.
func DefaultBayTypeRanking() BayTypeRanking {
	return BayTypeRanking{
		BayTypeGeneral:     1,
		BayTypeAlignment:   2,
		BayTypeDiagnostic:  3,
		BayTypeHeavyRepair: 4,
	}
}

// Rank returns the specialization rank of t. Unknown types rank lowest.
func (r BayTypeRanking) Rank(t BayType) int {
	return r[t]
}

// Known reports whether t appears in the ranking.
func (r BayTypeRanking) Known(t BayType) bool {
	_, ok := r[t]
	return ok
}

// MostSpecialized returns the highest-ranked bay type among types.
// A multi-service visit runs sequentially in a single bay, so the visit needs
// one bay of the most demanding class, not one bay per service.
func (r BayTypeRanking) MostSpecialized(types []BayType) BayType {
	var best BayType
	bestRank := -1
	for _, t := range types {
		if rank := r.Rank(t); rank > bestRank {
			best = t
			bestRank = rank
		}
	}
	return best
}
