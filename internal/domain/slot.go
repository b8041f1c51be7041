package domain

import (
	"time"

	"github.com/autobay/shop-scheduling-service/pkg/types"
)

// Slot is the smallest bookable time unit for one bay on one day.
// For a given (bay, date, start_time) there is at most one slot row, and
// is_available=false iff appointment_id is set.
type Slot struct {
	ID            int64
	BayID         int64
	Date          time.Time
	StartTime     types.TimeString
	EndTime       types.TimeString
	IsAvailable   bool
	AppointmentID *int64
}

// ConsecutiveStarts expands a visit start into the exact start times of the
// slots the visit must claim: slotsNeeded starts spaced granularity minutes
// apart, beginning at start.
func ConsecutiveStarts(start types.TimeString, slotsNeeded, granularityMinutes int) ([]types.TimeString, error) {
	starts := make([]types.TimeString, 0, slotsNeeded)
	current := start
	for i := 0; i < slotsNeeded; i++ {
		starts = append(starts, current)
		next, err := current.AddMinutes(granularityMinutes)
		if err != nil {
			return nil, err
		}
		current = next
	}
	return starts, nil
}

// Window is a candidate booking window produced by availability search.
// It is advisory: the slots it names must be re-validated atomically at
// reserve time.
type Window struct {
	Date      time.Time
	StartTime types.TimeString
	EndTime   types.TimeString
	BayID     int64
}
