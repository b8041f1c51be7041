package search_availability

import "fmt"

func validateRequest(req *Request) error {
	if len(req.ServiceIDs) == 0 {
		return ErrNoServices
	}
	if req.StartDate.IsZero() {
		return fmt.Errorf("%w: start date is required", ErrInvalidDateRange)
	}
	if !req.EndDate.IsZero() && req.EndDate.Before(req.StartDate) {
		return fmt.Errorf("%w: end date %s before start date %s",
			ErrInvalidDateRange, req.EndDate.Format("2006-01-02"), req.StartDate.Format("2006-01-02"))
	}
	switch req.TimePreference {
	case "", PreferenceAny, PreferenceMorning, PreferenceAfternoon:
	default:
		return fmt.Errorf("%w: %q", ErrInvalidPreference, req.TimePreference)
	}
	if req.MaxResults < 0 {
		return ErrInvalidMaxResults
	}
	return nil
}
