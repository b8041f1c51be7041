package book_appointment

import (
	"fmt"
	"time"

	"github.com/autobay/shop-scheduling-service/internal/config"
	"github.com/autobay/shop-scheduling-service/pkg/types"
)

func validateRequest(req *Request) error {
	if len(req.ServiceIDs) == 0 {
		return ErrNoServices
	}
	if req.Customer.Phone == "" {
		return ErrMissingPhone
	}
	if req.BayID <= 0 {
		return fmt.Errorf("%w: bay id is required", ErrInternal)
	}
	if req.Date.IsZero() {
		return fmt.Errorf("%w: date is required", ErrOutsideBusinessHours)
	}
	if err := req.StartTime.Validate(); err != nil {
		return fmt.Errorf("%w: start time: %v", ErrOutsideBusinessHours, err)
	}
	return nil
}

// validateBusinessWindow enforces the write-boundary constraint: open day,
// inside opening hours, not crossing closing time, not in the past.
func validateBusinessWindow(hours config.Hours, date time.Time, start types.TimeString, durationMinutes int, now time.Time) error {
	if !hours.IsOpenOn(date) {
		return fmt.Errorf("%w: %s is not a business day", ErrOutsideBusinessHours, date.Weekday())
	}
	if start.IsBefore(hours.OpenTime) {
		return fmt.Errorf("%w: %s is before opening", ErrOutsideBusinessHours, start)
	}
	end, err := start.AddMinutes(durationMinutes)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrOutsideBusinessHours, err)
	}
	if end.IsAfter(hours.CloseTime) {
		return fmt.Errorf("%w: visit would end %s, after closing", ErrOutsideBusinessHours, end)
	}
	startAt, err := start.At(date)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrOutsideBusinessHours, err)
	}
	if startAt.Before(now) {
		return fmt.Errorf("%w: window is in the past", ErrOutsideBusinessHours)
	}
	return nil
}
