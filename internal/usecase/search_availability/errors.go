package search_availability

import "errors"

var (
	ErrNoServices         = errors.New("search_availability: at least one service id is required")
	ErrServiceNotFound    = errors.New("search_availability: service not found")
	ErrInvalidDateRange   = errors.New("search_availability: invalid date range")
	ErrInvalidPreference  = errors.New("search_availability: invalid time preference")
	ErrInvalidMaxResults  = errors.New("search_availability: max results must not be negative")
	ErrDurationTooLong    = errors.New("search_availability: total duration exceeds the business day")
	ErrInternal           = errors.New("search_availability: internal error")
)
