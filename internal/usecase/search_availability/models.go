package search_availability

import (
	"time"

	"github.com/autobay/shop-scheduling-service/pkg/types"
)

// TimePreference narrows the search to part of the business day.
type TimePreference string

const (
	PreferenceAny       TimePreference = "any"
	PreferenceMorning   TimePreference = "morning"
	PreferenceAfternoon TimePreference = "afternoon"
)

// noonBoundary splits morning from afternoon.
var noonBoundary = types.TimeString("12:00")

// Request describes an availability search.
type Request struct {
	ServiceIDs     []int64
	StartDate      time.Time
	EndDate        time.Time // zero means single-day search on StartDate
	TimePreference TimePreference
	MaxResults     int // zero means the configured default
}

// Window is one bookable candidate. It is advisory: the slots behind it may
// be taken by the time the caller books.
type Window struct {
	Date            string           `json:"date"`
	StartTime       types.TimeString `json:"start_time"`
	EndTime         types.TimeString `json:"end_time"`
	BayID           int64            `json:"bay_id"`
	DurationMinutes int              `json:"duration_minutes"`
}

// Response is the ordered result list. An empty schedule is a successful
// search with Available=false, not an error.
type Response struct {
	Available bool     `json:"available"`
	Windows   []Window `json:"windows"`
}
