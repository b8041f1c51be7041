package add_services

import "github.com/autobay/shop-scheduling-service/pkg/types"

// Request adds services to an existing appointment mid-visit.
type Request struct {
	AppointmentID int64
	ServiceIDs    []int64
}

// Response reports what was recorded and whether the visit grew. Extended is
// false when the trailing slots were not free: the work is on the ticket but
// the schedule keeps its original block, so staff decide how to absorb the
// extra time.
type Response struct {
	AppointmentID   int64            `json:"appointment_id"`
	Extended        bool             `json:"extended"`
	ServiceNames    []string         `json:"service_names"`
	DurationMinutes int              `json:"duration_minutes"`
	EndTime         types.TimeString `json:"end_time"`
	TotalPrice      float64          `json:"total_price"`
}
