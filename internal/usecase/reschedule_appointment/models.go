package reschedule_appointment

import (
	"time"

	"github.com/autobay/shop-scheduling-service/pkg/types"
)

// Request moves an existing appointment to a new window. A zero BayID keeps
// the current bay.
type Request struct {
	AppointmentID int64
	BayID         int64
	Date          time.Time
	StartTime     types.TimeString
}

// Response confirms the move.
type Response struct {
	AppointmentID int64            `json:"appointment_id"`
	Reference     string           `json:"reference"`
	Date          string           `json:"date"`
	StartTime     types.TimeString `json:"start_time"`
	EndTime       types.TimeString `json:"end_time"`
	BayID         int64            `json:"bay_id"`
}
