package book_appointment

import (
	"time"

	"github.com/autobay/shop-scheduling-service/pkg/types"
)

// CustomerInput identifies the caller. Phone is the lookup key; names are
// required only when the customer is new to the shop.
type CustomerInput struct {
	Phone     string
	FirstName string
	LastName  string
}

// VehicleInput identifies the vehicle the visit is for.
type VehicleInput struct {
	Make  string
	Model string
	Year  int
}

// Request books one visit into a window previously offered by the
// availability search.
type Request struct {
	Customer   CustomerInput
	Vehicle    VehicleInput
	ServiceIDs []int64
	BayID      int64
	Date       time.Time
	StartTime  types.TimeString
	Notes      *string
}

// Response confirms the booking.
type Response struct {
	AppointmentID   int64            `json:"appointment_id"`
	Reference       string           `json:"reference"`
	Date            string           `json:"date"`
	StartTime       types.TimeString `json:"start_time"`
	EndTime         types.TimeString `json:"end_time"`
	BayID           int64            `json:"bay_id"`
	TechnicianID    *int64           `json:"technician_id,omitempty"`
	ServiceNames    []string         `json:"service_names"`
	DurationMinutes int              `json:"duration_minutes"`
	TotalPrice      float64          `json:"total_price"`
}
