package reschedule_appointment

import (
	"time"

	"github.com/autobay/shop-scheduling-service/internal/domain"
	rescheduleAppointment "github.com/autobay/shop-scheduling-service/internal/usecase/reschedule_appointment"
	"github.com/autobay/shop-scheduling-service/pkg/types"
)

// RescheduleRequest is the HTTP request model. A zero bay_id keeps the
// current bay.
type RescheduleRequest struct {
	BayID     int64  `json:"bay_id,omitempty"`
	Date      string `json:"date"`       // "2026-03-17"
	StartTime string `json:"start_time"` // "13:00"
}

// RescheduleResponse is the HTTP response model.
type RescheduleResponse struct {
	AppointmentID int64  `json:"appointment_id"`
	Reference     string `json:"reference"`
	Date          string `json:"date"`
	StartTime     string `json:"start_time"`
	EndTime       string `json:"end_time"`
	BayID         int64  `json:"bay_id"`
}

// ToUseCaseRequest converts the HTTP request to the use case model.
func (r *RescheduleRequest) ToUseCaseRequest(appointmentID int64) (*rescheduleAppointment.Request, error) {
	date, err := time.Parse(domain.DateFormat, r.Date)
	if err != nil {
		return nil, err
	}
	startTime, err := types.NewTimeStringFromString(r.StartTime)
	if err != nil {
		return nil, err
	}
	return &rescheduleAppointment.Request{
		AppointmentID: appointmentID,
		BayID:         r.BayID,
		Date:          date,
		StartTime:     startTime,
	}, nil
}

// FromUseCaseResponse converts the use case response to the HTTP model.
func FromUseCaseResponse(resp *rescheduleAppointment.Response) *RescheduleResponse {
	return &RescheduleResponse{
		AppointmentID: resp.AppointmentID,
		Reference:     resp.Reference,
		Date:          resp.Date,
		StartTime:     resp.StartTime.String(),
		EndTime:       resp.EndTime.String(),
		BayID:         resp.BayID,
	}
}
