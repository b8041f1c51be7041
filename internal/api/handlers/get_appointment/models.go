package get_appointment

import (
	"github.com/autobay/shop-scheduling-service/internal/domain"
	"github.com/autobay/shop-scheduling-service/internal/service/appointments"
)

// AppointmentResponse is the HTTP view of an appointment. Status is the
// persisted lifecycle state; DisplayStatus folds in the time-derived
// in_progress / checking_out phases.
type AppointmentResponse struct {
	ID                 int64    `json:"id"`
	Reference          string   `json:"reference"`
	CustomerID         int64    `json:"customer_id"`
	VehicleID          int64    `json:"vehicle_id"`
	BayID              int64    `json:"bay_id"`
	TechnicianID       *int64   `json:"technician_id,omitempty"`
	Date               string   `json:"date"`
	StartTime          string   `json:"start_time"`
	EndTime            string   `json:"end_time"`
	DurationMinutes    int      `json:"duration_minutes"`
	Status             string   `json:"status"`
	DisplayStatus      string   `json:"display_status"`
	ServiceNames       []string `json:"service_names"`
	TotalPrice         float64  `json:"total_price"`
	Notes              *string  `json:"notes,omitempty"`
	CancellationReason *string  `json:"cancellation_reason,omitempty"`
}

func FromView(view *appointments.View) *AppointmentResponse {
	appt := view.Appointment

	endTime := appt.ScheduledTime
	if end, err := appt.EndTime(); err == nil {
		endTime = end
	}

	return &AppointmentResponse{
		ID:                 appt.ID,
		Reference:          appt.Reference,
		CustomerID:         appt.CustomerID,
		VehicleID:          appt.VehicleID,
		BayID:              appt.BayID,
		TechnicianID:       appt.TechnicianID,
		Date:               appt.ScheduledDate.Format(domain.DateFormat),
		StartTime:          appt.ScheduledTime.String(),
		EndTime:            endTime.String(),
		DurationMinutes:    appt.DurationMinutes,
		Status:             string(appt.Status),
		DisplayStatus:      string(view.DisplayStatus),
		ServiceNames:       appt.ServiceNames,
		TotalPrice:         appt.TotalPrice,
		Notes:              appt.Notes,
		CancellationReason: appt.CancellationReason,
	}
}
