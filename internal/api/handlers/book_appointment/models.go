package book_appointment

import (
	"time"

	"github.com/autobay/shop-scheduling-service/internal/api/normalize"
	"github.com/autobay/shop-scheduling-service/internal/domain"
	bookAppointment "github.com/autobay/shop-scheduling-service/internal/usecase/book_appointment"
	"github.com/autobay/shop-scheduling-service/pkg/types"
)

// BookRequest is the HTTP request model.
type BookRequest struct {
	CustomerPhone     string  `json:"customer_phone"`
	CustomerFirstName string  `json:"customer_first_name,omitempty"`
	CustomerLastName  string  `json:"customer_last_name,omitempty"`
	VehicleMake       string  `json:"vehicle_make,omitempty"`
	VehicleModel      string  `json:"vehicle_model,omitempty"`
	VehicleYear       int     `json:"vehicle_year,omitempty"`
	ServiceIDs        []int64 `json:"service_ids"`
	BayID             int64   `json:"bay_id"`
	Date              string  `json:"date"`       // "2026-03-16"
	StartTime         string  `json:"start_time"` // "10:00"
	Notes             *string `json:"notes,omitempty"`
}

// BookResponse is the HTTP response model.
type BookResponse struct {
	AppointmentID   int64    `json:"appointment_id"`
	Reference       string   `json:"reference"`
	Date            string   `json:"date"`
	StartTime       string   `json:"start_time"`
	EndTime         string   `json:"end_time"`
	BayID           int64    `json:"bay_id"`
	TechnicianID    *int64   `json:"technician_id,omitempty"`
	ServiceNames    []string `json:"service_names"`
	DurationMinutes int      `json:"duration_minutes"`
	TotalPrice      float64  `json:"total_price"`
}

// ToUseCaseRequest converts the HTTP request to the use case model,
// canonicalizing the phone number on the way in.
func (r *BookRequest) ToUseCaseRequest() (*bookAppointment.Request, error) {
	phone, err := normalize.Phone(r.CustomerPhone)
	if err != nil {
		return nil, err
	}
	date, err := time.Parse(domain.DateFormat, r.Date)
	if err != nil {
		return nil, err
	}
	startTime, err := types.NewTimeStringFromString(r.StartTime)
	if err != nil {
		return nil, err
	}
	return &bookAppointment.Request{
		Customer: bookAppointment.CustomerInput{
			Phone:     phone,
			FirstName: r.CustomerFirstName,
			LastName:  r.CustomerLastName,
		},
		Vehicle: bookAppointment.VehicleInput{
			Make:  r.VehicleMake,
			Model: r.VehicleModel,
			Year:  r.VehicleYear,
		},
		ServiceIDs: r.ServiceIDs,
		BayID:      r.BayID,
		Date:       date,
		StartTime:  startTime,
		Notes:      r.Notes,
	}, nil
}

// FromUseCaseResponse converts the use case response to the HTTP model.
func FromUseCaseResponse(resp *bookAppointment.Response) *BookResponse {
	return &BookResponse{
		AppointmentID:   resp.AppointmentID,
		Reference:       resp.Reference,
		Date:            resp.Date,
		StartTime:       resp.StartTime.String(),
		EndTime:         resp.EndTime.String(),
		BayID:           resp.BayID,
		TechnicianID:    resp.TechnicianID,
		ServiceNames:    resp.ServiceNames,
		DurationMinutes: resp.DurationMinutes,
		TotalPrice:      resp.TotalPrice,
	}
}
