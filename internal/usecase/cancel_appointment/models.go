package cancel_appointment

// Request cancels a booked appointment.
type Request struct {
	AppointmentID int64
	Reason        string
}

// Response confirms the cancellation.
type Response struct {
	AppointmentID int64  `json:"appointment_id"`
	Reference     string `json:"reference"`
	Status        string `json:"status"`
}
