package transition_appointment

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/autobay/shop-scheduling-service/internal/api/handlers"
	"github.com/autobay/shop-scheduling-service/internal/service/appointments"
)

const (
	msgInvalidRequestBody   = "invalid request body"
	msgInvalidAppointmentID = "invalid appointment id"
	msgMissingAction        = "action is required"
	msgUnknownAction        = "unknown action"
	msgAppointmentNotFound  = "appointment not found"
	msgInvalidTransition    = "action not allowed from current status"
)

// TransitionRequest carries the staff action: confirm, check_in, complete or
// no_show.
type TransitionRequest struct {
	Action string `json:"action"`
}

type TransitionResponse struct {
	AppointmentID int64  `json:"appointment_id"`
	Status        string `json:"status"`
	DisplayStatus string `json:"display_status"`
}

type Handler struct {
	service AppointmentsService
	logger  Logger
}

func NewHandler(service AppointmentsService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle PATCH /api/v1/appointments/{appointmentId}/status
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	appointmentID, err := strconv.ParseInt(mux.Vars(r)["appointmentId"], 10, 64)
	if err != nil {
		handlers.RespondBadRequest(w, msgInvalidAppointmentID)
		return
	}

	var req TransitionRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("PATCH /appointments/%d/status - invalid request body: %v", appointmentID, err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}
	if req.Action == "" {
		handlers.RespondBadRequest(w, msgMissingAction)
		return
	}

	view, err := h.service.Apply(r.Context(), appointmentID, appointments.Transition(req.Action))
	if err != nil {
		switch {
		case errors.Is(err, appointments.ErrUnknownTransition):
			handlers.RespondBadRequest(w, msgUnknownAction)

		case errors.Is(err, appointments.ErrAppointmentNotFound):
			handlers.RespondNotFound(w, msgAppointmentNotFound)

		case errors.Is(err, appointments.ErrInvalidTransition):
			h.logger.Warn("PATCH /appointments/%d/status - invalid transition %q", appointmentID, req.Action)
			handlers.RespondError(w, http.StatusConflict, msgInvalidTransition)

		default:
			h.logger.Error("PATCH /appointments/%d/status - internal error: %v", appointmentID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	handlers.RespondJSON(w, http.StatusOK, &TransitionResponse{
		AppointmentID: view.Appointment.ID,
		Status:        string(view.Appointment.Status),
		DisplayStatus: string(view.DisplayStatus),
	})
}
