package get_appointment

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/autobay/shop-scheduling-service/internal/api/handlers"
	"github.com/autobay/shop-scheduling-service/internal/service/appointments"
)

const (
	msgInvalidAppointmentID = "invalid appointment id"
	msgMissingReference     = "reference is required"
	msgAppointmentNotFound  = "appointment not found"
)

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

// HandleByID GET /api/v1/appointments/{appointmentId}
func (h *Handler) HandleByID(w http.ResponseWriter, r *http.Request) {
	appointmentID, err := strconv.ParseInt(mux.Vars(r)["appointmentId"], 10, 64)
	if err != nil {
		handlers.RespondBadRequest(w, msgInvalidAppointmentID)
		return
	}

	view, err := h.service.Get(r.Context(), appointmentID)
	if err != nil {
		h.respondError(w, appointmentID, err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, FromView(view))
}

// HandleByReference GET /api/v1/appointments/reference/{reference}
func (h *Handler) HandleByReference(w http.ResponseWriter, r *http.Request) {
	reference := mux.Vars(r)["reference"]
	if reference == "" {
		handlers.RespondBadRequest(w, msgMissingReference)
		return
	}

	view, err := h.service.GetByReference(r.Context(), reference)
	if err != nil {
		switch {
		case errors.Is(err, appointments.ErrAppointmentNotFound):
			handlers.RespondNotFound(w, msgAppointmentNotFound)
		default:
			h.logger.Error("GET /appointments/reference/%s - internal error: %v", reference, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	handlers.RespondJSON(w, http.StatusOK, FromView(view))
}

func (h *Handler) respondError(w http.ResponseWriter, appointmentID int64, err error) {
	switch {
	case errors.Is(err, appointments.ErrAppointmentNotFound):
		handlers.RespondNotFound(w, msgAppointmentNotFound)
	default:
		h.logger.Error("GET /appointments/%d - internal error: %v", appointmentID, err)
		handlers.RespondInternalError(w)
	}
}
