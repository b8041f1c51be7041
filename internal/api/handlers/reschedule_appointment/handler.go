package reschedule_appointment

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/autobay/shop-scheduling-service/internal/api/handlers"
	rescheduleAppointment "github.com/autobay/shop-scheduling-service/internal/usecase/reschedule_appointment"
)

const (
	msgInvalidRequestBody   = "invalid request body"
	msgInvalidAppointmentID = "invalid appointment id"
	msgInvalidDate          = "invalid date or time, expected YYYY-MM-DD and HH:MM"
	msgAppointmentNotFound  = "appointment not found"
	msgNotReschedulable     = "appointment can no longer be rescheduled"
	msgOutsideBusinessHours = "requested window is outside business hours"
	msgWindowUnavailable    = "requested window is not available"
)

type Handler struct {
	useCase RescheduleAppointmentUseCase
	logger  Logger
}

func NewHandler(useCase RescheduleAppointmentUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle PATCH /api/v1/appointments/{appointmentId}/reschedule
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	appointmentID, err := strconv.ParseInt(mux.Vars(r)["appointmentId"], 10, 64)
	if err != nil {
		handlers.RespondBadRequest(w, msgInvalidAppointmentID)
		return
	}

	var req RescheduleRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("PATCH /appointments/%d/reschedule - invalid request body: %v", appointmentID, err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	useCaseReq, err := req.ToUseCaseRequest(appointmentID)
	if err != nil {
		h.logger.Warn("PATCH /appointments/%d/reschedule - parse request: %v", appointmentID, err)
		handlers.RespondBadRequest(w, msgInvalidDate)
		return
	}

	result, err := h.useCase.Execute(r.Context(), useCaseReq)
	if err != nil {
		switch {
		case errors.Is(err, rescheduleAppointment.ErrAppointmentNotFound):
			h.logger.Warn("PATCH /appointments/%d/reschedule - not found", appointmentID)
			handlers.RespondNotFound(w, msgAppointmentNotFound)

		case errors.Is(err, rescheduleAppointment.ErrNotReschedulable):
			h.logger.Warn("PATCH /appointments/%d/reschedule - not reschedulable", appointmentID)
			handlers.RespondError(w, http.StatusConflict, msgNotReschedulable)

		case errors.Is(err, rescheduleAppointment.ErrOutsideBusinessHours):
			handlers.RespondBadRequest(w, msgOutsideBusinessHours)

		case errors.Is(err, rescheduleAppointment.ErrWindowUnavailable):
			h.logger.Warn("PATCH /appointments/%d/reschedule - window taken: %s %s", appointmentID, req.Date, req.StartTime)
			handlers.RespondError(w, http.StatusConflict, msgWindowUnavailable)

		default:
			h.logger.Error("PATCH /appointments/%d/reschedule - internal error: %v", appointmentID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	handlers.RespondJSON(w, http.StatusOK, FromUseCaseResponse(result))
}
