package cancel_appointment

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/autobay/shop-scheduling-service/internal/api/handlers"
	cancelAppointment "github.com/autobay/shop-scheduling-service/internal/usecase/cancel_appointment"
)

const (
	msgInvalidRequestBody   = "invalid request body"
	msgInvalidAppointmentID = "invalid appointment id"
	msgAppointmentNotFound  = "appointment not found"
	msgNotCancellable       = "appointment can no longer be cancelled"
)

// CancelRequest is the HTTP request model. The body is optional.
type CancelRequest struct {
	Reason string `json:"reason,omitempty"`
}

// CancelResponse is the HTTP response model.
type CancelResponse struct {
	AppointmentID int64  `json:"appointment_id"`
	Reference     string `json:"reference"`
	Status        string `json:"status"`
}

type Handler struct {
	useCase CancelAppointmentUseCase
	logger  Logger
}

func NewHandler(useCase CancelAppointmentUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle PATCH /api/v1/appointments/{appointmentId}/cancel
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	appointmentID, err := strconv.ParseInt(mux.Vars(r)["appointmentId"], 10, 64)
	if err != nil {
		handlers.RespondBadRequest(w, msgInvalidAppointmentID)
		return
	}

	var req CancelRequest
	if r.ContentLength > 0 {
		if err := handlers.DecodeJSON(r, &req); err != nil {
			h.logger.Warn("PATCH /appointments/%d/cancel - invalid request body: %v", appointmentID, err)
			handlers.RespondBadRequest(w, msgInvalidRequestBody)
			return
		}
	}

	result, err := h.useCase.Execute(r.Context(), &cancelAppointment.Request{
		AppointmentID: appointmentID,
		Reason:        req.Reason,
	})
	if err != nil {
		switch {
		case errors.Is(err, cancelAppointment.ErrAppointmentNotFound):
			h.logger.Warn("PATCH /appointments/%d/cancel - not found", appointmentID)
			handlers.RespondNotFound(w, msgAppointmentNotFound)

		case errors.Is(err, cancelAppointment.ErrNotCancellable):
			h.logger.Warn("PATCH /appointments/%d/cancel - not cancellable", appointmentID)
			handlers.RespondError(w, http.StatusConflict, msgNotCancellable)

		default:
			h.logger.Error("PATCH /appointments/%d/cancel - internal error: %v", appointmentID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	handlers.RespondJSON(w, http.StatusOK, &CancelResponse{
		AppointmentID: result.AppointmentID,
		Reference:     result.Reference,
		Status:        result.Status,
	})
}
