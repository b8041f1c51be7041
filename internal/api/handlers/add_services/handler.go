package add_services

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/autobay/shop-scheduling-service/internal/api/handlers"
	addServices "github.com/autobay/shop-scheduling-service/internal/usecase/add_services"
)

const (
	msgInvalidRequestBody   = "invalid request body"
	msgInvalidAppointmentID = "invalid appointment id"
	msgNoServices           = "at least one service id is required"
	msgServiceNotFound      = "service not found"
	msgAppointmentNotFound  = "appointment not found"
	msgNotExtendable        = "appointment does not accept new services in its current status"
)

// AddServicesRequest is the HTTP request model.
type AddServicesRequest struct {
	ServiceIDs []int64 `json:"service_ids"`
}

// AddServicesResponse is the HTTP response model. extended=false means the
// work was recorded but the schedule could not grow.
type AddServicesResponse struct {
	AppointmentID   int64    `json:"appointment_id"`
	Extended        bool     `json:"extended"`
	ServiceNames    []string `json:"service_names"`
	DurationMinutes int      `json:"duration_minutes"`
	EndTime         string   `json:"end_time"`
	TotalPrice      float64  `json:"total_price"`
}

type Handler struct {
	useCase AddServicesUseCase
	logger  Logger
}

func NewHandler(useCase AddServicesUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle POST /api/v1/appointments/{appointmentId}/services
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	appointmentID, err := strconv.ParseInt(mux.Vars(r)["appointmentId"], 10, 64)
	if err != nil {
		handlers.RespondBadRequest(w, msgInvalidAppointmentID)
		return
	}

	var req AddServicesRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /appointments/%d/services - invalid request body: %v", appointmentID, err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	result, err := h.useCase.Execute(r.Context(), &addServices.Request{
		AppointmentID: appointmentID,
		ServiceIDs:    req.ServiceIDs,
	})
	if err != nil {
		switch {
		case errors.Is(err, addServices.ErrNoServices):
			handlers.RespondBadRequest(w, msgNoServices)

		case errors.Is(err, addServices.ErrServiceNotFound):
			h.logger.Warn("POST /appointments/%d/services - service not found: %v", appointmentID, req.ServiceIDs)
			handlers.RespondNotFound(w, msgServiceNotFound)

		case errors.Is(err, addServices.ErrAppointmentNotFound):
			h.logger.Warn("POST /appointments/%d/services - appointment not found", appointmentID)
			handlers.RespondNotFound(w, msgAppointmentNotFound)

		case errors.Is(err, addServices.ErrNotExtendable):
			h.logger.Warn("POST /appointments/%d/services - not extendable", appointmentID)
			handlers.RespondError(w, http.StatusConflict, msgNotExtendable)

		default:
			h.logger.Error("POST /appointments/%d/services - internal error: %v", appointmentID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	handlers.RespondJSON(w, http.StatusOK, &AddServicesResponse{
		AppointmentID:   result.AppointmentID,
		Extended:        result.Extended,
		ServiceNames:    result.ServiceNames,
		DurationMinutes: result.DurationMinutes,
		EndTime:         result.EndTime.String(),
		TotalPrice:      result.TotalPrice,
	})
}
