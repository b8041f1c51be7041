package book_appointment

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/autobay/shop-scheduling-service/internal/api/handlers"
	"github.com/autobay/shop-scheduling-service/internal/api/normalize"
	bookAppointment "github.com/autobay/shop-scheduling-service/internal/usecase/book_appointment"
)

const (
	msgInvalidRequestBody    = "invalid request body"
	msgInvalidPhone          = "invalid customer phone number"
	msgInvalidDate           = "invalid date or time, expected YYYY-MM-DD and HH:MM"
	msgNoServices            = "at least one service id is required"
	msgServiceNotFound       = "service not found"
	msgMissingCustomerFields = "first and last name are required for a new customer"
	msgOutsideBusinessHours  = "requested window is outside business hours"
	msgWindowUnavailable     = "requested window is no longer available"
)

type Handler struct {
	useCase BookAppointmentUseCase
	logger  Logger
}

func NewHandler(useCase BookAppointmentUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle POST /api/v1/appointments
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(r.Body)
	if err != nil {
		h.logger.Warn("POST /appointments - read body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	args, err := normalize.Arguments(body)
	if err != nil {
		h.logger.Warn("POST /appointments - normalize payload: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	var req BookRequest
	if err := json.Unmarshal(args, &req); err != nil {
		h.logger.Warn("POST /appointments - invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	useCaseReq, err := req.ToUseCaseRequest()
	if err != nil {
		h.logger.Warn("POST /appointments - parse request: %v", err)
		if errors.Is(err, normalize.ErrInvalidPhone) || errors.Is(err, normalize.ErrMissingPhone) {
			handlers.RespondBadRequest(w, msgInvalidPhone)
		} else {
			handlers.RespondBadRequest(w, msgInvalidDate)
		}
		return
	}

	result, err := h.useCase.Execute(r.Context(), useCaseReq)
	if err != nil {
		switch {
		case errors.Is(err, bookAppointment.ErrWindowUnavailable):
			h.logger.Warn("POST /appointments - window lost: bay=%d %s %s", req.BayID, req.Date, req.StartTime)
			handlers.RespondError(w, http.StatusConflict, msgWindowUnavailable)

		case errors.Is(err, bookAppointment.ErrNoServices):
			handlers.RespondBadRequest(w, msgNoServices)

		case errors.Is(err, bookAppointment.ErrServiceNotFound):
			h.logger.Warn("POST /appointments - service not found: %v", req.ServiceIDs)
			handlers.RespondNotFound(w, msgServiceNotFound)

		case errors.Is(err, bookAppointment.ErrMissingPhone):
			handlers.RespondBadRequest(w, msgInvalidPhone)

		case errors.Is(err, bookAppointment.ErrMissingCustomerFields):
			handlers.RespondError(w, http.StatusUnprocessableEntity, msgMissingCustomerFields)

		case errors.Is(err, bookAppointment.ErrOutsideBusinessHours):
			h.logger.Warn("POST /appointments - outside business hours: %s %s", req.Date, req.StartTime)
			handlers.RespondBadRequest(w, msgOutsideBusinessHours)

		default:
			h.logger.Error("POST /appointments - internal error: %v", err)
			handlers.RespondInternalError(w)
		}
		return
	}

	handlers.RespondJSON(w, http.StatusCreated, FromUseCaseResponse(result))
}
