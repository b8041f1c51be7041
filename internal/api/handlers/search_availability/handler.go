package search_availability

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/autobay/shop-scheduling-service/internal/api/handlers"
	"github.com/autobay/shop-scheduling-service/internal/api/normalize"
	searchAvailability "github.com/autobay/shop-scheduling-service/internal/usecase/search_availability"
)

const (
	msgInvalidRequestBody = "invalid request body"
	msgInvalidDate        = "invalid date, expected YYYY-MM-DD"
	msgNoServices         = "at least one service id is required"
	msgServiceNotFound    = "service not found"
	msgInvalidDateRange   = "invalid date range"
	msgInvalidPreference  = "time preference must be any, morning or afternoon"
	msgInvalidMaxResults  = "max results must not be negative"
	msgDurationTooLong    = "requested services do not fit in one business day"
)

type Handler struct {
	useCase SearchAvailabilityUseCase
	logger  Logger
}

func NewHandler(useCase SearchAvailabilityUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle POST /api/v1/availability/search
//
// Accepts both the dashboard's flat body and the voice platform's wrapped
// tool-call payloads.
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(r.Body)
	if err != nil {
		h.logger.Warn("POST /availability/search - read body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	args, err := normalize.Arguments(body)
	if err != nil {
		h.logger.Warn("POST /availability/search - normalize payload: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	var req SearchRequest
	if err := json.Unmarshal(args, &req); err != nil {
		h.logger.Warn("POST /availability/search - invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	useCaseReq, err := req.ToUseCaseRequest()
	if err != nil {
		h.logger.Warn("POST /availability/search - parse dates: %v", err)
		handlers.RespondBadRequest(w, msgInvalidDate)
		return
	}

	result, err := h.useCase.Execute(r.Context(), useCaseReq)
	if err != nil {
		switch {
		case errors.Is(err, searchAvailability.ErrNoServices):
			handlers.RespondBadRequest(w, msgNoServices)

		case errors.Is(err, searchAvailability.ErrServiceNotFound):
			h.logger.Warn("POST /availability/search - service not found: %v", req.ServiceIDs)
			handlers.RespondNotFound(w, msgServiceNotFound)

		case errors.Is(err, searchAvailability.ErrInvalidDateRange):
			handlers.RespondBadRequest(w, msgInvalidDateRange)

		case errors.Is(err, searchAvailability.ErrInvalidPreference):
			handlers.RespondBadRequest(w, msgInvalidPreference)

		case errors.Is(err, searchAvailability.ErrInvalidMaxResults):
			handlers.RespondBadRequest(w, msgInvalidMaxResults)

		case errors.Is(err, searchAvailability.ErrDurationTooLong):
			handlers.RespondBadRequest(w, msgDurationTooLong)

		default:
			h.logger.Error("POST /availability/search - internal error: %v", err)
			handlers.RespondInternalError(w)
		}
		return
	}

	handlers.RespondJSON(w, http.StatusOK, FromUseCaseResponse(result))
}
