package get_utilization

import (
	"net/http"
	"time"

	"github.com/autobay/shop-scheduling-service/internal/api/handlers"
	"github.com/autobay/shop-scheduling-service/internal/domain"
)

const (
	msgMissingDate = "date is required"
	msgInvalidDate = "invalid date, expected YYYY-MM-DD"
)

type Handler struct {
	service AnalyticsService
	logger  Logger
}

func NewHandler(service AnalyticsService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle GET /api/v1/analytics/utilization?date=YYYY-MM-DD
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	raw := r.URL.Query().Get("date")
	if raw == "" {
		handlers.RespondBadRequest(w, msgMissingDate)
		return
	}
	date, err := time.Parse(domain.DateFormat, raw)
	if err != nil {
		handlers.RespondBadRequest(w, msgInvalidDate)
		return
	}

	report, err := h.service.Utilization(r.Context(), date)
	if err != nil {
		h.logger.Error("GET /analytics/utilization - internal error: %v", err)
		handlers.RespondInternalError(w)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, report)
}
