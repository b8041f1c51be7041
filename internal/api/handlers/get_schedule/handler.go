package get_schedule

import (
	"net/http"

	"github.com/autobay/shop-scheduling-service/internal/api/handlers"
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

// Handle GET /api/v1/schedule?date=YYYY-MM-DD[&bay_id=][&technician_id=][&customer_id=][&status=][&include_inactive=true]
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	filter, date, err := filterFromQuery(r.URL.Query())
	if err != nil {
		handlers.RespondBadRequest(w, err.Error())
		return
	}

	views, err := h.service.ListSchedule(r.Context(), filter)
	if err != nil {
		h.logger.Error("GET /schedule - internal error: %v", err)
		handlers.RespondInternalError(w)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, toScheduleResponse(date, views))
}
