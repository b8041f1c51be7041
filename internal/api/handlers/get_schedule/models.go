package get_schedule

import (
	"fmt"
	"strconv"
	"time"

	"github.com/autobay/shop-scheduling-service/internal/domain"
	"github.com/autobay/shop-scheduling-service/internal/service/appointments"
	"github.com/autobay/shop-scheduling-service/pkg/ptr"
)

// ScheduleItem is one appointment row in a day schedule.
type ScheduleItem struct {
	ID              int64    `json:"id"`
	Reference       string   `json:"reference"`
	CustomerID      int64    `json:"customer_id"`
	BayID           int64    `json:"bay_id"`
	TechnicianID    *int64   `json:"technician_id,omitempty"`
	Date            string   `json:"date"`
	StartTime       string   `json:"start_time"`
	EndTime         string   `json:"end_time"`
	DurationMinutes int      `json:"duration_minutes"`
	Status          string   `json:"status"`
	DisplayStatus   string   `json:"display_status"`
	ServiceNames    []string `json:"service_names"`
}

type ScheduleResponse struct {
	Date         string         `json:"date"`
	Appointments []ScheduleItem `json:"appointments"`
}

// filterFromQuery builds the repository filter from the query string. date is
// required; bay_id, technician_id, customer_id and status narrow the result;
// include_inactive=true adds cancelled / no-show / failed rows.
func filterFromQuery(values map[string][]string) (domain.AppointmentsFilter, string, error) {
	var filter domain.AppointmentsFilter

	first := func(key string) string {
		if vs, ok := values[key]; ok && len(vs) > 0 {
			return vs[0]
		}
		return ""
	}

	date := first("date")
	if date == "" {
		return filter, "", fmt.Errorf("date is required")
	}
	day, err := time.Parse(domain.DateFormat, date)
	if err != nil {
		return filter, "", fmt.Errorf("invalid date %q, expected YYYY-MM-DD", date)
	}
	filter.StartDate = ptr.Ptr(day)
	filter.EndDate = ptr.Ptr(day)

	parseID := func(key string) (*int64, error) {
		raw := first(key)
		if raw == "" {
			return nil, nil
		}
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid %s %q", key, raw)
		}
		return ptr.Ptr(id), nil
	}

	if filter.BayID, err = parseID("bay_id"); err != nil {
		return filter, "", err
	}
	if filter.TechnicianID, err = parseID("technician_id"); err != nil {
		return filter, "", err
	}
	if filter.CustomerID, err = parseID("customer_id"); err != nil {
		return filter, "", err
	}

	if raw := first("status"); raw != "" {
		status := domain.AppointmentStatus(raw)
		if !domain.ValidStatus(status) {
			return filter, "", fmt.Errorf("invalid status %q", raw)
		}
		filter.Status = ptr.Ptr(status)
	}

	filter.IncludeInactive = first("include_inactive") == "true"

	return filter, date, nil
}

func toScheduleResponse(date string, views []*appointments.View) *ScheduleResponse {
	items := make([]ScheduleItem, 0, len(views))
	for _, view := range views {
		appt := view.Appointment

		endTime := appt.ScheduledTime
		if end, err := appt.EndTime(); err == nil {
			endTime = end
		}

		items = append(items, ScheduleItem{
			ID:              appt.ID,
			Reference:       appt.Reference,
			CustomerID:      appt.CustomerID,
			BayID:           appt.BayID,
			TechnicianID:    appt.TechnicianID,
			Date:            appt.ScheduledDate.Format(domain.DateFormat),
			StartTime:       appt.ScheduledTime.String(),
			EndTime:         endTime.String(),
			DurationMinutes: appt.DurationMinutes,
			Status:          string(appt.Status),
			DisplayStatus:   string(view.DisplayStatus),
			ServiceNames:    appt.ServiceNames,
		})
	}

	return &ScheduleResponse{
		Date:         date,
		Appointments: items,
	}
}
