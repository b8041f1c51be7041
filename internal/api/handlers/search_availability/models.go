package search_availability

import (
	"time"

	"github.com/autobay/shop-scheduling-service/internal/domain"
	searchAvailability "github.com/autobay/shop-scheduling-service/internal/usecase/search_availability"
)

// SearchRequest is the HTTP request model. Dates are "YYYY-MM-DD"; an empty
// end_date searches a single day.
type SearchRequest struct {
	ServiceIDs     []int64 `json:"service_ids"`
	StartDate      string  `json:"start_date"`
	EndDate        string  `json:"end_date,omitempty"`
	TimePreference string  `json:"time_preference,omitempty"`
	MaxResults     int     `json:"max_results,omitempty"`
}

// WindowResponse is one offered window.
type WindowResponse struct {
	Date            string `json:"date"`
	StartTime       string `json:"start_time"`
	EndTime         string `json:"end_time"`
	BayID           int64  `json:"bay_id"`
	DurationMinutes int    `json:"duration_minutes"`
}

// SearchResponse is the HTTP response model.
type SearchResponse struct {
	Available bool             `json:"available"`
	Windows   []WindowResponse `json:"windows"`
}

// ToUseCaseRequest converts the HTTP request to the use case model.
func (r *SearchRequest) ToUseCaseRequest() (*searchAvailability.Request, error) {
	startDate, err := time.Parse(domain.DateFormat, r.StartDate)
	if err != nil {
		return nil, err
	}
	var endDate time.Time
	if r.EndDate != "" {
		endDate, err = time.Parse(domain.DateFormat, r.EndDate)
		if err != nil {
			return nil, err
		}
	}
	return &searchAvailability.Request{
		ServiceIDs:     r.ServiceIDs,
		StartDate:      startDate,
		EndDate:        endDate,
		TimePreference: searchAvailability.TimePreference(r.TimePreference),
		MaxResults:     r.MaxResults,
	}, nil
}

// FromUseCaseResponse converts the use case response to the HTTP model.
func FromUseCaseResponse(resp *searchAvailability.Response) *SearchResponse {
	out := &SearchResponse{
		Available: resp.Available,
		Windows:   make([]WindowResponse, 0, len(resp.Windows)),
	}
	for _, w := range resp.Windows {
		out.Windows = append(out.Windows, WindowResponse{
			Date:            w.Date,
			StartTime:       w.StartTime.String(),
			EndTime:         w.EndTime.String(),
			BayID:           w.BayID,
			DurationMinutes: w.DurationMinutes,
		})
	}
	return out
}
