package customers

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// Logger is the logging surface the client needs.
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// Client talks to the customer/vehicle store. The scheduling core treats it
// as an external collaborator: it resolves customer and vehicle references at
// booking time and nothing else.
type Client struct {
	baseURL    string
	httpClient *http.Client
	log        Logger
}

// NewClient creates a customer store client.
func NewClient(baseURL string, timeout time.Duration, log Logger) *Client {
	return &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		log: log,
	}
}

// LookupOrCreateByPhone resolves a customer by phone number, creating the
// record when absent. The store rejects creation without name fields; that
// surfaces as ErrMissingCustomerFields.
func (c *Client) LookupOrCreateByPhone(ctx context.Context, req *LookupOrCreateRequest) (*Customer, error) {
	url := fmt.Sprintf("%s/internal/customers/lookup-or-create", c.baseURL)

	var customer Customer
	if err := c.post(ctx, url, req, &customer); err != nil {
		return nil, err
	}
	return &customer, nil
}

// ResolveVehicle resolves or creates a vehicle for a customer.
func (c *Client) ResolveVehicle(ctx context.Context, customerID int64, req *VehicleRequest) (*Vehicle, error) {
	url := fmt.Sprintf("%s/internal/customers/%d/vehicles/resolve", c.baseURL, customerID)

	var vehicle Vehicle
	if err := c.post(ctx, url, req, &vehicle); err != nil {
		return nil, err
	}
	return &vehicle, nil
}

func (c *Client) post(ctx context.Context, url string, body interface{}, dest interface{}) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("%w: failed to marshal request: %v", ErrInternal, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("%w: failed to create request: %v", ErrInternal, err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: failed to execute request: %v", ErrInternal, err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK, http.StatusCreated:
		// fall through to decode
	case http.StatusUnprocessableEntity:
		return ErrMissingCustomerFields
	case http.StatusNotFound:
		return ErrCustomerNotFound
	default:
		raw, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("%w: unexpected status code %d: %s", ErrInvalidResponse, resp.StatusCode, string(raw))
	}

	if err := json.NewDecoder(resp.Body).Decode(dest); err != nil {
		return fmt.Errorf("%w: failed to decode response: %v", ErrInvalidResponse, err)
	}
	return nil
}
