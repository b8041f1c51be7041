package notify

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

// Message is a notification send request. The notification service owns
// channel selection (SMS vs email) and templating; the scheduler only names
// the event and the appointment it concerns.
type Message struct {
	CustomerID   int64  `json:"customer_id"`
	Reference    string `json:"reference"`
	Date         string `json:"date"`
	Time         string `json:"time"`
	ServiceNames string `json:"service_names,omitempty"`
}

// Client talks to the notification service. All sends are fire-and-forget:
// a failed send is logged and never fails the booking that triggered it.
type Client struct {
	baseURL    string
	httpClient *http.Client
	log        Logger
}

// NewClient creates a notification client.
func NewClient(baseURL string, timeout time.Duration, log Logger) *Client {
	return &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		log: log,
	}
}

// SendConfirmation notifies the customer of a new booking.
func (c *Client) SendConfirmation(ctx context.Context, msg *Message) error {
	return c.post(ctx, "confirmation", msg)
}

// SendCancellation notifies the customer of a cancellation.
func (c *Client) SendCancellation(ctx context.Context, msg *Message) error {
	return c.post(ctx, "cancellation", msg)
}

// SendReminder sends an upcoming-appointment reminder.
func (c *Client) SendReminder(ctx context.Context, msg *Message) error {
	return c.post(ctx, "reminder", msg)
}

func (c *Client) post(ctx context.Context, kind string, msg *Message) error {
	url := fmt.Sprintf("%s/internal/notifications/%s", c.baseURL, kind)

	payload, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("%w: failed to marshal message: %v", ErrInternal, err)
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

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusAccepted {
		raw, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("%w: unexpected status code %d: %s", ErrInvalidResponse, resp.StatusCode, string(raw))
	}
	return nil
}
