package wizard

import (
	"agenda/internal/db"
	"agenda/internal/entities"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// RemoteError is a failure reported by the booking service.
type RemoteError struct {
	StatusCode int
	Message    string
}

func (e *RemoteError) Error() string {
	return fmt.Sprintf("booking service returned %d: %s", e.StatusCode, e.Message)
}

// HTTPClient calls the booking service's public API.
type HTTPClient struct {
	BaseURL string
	HTTP    *http.Client
}

func NewHTTPClient(baseURL string, timeout time.Duration) *HTTPClient {
	return &HTTPClient{
		BaseURL: strings.TrimRight(baseURL, "/"),
		HTTP:    &http.Client{Timeout: timeout},
	}
}

func (c *HTTPClient) CreateBooking(ctx context.Context, req entities.BookingRequest) (*db.Booking, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("encoding booking request: %w", err)
	}
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.BaseURL+"/api/bookings", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("building booking request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.HTTP.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("sending booking request: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, fmt.Errorf("reading booking response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		var failure entities.ErrorResponse
		if json.Unmarshal(raw, &failure) != nil || failure.Error == "" {
			failure.Error = http.StatusText(resp.StatusCode)
		}
		return nil, &RemoteError{StatusCode: resp.StatusCode, Message: failure.Error}
	}

	var out entities.BookingResponse
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, fmt.Errorf("decoding booking response: %w", err)
	}
	if !out.Success || out.Booking == nil {
		return nil, &RemoteError{StatusCode: resp.StatusCode, Message: out.Message}
	}
	return out.Booking, nil
}
