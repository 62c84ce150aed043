package service

import (
	"agenda/internal/entities"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// ForwardResult describes one best-effort webhook delivery. Callers may
// inspect it for logging or drop it; it never affects the booking outcome.
type ForwardResult struct {
	Attempted  bool
	Delivered  bool
	StatusCode int
	Err        error
}

// Failed reports whether a delivery was attempted and did not succeed.
func (r ForwardResult) Failed() bool {
	return r.Attempted && !r.Delivered
}

// SheetsForwarder posts booking rows to a spreadsheet webhook (for example a
// Google Apps Script endpoint). An empty URL disables it.
type SheetsForwarder struct {
	url    string
	client *http.Client
}

func NewSheetsForwarder(url string, timeout time.Duration) *SheetsForwarder {
	return &SheetsForwarder{
		url:    url,
		client: &http.Client{Timeout: timeout},
	}
}

func (f *SheetsForwarder) Enabled() bool {
	return f != nil && f.url != ""
}

func (f *SheetsForwarder) Forward(ctx context.Context, row entities.SheetRow) ForwardResult {
	if !f.Enabled() {
		return ForwardResult{}
	}
	res := ForwardResult{Attempted: true}

	body, err := json.Marshal(row)
	if err != nil {
		res.Err = fmt.Errorf("encoding sheet row: %w", err)
		return res
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, f.url, bytes.NewReader(body))
	if err != nil {
		res.Err = fmt.Errorf("building webhook request: %w", err)
		return res
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := f.client.Do(req)
	if err != nil {
		res.Err = fmt.Errorf("posting to sheets webhook: %w", err)
		return res
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, io.LimitReader(resp.Body, 64<<10))

	res.StatusCode = resp.StatusCode
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		res.Err = fmt.Errorf("sheets webhook returned status %d", resp.StatusCode)
		return res
	}
	res.Delivered = true
	return res
}
