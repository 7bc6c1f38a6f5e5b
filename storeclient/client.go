// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package storeclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"slices"
	"strings"
	"time"

	"github.com/danielhkuo/exam-intake/models"
	"github.com/google/uuid"
)

// RequestIDHeader carries the per-call id the server logs.
const RequestIDHeader = "X-Request-ID"

// DefaultTimeout bounds a single store call.
const DefaultTimeout = 15 * time.Second

var (
	// ErrTransport wraps every failure to reach the store or read its reply.
	ErrTransport = errors.New("store unreachable")
	// ErrDuplicate matches a StoreError whose status is "duplicate".
	ErrDuplicate = errors.New("duplicate registration")
)

// StoreError is a negative business reply from the store.
type StoreError struct {
	Action  string
	Status  string
	Message string
}

func (e *StoreError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("%s: store replied %s", e.Action, e.Status)
	}
	return fmt.Sprintf("%s: %s", e.Action, e.Message)
}

// Is lets errors.Is(err, ErrDuplicate) match a duplicate reply.
func (e *StoreError) Is(target error) bool {
	return target == ErrDuplicate && e.Status == models.StatusDuplicate
}

// Client talks to the action/status store over HTTP.
type Client struct {
	url  string
	http *http.Client
}

// New returns a client posting to url.
func New(url string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Client{
		url:  strings.TrimSpace(url),
		http: &http.Client{Timeout: timeout},
	}
}

// URL returns the store endpoint.
func (c *Client) URL() string {
	return c.url
}

// call posts req and decodes the envelope. A status outside accept becomes
// a *StoreError; out, when non-nil, receives the data payload.
func (c *Client) call(ctx context.Context, action string, req any, out any, accept ...string) (models.RawStoreResponse, error) {
	var resp models.RawStoreResponse

	body, err := json.Marshal(req)
	if err != nil {
		return resp, fmt.Errorf("%s: encode request: %w", action, err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(body))
	if err != nil {
		return resp, fmt.Errorf("%w: %s: %v", ErrTransport, action, err)
	}
	requestID := uuid.NewString()
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set(RequestIDHeader, requestID)

	start := time.Now()
	httpResp, err := c.http.Do(httpReq)
	if err != nil {
		return resp, fmt.Errorf("%w: %s: %v", ErrTransport, action, err)
	}
	defer httpResp.Body.Close()

	raw, err := io.ReadAll(httpResp.Body)
	if err != nil {
		return resp, fmt.Errorf("%w: %s: read reply: %v", ErrTransport, action, err)
	}
	if err := json.Unmarshal(raw, &resp); err != nil || resp.Status == "" {
		return resp, fmt.Errorf("%w: %s: HTTP %d with unreadable reply", ErrTransport, action, httpResp.StatusCode)
	}

	slog.Debug("store call",
		"action", action,
		"status", resp.Status,
		"request_id", requestID,
		"duration_ms", time.Since(start).Milliseconds(),
	)

	if len(accept) == 0 {
		accept = []string{models.StatusSuccess}
	}
	if !slices.Contains(accept, resp.Status) {
		return resp, &StoreError{Action: action, Status: resp.Status, Message: resp.Message}
	}

	if out != nil && len(resp.Data) > 0 && !bytes.Equal(resp.Data, []byte("null")) {
		if err := json.Unmarshal(resp.Data, out); err != nil {
			return resp, fmt.Errorf("%s: decode data: %w", action, err)
		}
	}
	return resp, nil
}

func actionOnly(action string) models.ActionRequest {
	return models.ActionRequest{Action: action}
}

func dateRange(action, start, end string) models.DateRangeRequest {
	return models.DateRangeRequest{ActionRequest: actionOnly(action), StartDate: start, EndDate: end}
}
