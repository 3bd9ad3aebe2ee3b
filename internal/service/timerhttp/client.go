// Package timerhttp is the JSON/HTTP client for the kitchen-hub timer
// gateway.
package timerhttp

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/hammamikhairi/sousdeck/internal/domain"
	"github.com/hammamikhairi/sousdeck/internal/logger"
)

// Compile-time interface check.
var _ domain.TimerService = (*Client)(nil)

// ── Wire types ───────────────────────────────────────────────────

type createRequest struct {
	Name            string `json:"name"`
	DurationSeconds int    `json:"durationSeconds"`
}

type createResponse struct {
	ID string `json:"id"`
}

type wireTimer struct {
	ID               string `json:"id"`
	Name             string `json:"name"`
	DurationSeconds  int    `json:"durationSeconds"`
	RemainingSeconds int    `json:"remainingSeconds"`
	Status           string `json:"status"`
}

type listResponse struct {
	Timers []wireTimer `json:"timers"`
}

// ── Client ───────────────────────────────────────────────────────

// Option configures the client.
type Option func(*Client)

// WithHTTPTimeout sets the HTTP client timeout.
func WithHTTPTimeout(d time.Duration) Option {
	return func(c *Client) { c.http.Timeout = d }
}

// WithToken sets a bearer token for the gateway.
func WithToken(token string) Option {
	return func(c *Client) { c.token = token }
}

// Client talks to the timer gateway's REST endpoints.
type Client struct {
	baseURL string
	token   string
	http    *http.Client
	log     *logger.Logger
}

// New creates a timer gateway client. baseURL is the gateway root,
// e.g. "http://kitchen-hub.local:8080".
func New(baseURL string, log *logger.Logger, opts ...Option) *Client {
	c := &Client{
		baseURL: baseURL,
		http:    &http.Client{Timeout: 10 * time.Second},
		log:     log,
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

// CreateTimer registers a countdown on the gateway.
func (c *Client) CreateTimer(ctx context.Context, name string, durationSeconds int) (string, error) {
	var resp createResponse
	err := c.do(ctx, http.MethodPost, "/api/timers", createRequest{Name: name, DurationSeconds: durationSeconds}, &resp)
	if err != nil {
		return "", err
	}
	if resp.ID == "" {
		return "", fmt.Errorf("timer gateway returned empty id")
	}
	return resp.ID, nil
}

// StartTimer starts a countdown.
func (c *Client) StartTimer(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodPost, "/api/timers/"+id+"/start", nil, nil)
}

// StopTimer dismisses a countdown.
func (c *Client) StopTimer(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodPost, "/api/timers/"+id+"/stop", nil, nil)
}

// ListTimers fetches the gateway's full timer list.
func (c *Client) ListTimers(ctx context.Context) ([]domain.Timer, error) {
	var resp listResponse
	if err := c.do(ctx, http.MethodGet, "/api/timers", nil, &resp); err != nil {
		return nil, err
	}

	out := make([]domain.Timer, 0, len(resp.Timers))
	for _, w := range resp.Timers {
		out = append(out, domain.Timer{
			ID:               w.ID,
			Name:             w.Name,
			DurationSeconds:  w.DurationSeconds,
			RemainingSeconds: w.RemainingSeconds,
			Status:           domain.TimerStatus(w.Status),
		})
	}
	return out, nil
}

// do sends one JSON request and decodes the response into out (when
// non-nil).
func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		jsonData, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("timerhttp: marshal request: %w", err)
		}
		reader = bytes.NewReader(jsonData)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("timerhttp: create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	c.log.Debug("timerhttp: %s %s", method, path)

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("timerhttp: request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("timerhttp: read response: %w", err)
	}
	if resp.StatusCode == http.StatusNotFound {
		return domain.ErrNotFound
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("timerhttp: gateway %s: %s", resp.Status, string(respBody))
	}

	if out != nil {
		if err := json.Unmarshal(respBody, out); err != nil {
			return fmt.Errorf("timerhttp: unmarshal response: %w", err)
		}
	}
	return nil
}
