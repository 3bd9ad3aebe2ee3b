// Package probehttp is the JSON/HTTP client for the kitchen-hub probe
// telemetry gateway.
package probehttp

import (
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
var _ domain.ProbeService = (*Client)(nil)

// statusResponse mirrors the gateway payload. Temperature and estimate
// fields are omitted while the probe is disconnected or warming up.
type statusResponse struct {
	Connected            bool     `json:"connected"`
	InternalTempF        *float64 `json:"internalTempF,omitempty"`
	TargetTempF          *float64 `json:"targetTempF,omitempty"`
	TimeRemainingSeconds *int     `json:"timeRemainingSeconds,omitempty"`
	CookState            *string  `json:"cookState,omitempty"`
}

// Option configures the client.
type Option func(*Client)

// WithHTTPTimeout sets the HTTP client timeout.
func WithHTTPTimeout(d time.Duration) Option {
	return func(c *Client) { c.http.Timeout = d }
}

// Client talks to the probe gateway's REST endpoints.
type Client struct {
	baseURL string
	http    *http.Client
	log     *logger.Logger
}

// New creates a probe gateway client.
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

// Connect asks the gateway to pair with the probe. One-shot,
// user-initiated.
func (c *Client) Connect(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/probe/connect", nil)
	if err != nil {
		return fmt.Errorf("probehttp: create request: %w", err)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("probehttp: request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		// The gateway reports no probe in range.
		return fmt.Errorf("probehttp: %w", domain.ErrProbeDisconnected)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("probehttp: gateway %s: %s", resp.Status, string(body))
	}
	return nil
}

// Status polls one telemetry snapshot.
func (c *Client) Status(ctx context.Context) (domain.ProbeReading, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/api/probe/status", nil)
	if err != nil {
		return domain.ProbeReading{}, fmt.Errorf("probehttp: create request: %w", err)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return domain.ProbeReading{}, fmt.Errorf("probehttp: request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return domain.ProbeReading{}, fmt.Errorf("probehttp: read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return domain.ProbeReading{}, fmt.Errorf("probehttp: gateway %s: %s", resp.Status, string(body))
	}

	var wire statusResponse
	if err := json.Unmarshal(body, &wire); err != nil {
		return domain.ProbeReading{}, fmt.Errorf("probehttp: unmarshal response: %w", err)
	}

	reading := domain.ProbeReading{
		Connected: wire.Connected,
		State:     domain.CookStateIdle,
	}
	if wire.InternalTempF != nil {
		reading.InternalTempF = *wire.InternalTempF
	}
	if wire.TargetTempF != nil {
		reading.TargetTempF = *wire.TargetTempF
	}
	if wire.TimeRemainingSeconds != nil {
		reading.RemainingSeconds = *wire.TimeRemainingSeconds
		reading.HasEstimate = true
	}
	if wire.CookState != nil {
		reading.State = domain.CookState(*wire.CookState)
	}
	return reading, nil
}
