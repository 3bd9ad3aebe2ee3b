// Package probe implements the temperature-probe monitor. It polls the
// probe telemetry service on a slower cadence than the timer registry
// and derives two outputs: a remaining-time estimate fed to the deck
// builder, and edge-triggered alerts on cook-state transitions.
package probe

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/hammamikhairi/sousdeck/internal/domain"
	"github.com/hammamikhairi/sousdeck/internal/logger"
	"github.com/hammamikhairi/sousdeck/internal/metrics"
)

// Option configures the monitor.
type Option func(*Monitor)

// WithPollInterval sets how often the monitor polls probe telemetry.
func WithPollInterval(d time.Duration) Option {
	return func(m *Monitor) {
		m.pollInterval = d
	}
}

// WithOnEstimate sets the callback invoked with a new remaining-seconds
// estimate whenever the probe reports one that differs from the last.
func WithOnEstimate(fn func(seconds int)) Option {
	return func(m *Monitor) {
		m.onEstimate = fn
	}
}

// WithOnAlert sets the callback invoked when the cook state transitions
// into ready_for_resting or finished. Edge-triggered: it does not
// re-fire while the state is unchanged.
func WithOnAlert(fn func(domain.CookState)) Option {
	return func(m *Monitor) {
		m.onAlert = fn
	}
}

// Monitor republishes the latest probe reading. Readings are replaced
// wholesale on every poll; no history is retained.
type Monitor struct {
	svc          domain.ProbeService
	log          *logger.Logger
	pollInterval time.Duration
	onEstimate   func(int)
	onAlert      func(domain.CookState)

	mu           sync.Mutex
	latest       domain.ProbeReading
	lastState    domain.CookState
	lastEstimate int
	hasEstimate  bool
	running      bool
	cancel       context.CancelFunc
}

// New creates a probe monitor backed by the given telemetry service.
func New(svc domain.ProbeService, log *logger.Logger, opts ...Option) *Monitor {
	m := &Monitor{
		svc:          svc,
		log:          log,
		pollInterval: 3 * time.Second,
		lastState:    domain.CookStateIdle,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Connect performs the one-shot user-initiated probe pairing. Distinct
// from the recurring poll.
func (m *Monitor) Connect(ctx context.Context) error {
	if err := m.svc.Connect(ctx); err != nil {
		return fmt.Errorf("connecting probe: %w", err)
	}
	m.log.Info("probe connected")
	return nil
}

// Latest returns the most recent reading.
func (m *Monitor) Latest() domain.ProbeReading {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.latest
}

// Run starts the background poll loop. Non-blocking. The loop is fully
// independent of the timer registry's: a slow probe poll never delays
// timer updates.
func (m *Monitor) Run(ctx context.Context) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.running {
		m.log.Warn("probe monitor already running")
		return
	}

	childCtx, cancel := context.WithCancel(ctx)
	m.cancel = cancel
	m.running = true

	go m.loop(childCtx)
	m.log.Info("probe monitor started (poll=%s)", m.pollInterval)
}

// Close stops the poll loop.
func (m *Monitor) Close() {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.running {
		return
	}
	m.cancel()
	m.running = false
	m.log.Info("probe monitor stopped")
}

func (m *Monitor) loop(ctx context.Context) {
	ticker := time.NewTicker(m.pollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			m.Poll(ctx)
		}
	}
}

// Poll fetches one telemetry snapshot and derives estimate/alert
// events. A failed poll is logged and the previous reading retained.
// Exported so tests can drive the cadence directly.
func (m *Monitor) Poll(ctx context.Context) {
	reading, err := m.svc.Status(ctx)
	metrics.RecordPoll("probe", err == nil)
	if err != nil {
		m.log.Error("probe poll failed, keeping previous reading: %v", err)
		return
	}

	var estimate int
	estimateChanged := false
	var alert domain.CookState
	alertFired := false

	m.mu.Lock()
	m.latest = reading

	if reading.Connected && reading.HasEstimate {
		if !m.hasEstimate || reading.RemainingSeconds != m.lastEstimate {
			m.hasEstimate = true
			m.lastEstimate = reading.RemainingSeconds
			estimate = reading.RemainingSeconds
			estimateChanged = true
		}
	}

	if reading.State != m.lastState {
		m.log.Debug("cook state %s -> %s", m.lastState, reading.State)
		if reading.State == domain.CookStateReadyForResting || reading.State == domain.CookStateFinished {
			alert = reading.State
			alertFired = true
		}
		m.lastState = reading.State
	}
	m.mu.Unlock()

	// Callbacks run outside the lock: the estimate callback performs a
	// synchronous deck rebuild before any dependent read.
	if estimateChanged && m.onEstimate != nil {
		m.log.Info("probe estimate updated: %ds remaining", estimate)
		m.onEstimate(estimate)
	}
	if alertFired {
		metrics.RecordProbeAlert(string(alert))
		if m.onAlert != nil {
			m.onAlert(alert)
		}
	}
}
