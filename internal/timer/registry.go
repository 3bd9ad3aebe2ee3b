// Package timer implements the countdown timer registry. The registry
// never ticks on its own: it polls the timer service on a fixed
// cadence and replaces its local view wholesale, emitting a single
// "timer finished" event per observed zero-crossing.
package timer

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/hammamikhairi/sousdeck/internal/domain"
	"github.com/hammamikhairi/sousdeck/internal/logger"
	"github.com/hammamikhairi/sousdeck/internal/metrics"
)

// Option configures the registry.
type Option func(*Registry)

// WithPollInterval sets how often the registry refreshes its view.
func WithPollInterval(d time.Duration) Option {
	return func(r *Registry) {
		r.pollInterval = d
	}
}

// WithOnFinished sets the callback invoked exactly once when a running
// timer is first observed at zero remaining.
func WithOnFinished(fn func(domain.Timer)) Option {
	return func(r *Registry) {
		r.onFinished = fn
	}
}

// Registry owns zero-or-more independent countdown timers, each bound
// to a step by name. Timers live on the timer service; the registry's
// view is a poll-refreshed snapshot. Only timers whose status is not
// stopped are retained in the visible set.
type Registry struct {
	svc          domain.TimerService
	log          *logger.Logger
	pollInterval time.Duration
	onFinished   func(domain.Timer)

	mu       sync.Mutex
	view     []domain.Timer
	notified map[string]bool // timer ids whose zero-crossing already fired
	running  bool
	cancel   context.CancelFunc
}

// New creates a timer registry backed by the given service.
func New(svc domain.TimerService, log *logger.Logger, opts ...Option) *Registry {
	r := &Registry{
		svc:          svc,
		log:          log,
		pollInterval: 1 * time.Second,
		notified:     make(map[string]bool),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Create registers a new countdown on the timer service and returns
// its service-assigned id. The timer starts in pending state.
func (r *Registry) Create(ctx context.Context, name string, durationSeconds int) (string, error) {
	id, err := r.svc.CreateTimer(ctx, name, durationSeconds)
	if err != nil {
		return "", fmt.Errorf("creating timer: %w", err)
	}
	r.log.Info("created timer %s (%q, %ds)", id, name, durationSeconds)
	return id, nil
}

// Start begins a timer's countdown.
func (r *Registry) Start(ctx context.Context, id string) error {
	if err := r.svc.StartTimer(ctx, id); err != nil {
		return fmt.Errorf("starting timer %s: %w", id, err)
	}
	r.log.Debug("started timer %s", id)
	return nil
}

// Stop dismisses a timer. The next poll drops it from the visible set.
func (r *Registry) Stop(ctx context.Context, id string) error {
	if err := r.svc.StopTimer(ctx, id); err != nil {
		return fmt.Errorf("stopping timer %s: %w", id, err)
	}
	r.log.Debug("stopped timer %s", id)
	return nil
}

// List returns a copy of the current visible set.
func (r *Registry) List() []domain.Timer {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]domain.Timer, len(r.view))
	copy(out, r.view)
	return out
}

// FindByName returns the first visible timer with the given name.
func (r *Registry) FindByName(name string) (domain.Timer, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, t := range r.view {
		if t.Name == name {
			return t, true
		}
	}
	return domain.Timer{}, false
}

// Run starts the background poll loop. Non-blocking.
func (r *Registry) Run(ctx context.Context) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.running {
		r.log.Warn("timer registry already running")
		return
	}

	childCtx, cancel := context.WithCancel(ctx)
	r.cancel = cancel
	r.running = true

	go r.loop(childCtx)
	r.log.Info("timer registry started (poll=%s)", r.pollInterval)
}

// Close stops the poll loop.
func (r *Registry) Close() {
	r.mu.Lock()
	defer r.mu.Unlock()

	if !r.running {
		return
	}
	r.cancel()
	r.running = false
	r.log.Info("timer registry stopped")
}

func (r *Registry) loop(ctx context.Context) {
	ticker := time.NewTicker(r.pollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			r.Poll(ctx)
		}
	}
}

// Poll refreshes the local view from the timer service. A failed poll
// is logged and the previous view retained. Exported so tests and the
// session loop can force a refresh without waiting for the ticker.
func (r *Registry) Poll(ctx context.Context) {
	timers, err := r.svc.ListTimers(ctx)
	metrics.RecordPoll("timer", err == nil)
	if err != nil {
		r.log.Error("timer poll failed, keeping previous view: %v", err)
		return
	}

	var finished []domain.Timer

	r.mu.Lock()
	r.view = r.view[:0]
	for _, t := range timers {
		if t.RemainingSeconds < 0 {
			t.RemainingSeconds = 0
		}
		// A running timer observed at zero has crossed: it is done.
		if t.Status == domain.TimerRunning && t.RemainingSeconds == 0 {
			t.Status = domain.TimerDone
		}

		switch t.Status {
		case domain.TimerStopped:
			// Dismissed timers leave the visible set for good.
			delete(r.notified, t.ID)
			continue
		case domain.TimerDone:
			if !r.notified[t.ID] {
				r.notified[t.ID] = true
				finished = append(finished, t)
			}
		case domain.TimerRunning:
			if t.RemainingSeconds > 0 {
				// Restarted timer: arm the zero-crossing again.
				delete(r.notified, t.ID)
			}
		}
		r.view = append(r.view, t)
	}
	r.mu.Unlock()

	// Emit outside the lock; repeated polls at zero must not re-emit.
	for _, t := range finished {
		r.log.Info("timer %s (%q) finished", t.ID, t.Name)
		metrics.RecordTimerFire()
		if r.onFinished != nil {
			r.onFinished(t)
		}
	}
}
