// Package probesim provides a simulated ProbeService for running a
// session without probe hardware. The internal temperature ramps
// linearly from ambient to target over a configurable cook time.
package probesim

import (
	"context"
	"sync"
	"time"

	"github.com/hammamikhairi/sousdeck/internal/domain"
	"github.com/hammamikhairi/sousdeck/internal/logger"
)

// Compile-time interface check.
var _ domain.ProbeService = (*Sim)(nil)

// Cook-state boundaries as fractions of elapsed cook time.
const (
	searingUntil = 0.15
	restingFrom  = 0.93
)

// Option configures the simulator.
type Option func(*Sim)

// WithCookTime sets the simulated total cook time.
func WithCookTime(d time.Duration) Option {
	return func(s *Sim) {
		s.cookTime = d
	}
}

// WithTargetTemp sets the simulated target temperature in °F.
func WithTargetTemp(f float64) Option {
	return func(s *Sim) {
		s.targetF = f
	}
}

// WithClock overrides the time source. Used in tests.
func WithClock(now func() time.Time) Option {
	return func(s *Sim) {
		s.now = now
	}
}

// Sim is a scripted probe. Before Connect it reports disconnected;
// after Connect the cook curve starts.
type Sim struct {
	mu        sync.Mutex
	connected bool
	startedAt time.Time
	cookTime  time.Duration
	ambientF  float64
	targetF   float64
	now       func() time.Time
	log       *logger.Logger
}

// New creates a probe simulator.
func New(log *logger.Logger, opts ...Option) *Sim {
	s := &Sim{
		cookTime: 40 * time.Minute,
		ambientF: 45,
		targetF:  165,
		now:      time.Now,
		log:      log,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Connect starts the simulated cook.
func (s *Sim) Connect(context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.connected {
		return nil
	}
	s.connected = true
	s.startedAt = s.now()
	s.log.Info("probe sim: cook started (%s to %.0f°F)", s.cookTime, s.targetF)
	return nil
}

// Status returns the current point on the cook curve.
func (s *Sim) Status(context.Context) (domain.ProbeReading, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.connected {
		return domain.ProbeReading{State: domain.CookStateIdle}, nil
	}

	elapsed := s.now().Sub(s.startedAt)
	progress := float64(elapsed) / float64(s.cookTime)
	if progress > 1 {
		progress = 1
	}

	remaining := int((s.cookTime - elapsed).Seconds())
	if remaining < 0 {
		remaining = 0
	}

	state := domain.CookStateCooking
	switch {
	case progress >= 1:
		state = domain.CookStateFinished
	case progress >= restingFrom:
		state = domain.CookStateReadyForResting
	case progress < searingUntil:
		state = domain.CookStateSearing
	}

	return domain.ProbeReading{
		Connected:        true,
		InternalTempF:    s.ambientF + (s.targetF-s.ambientF)*progress,
		TargetTempF:      s.targetF,
		RemainingSeconds: remaining,
		HasEstimate:      true,
		State:            state,
	}, nil
}
