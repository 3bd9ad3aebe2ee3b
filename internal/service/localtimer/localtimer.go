// Package localtimer provides an in-process TimerService. Remaining
// time is computed from a deadline on every list, so the service needs
// no ticking goroutine of its own.
package localtimer

import (
	"context"
	"math"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/hammamikhairi/sousdeck/internal/domain"
	"github.com/hammamikhairi/sousdeck/internal/logger"
)

// Compile-time interface check.
var _ domain.TimerService = (*Service)(nil)

type record struct {
	id       string
	name     string
	duration int
	status   domain.TimerStatus
	deadline time.Time
	seq      int
}

// Option configures the service.
type Option func(*Service)

// WithClock overrides the time source. Used in tests.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		s.now = now
	}
}

// Service is an in-memory timer service. Safe for concurrent use.
type Service struct {
	mu      sync.Mutex
	timers  map[string]*record
	nextSeq int
	now     func() time.Time
	log     *logger.Logger
}

// New creates an empty local timer service.
func New(log *logger.Logger, opts ...Option) *Service {
	s := &Service{
		timers: make(map[string]*record),
		now:    time.Now,
		log:    log,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// CreateTimer registers a pending countdown and returns its id.
func (s *Service) CreateTimer(_ context.Context, name string, durationSeconds int) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := uuid.NewString()
	s.timers[id] = &record{
		id:       id,
		name:     name,
		duration: durationSeconds,
		status:   domain.TimerPending,
		seq:      s.nextSeq,
	}
	s.nextSeq++
	s.log.Debug("local timer created: %s (%q, %ds)", id, name, durationSeconds)
	return id, nil
}

// StartTimer arms a timer's deadline and marks it running.
func (s *Service) StartTimer(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	r, ok := s.timers[id]
	if !ok {
		return domain.ErrNotFound
	}
	r.status = domain.TimerRunning
	r.deadline = s.now().Add(time.Duration(r.duration) * time.Second)
	return nil
}

// StopTimer dismisses a timer.
func (s *Service) StopTimer(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	r, ok := s.timers[id]
	if !ok {
		return domain.ErrNotFound
	}
	r.status = domain.TimerStopped
	return nil
}

// ListTimers returns all timers in creation order with remaining time
// computed against the clock. A running timer whose deadline passed is
// reported as done with zero remaining.
func (s *Service) ListTimers(context.Context) ([]domain.Timer, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	out := make([]domain.Timer, 0, len(s.timers))
	for _, r := range s.timers {
		t := domain.Timer{
			ID:              r.id,
			Name:            r.name,
			DurationSeconds: r.duration,
			Status:          r.status,
		}
		switch r.status {
		case domain.TimerPending:
			t.RemainingSeconds = r.duration
		case domain.TimerRunning:
			left := int(math.Ceil(r.deadline.Sub(now).Seconds()))
			if left <= 0 {
				left = 0
				t.Status = domain.TimerDone
				r.status = domain.TimerDone
			}
			t.RemainingSeconds = left
		}
		out = append(out, t)
	}

	// Creation order keeps the status bar stable between polls.
	for i := 1; i < len(out); i++ {
		for j := i; j > 0 && s.timers[out[j-1].ID].seq > s.timers[out[j].ID].seq; j-- {
			out[j-1], out[j] = out[j], out[j-1]
		}
	}
	return out, nil
}
