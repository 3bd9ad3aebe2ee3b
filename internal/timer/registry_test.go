package timer

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/hammamikhairi/sousdeck/internal/domain"
	"github.com/hammamikhairi/sousdeck/internal/logger"
)

// scriptedService returns canned timer lists, one per poll.
type scriptedService struct {
	mu    sync.Mutex
	lists [][]domain.Timer
	calls int
	err   error
}

func (s *scriptedService) CreateTimer(_ context.Context, name string, dur int) (string, error) {
	return "t-" + name, nil
}
func (s *scriptedService) StartTimer(context.Context, string) error { return nil }
func (s *scriptedService) StopTimer(context.Context, string) error  { return nil }

func (s *scriptedService) ListTimers(context.Context) ([]domain.Timer, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return nil, s.err
	}
	i := s.calls
	if i >= len(s.lists) {
		i = len(s.lists) - 1
	}
	s.calls++
	return s.lists[i], nil
}

func newRegistry(t *testing.T, svc domain.TimerService, opts ...Option) *Registry {
	t.Helper()
	log := logger.New(logger.LevelOff, nil)
	return New(svc, log, opts...)
}

func TestPollDropsStoppedTimers(t *testing.T) {
	svc := &scriptedService{lists: [][]domain.Timer{{
		{ID: "t1", Name: "🔥 Roast", DurationSeconds: 60, RemainingSeconds: 30, Status: domain.TimerRunning},
		{ID: "t2", Name: "🫧 Boil", DurationSeconds: 60, RemainingSeconds: 0, Status: domain.TimerStopped},
	}}}

	r := newRegistry(t, svc)
	r.Poll(context.Background())

	view := r.List()
	if len(view) != 1 {
		t.Fatalf("expected 1 visible timer, got %d", len(view))
	}
	if view[0].ID != "t1" {
		t.Fatalf("expected t1 to survive, got %s", view[0].ID)
	}
}

func TestZeroCrossingEmitsOnce(t *testing.T) {
	svc := &scriptedService{lists: [][]domain.Timer{
		{{ID: "t1", Name: "🍯 Glaze", DurationSeconds: 10, RemainingSeconds: 2, Status: domain.TimerRunning}},
		{{ID: "t1", Name: "🍯 Glaze", DurationSeconds: 10, RemainingSeconds: 0, Status: domain.TimerRunning}},
		// Repeated polls while still at zero.
		{{ID: "t1", Name: "🍯 Glaze", DurationSeconds: 10, RemainingSeconds: 0, Status: domain.TimerDone}},
		{{ID: "t1", Name: "🍯 Glaze", DurationSeconds: 10, RemainingSeconds: 0, Status: domain.TimerDone}},
	}}

	var finished []domain.Timer
	r := newRegistry(t, svc, WithOnFinished(func(tm domain.Timer) {
		finished = append(finished, tm)
	}))

	ctx := context.Background()
	for i := 0; i < 4; i++ {
		r.Poll(ctx)
	}

	if len(finished) != 1 {
		t.Fatalf("expected exactly 1 finished event, got %d", len(finished))
	}
	if finished[0].Status != domain.TimerDone {
		t.Fatalf("finished timer status = %s, want done", finished[0].Status)
	}

	// Done timers stay visible until dismissed.
	view := r.List()
	if len(view) != 1 || view[0].Status != domain.TimerDone {
		t.Fatalf("expected done timer to remain visible, got %+v", view)
	}
}

func TestRemainingNeverNegative(t *testing.T) {
	svc := &scriptedService{lists: [][]domain.Timer{
		{{ID: "t1", Name: "x", DurationSeconds: 10, RemainingSeconds: -3, Status: domain.TimerRunning}},
	}}

	r := newRegistry(t, svc)
	r.Poll(context.Background())

	view := r.List()
	if view[0].RemainingSeconds != 0 {
		t.Fatalf("remaining = %d, want 0", view[0].RemainingSeconds)
	}
	if view[0].Status != domain.TimerDone {
		t.Fatalf("running timer at zero should read done, got %s", view[0].Status)
	}
}

func TestMultipleIndependentTimers(t *testing.T) {
	svc := &scriptedService{lists: [][]domain.Timer{
		{
			{ID: "t1", Name: "a", RemainingSeconds: 5, Status: domain.TimerRunning},
			{ID: "t2", Name: "b", RemainingSeconds: 50, Status: domain.TimerRunning},
		},
		{
			{ID: "t1", Name: "a", RemainingSeconds: 0, Status: domain.TimerRunning},
			{ID: "t2", Name: "b", RemainingSeconds: 45, Status: domain.TimerRunning},
		},
	}}

	var finished []string
	r := newRegistry(t, svc, WithOnFinished(func(tm domain.Timer) {
		finished = append(finished, tm.ID)
	}))

	ctx := context.Background()
	r.Poll(ctx)
	r.Poll(ctx)

	// t1 crossed zero, t2 keeps running untouched.
	if len(finished) != 1 || finished[0] != "t1" {
		t.Fatalf("expected only t1 to finish, got %v", finished)
	}
	if tm, ok := r.FindByName("b"); !ok || tm.Status != domain.TimerRunning {
		t.Fatalf("expected b still running, got %+v ok=%v", tm, ok)
	}
}

func TestFailedPollKeepsPreviousView(t *testing.T) {
	svc := &scriptedService{lists: [][]domain.Timer{
		{{ID: "t1", Name: "a", RemainingSeconds: 5, Status: domain.TimerRunning}},
	}}

	r := newRegistry(t, svc)
	ctx := context.Background()
	r.Poll(ctx)

	svc.mu.Lock()
	svc.err = errors.New("gateway unreachable")
	svc.mu.Unlock()

	r.Poll(ctx)
	if len(r.List()) != 1 {
		t.Fatal("failed poll wiped the previous view")
	}
}
