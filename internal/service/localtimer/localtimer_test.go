package localtimer

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/hammamikhairi/sousdeck/internal/domain"
	"github.com/hammamikhairi/sousdeck/internal/logger"
)

func TestTimerLifecycle(t *testing.T) {
	now := time.Date(2025, 11, 2, 17, 0, 0, 0, time.UTC)
	clock := func() time.Time { return now }

	log := logger.New(logger.LevelOff, nil)
	svc := New(log, WithClock(clock))
	ctx := context.Background()

	id, err := svc.CreateTimer(ctx, "🍯 Glaze the carrots", 900)
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	timers, _ := svc.ListTimers(ctx)
	if len(timers) != 1 || timers[0].Status != domain.TimerPending {
		t.Fatalf("expected one pending timer, got %+v", timers)
	}
	if timers[0].RemainingSeconds != 900 {
		t.Fatalf("pending remaining = %d, want full duration", timers[0].RemainingSeconds)
	}

	if err := svc.StartTimer(ctx, id); err != nil {
		t.Fatalf("start: %v", err)
	}

	now = now.Add(300 * time.Second)
	timers, _ = svc.ListTimers(ctx)
	if timers[0].Status != domain.TimerRunning || timers[0].RemainingSeconds != 600 {
		t.Fatalf("after 300s: %+v", timers[0])
	}

	// Past the deadline the timer reads done with zero remaining.
	now = now.Add(700 * time.Second)
	timers, _ = svc.ListTimers(ctx)
	if timers[0].Status != domain.TimerDone || timers[0].RemainingSeconds != 0 {
		t.Fatalf("after expiry: %+v", timers[0])
	}

	if err := svc.StopTimer(ctx, id); err != nil {
		t.Fatalf("stop: %v", err)
	}
	timers, _ = svc.ListTimers(ctx)
	if timers[0].Status != domain.TimerStopped {
		t.Fatalf("after stop: %+v", timers[0])
	}
}

func TestUnknownTimerID(t *testing.T) {
	log := logger.New(logger.LevelOff, nil)
	svc := New(log)
	ctx := context.Background()

	if err := svc.StartTimer(ctx, "missing"); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("start unknown: got %v, want ErrNotFound", err)
	}
	if err := svc.StopTimer(ctx, "missing"); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("stop unknown: got %v, want ErrNotFound", err)
	}
}

func TestListKeepsCreationOrder(t *testing.T) {
	log := logger.New(logger.LevelOff, nil)
	svc := New(log)
	ctx := context.Background()

	for _, name := range []string{"c", "a", "b"} {
		if _, err := svc.CreateTimer(ctx, name, 60); err != nil {
			t.Fatalf("create %s: %v", name, err)
		}
	}

	timers, _ := svc.ListTimers(ctx)
	got := []string{timers[0].Name, timers[1].Name, timers[2].Name}
	want := []string{"c", "a", "b"}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("order = %v, want %v", got, want)
		}
	}
}
