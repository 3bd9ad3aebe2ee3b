package session

import (
	"testing"

	"github.com/hammamikhairi/sousdeck/internal/catalog"
	"github.com/hammamikhairi/sousdeck/internal/logger"
)

func newNav(t *testing.T) *Navigator {
	t.Helper()
	log := logger.New(logger.LevelOff, nil)
	return NewNavigator(catalog.BuildDeck(0), log)
}

func TestMoveByClampsToBounds(t *testing.T) {
	nav := newNav(t)
	last := nav.Len() - 1

	// Arbitrary sequence of moves must keep the index in bounds.
	for _, delta := range []int{-1, -10, 3, 100, -2, 1, -100, 5, 5, 5} {
		nav.MoveBy(delta)
		if nav.Index() < 0 || nav.Index() > last {
			t.Fatalf("index %d out of bounds after MoveBy(%d)", nav.Index(), delta)
		}
	}

	nav.MoveBy(1000)
	if nav.Index() != last {
		t.Fatalf("expected clamp to %d, got %d", last, nav.Index())
	}
	nav.MoveBy(-1000)
	if nav.Index() != 0 {
		t.Fatalf("expected clamp to 0, got %d", nav.Index())
	}
}

func TestJumpToID(t *testing.T) {
	nav := newNav(t)

	nav.JumpToID(catalog.ProbeStepID)
	if nav.Current().ID != catalog.ProbeStepID {
		t.Fatalf("expected to land on %s, got %s", catalog.ProbeStepID, nav.Current().ID)
	}

	// Unknown id is a silent no-op.
	before := nav.Index()
	nav.JumpToID("never-existed")
	if nav.Index() != before {
		t.Fatalf("unknown id moved the pointer: %d -> %d", before, nav.Index())
	}
}

func TestSwipeThresholds(t *testing.T) {
	tests := []struct {
		name     string
		offset   float64
		velocity float64
		moved    bool
		delta    int
	}{
		{"small drag, slow release snaps back", 0.2, 0.1, false, 0},
		{"distance past threshold", 0.35, 0.0, true, 1},
		{"velocity past threshold", 0.1, 0.8, true, 1},
		{"backward drag", -0.5, 0.0, true, -1},
		{"backward flick", 0.0, -0.9, true, -1},
		{"exactly at thresholds snaps back", 0.3, 0.5, false, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			nav := newNav(t)
			nav.MoveBy(2) // start mid-deck so both directions have room
			start := nav.Index()

			moved := nav.Swipe(tt.offset, tt.velocity)
			if moved != tt.moved {
				t.Fatalf("moved = %v, want %v", moved, tt.moved)
			}
			if nav.Index() != start+tt.delta {
				t.Fatalf("index = %d, want %d", nav.Index(), start+tt.delta)
			}
		})
	}
}

func TestSwipeAtEdgeReportsNoMove(t *testing.T) {
	nav := newNav(t)
	// At index 0 a backward swipe clamps, so nothing moves.
	if nav.Swipe(-1.0, 0) {
		t.Fatal("expected no move at deck start")
	}
}

func TestRebindKeepsLogicalPosition(t *testing.T) {
	nav := newNav(t)
	nav.MoveBy(2)
	id := nav.Current().ID

	// Probe estimate arrives mid-session: rebuild must not move the
	// user off their step.
	nav.Rebind(catalog.BuildDeck(2100))
	if nav.Current().ID != id {
		t.Fatalf("rebind moved pointer from %s to %s", id, nav.Current().ID)
	}

	// Duration of the probe step must reflect the new estimate.
	nav.JumpToID(catalog.ProbeStepID)
	if nav.Current().DurationSeconds != 2100 {
		t.Fatalf("probe step duration = %d, want 2100", nav.Current().DurationSeconds)
	}
}
