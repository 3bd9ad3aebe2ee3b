package catalog

import (
	"testing"

	"github.com/hammamikhairi/sousdeck/internal/domain"
)

func TestBuildDeckOrder(t *testing.T) {
	deck := BuildDeck(0)

	if len(deck) == 0 {
		t.Fatal("deck is empty")
	}

	// Prep steps first, then cook steps by ascending sequence.
	inCook := false
	lastSeq := -1
	for i, s := range deck {
		switch s.Phase {
		case domain.PhasePrep:
			if inCook {
				t.Fatalf("prep step %s appears after cook steps", s.ID)
			}
		case domain.PhaseCook:
			inCook = true
			if s.Sequence < lastSeq {
				t.Fatalf("cook step %s out of sequence order: %d after %d", s.ID, s.Sequence, lastSeq)
			}
			lastSeq = s.Sequence
		}
		if s.DeckIndex != i {
			t.Fatalf("step %s has DeckIndex %d, want %d", s.ID, s.DeckIndex, i)
		}
	}
}

func TestBuildDeckIdentityStability(t *testing.T) {
	// For any two estimates, ids and order are identical; only the
	// probe-controlled step's duration differs.
	a := BuildDeck(0)
	b := BuildDeck(2100)

	if len(a) != len(b) {
		t.Fatalf("deck lengths differ: %d vs %d", len(a), len(b))
	}
	for i := range a {
		if a[i].ID != b[i].ID {
			t.Fatalf("step id mismatch at %d: %s vs %s", i, a[i].ID, b[i].ID)
		}
		if a[i].ID == ProbeStepID {
			continue
		}
		if a[i].DurationSeconds != b[i].DurationSeconds {
			t.Fatalf("non-probe step %s duration changed: %d vs %d",
				a[i].ID, a[i].DurationSeconds, b[i].DurationSeconds)
		}
	}
}

func TestBuildDeckProbeDuration(t *testing.T) {
	tests := []struct {
		name     string
		estimate int
		want     int
	}{
		{"no estimate uses fallback", 0, FallbackRoastSeconds},
		{"negative estimate uses fallback", -5, FallbackRoastSeconds},
		{"estimate applied", 2100, 2100},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			deck := BuildDeck(tt.estimate)
			step, ok := FindStep(deck, ProbeStepID)
			if !ok {
				t.Fatalf("probe step %s not in deck", ProbeStepID)
			}
			if step.DurationSeconds != tt.want {
				t.Fatalf("probe step duration = %d, want %d", step.DurationSeconds, tt.want)
			}
		})
	}
}

func TestDishTagsResolve(t *testing.T) {
	dishes := make(map[string]bool)
	for _, d := range Dishes() {
		dishes[d.ID] = true
	}
	for _, s := range BuildDeck(0) {
		if !dishes[s.Dish] {
			t.Fatalf("step %s has unknown dish tag %q", s.ID, s.Dish)
		}
	}
}

func TestFindStep(t *testing.T) {
	deck := BuildDeck(0)
	if _, ok := FindStep(deck, "prep-chicken"); !ok {
		t.Fatal("expected to find prep-chicken")
	}
	if _, ok := FindStep(deck, "nope"); ok {
		t.Fatal("found a step that should not exist")
	}
}
