package session

import (
	"testing"

	"github.com/hammamikhairi/sousdeck/internal/catalog"
	"github.com/hammamikhairi/sousdeck/internal/domain"
	"github.com/hammamikhairi/sousdeck/internal/logger"
)

func testDeck(ids ...string) []domain.Step {
	deck := make([]domain.Step, len(ids))
	for i, id := range ids {
		deck[i] = domain.Step{ID: id, DeckIndex: i}
	}
	return deck
}

func TestCompletionFiresExactlyOnce(t *testing.T) {
	log := logger.New(logger.LevelOff, nil)
	deck := testDeck("a", "b", "c")

	fired := 0
	p := NewProgress(log, func() { fired++ })

	p.Complete("a", deck)
	if fired != 0 {
		t.Fatal("fired before all steps complete")
	}
	p.Complete("b", deck)
	if fired != 0 {
		t.Fatal("fired at 2/3 steps")
	}
	p.Complete("c", deck)
	if fired != 1 {
		t.Fatalf("expected exactly one trigger, got %d", fired)
	}

	// Incorrectly re-completing a step must not re-fire.
	p.Complete("b", deck)
	p.Complete("c", deck)
	if fired != 1 {
		t.Fatalf("re-completion re-fired the trigger: %d", fired)
	}
}

func TestCompleteIsIdempotent(t *testing.T) {
	log := logger.New(logger.LevelOff, nil)
	deck := testDeck("a", "b")
	p := NewProgress(log, nil)

	if !p.Complete("a", deck) {
		t.Fatal("first completion reported false")
	}
	if p.Complete("a", deck) {
		t.Fatal("second completion of the same id reported true")
	}
	if p.CompletedCount() != 1 {
		t.Fatalf("completed count = %d, want 1", p.CompletedCount())
	}
}

func TestCompletionChecksCurrentDeck(t *testing.T) {
	log := logger.New(logger.LevelOff, nil)
	p := NewProgress(log, nil)

	// Completed set covering a 2-step deck does not cover a 3-step one.
	p.Complete("a", testDeck("a", "b", "c"))
	p.Complete("b", testDeck("a", "b", "c"))
	if p.AllComplete(testDeck("a", "b", "c")) {
		t.Fatal("2/3 reported complete")
	}
	if !p.AllComplete(testDeck("a", "b")) {
		t.Fatal("expected coverage of the shrunk deck")
	}
}

func TestRebuildPreservesProgress(t *testing.T) {
	log := logger.New(logger.LevelOff, nil)
	p := NewProgress(log, nil)

	deck := catalog.BuildDeck(0)
	p.Complete("prep-chicken", deck)

	// Probe estimate arrives; the deck is rebuilt from scratch.
	rebuilt := catalog.BuildDeck(2100)
	if !p.IsComplete("prep-chicken") {
		t.Fatal("completion lost after rebuild")
	}
	if p.AllComplete(rebuilt) {
		t.Fatal("one completed step reported as full coverage")
	}
}

func TestAssignmentsAccumulate(t *testing.T) {
	log := logger.New(logger.LevelOff, nil)
	p := NewProgress(log, nil)

	p.Record(domain.IngredientAssignment{ID: "a1", StepID: "s1", PantryItemID: "p1", AmountGrams: 100})
	p.Record(domain.IngredientAssignment{ID: "a2", StepID: "s1", PantryItemID: "p2", AmountGrams: 50})

	got := p.Assignments("s1")
	if len(got) != 2 {
		t.Fatalf("expected 2 assignments, got %d", len(got))
	}
	if p.AssignmentCount("s2") != 0 {
		t.Fatal("expected no assignments for s2")
	}
}
