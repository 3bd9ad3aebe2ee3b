package session

import (
	"sync"

	"github.com/hammamikhairi/sousdeck/internal/domain"
	"github.com/hammamikhairi/sousdeck/internal/logger"
)

// Progress is the session completion state: the set of completed step
// ids plus the accumulated ingredient assignments, both keyed by step
// id so they survive deck rebuilds. It grows monotonically and never
// shrinks.
//
// The completion detector is folded in: after every Complete call the
// completed set is checked against the *current* deck, and the
// finalization trigger fires exactly once on the false→true edge.
type Progress struct {
	mu          sync.Mutex
	completed   map[string]struct{}
	assignments map[string][]domain.IngredientAssignment
	fired       bool
	onComplete  func()
	log         *logger.Logger
}

// NewProgress creates empty session completion state. onComplete is
// invoked (synchronously, outside the lock) when the completed set
// first covers the whole deck; it may be nil.
func NewProgress(log *logger.Logger, onComplete func()) *Progress {
	return &Progress{
		completed:   make(map[string]struct{}),
		assignments: make(map[string][]domain.IngredientAssignment),
		onComplete:  onComplete,
		log:         log,
	}
}

// Complete marks a step done and re-evaluates deck coverage against
// the deck passed in — always the latest one, never a cached copy.
// Idempotent: re-completing an already-completed id is a no-op and
// reports false. Returns whether this call newly completed the step.
func (p *Progress) Complete(stepID string, deck []domain.Step) bool {
	p.mu.Lock()
	if _, done := p.completed[stepID]; done {
		p.mu.Unlock()
		p.log.Debug("step %s already complete, ignoring", stepID)
		return false
	}
	p.completed[stepID] = struct{}{}
	p.log.Info("step %s complete (%d/%d)", stepID, len(p.completed), len(deck))

	fire := false
	if !p.fired && p.covers(deck) {
		p.fired = true
		fire = true
	}
	p.mu.Unlock()

	if fire && p.onComplete != nil {
		p.log.Info("all %d steps complete, triggering finalization", len(deck))
		p.onComplete()
	}
	return true
}

// covers reports whether every step id in the deck is completed and
// the sizes match. Caller holds the lock.
func (p *Progress) covers(deck []domain.Step) bool {
	if len(deck) == 0 || len(p.completed) != len(deck) {
		return false
	}
	for _, s := range deck {
		if _, ok := p.completed[s.ID]; !ok {
			return false
		}
	}
	return true
}

// Record appends an ingredient assignment for its step. Assignments
// are immutable once recorded.
func (p *Progress) Record(a domain.IngredientAssignment) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.assignments[a.StepID] = append(p.assignments[a.StepID], a)
	p.log.Debug("recorded assignment %s: step=%s item=%s %.0fg", a.ID, a.StepID, a.PantryItemID, a.AmountGrams)
}

// IsComplete reports whether a step id has been completed.
func (p *Progress) IsComplete(stepID string) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	_, ok := p.completed[stepID]
	return ok
}

// CompletedCount returns the size of the completed set.
func (p *Progress) CompletedCount() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.completed)
}

// AllComplete reports whether the completed set covers the given deck.
func (p *Progress) AllComplete(deck []domain.Step) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.covers(deck)
}

// Assignments returns the assignments recorded for a step.
func (p *Progress) Assignments(stepID string) []domain.IngredientAssignment {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]domain.IngredientAssignment, len(p.assignments[stepID]))
	copy(out, p.assignments[stepID])
	return out
}

// AssignmentCount returns how many assignments a step has accumulated.
func (p *Progress) AssignmentCount(stepID string) int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.assignments[stepID])
}
