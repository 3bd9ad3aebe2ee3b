package pantry

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"github.com/hammamikhairi/sousdeck/internal/domain"
	"github.com/hammamikhairi/sousdeck/internal/logger"
	"github.com/hammamikhairi/sousdeck/internal/metrics"
	"github.com/hammamikhairi/sousdeck/internal/session"
)

// Tracker records ingredient assignments, issues pantry deductions,
// and marks steps complete. Deductions are fire-and-forget: they never
// block step completion, and a failed deduction leaves the completion
// and assignment state untouched — a documented inconsistency window,
// not a rollback.
type Tracker struct {
	svc      domain.PantryService
	progress *session.Progress
	log      *logger.Logger
	inflight sync.WaitGroup
}

// NewTracker creates an assignment tracker writing into the given
// session progress.
func NewTracker(svc domain.PantryService, progress *session.Progress, log *logger.Logger) *Tracker {
	return &Tracker{svc: svc, progress: progress, log: log}
}

// Assign records an immutable IngredientAssignment for the step,
// issues a pantry deduction for amountGrams in the background, and
// marks the step complete against the given (current) deck. Assigning
// to an already-completed step records and deducts again — that is the
// explicit "add more ingredient" path — but never re-fires completion.
func (t *Tracker) Assign(ctx context.Context, stepID string, item domain.PantryItem, amountGrams float64, deck []domain.Step) domain.IngredientAssignment {
	a := domain.IngredientAssignment{
		ID:           uuid.NewString(),
		StepID:       stepID,
		PantryItemID: item.ID,
		ProductID:    item.ProductID,
		AmountGrams:  amountGrams,
	}
	t.progress.Record(a)

	t.inflight.Add(1)
	go func() {
		defer t.inflight.Done()
		if err := t.svc.Deduct(ctx, item.ID, amountGrams); err != nil {
			// No retry, no rollback: the step stays complete and the
			// downstream record is simply stale.
			t.log.Error("pantry deduction failed for %s (%.0fg of %s): %v", stepID, amountGrams, item.Name, err)
			metrics.RecordDeductionFailure()
		}
	}()

	t.CompleteStep(stepID, deck)
	return a
}

// CompleteStep marks a step complete. Idempotent: repeating an id is a
// no-op with no side effects. Steps with zero ingredient requirements
// are completed through here with no assignment at all.
func (t *Tracker) CompleteStep(stepID string, deck []domain.Step) bool {
	if t.progress.Complete(stepID, deck) {
		metrics.RecordStepCompleted()
		return true
	}
	return false
}

// Inventory lists the pantry items currently available.
func (t *Tracker) Inventory(ctx context.Context) ([]domain.PantryItem, error) {
	return t.svc.ListInventory(ctx)
}

// Flush waits for in-flight deduction requests. Used on shutdown and
// in tests; normal session flow never waits on it.
func (t *Tracker) Flush() {
	t.inflight.Wait()
}
