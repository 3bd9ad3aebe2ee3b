// Package meal aggregates a finished session into a meal record and
// submits it to the meal-logging service.
package meal

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/hammamikhairi/sousdeck/internal/domain"
	"github.com/hammamikhairi/sousdeck/internal/logger"
	"github.com/hammamikhairi/sousdeck/internal/metrics"
	"github.com/hammamikhairi/sousdeck/internal/session"
)

// Option configures the finalizer.
type Option func(*Finalizer)

// WithMealName sets the display name of the submitted meal.
func WithMealName(name string) Option {
	return func(f *Finalizer) {
		f.name = name
	}
}

// Finalizer builds and submits the finished meal. Submission is
// attempted once per call: a failure is returned to the caller, never
// retried, and the local session state is left as-is. A successful
// submission latches; further calls return ErrAlreadyFinalized.
type Finalizer struct {
	svc  domain.MealLogService
	log  *logger.Logger
	name string

	mu   sync.Mutex
	done bool
}

// NewFinalizer creates a finalizer backed by the given logging service.
func NewFinalizer(svc domain.MealLogService, log *logger.Logger, opts ...Option) *Finalizer {
	f := &Finalizer{svc: svc, log: log, name: "Meal"}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Build aggregates per-dish nutrition and ingredient provenance into a
// meal record: for each dish, every assignment whose owning step
// carries the dish's tag, plus the dish's fixed per-serving nutrition
// scaled by servings. Pure; does not submit.
func (f *Finalizer) Build(deck []domain.Step, progress *session.Progress, dishes []domain.Dish, rating int, notes string) domain.MealRecord {
	record := domain.MealRecord{
		Name:        f.name,
		CompletedAt: time.Now(),
		Rating:      rating,
		Notes:       notes,
	}

	for _, dish := range dishes {
		dr := domain.DishRecord{
			DishID:    dish.ID,
			Name:      dish.Name,
			Nutrition: dish.PerServing.Scale(dish.Servings),
		}
		for _, step := range deck {
			if step.Dish != dish.ID {
				continue
			}
			dr.Ingredients = append(dr.Ingredients, progress.Assignments(step.ID)...)
		}
		record.Dishes = append(record.Dishes, dr)
		record.Total = record.Total.Add(dr.Nutrition)
	}
	return record
}

// Finalize builds the meal record and submits it. Returns the record
// and the service acknowledgement; a submission error is surfaced as a
// reportable error with no retry.
func (f *Finalizer) Finalize(ctx context.Context, deck []domain.Step, progress *session.Progress, dishes []domain.Dish, rating int, notes string) (domain.MealRecord, domain.MealResult, error) {
	f.mu.Lock()
	if f.done {
		f.mu.Unlock()
		return domain.MealRecord{}, domain.MealResult{}, domain.ErrAlreadyFinalized
	}
	f.mu.Unlock()

	record := f.Build(deck, progress, dishes, rating, notes)

	result, err := f.svc.CompleteMeal(ctx, record)
	metrics.RecordMealFinalized(err == nil)
	if err != nil {
		return record, domain.MealResult{}, fmt.Errorf("submitting meal: %w", err)
	}

	f.mu.Lock()
	f.done = true
	f.mu.Unlock()

	f.log.Info("meal logged: %q, %d dishes, %.0f kcal", record.Name, len(record.Dishes), record.Total.Calories)
	return record, result, nil
}
