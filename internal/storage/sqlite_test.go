package storage

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/hammamikhairi/sousdeck/internal/domain"
	"github.com/hammamikhairi/sousdeck/internal/logger"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	log := logger.New(logger.LevelOff, nil)
	s, err := Open(context.Background(), filepath.Join(t.TempDir(), "sousdeck.db"), log)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestPantryRoundTrip(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	seed := []domain.PantryItem{
		{ProductID: "prod-1", Name: "butter", CurrentWeightGrams: 250},
		{ProductID: "prod-2", Name: "honey", CurrentWeightGrams: 340},
	}
	if err := s.Seed(ctx, seed); err != nil {
		t.Fatalf("seed: %v", err)
	}

	items, err := s.ListInventory(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(items) != 2 {
		t.Fatalf("expected 2 items, got %d", len(items))
	}

	// Seeding again must not duplicate.
	if err := s.Seed(ctx, seed); err != nil {
		t.Fatalf("re-seed: %v", err)
	}
	items, _ = s.ListInventory(ctx)
	if len(items) != 2 {
		t.Fatalf("re-seed duplicated items: %d", len(items))
	}
}

func TestDeduct(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	item, err := s.AddItem(ctx, domain.PantryItem{ProductID: "prod-1", Name: "honey", CurrentWeightGrams: 100})
	if err != nil {
		t.Fatalf("add: %v", err)
	}

	if err := s.Deduct(ctx, item.ID, 30); err != nil {
		t.Fatalf("deduct: %v", err)
	}
	items, _ := s.ListInventory(ctx)
	if items[0].CurrentWeightGrams != 70 {
		t.Fatalf("weight = %.0f, want 70", items[0].CurrentWeightGrams)
	}

	// Deducting past zero floors at zero.
	if err := s.Deduct(ctx, item.ID, 500); err != nil {
		t.Fatalf("deduct past zero: %v", err)
	}
	items, _ = s.ListInventory(ctx)
	if items[0].CurrentWeightGrams != 0 {
		t.Fatalf("weight = %.0f, want 0", items[0].CurrentWeightGrams)
	}

	if err := s.Deduct(ctx, "missing", 10); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("unknown item: got %v, want ErrNotFound", err)
	}
}

func TestMealLogRoundTrip(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	if _, err := s.LastMeal(ctx); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("empty log: got %v, want ErrNotFound", err)
	}

	record := domain.MealRecord{
		Name:   "Sunday Roast Chicken Dinner",
		Rating: 5,
		Notes:  "rested the full ten minutes",
		Dishes: []domain.DishRecord{{DishID: "roast-chicken", Name: "Herb-Roasted Chicken",
			Nutrition: domain.Nutrition{Calories: 1680}}},
		Total: domain.Nutrition{Calories: 1680, ProteinG: 152},
	}

	result, err := s.CompleteMeal(ctx, record)
	if err != nil {
		t.Fatalf("complete meal: %v", err)
	}
	if result.NutritionAdded.Calories != 1680 {
		t.Fatalf("nutrition added = %.0f, want 1680", result.NutritionAdded.Calories)
	}

	got, err := s.LastMeal(ctx)
	if err != nil {
		t.Fatalf("last meal: %v", err)
	}
	if got.Name != record.Name || len(got.Dishes) != 1 || got.Total.ProteinG != 152 {
		t.Fatalf("round trip mismatch: %+v", got)
	}
}
