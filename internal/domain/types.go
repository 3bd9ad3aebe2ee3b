// Package domain defines the core types and interfaces for the session
// orchestrator. All other packages depend on domain; domain depends on
// nothing.
package domain

import "time"

// Phase splits the deck into prep work and cook work.
type Phase string

const (
	PhasePrep Phase = "prep"
	PhaseCook Phase = "cook"
)

// IngredientReq is a step's declared ingredient requirement.
type IngredientReq struct {
	Name          string
	AmountGrams   float64
	DisplayAmount string // "800 g", "2 tbsp", shown to the user
	Required      bool
}

// Step is one instruction card in the deck. The ID is the only stable
// key: it never changes across deck rebuilds. DeckIndex is assigned at
// build time and MUST NOT be used to correlate session state across
// rebuilds.
type Step struct {
	ID              string
	Dish            string // dish tag, matches Dish.ID
	Phase           Phase
	Name            string
	Emoji           string
	Instruction     string
	DurationSeconds int // 0 means "no timer"
	Ingredients     []IngredientReq
	Sequence        int // cook-phase ordering, ascending
	DeckIndex       int
}

// TimerName returns the display name used for a countdown timer owned
// by this step.
func (s Step) TimerName() string {
	if s.Emoji == "" {
		return s.Name
	}
	return s.Emoji + " " + s.Name
}

// RequiredIngredients returns the subset of requirements marked
// required, in declaration order.
func (s Step) RequiredIngredients() []IngredientReq {
	var out []IngredientReq
	for _, r := range s.Ingredients {
		if r.Required {
			out = append(out, r)
		}
	}
	return out
}

// TimerStatus is the lifecycle of a countdown timer as reported by the
// timer service.
type TimerStatus string

const (
	TimerPending TimerStatus = "pending"
	TimerRunning TimerStatus = "running"
	TimerDone    TimerStatus = "done"
	TimerStopped TimerStatus = "stopped"
)

// Timer is the registry's view of one service-side countdown.
// RemainingSeconds is never negative; a timer reaching zero transitions
// to done and stays visible until the user dismisses it.
type Timer struct {
	ID               string
	Name             string
	DurationSeconds  int
	RemainingSeconds int
	Status           TimerStatus
}

// CookState is the probe's discrete cook-state classification.
type CookState string

const (
	CookStateIdle            CookState = "idle"
	CookStateSearing         CookState = "searing"
	CookStateCooking         CookState = "cooking"
	CookStateReadyForResting CookState = "ready_for_resting"
	CookStateFinished        CookState = "finished"
)

// ProbeReading is one telemetry snapshot. It is replaced wholesale on
// every poll; no history is retained.
type ProbeReading struct {
	Connected        bool
	InternalTempF    float64
	TargetTempF      float64
	RemainingSeconds int
	HasEstimate      bool // false when the probe reports no time estimate
	State            CookState
}

// PantryItem is one inventory entry from the pantry service.
type PantryItem struct {
	ID                 string
	ProductID          string
	Name               string
	CurrentWeightGrams float64
	CreatedAt          time.Time
}

// IngredientAssignment links a pantry item to the step that consumed
// it. Immutable once created; one step may accumulate several.
type IngredientAssignment struct {
	ID           string
	StepID       string
	PantryItemID string
	ProductID    string
	AmountGrams  float64
}

// Nutrition is a fixed per-serving nutrition block.
type Nutrition struct {
	Calories float64
	ProteinG float64
	CarbsG   float64
	FatG     float64
}

// Add returns the component-wise sum of two nutrition blocks.
func (n Nutrition) Add(o Nutrition) Nutrition {
	return Nutrition{
		Calories: n.Calories + o.Calories,
		ProteinG: n.ProteinG + o.ProteinG,
		CarbsG:   n.CarbsG + o.CarbsG,
		FatG:     n.FatG + o.FatG,
	}
}

// Scale returns the nutrition block multiplied by a serving count.
func (n Nutrition) Scale(servings int) Nutrition {
	f := float64(servings)
	return Nutrition{
		Calories: n.Calories * f,
		ProteinG: n.ProteinG * f,
		CarbsG:   n.CarbsG * f,
		FatG:     n.FatG * f,
	}
}

// Dish is one plate component of the meal with fixed per-serving
// nutrition.
type Dish struct {
	ID         string
	Name       string
	Servings   int
	PerServing Nutrition
}

// DishRecord is the finalized per-dish slice of a meal: its nutrition
// total plus the ingredient provenance collected during the session.
type DishRecord struct {
	DishID      string
	Name        string
	Nutrition   Nutrition
	Ingredients []IngredientAssignment
}

// MealRecord is the finished meal submitted to the meal-logging
// service.
type MealRecord struct {
	Name        string
	CompletedAt time.Time
	Rating      int // 1-5, 0 when unrated
	Notes       string
	Dishes      []DishRecord
	Total       Nutrition
}

// MealResult is the meal-logging service's acknowledgement.
type MealResult struct {
	NutritionAdded Nutrition
}
