// Package catalog holds the static step template catalog and the deck
// builder. The deck is rebuilt from scratch on every probe-estimate
// update; step ids are the only stable keys across rebuilds.
package catalog

import (
	"sort"

	"github.com/hammamikhairi/sousdeck/internal/domain"
)

// ProbeStepID identifies the single step whose duration is supplied by
// the temperature probe rather than fixed by the catalog.
const ProbeStepID = "cook-roast"

// FallbackRoastSeconds is substituted for the probe-controlled step's
// duration when no probe estimate is available (45 minutes).
const FallbackRoastSeconds = 45 * 60

// MealName is the display name of the catalog's dinner.
const MealName = "Sunday Roast Chicken Dinner"

// Dishes returns the dish catalog with fixed per-serving nutrition.
func Dishes() []domain.Dish {
	return []domain.Dish{
		{
			ID: "roast-chicken", Name: "Herb-Roasted Chicken", Servings: 4,
			PerServing: domain.Nutrition{Calories: 420, ProteinG: 38, CarbsG: 2, FatG: 28},
		},
		{
			ID: "garlic-mash", Name: "Garlic Mashed Potatoes", Servings: 4,
			PerServing: domain.Nutrition{Calories: 240, ProteinG: 5, CarbsG: 33, FatG: 10},
		},
		{
			ID: "glazed-carrots", Name: "Honey-Glazed Carrots", Servings: 4,
			PerServing: domain.Nutrition{Calories: 110, ProteinG: 1, CarbsG: 21, FatG: 3},
		},
	}
}

// steps returns the full step template catalog in declaration order.
// The probe-controlled step carries roastSeconds as its duration; all
// other durations are catalog constants.
func steps(roastSeconds int) []domain.Step {
	return []domain.Step{
		{
			ID: "prep-chicken", Dish: "roast-chicken", Phase: domain.PhasePrep,
			Name: "Season the chicken", Emoji: "🐔",
			Instruction: "Pat the chicken dry inside and out. Rub softened butter under the skin, then season generously with salt, pepper, and thyme. Truss the legs.",
			Ingredients: []domain.IngredientReq{
				{Name: "whole chicken", AmountGrams: 1400, DisplayAmount: "1.4 kg", Required: true},
				{Name: "butter", AmountGrams: 40, DisplayAmount: "40 g", Required: true},
				{Name: "fresh thyme", AmountGrams: 5, DisplayAmount: "a few sprigs"},
			},
		},
		{
			ID: "prep-potatoes", Dish: "garlic-mash", Phase: domain.PhasePrep,
			Name: "Prep the potatoes", Emoji: "🥔",
			Instruction: "Peel the potatoes and cut into even 3 cm chunks. Smash the garlic cloves. Hold everything in cold salted water.",
			Ingredients: []domain.IngredientReq{
				{Name: "potatoes", AmountGrams: 800, DisplayAmount: "800 g", Required: true},
				{Name: "garlic", AmountGrams: 15, DisplayAmount: "4 cloves", Required: true},
			},
		},
		{
			ID: "prep-carrots", Dish: "glazed-carrots", Phase: domain.PhasePrep,
			Name: "Prep the carrots", Emoji: "🥕",
			Instruction: "Peel the carrots and slice on the bias, about 1 cm thick. Keep the pieces even so they glaze at the same rate.",
			Ingredients: []domain.IngredientReq{
				{Name: "carrots", AmountGrams: 450, DisplayAmount: "450 g", Required: true},
			},
		},
		{
			ID: ProbeStepID, Dish: "roast-chicken", Phase: domain.PhaseCook, Sequence: 10,
			Name: "Roast the chicken", Emoji: "🔥",
			Instruction: "Roast at 200°C with the probe in the thickest part of the breast. The probe drives this step's timer — trust it over the clock. Target 165°F internal.",
			DurationSeconds: roastSeconds,
		},
		{
			ID: "cook-boil", Dish: "garlic-mash", Phase: domain.PhaseCook, Sequence: 20,
			Name: "Boil the potatoes", Emoji: "🫧",
			Instruction: "Drain the soaking water, cover with fresh cold salted water, and bring to a boil. Simmer until a knife slides through with no resistance.",
			DurationSeconds: 20 * 60,
		},
		{
			ID: "cook-glaze", Dish: "glazed-carrots", Phase: domain.PhaseCook, Sequence: 30,
			Name: "Glaze the carrots", Emoji: "🍯",
			Instruction: "Cook the carrots in butter, honey, and a splash of water over medium heat. Uncovered for the last few minutes so the glaze clings.",
			DurationSeconds: 15 * 60,
			Ingredients: []domain.IngredientReq{
				{Name: "honey", AmountGrams: 30, DisplayAmount: "2 tbsp", Required: true},
			},
		},
		{
			ID: "cook-mash", Dish: "garlic-mash", Phase: domain.PhaseCook, Sequence: 40,
			Name: "Mash the potatoes", Emoji: "🧈",
			Instruction: "Drain well and let steam dry for a minute. Mash with warm cream and butter. Season, taste, season again.",
			Ingredients: []domain.IngredientReq{
				{Name: "heavy cream", AmountGrams: 120, DisplayAmount: "120 ml", Required: true},
				{Name: "butter", AmountGrams: 60, DisplayAmount: "60 g", Required: true},
			},
		},
		{
			ID: "cook-rest", Dish: "roast-chicken", Phase: domain.PhaseCook, Sequence: 50,
			Name: "Rest and carve", Emoji: "🔪",
			Instruction: "Tent the chicken loosely with foil and rest. Carve legs first, then breast. Don't skip the rest — the juices need time to settle.",
			DurationSeconds: 10 * 60,
		},
	}
}

// BuildDeck produces a fresh, fully-ordered deck: all prep-phase steps
// in catalog order, then all cook-phase steps by ascending sequence.
// probeEstimateSeconds <= 0 means "no estimate"; the fallback constant
// is used for the probe-controlled step. Pure and deterministic: two
// calls with different estimates yield decks with identical ids and
// order, differing only in that one step's duration.
func BuildDeck(probeEstimateSeconds int) []domain.Step {
	roast := FallbackRoastSeconds
	if probeEstimateSeconds > 0 {
		roast = probeEstimateSeconds
	}

	all := steps(roast)

	var prep, cook []domain.Step
	for _, s := range all {
		if s.Phase == domain.PhasePrep {
			prep = append(prep, s)
		} else {
			cook = append(cook, s)
		}
	}
	sort.SliceStable(cook, func(i, j int) bool { return cook[i].Sequence < cook[j].Sequence })

	deck := append(prep, cook...)
	for i := range deck {
		deck[i].DeckIndex = i
	}
	return deck
}

// FindStep returns the step with the given id in the deck, if present.
func FindStep(deck []domain.Step, id string) (domain.Step, bool) {
	for _, s := range deck {
		if s.ID == id {
			return s, true
		}
	}
	return domain.Step{}, false
}
