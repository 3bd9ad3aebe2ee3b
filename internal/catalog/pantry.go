package catalog

import "github.com/hammamikhairi/sousdeck/internal/domain"

// PantrySeed returns the starting inventory for a fresh pantry
// database. Names are written the way a grocery order labels them, not
// the way the step cards do, so the ingredient matcher earns its keep.
func PantrySeed() []domain.PantryItem {
	return []domain.PantryItem{
		{ProductID: "sku-chicken-whole", Name: "Whole Chicken (free range)", CurrentWeightGrams: 1500},
		{ProductID: "sku-butter-250", Name: "Butter, unsalted", CurrentWeightGrams: 250},
		{ProductID: "sku-thyme-bunch", Name: "Thyme", CurrentWeightGrams: 25},
		{ProductID: "sku-potato-2kg", Name: "Potatoes, Yukon Gold", CurrentWeightGrams: 2000},
		{ProductID: "sku-garlic-head", Name: "Garlic", CurrentWeightGrams: 60},
		{ProductID: "sku-carrot-1kg", Name: "Carrots", CurrentWeightGrams: 1000},
		{ProductID: "sku-honey-340", Name: "Honey, wildflower", CurrentWeightGrams: 340},
		{ProductID: "sku-cream-500", Name: "Heavy Cream", CurrentWeightGrams: 500},
	}
}
