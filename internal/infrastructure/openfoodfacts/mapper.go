package openfoodfacts

import (
	"strconv"

	"github.com/freshtrack/backend/internal/domain"
)

// kJPerKcal converts Open Food Facts kilojoule values when no kcal is present
const kJPerKcal = 4.184

// Plausibility ceilings per 100g; values outside are treated as data errors
const (
	maxCaloriesPer100g = 10000.0
	maxGramsPer100g    = 100.0
)

// MapToNutritionData converts an Open Food Facts product record to our domain
// NutritionData model. Nutriment values are per 100g.
func MapToNutritionData(product *domain.OFFProduct) *domain.NutritionData {
	return &domain.NutritionData{
		Barcode:     product.Code,
		ProductName: product.BestName(),
		Brand:       product.Brands,
		Quantity:    product.Quantity,
		Nutrients:   extractNutrients(product.Nutriments),
		Source:      "OpenFoodFacts",
	}
}

// extractNutrients pulls the key macronutrients out of the loosely-typed
// nutriments map. Energy prefers energy-kcal_100g and falls back to
// energy-kj_100g converted to kcal.
func extractNutrients(nutriments map[string]any) domain.Nutrients {
	nutrients := domain.Nutrients{}

	if v, ok := nutrimentFloat(nutriments, "energy-kcal_100g"); ok {
		nutrients.Calories = clamp(v, maxCaloriesPer100g)
	} else if v, ok := nutrimentFloat(nutriments, "energy-kj_100g"); ok {
		nutrients.Calories = clamp(v/kJPerKcal, maxCaloriesPer100g)
	}
	if v, ok := nutrimentFloat(nutriments, "proteins_100g"); ok {
		nutrients.Protein = clamp(v, maxGramsPer100g)
	}
	if v, ok := nutrimentFloat(nutriments, "carbohydrates_100g"); ok {
		nutrients.Carbohydrates = clamp(v, maxGramsPer100g)
	}
	if v, ok := nutrimentFloat(nutriments, "fat_100g"); ok {
		nutrients.TotalFat = clamp(v, maxGramsPer100g)
	}
	return nutrients
}

// nutrimentFloat reads a numeric nutriment value; Open Food Facts serializes
// these inconsistently as numbers or numeric strings.
func nutrimentFloat(nutriments map[string]any, key string) (float64, bool) {
	raw, ok := nutriments[key]
	if !ok {
		return 0, false
	}
	switch v := raw.(type) {
	case float64:
		return v, true
	case int:
		return float64(v), true
	case string:
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f, true
		}
	}
	return 0, false
}

func clamp(v, max float64) float64 {
	if v < 0 {
		return 0
	}
	if v > max {
		return 0
	}
	return v
}
