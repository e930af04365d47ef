package nutrition

import (
	"math"

	"github.com/brunosouza-justauto/eng-sub005/internal/storage"
)

// Macros holds absolute nutrition values for one serving or one day.
// Calories are whole kcal; protein/carbs/fat are grams with one decimal.
type Macros struct {
	Calories int     `json:"calories"`
	Protein  float64 `json:"protein"`
	Carbs    float64 `json:"carbs"`
	Fat      float64 `json:"fat"`
}

// Add returns the field-wise sum of two Macros values.
func (m Macros) Add(other Macros) Macros {
	return Macros{
		Calories: m.Calories + other.Calories,
		Protein:  round1(m.Protein + other.Protein),
		Carbs:    round1(m.Carbs + other.Carbs),
		Fat:      round1(m.Fat + other.Fat),
	}
}

// Calculate converts a food item's per-100g profile plus a user-entered
// quantity/unit into absolute macro values. Pure: no errors, no side effects.
// Calories round to whole kcal and the gram macros to one decimal before
// any aggregation.
func Calculate(item storage.FoodItem, quantity float64, unit string) Macros {
	if quantity <= 0 {
		return Macros{}
	}

	grams := ToGrams(quantity, unit, item.ServingSizeG)
	multiplier := grams / 100

	return Macros{
		Calories: int(math.Round(item.CaloriesPer100g * multiplier)),
		Protein:  round1(item.ProteinPer100g * multiplier),
		Carbs:    round1(item.CarbsPer100g * multiplier),
		Fat:      round1(item.FatPer100g * multiplier),
	}
}

// MealTotals sums calculated nutrition over a meal's food lines. Lines whose
// referenced food item is missing contribute zero.
func MealTotals(meal storage.Meal) Macros {
	var total Macros
	for _, f := range meal.Foods {
		if f.FoodItem == nil {
			continue
		}
		total = total.Add(Calculate(*f.FoodItem, f.Quantity, f.Unit))
	}
	return total
}

// LogFoodMacros returns nutrition for one logged food line. Explicit macro
// overrides, when present, win over the per-100g calculation; they are the
// only source of truth for non-weight units.
func LogFoodMacros(f storage.MealLogFood) Macros {
	if f.Calories != nil || f.ProteinG != nil || f.CarbsG != nil || f.FatG != nil {
		return Macros{
			Calories: int(math.Round(floatOrZero(f.Calories))),
			Protein:  round1(floatOrZero(f.ProteinG)),
			Carbs:    round1(floatOrZero(f.CarbsG)),
			Fat:      round1(floatOrZero(f.FatG)),
		}
	}

	if f.FoodItem == nil {
		return Macros{}
	}
	return Calculate(*f.FoodItem, f.Quantity, f.Unit)
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}

func floatOrZero(v *float64) float64 {
	if v == nil {
		return 0
	}
	return *v
}
