package nutrition

import (
	"testing"

	"github.com/brunosouza-justauto/eng-sub005/internal/storage"
	"github.com/google/uuid"
)

func chickenBreast() storage.FoodItem {
	return storage.FoodItem{
		ID:              uuid.New(),
		Name:            "Chicken Breast",
		CaloriesPer100g: 165,
		ProteinPer100g:  31,
		CarbsPer100g:    0,
		FatPer100g:      3.6,
		Source:          "verified",
	}
}

func TestCalculate_HundredGramsRoundTrip(t *testing.T) {
	food := chickenBreast()

	got := Calculate(food, 100, "g")

	if got.Calories != 165 {
		t.Errorf("calories: expected 165, got %d", got.Calories)
	}
	if got.Protein != 31 {
		t.Errorf("protein: expected 31, got %v", got.Protein)
	}
	if got.Carbs != 0 {
		t.Errorf("carbs: expected 0, got %v", got.Carbs)
	}
	if got.Fat != 3.6 {
		t.Errorf("fat: expected 3.6, got %v", got.Fat)
	}
}

func TestCalculate_KilogramMatchesGrams(t *testing.T) {
	food := chickenBreast()

	kg := Calculate(food, 1, "kg")
	g := Calculate(food, 1000, "g")

	if kg != g {
		t.Errorf("1kg and 1000g should be equal: %+v vs %+v", kg, g)
	}
}

func TestCalculate_ChickenBreast150g(t *testing.T) {
	food := chickenBreast()

	got := Calculate(food, 150, "g")

	if got.Calories != 248 {
		t.Errorf("calories: expected 248, got %d", got.Calories)
	}
	if got.Protein != 46.5 {
		t.Errorf("protein: expected 46.5, got %v", got.Protein)
	}
	if got.Fat != 5.4 {
		t.Errorf("fat: expected 5.4, got %v", got.Fat)
	}
}

func TestCalculate_Deterministic(t *testing.T) {
	food := chickenBreast()

	first := Calculate(food, 137, "g")
	for i := 0; i < 10; i++ {
		if got := Calculate(food, 137, "g"); got != first {
			t.Fatalf("call %d: expected %+v, got %+v", i, first, got)
		}
	}
}

func TestCalculate_ServingUsesServingSize(t *testing.T) {
	food := chickenBreast()
	size := 150.0
	food.ServingSizeG = &size

	got := Calculate(food, 1, "serving")
	want := Calculate(food, 150, "g")

	if got != want {
		t.Errorf("1 serving of 150g should equal 150g: %+v vs %+v", got, want)
	}
}

func TestCalculate_ServingDefaultsTo100g(t *testing.T) {
	food := chickenBreast()

	got := Calculate(food, 2, UnitServing)
	want := Calculate(food, 200, "g")

	if got != want {
		t.Errorf("2 servings without serving size should equal 200g: %+v vs %+v", got, want)
	}
}

func TestCalculate_UnknownUnitTreatedAsGrams(t *testing.T) {
	food := chickenBreast()

	got := Calculate(food, 100, "handful")
	want := Calculate(food, 100, "g")

	if got != want {
		t.Errorf("unknown unit should fall back to grams: %+v vs %+v", got, want)
	}
}

func TestCalculate_CaseInsensitiveUnits(t *testing.T) {
	food := chickenBreast()

	if got, want := Calculate(food, 2, "OZ"), Calculate(food, 2, "oz"); got != want {
		t.Errorf("unit matching should be case-insensitive: %+v vs %+v", got, want)
	}
}

func TestCalculate_NonPositiveQuantityYieldsZero(t *testing.T) {
	food := chickenBreast()

	if got := Calculate(food, 0, "g"); got != (Macros{}) {
		t.Errorf("zero quantity: expected zero macros, got %+v", got)
	}
	if got := Calculate(food, -10, "g"); got != (Macros{}) {
		t.Errorf("negative quantity: expected zero macros, got %+v", got)
	}
}

func TestCalculate_MissingMacroFieldsYieldZero(t *testing.T) {
	food := storage.FoodItem{Name: "Water", Source: "verified"}

	if got := Calculate(food, 500, "ml"); got != (Macros{}) {
		t.Errorf("expected zero macros for empty profile, got %+v", got)
	}
}

func TestMealTotals_SkipsMissingFoodItems(t *testing.T) {
	food := chickenBreast()
	meal := storage.Meal{
		Name: "Lunch",
		Foods: []storage.MealFood{
			{FoodItem: &food, Quantity: 150, Unit: "g"},
			{Quantity: 100, Unit: "g"}, // food item deleted after authoring
		},
	}

	got := MealTotals(meal)

	if got.Calories != 248 {
		t.Errorf("expected 248 calories, got %d", got.Calories)
	}
}

func TestLogFoodMacros_OverridesWin(t *testing.T) {
	food := chickenBreast()
	cal := 320.0
	protein := 12.0
	carbs := 40.0
	fat := 10.5
	line := storage.MealLogFood{
		FoodItem: &food,
		Quantity: 1,
		Unit:     "serving",
		Calories: &cal,
		ProteinG: &protein,
		CarbsG:   &carbs,
		FatG:     &fat,
	}

	got := LogFoodMacros(line)

	want := Macros{Calories: 320, Protein: 12, Carbs: 40, Fat: 10.5}
	if got != want {
		t.Errorf("expected %+v, got %+v", want, got)
	}
}

func TestLogFoodMacros_FallsBackToCalculation(t *testing.T) {
	food := chickenBreast()
	line := storage.MealLogFood{FoodItem: &food, Quantity: 150, Unit: "g"}

	got := LogFoodMacros(line)

	if got.Calories != 248 || got.Protein != 46.5 {
		t.Errorf("expected calculated macros, got %+v", got)
	}
}

func TestLogFoodMacros_UnlinkedLineWithoutOverridesIsZero(t *testing.T) {
	line := storage.MealLogFood{Quantity: 100, Unit: "g"}

	if got := LogFoodMacros(line); got != (Macros{}) {
		t.Errorf("expected zero macros, got %+v", got)
	}
}

func TestMacros_Add(t *testing.T) {
	a := Macros{Calories: 300, Protein: 20, Carbs: 30, Fat: 10}
	b := Macros{Calories: 500, Protein: 40, Carbs: 50, Fat: 20}

	got := a.Add(b)

	want := Macros{Calories: 800, Protein: 60, Carbs: 80, Fat: 30}
	if got != want {
		t.Errorf("expected %+v, got %+v", want, got)
	}
}
