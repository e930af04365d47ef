package nutrition

import (
	"testing"

	"github.com/brunosouza-justauto/eng-sub005/internal/storage"
	"github.com/google/uuid"
)

func TestDetectMissedMeals_DedupesByName(t *testing.T) {
	meals := []storage.Meal{
		{ID: uuid.New(), Name: "Breakfast", TimeSuggestion: strPtr("08:00"), OrderIndex: 0},
		{ID: uuid.New(), Name: "Breakfast", TimeSuggestion: strPtr("08:30"), OrderIndex: 1},
	}

	missed := DetectMissedMeals(meals, nil, nil, "09:00")

	if len(missed) != 1 {
		t.Fatalf("expected exactly 1 missed meal, got %d", len(missed))
	}
	if missed[0].Name != "Breakfast" {
		t.Errorf("expected Breakfast, got %s", missed[0].Name)
	}
}

func TestDetectMissedMeals_LoggedMealNotMissed(t *testing.T) {
	lunchID := uuid.New()
	meals := []storage.Meal{
		{ID: lunchID, Name: "Lunch", TimeSuggestion: strPtr("12:00"), OrderIndex: 0},
	}

	before := DetectMissedMeals(meals, nil, nil, "12:30")
	if len(before) != 1 || before[0].Name != "Lunch" {
		t.Fatalf("expected Lunch missed before logging, got %+v", before)
	}

	after := DetectMissedMeals(meals, nil, map[uuid.UUID]bool{lunchID: true}, "12:30")
	if len(after) != 0 {
		t.Errorf("expected no missed meals after logging, got %+v", after)
	}
}

func TestDetectMissedMeals_FutureMealNotMissed(t *testing.T) {
	meals := []storage.Meal{
		{ID: uuid.New(), Name: "Dinner", TimeSuggestion: strPtr("19:00"), OrderIndex: 0},
	}

	if missed := DetectMissedMeals(meals, nil, nil, "18:59"); len(missed) != 0 {
		t.Errorf("expected no missed meals before suggested time, got %+v", missed)
	}
	// Strictly less than now: a meal at exactly now is not yet missed.
	if missed := DetectMissedMeals(meals, nil, nil, "19:00"); len(missed) != 0 {
		t.Errorf("expected no missed meals at exactly the suggested time, got %+v", missed)
	}
}

func TestDetectMissedMeals_SkipsMealsWithoutTime(t *testing.T) {
	meals := []storage.Meal{
		{ID: uuid.New(), Name: "Flexible Snack", OrderIndex: 0},
	}

	if missed := DetectMissedMeals(meals, nil, nil, "23:59"); len(missed) != 0 {
		t.Errorf("meals without a time suggestion can never be missed, got %+v", missed)
	}
}

func TestDetectMissedMeals_RespectsDayType(t *testing.T) {
	meals := []storage.Meal{
		{ID: uuid.New(), Name: "Training Lunch", DayType: strPtr("Training"), TimeSuggestion: strPtr("12:00"), OrderIndex: 0},
		{ID: uuid.New(), Name: "Rest Lunch", DayType: strPtr("Rest"), TimeSuggestion: strPtr("12:00"), OrderIndex: 0},
	}

	missed := DetectMissedMeals(meals, strPtr("Training"), nil, "13:00")

	if len(missed) != 1 || missed[0].Name != "Training Lunch" {
		t.Errorf("expected only Training Lunch, got %+v", missed)
	}
}

func TestDetectMissedMeals_AcceptsSecondsInNow(t *testing.T) {
	meals := []storage.Meal{
		{ID: uuid.New(), Name: "Lunch", TimeSuggestion: strPtr("12:00"), OrderIndex: 0},
	}

	missed := DetectMissedMeals(meals, nil, nil, "12:30:45")

	if len(missed) != 1 {
		t.Errorf("expected 1 missed meal with HH:MM:SS now, got %d", len(missed))
	}
}

func TestDetectMissedMeals_Idempotent(t *testing.T) {
	meals := []storage.Meal{
		{ID: uuid.New(), Name: "Breakfast", TimeSuggestion: strPtr("08:00"), OrderIndex: 0},
		{ID: uuid.New(), Name: "Lunch", TimeSuggestion: strPtr("12:00"), OrderIndex: 1},
	}

	first := DetectMissedMeals(meals, nil, nil, "13:00")
	second := DetectMissedMeals(meals, nil, nil, "13:00")

	if len(first) != len(second) {
		t.Fatalf("repeated detection diverged: %d vs %d", len(first), len(second))
	}
	for i := range first {
		if first[i] != second[i] {
			t.Errorf("entry %d diverged: %+v vs %+v", i, first[i], second[i])
		}
	}
}
