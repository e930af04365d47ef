package mealplans

import (
	"context"
	"testing"

	"github.com/brunosouza-justauto/eng-sub005/internal/storage"
	"github.com/brunosouza-justauto/eng-sub005/internal/storage/memory"
	"github.com/google/uuid"
)

func strPtr(s string) *string { return &s }

func seedPlan(t *testing.T, store *memory.MemoryStore, userID string) {
	t.Helper()
	ctx := context.Background()

	rice := storage.FoodItem{Name: "White Rice", CaloriesPer100g: 130, ProteinPer100g: 2.7, CarbsPer100g: 28, FatPer100g: 0.3}
	if err := store.CreateFoodItem(ctx, &rice); err != nil {
		t.Fatalf("CreateFoodItem: %v", err)
	}

	svc := NewService(store)
	_, err := svc.Replace(ctx, userID, &ReplacePlanRequest{
		Name:          "Bulk",
		TotalCalories: 3000,
		ProteinGrams:  200,
		CarbGrams:     350,
		FatGrams:      80,
		Meals: []MealInput{
			{Name: "Training Lunch", DayType: strPtr("Training"), TimeSuggestion: strPtr("12:00"), OrderIndex: 0,
				Foods: []MealFoodInput{{FoodItemID: rice.ID, Quantity: 200, Unit: "g"}}},
			{Name: "Rest Lunch", DayType: strPtr("Rest"), TimeSuggestion: strPtr("12:30"), OrderIndex: 1,
				Foods: []MealFoodInput{{FoodItemID: rice.ID, Quantity: 100, Unit: "g"}}},
		},
	})
	if err != nil {
		t.Fatalf("Replace: %v", err)
	}
}

func TestGetActivePlan(t *testing.T) {
	store := memory.New()
	svc := NewService(store)
	ctx := context.Background()

	t.Run("no plan", func(t *testing.T) {
		if _, err := svc.GetActive(ctx, "nobody"); err == nil {
			t.Fatal("expected plan_not_found")
		}
	})

	seedPlan(t, store, "user-1")

	t.Run("with plan", func(t *testing.T) {
		dto, err := svc.GetActive(ctx, "user-1")
		if err != nil {
			t.Fatalf("GetActive: %v", err)
		}
		if dto.Name != "Bulk" || !dto.IsActive {
			t.Fatalf("unexpected plan: %+v", dto)
		}
		if len(dto.DayTypes) != 2 || dto.DayTypes[0] != "Training" || dto.DayTypes[1] != "Rest" {
			t.Errorf("expected day types [Training Rest], got %v", dto.DayTypes)
		}
		if len(dto.Meals) != 2 {
			t.Fatalf("expected 2 meals, got %d", len(dto.Meals))
		}
		// 200g rice: 260 kcal, 5.4 protein, 56 carbs, 0.6 fat
		totals := dto.Meals[0].Totals
		if totals.Calories != 260 || totals.Protein != 5.4 || totals.Carbs != 56 || totals.Fat != 0.6 {
			t.Errorf("unexpected meal totals: %+v", totals)
		}
	})
}

func TestReplaceDeactivatesOldPlan(t *testing.T) {
	store := memory.New()
	svc := NewService(store)
	ctx := context.Background()

	seedPlan(t, store, "user-1")

	_, err := svc.Replace(ctx, "user-1", &ReplacePlanRequest{Name: "Cut", TotalCalories: 2000})
	if err != nil {
		t.Fatalf("Replace: %v", err)
	}

	dto, err := svc.GetActive(ctx, "user-1")
	if err != nil {
		t.Fatalf("GetActive: %v", err)
	}
	if dto.Name != "Cut" {
		t.Fatalf("expected the new plan to be active, got %s", dto.Name)
	}
}

func TestReplaceValidation(t *testing.T) {
	svc := NewService(memory.New())
	ctx := context.Background()

	cases := []struct {
		name string
		req  ReplacePlanRequest
	}{
		{"empty name", ReplacePlanRequest{}},
		{"negative calories", ReplacePlanRequest{Name: "P", TotalCalories: -1}},
		{"meal without name", ReplacePlanRequest{Name: "P", Meals: []MealInput{{}}}},
		{"bad time", ReplacePlanRequest{Name: "P", Meals: []MealInput{{Name: "M", TimeSuggestion: strPtr("noon")}}}},
		{"zero quantity", ReplacePlanRequest{Name: "P", Meals: []MealInput{{Name: "M",
			Foods: []MealFoodInput{{FoodItemID: uuid.New(), Quantity: 0, Unit: "g"}}}}}},
		{"nil food id", ReplacePlanRequest{Name: "P", Meals: []MealInput{{Name: "M",
			Foods: []MealFoodInput{{Quantity: 100, Unit: "g"}}}}}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := svc.Replace(ctx, "user-1", &tc.req); err == nil {
				t.Fatal("expected validation error")
			}
		})
	}
}

func TestMealsForDay(t *testing.T) {
	store := memory.New()
	svc := NewService(store)
	ctx := context.Background()

	seedPlan(t, store, "user-1")

	t.Run("matching day type filters", func(t *testing.T) {
		resp, err := svc.MealsForDay(ctx, "user-1", "Rest")
		if err != nil {
			t.Fatalf("MealsForDay: %v", err)
		}
		if resp.FellBackToAll {
			t.Error("expected a direct match")
		}
		if len(resp.Meals) != 1 || resp.Meals[0].Name != "Rest Lunch" {
			t.Fatalf("expected only Rest Lunch, got %+v", resp.Meals)
		}
	})

	t.Run("unknown day type falls back to all", func(t *testing.T) {
		resp, err := svc.MealsForDay(ctx, "user-1", "Refeed")
		if err != nil {
			t.Fatalf("MealsForDay: %v", err)
		}
		if !resp.FellBackToAll {
			t.Error("expected fallback flag for unknown day type")
		}
		if len(resp.Meals) != 2 {
			t.Fatalf("expected all meals, got %d", len(resp.Meals))
		}
	})

	t.Run("no day type returns all without flag", func(t *testing.T) {
		resp, err := svc.MealsForDay(ctx, "user-1", "")
		if err != nil {
			t.Fatalf("MealsForDay: %v", err)
		}
		if resp.FellBackToAll {
			t.Error("unexpected fallback flag for ungated request")
		}
		if len(resp.Meals) != 2 {
			t.Fatalf("expected all meals, got %d", len(resp.Meals))
		}
	})
}
