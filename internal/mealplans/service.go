package mealplans

import (
	"context"
	"fmt"

	"github.com/brunosouza-justauto/eng-sub005/internal/nutrition"
	"github.com/brunosouza-justauto/eng-sub005/internal/storage"
)

type Service struct {
	plansStorage storage.NutritionPlansStorage
}

func NewService(plansStorage storage.NutritionPlansStorage) *Service {
	return &Service{plansStorage: plansStorage}
}

// GetActive returns the user's active plan with computed per-meal totals.
func (s *Service) GetActive(ctx context.Context, userID string) (*NutritionPlanDTO, error) {
	plan, meals, found, err := s.plansStorage.GetActivePlan(ctx, userID)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, fmt.Errorf("plan_not_found")
	}

	dto := toPlanDTO(plan, meals)
	return &dto, nil
}

// Replace deactivates the current plan and installs a new one.
func (s *Service) Replace(ctx context.Context, userID string, req *ReplacePlanRequest) (*NutritionPlanDTO, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	upsert := storage.PlanUpsert{
		Name:          req.Name,
		TotalCalories: req.TotalCalories,
		ProteinGrams:  req.ProteinGrams,
		CarbGrams:     req.CarbGrams,
		FatGrams:      req.FatGrams,
		Meals:         make([]storage.MealUpsert, len(req.Meals)),
	}
	for i, meal := range req.Meals {
		mu := storage.MealUpsert{
			Name:           meal.Name,
			DayType:        meal.DayType,
			TimeSuggestion: meal.TimeSuggestion,
			OrderIndex:     meal.OrderIndex,
			Foods:          make([]storage.MealFoodUpsert, len(meal.Foods)),
		}
		for j, food := range meal.Foods {
			mu.Foods[j] = storage.MealFoodUpsert{
				FoodItemID: food.FoodItemID,
				Quantity:   food.Quantity,
				Unit:       food.Unit,
			}
		}
		upsert.Meals[i] = mu
	}

	plan, meals, err := s.plansStorage.ReplaceActivePlan(ctx, userID, upsert)
	if err != nil {
		return nil, err
	}

	dto := toPlanDTO(plan, meals)
	return &dto, nil
}

// MealsForDay returns the active plan's meals for a requested day type.
// An unknown day type falls back to all meals rather than an empty screen.
func (s *Service) MealsForDay(ctx context.Context, userID string, requestedDayType string) (*MealsForDayResponse, error) {
	_, meals, found, err := s.plansStorage.GetActivePlan(ctx, userID)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, fmt.Errorf("plan_not_found")
	}

	var dayType *string
	if requestedDayType != "" {
		dayType = &requestedDayType
	}
	selection := nutrition.SelectMeals(meals, dayType)

	dtos := make([]MealDTO, len(selection.Meals))
	for i, meal := range selection.Meals {
		dtos[i] = toMealDTO(meal)
	}

	return &MealsForDayResponse{
		DayType:       dayType,
		FellBackToAll: selection.FellBackToAll,
		Meals:         dtos,
	}, nil
}

func toPlanDTO(plan storage.NutritionPlan, meals []storage.Meal) NutritionPlanDTO {
	mealDTOs := make([]MealDTO, len(meals))
	for i, meal := range meals {
		mealDTOs[i] = toMealDTO(meal)
	}

	return NutritionPlanDTO{
		ID:            plan.ID,
		Name:          plan.Name,
		TotalCalories: plan.TotalCalories,
		ProteinGrams:  plan.ProteinGrams,
		CarbGrams:     plan.CarbGrams,
		FatGrams:      plan.FatGrams,
		IsActive:      plan.IsActive,
		DayTypes:      nutrition.PlanDayTypes(meals),
		Meals:         mealDTOs,
		CreatedAt:     plan.CreatedAt,
		UpdatedAt:     plan.UpdatedAt,
	}
}

func toMealDTO(meal storage.Meal) MealDTO {
	foods := make([]MealFoodDTO, len(meal.Foods))
	for i, mf := range meal.Foods {
		foodDTO := MealFoodDTO{
			ID:         mf.ID,
			FoodItemID: mf.FoodItemID,
			Quantity:   mf.Quantity,
			Unit:       mf.Unit,
		}
		if mf.FoodItem != nil {
			foodDTO.FoodName = &mf.FoodItem.Name
			foodDTO.Macros = nutrition.Calculate(*mf.FoodItem, mf.Quantity, mf.Unit)
		}
		foods[i] = foodDTO
	}

	return MealDTO{
		ID:             meal.ID,
		Name:           meal.Name,
		DayType:        meal.DayType,
		TimeSuggestion: meal.TimeSuggestion,
		OrderIndex:     meal.OrderIndex,
		Foods:          foods,
		Totals:         nutrition.MealTotals(meal),
	}
}
