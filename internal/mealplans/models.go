package mealplans

import (
	"fmt"
	"time"

	"github.com/brunosouza-justauto/eng-sub005/internal/nutrition"
	"github.com/google/uuid"
)

type NutritionPlanDTO struct {
	ID            uuid.UUID `json:"id"`
	Name          string    `json:"name"`
	TotalCalories int       `json:"total_calories"`
	ProteinGrams  float64   `json:"protein_grams"`
	CarbGrams     float64   `json:"carb_grams"`
	FatGrams      float64   `json:"fat_grams"`
	IsActive      bool      `json:"is_active"`
	DayTypes      []string  `json:"day_types"`
	Meals         []MealDTO `json:"meals"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

type MealDTO struct {
	ID             uuid.UUID        `json:"id"`
	Name           string           `json:"name"`
	DayType        *string          `json:"day_type,omitempty"`
	TimeSuggestion *string          `json:"time_suggestion,omitempty"`
	OrderIndex     int              `json:"order_index"`
	Foods          []MealFoodDTO    `json:"foods"`
	Totals         nutrition.Macros `json:"totals"`
}

type MealFoodDTO struct {
	ID         uuid.UUID        `json:"id"`
	FoodItemID uuid.UUID        `json:"food_item_id"`
	FoodName   *string          `json:"food_name,omitempty"`
	Quantity   float64          `json:"quantity"`
	Unit       string           `json:"unit"`
	Macros     nutrition.Macros `json:"macros"`
}

// GetPlanResponse — response for GET /v1/plans/active
type GetPlanResponse struct {
	Plan *NutritionPlanDTO `json:"plan"`
}

// MealsForDayResponse — response for GET /v1/plans/meals
type MealsForDayResponse struct {
	DayType       *string   `json:"day_type,omitempty"`
	FellBackToAll bool      `json:"fell_back_to_all"`
	Meals         []MealDTO `json:"meals"`
}

// ReplacePlanRequest — request for PUT /v1/plans/replace
type ReplacePlanRequest struct {
	Name          string      `json:"name"`
	TotalCalories int         `json:"total_calories"`
	ProteinGrams  float64     `json:"protein_grams"`
	CarbGrams     float64     `json:"carb_grams"`
	FatGrams      float64     `json:"fat_grams"`
	Meals         []MealInput `json:"meals"`
}

type MealInput struct {
	Name           string          `json:"name"`
	DayType        *string         `json:"day_type,omitempty"`
	TimeSuggestion *string         `json:"time_suggestion,omitempty"`
	OrderIndex     int             `json:"order_index"`
	Foods          []MealFoodInput `json:"foods"`
}

type MealFoodInput struct {
	FoodItemID uuid.UUID `json:"food_item_id"`
	Quantity   float64   `json:"quantity"`
	Unit       string    `json:"unit"`
}

func (r *ReplacePlanRequest) Validate() error {
	if len(r.Name) < 1 || len(r.Name) > 200 {
		return fmt.Errorf("validation failed: name must be between 1 and 200 characters")
	}
	if r.TotalCalories < 0 || r.TotalCalories > 20000 {
		return fmt.Errorf("validation failed: total_calories must be 0-20000")
	}
	if r.ProteinGrams < 0 || r.ProteinGrams > 2000 {
		return fmt.Errorf("validation failed: protein_grams must be 0-2000")
	}
	if r.CarbGrams < 0 || r.CarbGrams > 2000 {
		return fmt.Errorf("validation failed: carb_grams must be 0-2000")
	}
	if r.FatGrams < 0 || r.FatGrams > 2000 {
		return fmt.Errorf("validation failed: fat_grams must be 0-2000")
	}
	if len(r.Meals) > 20 {
		return fmt.Errorf("validation failed: meals cannot exceed 20")
	}
	for i, meal := range r.Meals {
		if len(meal.Name) < 1 || len(meal.Name) > 200 {
			return fmt.Errorf("validation failed: meal[%d]: name must be 1-200 chars", i)
		}
		if meal.DayType != nil && *meal.DayType == "" {
			return fmt.Errorf("validation failed: meal[%d]: day_type must not be empty when set", i)
		}
		if meal.TimeSuggestion != nil && !validClock(*meal.TimeSuggestion) {
			return fmt.Errorf("validation failed: meal[%d]: time_suggestion must be HH:MM", i)
		}
		for j, food := range meal.Foods {
			if food.FoodItemID == uuid.Nil {
				return fmt.Errorf("validation failed: meal[%d].foods[%d]: food_item_id is required", i, j)
			}
			if food.Quantity <= 0 {
				return fmt.Errorf("validation failed: meal[%d].foods[%d]: quantity must be positive", i, j)
			}
			if food.Unit == "" {
				return fmt.Errorf("validation failed: meal[%d].foods[%d]: unit is required", i, j)
			}
		}
	}
	return nil
}

func validClock(s string) bool {
	if len(s) != 5 || s[2] != ':' {
		return false
	}
	for _, i := range []int{0, 1, 3, 4} {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	hh := int(s[0]-'0')*10 + int(s[1]-'0')
	mm := int(s[3]-'0')*10 + int(s[4]-'0')
	return hh <= 23 && mm <= 59
}

// ErrorResponse — error envelope
type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

type ErrorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}
