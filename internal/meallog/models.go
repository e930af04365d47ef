package meallog

import (
	"fmt"
	"strings"
	"time"

	"github.com/brunosouza-justauto/eng-sub005/internal/nutrition"
	"github.com/google/uuid"
)

// CustomFoodIDPrefix marks a food line whose FoodItem has not been
// persisted yet. The commit flow creates the row before logging.
const CustomFoodIDPrefix = "custom-"

// DayTypeCustom is the sentinel requesting a caller-supplied day-type label.
const DayTypeCustom = "custom"

// LogMealRequest — request to log a planned meal
type LogMealRequest struct {
	MealID uuid.UUID `json:"meal_id"`
	Date   string    `json:"date"` // YYYY-MM-DD
}

func (r *LogMealRequest) Validate() error {
	if r.MealID == uuid.Nil {
		return fmt.Errorf("validation failed: meal_id is required")
	}
	if !validDate(r.Date) {
		return fmt.Errorf("validation failed: date must be YYYY-MM-DD")
	}
	return nil
}

// ExtraFoodLine — one food line of an extra-meal form.
// FoodItemID is either a catalog UUID or a "custom-" sentinel; sentinel
// lines carry an inline food definition. Explicit macro fields override
// per-100g math and are mandatory for non-weight units.
type ExtraFoodLine struct {
	FoodItemID string  `json:"food_item_id"`
	Quantity   float64 `json:"quantity"`
	Unit       string  `json:"unit"`

	// inline definition, used for "custom-" sentinel lines
	Name            string   `json:"name,omitempty"`
	CaloriesPer100g float64  `json:"calories_per_100g,omitempty"`
	ProteinPer100g  float64  `json:"protein_per_100g,omitempty"`
	CarbsPer100g    float64  `json:"carbs_per_100g,omitempty"`
	FatPer100g      float64  `json:"fat_per_100g,omitempty"`
	ServingSizeG    *float64 `json:"serving_size_g,omitempty"`

	// explicit macro overrides for this line
	Calories *float64 `json:"calories,omitempty"`
	ProteinG *float64 `json:"protein_g,omitempty"`
	CarbsG   *float64 `json:"carbs_g,omitempty"`
	FatG     *float64 `json:"fat_g,omitempty"`
}

func (l *ExtraFoodLine) IsCustom() bool {
	return strings.HasPrefix(l.FoodItemID, CustomFoodIDPrefix)
}

func (l *ExtraFoodLine) HasOverrides() bool {
	return l.Calories != nil || l.ProteinG != nil || l.CarbsG != nil || l.FatG != nil
}

func (l *ExtraFoodLine) HasAllOverrides() bool {
	return l.Calories != nil && l.ProteinG != nil && l.CarbsG != nil && l.FatG != nil
}

// LogExtraMealRequest — request to log an ad hoc meal
type LogExtraMealRequest struct {
	Date         string          `json:"date"` // YYYY-MM-DD
	Name         string          `json:"name"`
	DayType      *string         `json:"day_type,omitempty"`
	DayTypeLabel *string         `json:"day_type_label,omitempty"` // required when day_type == "custom"
	Notes        *string         `json:"notes,omitempty"`
	Foods        []ExtraFoodLine `json:"foods"`
}

func (r *LogExtraMealRequest) Validate() error {
	if strings.TrimSpace(r.Name) == "" {
		return fmt.Errorf("validation failed: name is required")
	}
	if !validDate(r.Date) {
		return fmt.Errorf("validation failed: date must be YYYY-MM-DD")
	}
	if len(r.Foods) == 0 {
		return fmt.Errorf("validation failed: at least one food line is required")
	}
	if r.DayType != nil && *r.DayType == DayTypeCustom {
		if r.DayTypeLabel == nil || strings.TrimSpace(*r.DayTypeLabel) == "" {
			return fmt.Errorf("validation failed: day_type_label is required for custom day_type")
		}
	}
	for i, line := range r.Foods {
		if line.Quantity <= 0 {
			return fmt.Errorf("validation failed: foods[%d]: quantity must be positive", i)
		}
		if line.Unit == "" {
			return fmt.Errorf("validation failed: foods[%d]: unit is required", i)
		}
		if line.IsCustom() && strings.TrimSpace(line.Name) == "" {
			return fmt.Errorf("validation failed: foods[%d]: name is required for custom food", i)
		}
		// macros for non-weight units cannot be derived from grams
		if !nutrition.IsWeightUnit(line.Unit) && !line.HasAllOverrides() {
			return fmt.Errorf("validation failed: foods[%d]: explicit calories/protein_g/carbs_g/fat_g are required for unit %q", i, line.Unit)
		}
	}
	return nil
}

// EffectiveDayType returns the day-type to record on the log.
func (r *LogExtraMealRequest) EffectiveDayType() *string {
	if r.DayType == nil {
		return nil
	}
	if *r.DayType == DayTypeCustom {
		label := strings.TrimSpace(*r.DayTypeLabel)
		return &label
	}
	return r.DayType
}

// LoggedFoodDTO — a persisted extra-meal food line with computed macros
type LoggedFoodDTO struct {
	ID         uuid.UUID        `json:"id"`
	FoodItemID *uuid.UUID       `json:"food_item_id,omitempty"`
	FoodName   *string          `json:"food_name,omitempty"`
	Quantity   float64          `json:"quantity"`
	Unit       string           `json:"unit"`
	Macros     nutrition.Macros `json:"macros"`
}

// LoggedMealDTO — a logging event with computed totals
type LoggedMealDTO struct {
	ID          uuid.UUID        `json:"id"`
	MealID      *uuid.UUID       `json:"meal_id,omitempty"`
	Name        string           `json:"name"`
	Date        string           `json:"date"`
	Time        string           `json:"time"`
	DayType     *string          `json:"day_type,omitempty"`
	IsExtraMeal bool             `json:"is_extra_meal"`
	Notes       *string          `json:"notes,omitempty"`
	Foods       []LoggedFoodDTO  `json:"foods,omitempty"`
	Totals      nutrition.Macros `json:"totals"`
}

// PlannedMealStatusDTO — a selected plan meal with its logged state
type PlannedMealStatusDTO struct {
	MealID         uuid.UUID        `json:"meal_id"`
	Name           string           `json:"name"`
	DayType        *string          `json:"day_type,omitempty"`
	TimeSuggestion *string          `json:"time_suggestion,omitempty"`
	OrderIndex     int              `json:"order_index"`
	Totals         nutrition.Macros `json:"totals"`
	Logged         bool             `json:"logged"`
	LogID          *uuid.UUID       `json:"log_id,omitempty"`
}

// PlanTargetsDTO — the plan author's daily targets
type PlanTargetsDTO struct {
	TotalCalories int     `json:"total_calories"`
	ProteinGrams  float64 `json:"protein_grams"`
	CarbGrams     float64 `json:"carb_grams"`
	FatGrams      float64 `json:"fat_grams"`
}

// DailyLogResponse — response for GET /v1/logs/daily
type DailyLogResponse struct {
	Date           string                 `json:"date"`
	DayType        *string                `json:"day_type,omitempty"`
	FellBackToAll  bool                   `json:"fell_back_to_all"`
	PlannedMeals   []PlannedMealStatusDTO `json:"planned_meals"`
	LoggedMeals    []LoggedMealDTO        `json:"logged_meals"`
	Consumed       nutrition.Macros       `json:"consumed"`
	PlannedTargets nutrition.Macros       `json:"planned_targets"`
	PlanTargets    *PlanTargetsDTO        `json:"plan_targets,omitempty"`
}

// MissedMealsResponse — response for GET /v1/logs/missed
type MissedMealsResponse struct {
	Date   string                 `json:"date"`
	Now    string                 `json:"now"`
	Missed []nutrition.MissedMeal `json:"missed"`
}

func validDate(s string) bool {
	_, err := time.Parse("2006-01-02", s)
	return err == nil
}

// ErrorResponse — error envelope
type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

type ErrorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}
