package foods

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// FoodItemDTO — DTO for a food catalog entry, macros per 100g
type FoodItemDTO struct {
	ID              uuid.UUID `json:"id"`
	Name            string    `json:"name"`
	CaloriesPer100g float64   `json:"calories_per_100g"`
	ProteinPer100g  float64   `json:"protein_per_100g"`
	CarbsPer100g    float64   `json:"carbs_per_100g"`
	FatPer100g      float64   `json:"fat_per_100g"`
	FiberPer100g    *float64  `json:"fiber_per_100g,omitempty"`
	ServingSizeG    *float64  `json:"serving_size_g,omitempty"`
	Barcode         *string   `json:"barcode,omitempty"`
	Source          string    `json:"source"`
	CreatedAt       time.Time `json:"created_at"`
}

// CreateFoodRequest — request to create a custom food
type CreateFoodRequest struct {
	Name            string   `json:"name"`
	CaloriesPer100g float64  `json:"calories_per_100g"`
	ProteinPer100g  float64  `json:"protein_per_100g"`
	CarbsPer100g    float64  `json:"carbs_per_100g"`
	FatPer100g      float64  `json:"fat_per_100g"`
	FiberPer100g    *float64 `json:"fiber_per_100g,omitempty"`
	ServingSizeG    *float64 `json:"serving_size_g,omitempty"`
	Barcode         *string  `json:"barcode,omitempty"`
}

func (r *CreateFoodRequest) Validate() error {
	if strings.TrimSpace(r.Name) == "" {
		return fmt.Errorf("validation failed: name is required")
	}
	if r.CaloriesPer100g < 0 || r.ProteinPer100g < 0 || r.CarbsPer100g < 0 || r.FatPer100g < 0 {
		return fmt.Errorf("validation failed: macros must be non-negative")
	}
	if r.FiberPer100g != nil && *r.FiberPer100g < 0 {
		return fmt.Errorf("validation failed: fiber_per_100g must be non-negative")
	}
	if r.ServingSizeG != nil && *r.ServingSizeG <= 0 {
		return fmt.Errorf("validation failed: serving_size_g must be positive")
	}
	return nil
}

// SearchFoodsResponse — response for GET /v1/foods
type SearchFoodsResponse struct {
	Foods []FoodItemDTO `json:"foods"`
}

// ErrorResponse — error envelope
type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

type ErrorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}
