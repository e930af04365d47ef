package foods

import (
	"context"
	"fmt"
	"strings"

	"github.com/brunosouza-justauto/eng-sub005/internal/config"
	"github.com/brunosouza-justauto/eng-sub005/internal/storage"
	"github.com/google/uuid"
)

// BarcodeLookup resolves a barcode to nutritional facts.
// Implemented by OFFClient; nil disables external lookup.
type BarcodeLookup interface {
	Lookup(ctx context.Context, barcode string) (OFFResult, bool, error)
}

type Service struct {
	foodsStorage storage.FoodItemsStorage
	offClient    BarcodeLookup
	config       *config.Config
}

func NewService(foodsStorage storage.FoodItemsStorage, offClient BarcodeLookup, cfg *config.Config) *Service {
	return &Service{
		foodsStorage: foodsStorage,
		offClient:    offClient,
		config:       cfg,
	}
}

// Search returns catalog foods matching the query substring.
// Custom foods are only visible to their owner.
func (s *Service) Search(ctx context.Context, userID, query string) ([]FoodItemDTO, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, fmt.Errorf("validation failed: query is required")
	}

	items, err := s.foodsStorage.SearchFoodItems(ctx, userID, query, s.config.FoodsSearchLimit)
	if err != nil {
		return nil, err
	}

	dtos := make([]FoodItemDTO, len(items))
	for i, item := range items {
		dtos[i] = toFoodItemDTO(item)
	}
	return dtos, nil
}

// CreateCustom creates a user-owned food item with source "custom".
func (s *Service) CreateCustom(ctx context.Context, userID string, req *CreateFoodRequest) (*FoodItemDTO, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	item := storage.FoodItem{
		ID:              uuid.New(),
		Name:            strings.TrimSpace(req.Name),
		CaloriesPer100g: req.CaloriesPer100g,
		ProteinPer100g:  req.ProteinPer100g,
		CarbsPer100g:    req.CarbsPer100g,
		FatPer100g:      req.FatPer100g,
		FiberPer100g:    req.FiberPer100g,
		ServingSizeG:    req.ServingSizeG,
		Barcode:         req.Barcode,
		Source:          "custom",
		OwnerUserID:     &userID,
	}

	if err := s.foodsStorage.CreateFoodItem(ctx, &item); err != nil {
		return nil, err
	}

	dto := toFoodItemDTO(item)
	return &dto, nil
}

// GetFood returns a single food item by ID.
func (s *Service) GetFood(ctx context.Context, id uuid.UUID) (*FoodItemDTO, error) {
	item, found, err := s.foodsStorage.GetFoodItem(ctx, id)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, fmt.Errorf("food_not_found")
	}
	dto := toFoodItemDTO(item)
	return &dto, nil
}

// LookupBarcode resolves a barcode against the local catalog first, then
// Open Food Facts. External hits are persisted with source
// "external-database" so repeat scans stay local.
func (s *Service) LookupBarcode(ctx context.Context, barcode string) (*FoodItemDTO, error) {
	barcode = strings.TrimSpace(barcode)
	if barcode == "" {
		return nil, fmt.Errorf("validation failed: barcode is required")
	}

	item, found, err := s.foodsStorage.GetFoodItemByBarcode(ctx, barcode)
	if err != nil {
		return nil, err
	}
	if found {
		dto := toFoodItemDTO(item)
		return &dto, nil
	}

	if s.offClient == nil {
		return nil, fmt.Errorf("food_not_found")
	}

	result, found, err := s.offClient.Lookup(ctx, barcode)
	if err != nil {
		return nil, fmt.Errorf("barcode lookup failed: %w", err)
	}
	if !found {
		return nil, fmt.Errorf("food_not_found")
	}

	item = storage.FoodItem{
		ID:              uuid.New(),
		Name:            result.Name,
		CaloriesPer100g: result.CaloriesPer100g,
		ProteinPer100g:  result.ProteinPer100g,
		CarbsPer100g:    result.CarbsPer100g,
		FatPer100g:      result.FatPer100g,
		FiberPer100g:    result.FiberPer100g,
		ServingSizeG:    result.ServingSizeG,
		Barcode:         &barcode,
		Source:          "external-database",
	}
	if err := s.foodsStorage.CreateFoodItem(ctx, &item); err != nil {
		return nil, err
	}

	dto := toFoodItemDTO(item)
	return &dto, nil
}

func toFoodItemDTO(item storage.FoodItem) FoodItemDTO {
	return FoodItemDTO{
		ID:              item.ID,
		Name:            item.Name,
		CaloriesPer100g: item.CaloriesPer100g,
		ProteinPer100g:  item.ProteinPer100g,
		CarbsPer100g:    item.CarbsPer100g,
		FatPer100g:      item.FatPer100g,
		FiberPer100g:    item.FiberPer100g,
		ServingSizeG:    item.ServingSizeG,
		Barcode:         item.Barcode,
		Source:          item.Source,
		CreatedAt:       item.CreatedAt,
	}
}
