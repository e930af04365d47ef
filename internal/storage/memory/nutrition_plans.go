package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/brunosouza-justauto/eng-sub005/internal/storage"
	"github.com/google/uuid"
)

// NutritionPlansMemoryStorage — in-memory реализация NutritionPlansStorage.
// Для вложенных продуктов обращается к foods storage, чтобы чтение всегда
// возвращало текущее определение продукта
type NutritionPlansMemoryStorage struct {
	mu    sync.RWMutex
	plans map[uuid.UUID]storage.NutritionPlan
	meals map[uuid.UUID][]storage.Meal // по plan_id, строки без вложенных FoodItem
	foods *FoodItemsMemoryStorage
}

func NewNutritionPlansMemoryStorage(foods *FoodItemsMemoryStorage) *NutritionPlansMemoryStorage {
	return &NutritionPlansMemoryStorage{
		plans: make(map[uuid.UUID]storage.NutritionPlan),
		meals: make(map[uuid.UUID][]storage.Meal),
		foods: foods,
	}
}

func (s *NutritionPlansMemoryStorage) GetActivePlan(ctx context.Context, userID string) (storage.NutritionPlan, []storage.Meal, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, plan := range s.plans {
		if plan.UserID == userID && plan.IsActive {
			return plan, s.mealsWithFoods(ctx, plan.ID), true, nil
		}
	}
	return storage.NutritionPlan{}, nil, false, nil
}

func (s *NutritionPlansMemoryStorage) GetPlan(ctx context.Context, planID uuid.UUID) (storage.NutritionPlan, []storage.Meal, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	plan, ok := s.plans[planID]
	if !ok {
		return storage.NutritionPlan{}, nil, false, nil
	}
	return plan, s.mealsWithFoods(ctx, planID), true, nil
}

func (s *NutritionPlansMemoryStorage) GetMeal(ctx context.Context, mealID uuid.UUID) (storage.Meal, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for planID, meals := range s.meals {
		for _, m := range meals {
			if m.ID == mealID {
				_ = planID
				return s.withFoods(ctx, m), true, nil
			}
		}
	}
	return storage.Meal{}, false, nil
}

func (s *NutritionPlansMemoryStorage) ReplaceActivePlan(ctx context.Context, userID string, upsert storage.PlanUpsert) (storage.NutritionPlan, []storage.Meal, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	// Деактивируем старый активный план
	for id, plan := range s.plans {
		if plan.UserID == userID && plan.IsActive {
			plan.IsActive = false
			plan.UpdatedAt = time.Now()
			s.plans[id] = plan
		}
	}

	now := time.Now()
	plan := storage.NutritionPlan{
		ID:            uuid.New(),
		UserID:        userID,
		Name:          upsert.Name,
		TotalCalories: upsert.TotalCalories,
		ProteinGrams:  upsert.ProteinGrams,
		CarbGrams:     upsert.CarbGrams,
		FatGrams:      upsert.FatGrams,
		IsActive:      true,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	s.plans[plan.ID] = plan

	meals := make([]storage.Meal, 0, len(upsert.Meals))
	for _, mu := range upsert.Meals {
		meal := storage.Meal{
			ID:             uuid.New(),
			PlanID:         plan.ID,
			Name:           mu.Name,
			DayType:        mu.DayType,
			TimeSuggestion: mu.TimeSuggestion,
			OrderIndex:     mu.OrderIndex,
			CreatedAt:      now,
			UpdatedAt:      now,
		}
		for _, fu := range mu.Foods {
			meal.Foods = append(meal.Foods, storage.MealFood{
				ID:         uuid.New(),
				MealID:     meal.ID,
				FoodItemID: fu.FoodItemID,
				Quantity:   fu.Quantity,
				Unit:       fu.Unit,
			})
		}
		meals = append(meals, meal)
	}
	s.meals[plan.ID] = meals

	return plan, s.mealsWithFoods(ctx, plan.ID), nil
}

// mealsWithFoods возвращает копии приёмов пищи с актуальными продуктами.
// Вызывается под блокировкой
func (s *NutritionPlansMemoryStorage) mealsWithFoods(ctx context.Context, planID uuid.UUID) []storage.Meal {
	stored := s.meals[planID]

	out := make([]storage.Meal, len(stored))
	for i, m := range stored {
		out[i] = s.withFoods(ctx, m)
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].OrderIndex < out[j].OrderIndex
	})

	return out
}

func (s *NutritionPlansMemoryStorage) withFoods(ctx context.Context, meal storage.Meal) storage.Meal {
	out := meal
	out.Foods = make([]storage.MealFood, len(meal.Foods))
	for i, f := range meal.Foods {
		out.Foods[i] = f
		if item, ok, _ := s.foods.GetFoodItem(ctx, f.FoodItemID); ok {
			itemCopy := item
			out.Foods[i].FoodItem = &itemCopy
		}
	}
	return out
}
