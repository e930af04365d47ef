package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/brunosouza-justauto/eng-sub005/internal/storage"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// NutritionPlansPostgresStorage — Postgres реализация NutritionPlansStorage
type NutritionPlansPostgresStorage struct {
	pool *pgxpool.Pool
}

func NewNutritionPlansPostgresStorage(pool *pgxpool.Pool) *NutritionPlansPostgresStorage {
	return &NutritionPlansPostgresStorage{pool: pool}
}

const planColumns = `id, user_id, name, total_calories, protein_grams, carb_grams, fat_grams, is_active, created_at, updated_at`

func scanPlan(row pgx.Row) (storage.NutritionPlan, error) {
	var plan storage.NutritionPlan
	err := row.Scan(
		&plan.ID,
		&plan.UserID,
		&plan.Name,
		&plan.TotalCalories,
		&plan.ProteinGrams,
		&plan.CarbGrams,
		&plan.FatGrams,
		&plan.IsActive,
		&plan.CreatedAt,
		&plan.UpdatedAt,
	)
	return plan, err
}

func (s *NutritionPlansPostgresStorage) GetActivePlan(ctx context.Context, userID string) (storage.NutritionPlan, []storage.Meal, bool, error) {
	query := `SELECT ` + planColumns + ` FROM nutrition_plans WHERE user_id = $1 AND is_active = true`

	plan, err := scanPlan(s.pool.QueryRow(ctx, query, userID))
	if errors.Is(err, pgx.ErrNoRows) {
		return storage.NutritionPlan{}, nil, false, nil
	}
	if err != nil {
		return storage.NutritionPlan{}, nil, false, fmt.Errorf("failed to get active plan: %w", err)
	}

	meals, err := s.loadMeals(ctx, plan.ID)
	if err != nil {
		return storage.NutritionPlan{}, nil, false, err
	}

	return plan, meals, true, nil
}

func (s *NutritionPlansPostgresStorage) GetPlan(ctx context.Context, planID uuid.UUID) (storage.NutritionPlan, []storage.Meal, bool, error) {
	query := `SELECT ` + planColumns + ` FROM nutrition_plans WHERE id = $1`

	plan, err := scanPlan(s.pool.QueryRow(ctx, query, planID))
	if errors.Is(err, pgx.ErrNoRows) {
		return storage.NutritionPlan{}, nil, false, nil
	}
	if err != nil {
		return storage.NutritionPlan{}, nil, false, fmt.Errorf("failed to get plan: %w", err)
	}

	meals, err := s.loadMeals(ctx, plan.ID)
	if err != nil {
		return storage.NutritionPlan{}, nil, false, err
	}

	return plan, meals, true, nil
}

func (s *NutritionPlansPostgresStorage) GetMeal(ctx context.Context, mealID uuid.UUID) (storage.Meal, bool, error) {
	query := `
		SELECT id, plan_id, name, day_type, time_suggestion, order_index, created_at, updated_at
		FROM meals
		WHERE id = $1
	`

	var meal storage.Meal
	err := s.pool.QueryRow(ctx, query, mealID).Scan(
		&meal.ID,
		&meal.PlanID,
		&meal.Name,
		&meal.DayType,
		&meal.TimeSuggestion,
		&meal.OrderIndex,
		&meal.CreatedAt,
		&meal.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return storage.Meal{}, false, nil
	}
	if err != nil {
		return storage.Meal{}, false, fmt.Errorf("failed to get meal: %w", err)
	}

	foodsByMeal, err := s.loadMealFoods(ctx, []uuid.UUID{meal.ID})
	if err != nil {
		return storage.Meal{}, false, err
	}
	meal.Foods = foodsByMeal[meal.ID]

	return meal, true, nil
}

func (s *NutritionPlansPostgresStorage) ReplaceActivePlan(ctx context.Context, userID string, upsert storage.PlanUpsert) (storage.NutritionPlan, []storage.Meal, error) {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return storage.NutritionPlan{}, nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	now := time.Now()

	_, err = tx.Exec(ctx, `UPDATE nutrition_plans SET is_active = false, updated_at = $2 WHERE user_id = $1 AND is_active = true`, userID, now)
	if err != nil {
		return storage.NutritionPlan{}, nil, fmt.Errorf("failed to deactivate old plan: %w", err)
	}

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

	_, err = tx.Exec(ctx, `
		INSERT INTO nutrition_plans (id, user_id, name, total_calories, protein_grams, carb_grams, fat_grams, is_active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`, plan.ID, plan.UserID, plan.Name, plan.TotalCalories, plan.ProteinGrams, plan.CarbGrams, plan.FatGrams, plan.IsActive, plan.CreatedAt, plan.UpdatedAt)
	if err != nil {
		return storage.NutritionPlan{}, nil, fmt.Errorf("failed to insert plan: %w", err)
	}

	for _, mu := range upsert.Meals {
		mealID := uuid.New()
		_, err = tx.Exec(ctx, `
			INSERT INTO meals (id, plan_id, name, day_type, time_suggestion, order_index, created_at, updated_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		`, mealID, plan.ID, mu.Name, mu.DayType, mu.TimeSuggestion, mu.OrderIndex, now, now)
		if err != nil {
			return storage.NutritionPlan{}, nil, fmt.Errorf("failed to insert meal: %w", err)
		}

		for _, fu := range mu.Foods {
			_, err = tx.Exec(ctx, `
				INSERT INTO meal_food_items (id, meal_id, food_item_id, quantity, unit)
				VALUES ($1, $2, $3, $4, $5)
			`, uuid.New(), mealID, fu.FoodItemID, fu.Quantity, fu.Unit)
			if err != nil {
				return storage.NutritionPlan{}, nil, fmt.Errorf("failed to insert meal food item: %w", err)
			}
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return storage.NutritionPlan{}, nil, fmt.Errorf("failed to commit plan replacement: %w", err)
	}

	meals, err := s.loadMeals(ctx, plan.ID)
	if err != nil {
		return storage.NutritionPlan{}, nil, err
	}

	return plan, meals, nil
}

// loadMeals возвращает приёмы пищи плана со строками продуктов
func (s *NutritionPlansPostgresStorage) loadMeals(ctx context.Context, planID uuid.UUID) ([]storage.Meal, error) {
	query := `
		SELECT id, plan_id, name, day_type, time_suggestion, order_index, created_at, updated_at
		FROM meals
		WHERE plan_id = $1
		ORDER BY order_index ASC, created_at ASC
	`

	rows, err := s.pool.Query(ctx, query, planID)
	if err != nil {
		return nil, fmt.Errorf("failed to get meals: %w", err)
	}
	defer rows.Close()

	var meals []storage.Meal
	var mealIDs []uuid.UUID
	for rows.Next() {
		var meal storage.Meal
		err := rows.Scan(
			&meal.ID,
			&meal.PlanID,
			&meal.Name,
			&meal.DayType,
			&meal.TimeSuggestion,
			&meal.OrderIndex,
			&meal.CreatedAt,
			&meal.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan meal: %w", err)
		}
		meals = append(meals, meal)
		mealIDs = append(mealIDs, meal.ID)
	}
	if rows.Err() != nil {
		return nil, fmt.Errorf("error iterating meals: %w", rows.Err())
	}

	if len(mealIDs) == 0 {
		return meals, nil
	}

	foodsByMeal, err := s.loadMealFoods(ctx, mealIDs)
	if err != nil {
		return nil, err
	}
	for i := range meals {
		meals[i].Foods = foodsByMeal[meals[i].ID]
	}

	return meals, nil
}

// loadMealFoods загружает строки продуктов вместе с продуктами одним запросом
func (s *NutritionPlansPostgresStorage) loadMealFoods(ctx context.Context, mealIDs []uuid.UUID) (map[uuid.UUID][]storage.MealFood, error) {
	query := `
		SELECT mfi.id, mfi.meal_id, mfi.food_item_id, mfi.quantity, mfi.unit,
		       fi.id, fi.name, fi.calories_per_100g, fi.protein_per_100g, fi.carbs_per_100g, fi.fat_per_100g,
		       fi.fiber_per_100g, fi.serving_size_g, fi.barcode, fi.source, fi.owner_user_id, fi.created_at, fi.updated_at
		FROM meal_food_items mfi
		LEFT JOIN food_items fi ON fi.id = mfi.food_item_id
		WHERE mfi.meal_id = ANY($1)
		ORDER BY mfi.id
	`

	rows, err := s.pool.Query(ctx, query, mealIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to get meal food items: %w", err)
	}
	defer rows.Close()

	result := make(map[uuid.UUID][]storage.MealFood)
	for rows.Next() {
		var mf storage.MealFood
		var itemID *uuid.UUID
		item := storage.FoodItem{}
		var itemName *string
		var itemCalories, itemProtein, itemCarbs, itemFat *float64
		var itemSource *string
		var itemCreatedAt, itemUpdatedAt *time.Time

		err := rows.Scan(
			&mf.ID,
			&mf.MealID,
			&mf.FoodItemID,
			&mf.Quantity,
			&mf.Unit,
			&itemID,
			&itemName,
			&itemCalories,
			&itemProtein,
			&itemCarbs,
			&itemFat,
			&item.FiberPer100g,
			&item.ServingSizeG,
			&item.Barcode,
			&itemSource,
			&item.OwnerUserID,
			&itemCreatedAt,
			&itemUpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan meal food item: %w", err)
		}

		// LEFT JOIN: продукт мог быть удалён после авторинга плана
		if itemID != nil {
			item.ID = *itemID
			item.Name = *itemName
			item.CaloriesPer100g = *itemCalories
			item.ProteinPer100g = *itemProtein
			item.CarbsPer100g = *itemCarbs
			item.FatPer100g = *itemFat
			item.Source = *itemSource
			item.CreatedAt = *itemCreatedAt
			item.UpdatedAt = *itemUpdatedAt
			mf.FoodItem = &item
		}

		result[mf.MealID] = append(result[mf.MealID], mf)
	}

	return result, rows.Err()
}
