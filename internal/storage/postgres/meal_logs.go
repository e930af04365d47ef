package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/brunosouza-justauto/eng-sub005/internal/storage"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

// MealLogsPostgresStorage — Postgres реализация MealLogsStorage
type MealLogsPostgresStorage struct {
	pool *pgxpool.Pool
}

func NewMealLogsPostgresStorage(pool *pgxpool.Pool) *MealLogsPostgresStorage {
	return &MealLogsPostgresStorage{pool: pool}
}

func (s *MealLogsPostgresStorage) ListMealLogs(ctx context.Context, userID string, date string) ([]storage.MealLog, error) {
	query := `
		SELECT id, user_id, log_date, log_time, meal_id, name, day_type, is_extra_meal, notes, created_at
		FROM meal_logs
		WHERE user_id = $1 AND log_date = $2
		ORDER BY log_time ASC, id ASC
	`

	rows, err := s.pool.Query(ctx, query, userID, date)
	if err != nil {
		return nil, fmt.Errorf("failed to get meal logs: %w", err)
	}
	defer rows.Close()

	var logs []storage.MealLog
	var logIDs []uuid.UUID
	for rows.Next() {
		var log storage.MealLog
		err := rows.Scan(
			&log.ID,
			&log.UserID,
			&log.Date,
			&log.Time,
			&log.MealID,
			&log.Name,
			&log.DayType,
			&log.IsExtraMeal,
			&log.Notes,
			&log.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan meal log: %w", err)
		}
		logs = append(logs, log)
		logIDs = append(logIDs, log.ID)
	}
	if rows.Err() != nil {
		return nil, fmt.Errorf("error iterating meal logs: %w", rows.Err())
	}

	if len(logIDs) == 0 {
		return logs, nil
	}

	foodsByLog, err := s.loadLogFoods(ctx, logIDs)
	if err != nil {
		return nil, err
	}
	for i := range logs {
		logs[i].Foods = foodsByLog[logs[i].ID]
	}

	return logs, nil
}

func (s *MealLogsPostgresStorage) InsertMealLog(ctx context.Context, log *storage.MealLog) error {
	if log.ID == uuid.Nil {
		log.ID = uuid.New()
	}
	if log.CreatedAt.IsZero() {
		log.CreatedAt = time.Now()
	}

	query := `
		INSERT INTO meal_logs (id, user_id, log_date, log_time, meal_id, name, day_type, is_extra_meal, notes, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`

	_, err := s.pool.Exec(ctx, query,
		log.ID, log.UserID, log.Date, log.Time, log.MealID,
		log.Name, log.DayType, log.IsExtraMeal, log.Notes, log.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert meal log: %w", err)
	}

	return nil
}

// InsertMealLogWithFoods пишет лог и его строки в одной транзакции,
// чтобы при сбое не оставался лог без строк
func (s *MealLogsPostgresStorage) InsertMealLogWithFoods(ctx context.Context, log *storage.MealLog, foods []storage.MealLogFood) error {
	if log.ID == uuid.Nil {
		log.ID = uuid.New()
	}
	if log.CreatedAt.IsZero() {
		log.CreatedAt = time.Now()
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	_, err = tx.Exec(ctx, `
		INSERT INTO meal_logs (id, user_id, log_date, log_time, meal_id, name, day_type, is_extra_meal, notes, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`,
		log.ID, log.UserID, log.Date, log.Time, log.MealID,
		log.Name, log.DayType, log.IsExtraMeal, log.Notes, log.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert meal log: %w", err)
	}

	for i := range foods {
		if foods[i].ID == uuid.Nil {
			foods[i].ID = uuid.New()
		}
		foods[i].MealLogID = log.ID

		_, err = tx.Exec(ctx, `
			INSERT INTO meal_log_foods (id, meal_log_id, food_item_id, quantity, unit, calories, protein_g, carbs_g, fat_g)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		`,
			foods[i].ID, foods[i].MealLogID, foods[i].FoodItemID,
			foods[i].Quantity, foods[i].Unit,
			foods[i].Calories, foods[i].ProteinG, foods[i].CarbsG, foods[i].FatG,
		)
		if err != nil {
			return fmt.Errorf("failed to insert meal log food: %w", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit meal log: %w", err)
	}

	log.Foods = foods
	return nil
}

func (s *MealLogsPostgresStorage) DeleteMealLog(ctx context.Context, userID string, id uuid.UUID) (bool, error) {
	tag, err := s.pool.Exec(ctx, `DELETE FROM meal_logs WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return false, fmt.Errorf("failed to delete meal log: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}

// loadLogFoods загружает строки extra-приёмов вместе с продуктами
func (s *MealLogsPostgresStorage) loadLogFoods(ctx context.Context, logIDs []uuid.UUID) (map[uuid.UUID][]storage.MealLogFood, error) {
	query := `
		SELECT mlf.id, mlf.meal_log_id, mlf.food_item_id, mlf.quantity, mlf.unit,
		       mlf.calories, mlf.protein_g, mlf.carbs_g, mlf.fat_g,
		       fi.id, fi.name, fi.calories_per_100g, fi.protein_per_100g, fi.carbs_per_100g, fi.fat_per_100g,
		       fi.fiber_per_100g, fi.serving_size_g, fi.barcode, fi.source, fi.owner_user_id, fi.created_at, fi.updated_at
		FROM meal_log_foods mlf
		LEFT JOIN food_items fi ON fi.id = mlf.food_item_id
		WHERE mlf.meal_log_id = ANY($1)
		ORDER BY mlf.id
	`

	rows, err := s.pool.Query(ctx, query, logIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to get meal log foods: %w", err)
	}
	defer rows.Close()

	result := make(map[uuid.UUID][]storage.MealLogFood)
	for rows.Next() {
		var lf storage.MealLogFood
		var itemID *uuid.UUID
		item := storage.FoodItem{}
		var itemName *string
		var itemCalories, itemProtein, itemCarbs, itemFat *float64
		var itemSource *string
		var itemCreatedAt, itemUpdatedAt *time.Time

		err := rows.Scan(
			&lf.ID,
			&lf.MealLogID,
			&lf.FoodItemID,
			&lf.Quantity,
			&lf.Unit,
			&lf.Calories,
			&lf.ProteinG,
			&lf.CarbsG,
			&lf.FatG,
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
			return nil, fmt.Errorf("failed to scan meal log food: %w", err)
		}

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
			lf.FoodItem = &item
		}

		result[lf.MealLogID] = append(result[lf.MealLogID], lf)
	}

	return result, rows.Err()
}
