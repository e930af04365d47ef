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

// FoodItemsPostgresStorage — Postgres реализация FoodItemsStorage
type FoodItemsPostgresStorage struct {
	pool *pgxpool.Pool
}

func NewFoodItemsPostgresStorage(pool *pgxpool.Pool) *FoodItemsPostgresStorage {
	return &FoodItemsPostgresStorage{pool: pool}
}

const foodItemColumns = `id, name, calories_per_100g, protein_per_100g, carbs_per_100g, fat_per_100g,
	fiber_per_100g, serving_size_g, barcode, source, owner_user_id, created_at, updated_at`

func scanFoodItem(row pgx.Row) (storage.FoodItem, error) {
	var item storage.FoodItem
	err := row.Scan(
		&item.ID,
		&item.Name,
		&item.CaloriesPer100g,
		&item.ProteinPer100g,
		&item.CarbsPer100g,
		&item.FatPer100g,
		&item.FiberPer100g,
		&item.ServingSizeG,
		&item.Barcode,
		&item.Source,
		&item.OwnerUserID,
		&item.CreatedAt,
		&item.UpdatedAt,
	)
	return item, err
}

func (s *FoodItemsPostgresStorage) CreateFoodItem(ctx context.Context, item *storage.FoodItem) error {
	if item.ID == uuid.Nil {
		item.ID = uuid.New()
	}

	now := time.Now()
	item.CreatedAt = now
	item.UpdatedAt = now

	query := `
		INSERT INTO food_items (id, name, calories_per_100g, protein_per_100g, carbs_per_100g, fat_per_100g,
			fiber_per_100g, serving_size_g, barcode, source, owner_user_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
	`

	_, err := s.pool.Exec(ctx, query,
		item.ID,
		item.Name,
		item.CaloriesPer100g,
		item.ProteinPer100g,
		item.CarbsPer100g,
		item.FatPer100g,
		item.FiberPer100g,
		item.ServingSizeG,
		item.Barcode,
		item.Source,
		item.OwnerUserID,
		item.CreatedAt,
		item.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert food item: %w", err)
	}

	return nil
}

func (s *FoodItemsPostgresStorage) GetFoodItem(ctx context.Context, id uuid.UUID) (storage.FoodItem, bool, error) {
	query := `SELECT ` + foodItemColumns + ` FROM food_items WHERE id = $1`

	item, err := scanFoodItem(s.pool.QueryRow(ctx, query, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return storage.FoodItem{}, false, nil
	}
	if err != nil {
		return storage.FoodItem{}, false, fmt.Errorf("failed to get food item: %w", err)
	}

	return item, true, nil
}

func (s *FoodItemsPostgresStorage) GetFoodItemByBarcode(ctx context.Context, barcode string) (storage.FoodItem, bool, error) {
	query := `SELECT ` + foodItemColumns + ` FROM food_items WHERE barcode = $1 LIMIT 1`

	item, err := scanFoodItem(s.pool.QueryRow(ctx, query, barcode))
	if errors.Is(err, pgx.ErrNoRows) {
		return storage.FoodItem{}, false, nil
	}
	if err != nil {
		return storage.FoodItem{}, false, fmt.Errorf("failed to get food item by barcode: %w", err)
	}

	return item, true, nil
}

func (s *FoodItemsPostgresStorage) SearchFoodItems(ctx context.Context, userID string, query string, limit int) ([]storage.FoodItem, error) {
	if limit <= 0 {
		limit = 50
	}

	sql := `
		SELECT ` + foodItemColumns + `
		FROM food_items
		WHERE (source <> 'custom' OR owner_user_id = $1)
		  AND ($2 = '' OR name ILIKE '%' || $2 || '%')
		ORDER BY name ASC
		LIMIT $3
	`

	rows, err := s.pool.Query(ctx, sql, userID, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to search food items: %w", err)
	}
	defer rows.Close()

	items := []storage.FoodItem{}
	for rows.Next() {
		item, err := scanFoodItem(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan food item: %w", err)
		}
		items = append(items, item)
	}

	return items, rows.Err()
}
