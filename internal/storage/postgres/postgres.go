package postgres

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresStore — Postgres реализация storage.Store
type PostgresStore struct {
	pool *pgxpool.Pool

	*FoodItemsPostgresStorage
	*NutritionPlansPostgresStorage
	*MealLogsPostgresStorage
	*ReportsPostgresStorage
}

// New создаёт PostgresStore и проверяет соединение
func New(ctx context.Context, databaseURL string) (*PostgresStore, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, err
	}

	if err := pool.Ping(ctx); err != nil {
		return nil, err
	}

	return &PostgresStore{
		pool:                          pool,
		FoodItemsPostgresStorage:      NewFoodItemsPostgresStorage(pool),
		NutritionPlansPostgresStorage: NewNutritionPlansPostgresStorage(pool),
		MealLogsPostgresStorage:       NewMealLogsPostgresStorage(pool),
		ReportsPostgresStorage:        NewReportsPostgresStorage(pool),
	}, nil
}

func (p *PostgresStore) Close() error {
	p.pool.Close()
	return nil
}
