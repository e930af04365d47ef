package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/brunosouza-justauto/eng-sub005/internal/storage"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ReportsPostgresStorage — Postgres реализация ReportsStorage
type ReportsPostgresStorage struct {
	pool *pgxpool.Pool
}

func NewReportsPostgresStorage(pool *pgxpool.Pool) *ReportsPostgresStorage {
	return &ReportsPostgresStorage{pool: pool}
}

// CreateReport создаёт запись отчёта. Содержимое PDF в БД не хранится,
// файл уходит в blob-хранилище по ObjectKey
func (s *ReportsPostgresStorage) CreateReport(ctx context.Context, report *storage.ReportMeta) error {
	query := `
		INSERT INTO reports (id, user_id, format, from_date, to_date, object_key, size_bytes, status, error, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, NOW(), NOW())
		RETURNING created_at, updated_at
	`

	if report.ID == uuid.Nil {
		report.ID = uuid.New()
	}

	err := s.pool.QueryRow(ctx, query,
		report.ID,
		report.UserID,
		report.Format,
		report.FromDate,
		report.ToDate,
		report.ObjectKey,
		report.SizeBytes,
		report.Status,
		report.Error,
	).Scan(&report.CreatedAt, &report.UpdatedAt)

	if err != nil {
		return fmt.Errorf("failed to create report: %w", err)
	}

	return nil
}

// GetReport возвращает отчёт пользователя по ID
func (s *ReportsPostgresStorage) GetReport(ctx context.Context, userID string, id uuid.UUID) (storage.ReportMeta, bool, error) {
	query := `
		SELECT id, user_id, format, from_date, to_date, object_key, size_bytes, status, error, created_at, updated_at
		FROM reports
		WHERE id = $1 AND user_id = $2
	`

	var report storage.ReportMeta
	err := s.pool.QueryRow(ctx, query, id, userID).Scan(
		&report.ID,
		&report.UserID,
		&report.Format,
		&report.FromDate,
		&report.ToDate,
		&report.ObjectKey,
		&report.SizeBytes,
		&report.Status,
		&report.Error,
		&report.CreatedAt,
		&report.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return storage.ReportMeta{}, false, nil
	}
	if err != nil {
		return storage.ReportMeta{}, false, fmt.Errorf("failed to get report: %w", err)
	}

	return report, true, nil
}

// ListReports возвращает отчёты пользователя, новые первыми
func (s *ReportsPostgresStorage) ListReports(ctx context.Context, userID string, limit, offset int) ([]storage.ReportMeta, error) {
	if limit <= 0 {
		limit = 20
	}

	query := `
		SELECT id, user_id, format, from_date, to_date, object_key, size_bytes, status, error, created_at, updated_at
		FROM reports
		WHERE user_id = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3
	`

	rows, err := s.pool.Query(ctx, query, userID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list reports: %w", err)
	}
	defer rows.Close()

	var reports []storage.ReportMeta
	for rows.Next() {
		var report storage.ReportMeta
		err := rows.Scan(
			&report.ID,
			&report.UserID,
			&report.Format,
			&report.FromDate,
			&report.ToDate,
			&report.ObjectKey,
			&report.SizeBytes,
			&report.Status,
			&report.Error,
			&report.CreatedAt,
			&report.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan report: %w", err)
		}
		reports = append(reports, report)
	}

	return reports, rows.Err()
}

// DeleteReport удаляет отчёт пользователя
func (s *ReportsPostgresStorage) DeleteReport(ctx context.Context, userID string, id uuid.UUID) (bool, error) {
	tag, err := s.pool.Exec(ctx, `DELETE FROM reports WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return false, fmt.Errorf("failed to delete report: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}
