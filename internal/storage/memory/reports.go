package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/brunosouza-justauto/eng-sub005/internal/storage"
	"github.com/google/uuid"
)

// ReportsMemoryStorage — in-memory реализация ReportsStorage.
// В memory режиме PDF хранится прямо в ReportMeta.Data
type ReportsMemoryStorage struct {
	mu      sync.RWMutex
	reports map[uuid.UUID]storage.ReportMeta
}

func NewReportsMemoryStorage() *ReportsMemoryStorage {
	return &ReportsMemoryStorage{
		reports: make(map[uuid.UUID]storage.ReportMeta),
	}
}

func (s *ReportsMemoryStorage) CreateReport(ctx context.Context, report *storage.ReportMeta) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if report.ID == uuid.Nil {
		report.ID = uuid.New()
	}

	now := time.Now()
	report.CreatedAt = now
	report.UpdatedAt = now

	s.reports[report.ID] = *report

	return nil
}

func (s *ReportsMemoryStorage) GetReport(ctx context.Context, userID string, id uuid.UUID) (storage.ReportMeta, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	r, ok := s.reports[id]
	if !ok || r.UserID != userID {
		return storage.ReportMeta{}, false, nil
	}
	return r, true, nil
}

func (s *ReportsMemoryStorage) ListReports(ctx context.Context, userID string, limit, offset int) ([]storage.ReportMeta, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	results := []storage.ReportMeta{}
	for _, r := range s.reports {
		if r.UserID != userID {
			continue
		}
		r.Data = nil // метаданные без тела
		results = append(results, r)
	}

	sort.Slice(results, func(i, j int) bool {
		return results[i].CreatedAt.After(results[j].CreatedAt)
	})

	if offset >= len(results) {
		return []storage.ReportMeta{}, nil
	}
	results = results[offset:]
	if limit > 0 && len(results) > limit {
		results = results[:limit]
	}

	return results, nil
}

func (s *ReportsMemoryStorage) DeleteReport(ctx context.Context, userID string, id uuid.UUID) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	r, ok := s.reports[id]
	if !ok || r.UserID != userID {
		return false, nil
	}

	delete(s.reports, id)

	return true, nil
}
