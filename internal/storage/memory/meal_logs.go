package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/brunosouza-justauto/eng-sub005/internal/storage"
	"github.com/google/uuid"
)

// MealLogsMemoryStorage — in-memory реализация MealLogsStorage
type MealLogsMemoryStorage struct {
	mu    sync.RWMutex
	logs  map[uuid.UUID]storage.MealLog
	foods *FoodItemsMemoryStorage
}

func NewMealLogsMemoryStorage(foods *FoodItemsMemoryStorage) *MealLogsMemoryStorage {
	return &MealLogsMemoryStorage{
		logs:  make(map[uuid.UUID]storage.MealLog),
		foods: foods,
	}
}

func (s *MealLogsMemoryStorage) ListMealLogs(ctx context.Context, userID string, date string) ([]storage.MealLog, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	results := []storage.MealLog{}
	for _, l := range s.logs {
		if l.UserID != userID || l.Date != date {
			continue
		}
		results = append(results, s.withFoods(ctx, l))
	}

	// Стабильный порядок: по времени, затем по ID
	sort.Slice(results, func(i, j int) bool {
		if results[i].Time != results[j].Time {
			return results[i].Time < results[j].Time
		}
		return results[i].ID.String() < results[j].ID.String()
	})

	return results, nil
}

func (s *MealLogsMemoryStorage) InsertMealLog(ctx context.Context, log *storage.MealLog) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if log.ID == uuid.Nil {
		log.ID = uuid.New()
	}
	log.CreatedAt = time.Now()

	s.logs[log.ID] = *log

	return nil
}

func (s *MealLogsMemoryStorage) InsertMealLogWithFoods(ctx context.Context, log *storage.MealLog, foods []storage.MealLogFood) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if log.ID == uuid.Nil {
		log.ID = uuid.New()
	}
	log.CreatedAt = time.Now()

	lines := make([]storage.MealLogFood, len(foods))
	for i, f := range foods {
		if f.ID == uuid.Nil {
			f.ID = uuid.New()
		}
		f.MealLogID = log.ID
		f.FoodItem = nil // вложенный продукт не храним, подгружается на чтении
		lines[i] = f
	}

	stored := *log
	stored.Foods = lines
	s.logs[log.ID] = stored
	log.Foods = lines

	return nil
}

func (s *MealLogsMemoryStorage) DeleteMealLog(ctx context.Context, userID string, id uuid.UUID) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	l, ok := s.logs[id]
	if !ok || l.UserID != userID {
		return false, nil
	}

	delete(s.logs, id)

	return true, nil
}

func (s *MealLogsMemoryStorage) withFoods(ctx context.Context, log storage.MealLog) storage.MealLog {
	out := log
	out.Foods = make([]storage.MealLogFood, len(log.Foods))
	for i, f := range log.Foods {
		out.Foods[i] = f
		if f.FoodItemID != nil {
			if item, ok, _ := s.foods.GetFoodItem(ctx, *f.FoodItemID); ok {
				itemCopy := item
				out.Foods[i].FoodItem = &itemCopy
			}
		}
	}
	return out
}
