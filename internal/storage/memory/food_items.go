package memory

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/brunosouza-justauto/eng-sub005/internal/storage"
	"github.com/google/uuid"
)

// FoodItemsMemoryStorage — in-memory реализация FoodItemsStorage
type FoodItemsMemoryStorage struct {
	mu    sync.RWMutex
	items map[uuid.UUID]storage.FoodItem
}

func NewFoodItemsMemoryStorage() *FoodItemsMemoryStorage {
	return &FoodItemsMemoryStorage{
		items: make(map[uuid.UUID]storage.FoodItem),
	}
}

func (s *FoodItemsMemoryStorage) CreateFoodItem(ctx context.Context, item *storage.FoodItem) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if item.ID == uuid.Nil {
		item.ID = uuid.New()
	}

	now := time.Now()
	item.CreatedAt = now
	item.UpdatedAt = now

	s.items[item.ID] = *item

	return nil
}

func (s *FoodItemsMemoryStorage) GetFoodItem(ctx context.Context, id uuid.UUID) (storage.FoodItem, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	item, ok := s.items[id]
	return item, ok, nil
}

func (s *FoodItemsMemoryStorage) GetFoodItemByBarcode(ctx context.Context, barcode string) (storage.FoodItem, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, item := range s.items {
		if item.Barcode != nil && *item.Barcode == barcode {
			return item, true, nil
		}
	}
	return storage.FoodItem{}, false, nil
}

func (s *FoodItemsMemoryStorage) SearchFoodItems(ctx context.Context, userID string, query string, limit int) ([]storage.FoodItem, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	needle := strings.ToLower(strings.TrimSpace(query))

	results := []storage.FoodItem{}
	for _, item := range s.items {
		// custom продукты видны только владельцу
		if item.Source == "custom" && (item.OwnerUserID == nil || *item.OwnerUserID != userID) {
			continue
		}
		if needle != "" && !strings.Contains(strings.ToLower(item.Name), needle) {
			continue
		}
		results = append(results, item)
	}

	sort.Slice(results, func(i, j int) bool {
		return results[i].Name < results[j].Name
	})

	if limit > 0 && len(results) > limit {
		results = results[:limit]
	}

	return results, nil
}
