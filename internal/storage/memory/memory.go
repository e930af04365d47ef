package memory

// MemoryStore — in-memory реализация storage.Store.
// Используется для локальной разработки и тестов, когда DATABASE_URL не задан
type MemoryStore struct {
	*FoodItemsMemoryStorage
	*NutritionPlansMemoryStorage
	*MealLogsMemoryStorage
	*ReportsMemoryStorage
}

// New создаёт новый MemoryStore
func New() *MemoryStore {
	foods := NewFoodItemsMemoryStorage()

	return &MemoryStore{
		FoodItemsMemoryStorage:      foods,
		NutritionPlansMemoryStorage: NewNutritionPlansMemoryStorage(foods),
		MealLogsMemoryStorage:       NewMealLogsMemoryStorage(foods),
		ReportsMemoryStorage:        NewReportsMemoryStorage(),
	}
}

// Close — no-op для memory
func (m *MemoryStore) Close() error {
	return nil
}
