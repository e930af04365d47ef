package storage

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// FoodItem — справочная запись о продукте, макросы нормированы на 100 г
type FoodItem struct {
	ID              uuid.UUID
	Name            string
	CaloriesPer100g float64
	ProteinPer100g  float64
	CarbsPer100g    float64
	FatPer100g      float64
	FiberPer100g    *float64
	ServingSizeG    *float64
	Barcode         *string
	Source          string  // "verified" | "custom" | "external-database"
	OwnerUserID     *string // заполнено только для custom продуктов
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// FoodItemsStorage — интерфейс для работы с продуктами
type FoodItemsStorage interface {
	// CreateFoodItem создаёт новый продукт
	CreateFoodItem(ctx context.Context, item *FoodItem) error

	// GetFoodItem возвращает продукт по ID
	GetFoodItem(ctx context.Context, id uuid.UUID) (FoodItem, bool, error)

	// GetFoodItemByBarcode возвращает продукт по штрихкоду
	GetFoodItemByBarcode(ctx context.Context, barcode string) (FoodItem, bool, error)

	// SearchFoodItems ищет продукты по подстроке имени; custom продукты
	// видны только их владельцу
	SearchFoodItems(ctx context.Context, userID string, query string, limit int) ([]FoodItem, error)
}

// NutritionPlan — план питания с целевыми макросами
type NutritionPlan struct {
	ID            uuid.UUID
	UserID        string
	Name          string
	TotalCalories int
	ProteinGrams  float64
	CarbGrams     float64
	FatGrams      float64
	IsActive      bool
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// Meal — приём пищи внутри плана
type Meal struct {
	ID             uuid.UUID
	PlanID         uuid.UUID
	Name           string
	DayType        *string // nil — приём не привязан к типу дня
	TimeSuggestion *string // "HH:MM"
	OrderIndex     int
	Foods          []MealFood
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// MealFood — строка продукта внутри приёма пищи
type MealFood struct {
	ID         uuid.UUID
	MealID     uuid.UUID
	FoodItemID uuid.UUID
	Quantity   float64
	Unit       string
	FoodItem   *FoodItem // подгружается вместе со строкой
}

// PlanUpsert / MealUpsert / MealFoodUpsert — входные данные для замены плана
type PlanUpsert struct {
	Name          string
	TotalCalories int
	ProteinGrams  float64
	CarbGrams     float64
	FatGrams      float64
	Meals         []MealUpsert
}

type MealUpsert struct {
	Name           string
	DayType        *string
	TimeSuggestion *string
	OrderIndex     int
	Foods          []MealFoodUpsert
}

type MealFoodUpsert struct {
	FoodItemID uuid.UUID
	Quantity   float64
	Unit       string
}

// NutritionPlansStorage — интерфейс для работы с планами питания.
// Приёмы пищи возвращаются вложенными, вместе со строками продуктов
// и самими продуктами (nested select)
type NutritionPlansStorage interface {
	// GetActivePlan возвращает активный план пользователя с приёмами пищи
	GetActivePlan(ctx context.Context, userID string) (NutritionPlan, []Meal, bool, error)

	// GetPlan возвращает план по ID с приёмами пищи
	GetPlan(ctx context.Context, planID uuid.UUID) (NutritionPlan, []Meal, bool, error)

	// GetMeal возвращает один приём пищи со строками продуктов
	GetMeal(ctx context.Context, mealID uuid.UUID) (Meal, bool, error)

	// ReplaceActivePlan деактивирует старый план и создаёт новый
	ReplaceActivePlan(ctx context.Context, userID string, plan PlanUpsert) (NutritionPlan, []Meal, error)
}

// MealLog — событие логирования приёма пищи.
// Для планового лога заполнен MealID; extra-приём несёт собственные строки
type MealLog struct {
	ID          uuid.UUID
	UserID      string
	Date        string // YYYY-MM-DD
	Time        string // HH:MM:SS
	MealID      *uuid.UUID
	Name        string
	DayType     *string
	IsExtraMeal bool
	Notes       *string
	Foods       []MealLogFood
	CreatedAt   time.Time
}

// MealLogFood — строка продукта extra-приёма.
// Явные макросы (Calories и далее) перекрывают расчёт по таблице,
// обязательны для единиц измерения, не являющихся весовыми
type MealLogFood struct {
	ID         uuid.UUID
	MealLogID  uuid.UUID
	FoodItemID *uuid.UUID
	FoodItem   *FoodItem
	Quantity   float64
	Unit       string
	Calories   *float64
	ProteinG   *float64
	CarbsG     *float64
	FatG       *float64
}

// MealLogsStorage — интерфейс для работы с логами приёмов пищи
type MealLogsStorage interface {
	// ListMealLogs возвращает все логи пользователя за дату,
	// для extra-приёмов — вместе со строками продуктов
	ListMealLogs(ctx context.Context, userID string, date string) ([]MealLog, error)

	// InsertMealLog создаёт лог планового приёма (без строк)
	InsertMealLog(ctx context.Context, log *MealLog) error

	// InsertMealLogWithFoods создаёт лог extra-приёма вместе со строками
	// атомарно: либо записывается всё, либо ничего
	InsertMealLogWithFoods(ctx context.Context, log *MealLog, foods []MealLogFood) error

	// DeleteMealLog удаляет лог (un-log). Возвращает false, если лог не найден
	// или принадлежит другому пользователю
	DeleteMealLog(ctx context.Context, userID string, id uuid.UUID) (bool, error)
}

// ReportMeta — метаданные сгенерированного отчёта
type ReportMeta struct {
	ID        uuid.UUID
	UserID    string
	Format    string // "pdf" | "csv"
	FromDate  string // YYYY-MM-DD
	ToDate    string // YYYY-MM-DD
	ObjectKey *string
	SizeBytes int64
	Status    string // "ready" or "failed"
	Error     *string
	CreatedAt time.Time
	UpdatedAt time.Time
	Data      []byte // только для memory режима, в БД не хранится
}

// ReportsStorage — интерфейс для работы с отчётами
type ReportsStorage interface {
	CreateReport(ctx context.Context, report *ReportMeta) error
	GetReport(ctx context.Context, userID string, id uuid.UUID) (ReportMeta, bool, error)
	ListReports(ctx context.Context, userID string, limit, offset int) ([]ReportMeta, error)
	DeleteReport(ctx context.Context, userID string, id uuid.UUID) (bool, error)
}

// Store — общий интерфейс хранилища (Postgres или Memory)
type Store interface {
	FoodItemsStorage
	NutritionPlansStorage
	MealLogsStorage
	ReportsStorage

	// Close закрывает соединение (для Postgres)
	Close() error
}
