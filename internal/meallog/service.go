package meallog

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/brunosouza-justauto/eng-sub005/internal/nutrition"
	"github.com/brunosouza-justauto/eng-sub005/internal/storage"
	"github.com/google/uuid"
)

type Service struct {
	logsStorage  storage.MealLogsStorage
	plansStorage storage.NutritionPlansStorage
	foodsStorage storage.FoodItemsStorage
	now          func() time.Time
}

func NewService(
	logsStorage storage.MealLogsStorage,
	plansStorage storage.NutritionPlansStorage,
	foodsStorage storage.FoodItemsStorage,
) *Service {
	return &Service{
		logsStorage:  logsStorage,
		plansStorage: plansStorage,
		foodsStorage: foodsStorage,
		now:          time.Now,
	}
}

// BuildDailyLog assembles the derived daily view for one (user, date):
// resolved day-type, planned meals with logged state, logging events with
// computed totals, consumed sums and targets. Rebuilt fresh on every call.
func (s *Service) BuildDailyLog(ctx context.Context, userID, date, overrideDayType string) (*DailyLogResponse, error) {
	plan, meals, planFound, err := s.plansStorage.GetActivePlan(ctx, userID)
	if err != nil {
		return nil, err
	}

	logs, err := s.logsStorage.ListMealLogs(ctx, userID, date)
	if err != nil {
		return nil, err
	}

	dayType := nutrition.ResolveDayType(nutrition.PlanDayTypes(meals), overrideDayType, loggedDayType(logs))
	selection := nutrition.SelectMeals(meals, dayType)

	// planned logs derive macros from the live meal definition on every
	// read; a meal deleted after logging yields zero totals, not an error
	mealByID := make(map[uuid.UUID]*storage.Meal, len(meals))
	for i := range meals {
		mealByID[meals[i].ID] = &meals[i]
	}

	var consumed nutrition.Macros
	loggedDTOs := make([]LoggedMealDTO, len(logs))
	loggedMealIDs := make(map[uuid.UUID]*uuid.UUID)
	for i, log := range logs {
		dto, err := s.buildLoggedMealDTO(ctx, log, mealByID)
		if err != nil {
			return nil, err
		}
		loggedDTOs[i] = dto
		consumed = consumed.Add(dto.Totals)

		if !log.IsExtraMeal && log.MealID != nil {
			logID := log.ID
			loggedMealIDs[*log.MealID] = &logID
		}
	}

	var plannedTargets nutrition.Macros
	plannedDTOs := make([]PlannedMealStatusDTO, len(selection.Meals))
	for i, meal := range selection.Meals {
		totals := nutrition.MealTotals(meal)
		plannedTargets = plannedTargets.Add(totals)

		logID := loggedMealIDs[meal.ID]
		plannedDTOs[i] = PlannedMealStatusDTO{
			MealID:         meal.ID,
			Name:           meal.Name,
			DayType:        meal.DayType,
			TimeSuggestion: meal.TimeSuggestion,
			OrderIndex:     meal.OrderIndex,
			Totals:         totals,
			Logged:         logID != nil,
			LogID:          logID,
		}
	}

	resp := &DailyLogResponse{
		Date:           date,
		DayType:        dayType,
		FellBackToAll:  selection.FellBackToAll,
		PlannedMeals:   plannedDTOs,
		LoggedMeals:    loggedDTOs,
		Consumed:       consumed,
		PlannedTargets: plannedTargets,
	}
	if planFound {
		resp.PlanTargets = &PlanTargetsDTO{
			TotalCalories: plan.TotalCalories,
			ProteinGrams:  plan.ProteinGrams,
			CarbGrams:     plan.CarbGrams,
			FatGrams:      plan.FatGrams,
		}
	}
	return resp, nil
}

// LogMeal records a planned meal as eaten. The log stores a thin
// reference; nutrition stays derived from the meal definition.
func (s *Service) LogMeal(ctx context.Context, userID string, req *LogMealRequest) (*LoggedMealDTO, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	meal, found, err := s.plansStorage.GetMeal(ctx, req.MealID)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, fmt.Errorf("meal_not_found")
	}

	log := storage.MealLog{
		ID:          uuid.New(),
		UserID:      userID,
		Date:        req.Date,
		Time:        s.now().Format("15:04:05"),
		MealID:      &meal.ID,
		Name:        meal.Name,
		DayType:     meal.DayType,
		IsExtraMeal: false,
	}
	if err := s.logsStorage.InsertMealLog(ctx, &log); err != nil {
		return nil, err
	}

	return &LoggedMealDTO{
		ID:          log.ID,
		MealID:      log.MealID,
		Name:        log.Name,
		Date:        log.Date,
		Time:        log.Time,
		DayType:     log.DayType,
		IsExtraMeal: false,
		Totals:      nutrition.MealTotals(meal),
	}, nil
}

// UnlogMeal deletes a logging event.
func (s *Service) UnlogMeal(ctx context.Context, userID string, logID uuid.UUID) error {
	deleted, err := s.logsStorage.DeleteMealLog(ctx, userID, logID)
	if err != nil {
		return err
	}
	if !deleted {
		return fmt.Errorf("log_not_found")
	}
	return nil
}

// LogExtraMeal commits an ad hoc meal: custom foods are persisted first,
// then the log row and its lines are written atomically. Totals are
// computed from the in-memory lines so the caller gets an immediate
// result without a second round trip.
func (s *Service) LogExtraMeal(ctx context.Context, userID string, req *LogExtraMealRequest) (*LoggedMealDTO, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	lines := make([]storage.MealLogFood, len(req.Foods))
	transient := make([]*storage.FoodItem, len(req.Foods))
	for i := range req.Foods {
		line := &req.Foods[i]

		lf := storage.MealLogFood{
			ID:       uuid.New(),
			Quantity: line.Quantity,
			Unit:     line.Unit,
			Calories: line.Calories,
			ProteinG: line.ProteinG,
			CarbsG:   line.CarbsG,
			FatG:     line.FatG,
		}

		if line.IsCustom() {
			item := storage.FoodItem{
				ID:              uuid.New(),
				Name:            strings.TrimSpace(line.Name),
				CaloriesPer100g: line.CaloriesPer100g,
				ProteinPer100g:  line.ProteinPer100g,
				CarbsPer100g:    line.CarbsPer100g,
				FatPer100g:      line.FatPer100g,
				ServingSizeG:    line.ServingSizeG,
				Source:          "custom",
				OwnerUserID:     &userID,
			}
			if err := s.foodsStorage.CreateFoodItem(ctx, &item); err == nil {
				id := item.ID
				lf.FoodItemID = &id
			}
			// on creation failure the line stays unlinked; the inline
			// values still drive nutrition math below
			transient[i] = &item
		} else {
			id, err := uuid.Parse(line.FoodItemID)
			if err != nil {
				return nil, fmt.Errorf("validation failed: foods[%d]: invalid food_item_id", i)
			}
			lf.FoodItemID = &id

			item, found, err := s.foodsStorage.GetFoodItem(ctx, id)
			if err != nil {
				return nil, err
			}
			if found {
				transient[i] = &item
			} else if !line.HasAllOverrides() {
				return nil, fmt.Errorf("validation failed: foods[%d]: unknown food_item_id", i)
			}
		}

		lines[i] = lf
	}

	log := storage.MealLog{
		ID:          uuid.New(),
		UserID:      userID,
		Date:        req.Date,
		Time:        s.now().Format("15:04:05"),
		Name:        strings.TrimSpace(req.Name),
		DayType:     req.EffectiveDayType(),
		IsExtraMeal: true,
		Notes:       req.Notes,
	}
	if err := s.logsStorage.InsertMealLogWithFoods(ctx, &log, lines); err != nil {
		return nil, err
	}

	var totals nutrition.Macros
	foodDTOs := make([]LoggedFoodDTO, len(lines))
	for i, lf := range lines {
		lf.FoodItem = transient[i]
		macros := nutrition.LogFoodMacros(lf)
		totals = totals.Add(macros)

		foodDTO := LoggedFoodDTO{
			ID:         lf.ID,
			FoodItemID: lf.FoodItemID,
			Quantity:   lf.Quantity,
			Unit:       lf.Unit,
			Macros:     macros,
		}
		if transient[i] != nil {
			foodDTO.FoodName = &transient[i].Name
		}
		foodDTOs[i] = foodDTO
	}

	return &LoggedMealDTO{
		ID:          log.ID,
		Name:        log.Name,
		Date:        log.Date,
		Time:        log.Time,
		DayType:     log.DayType,
		IsExtraMeal: true,
		Notes:       log.Notes,
		Foods:       foodDTOs,
		Totals:      totals,
	}, nil
}

// MissedMeals lists planned meals whose suggested time has passed
// without a matching log. Stateless; safe to poll.
func (s *Service) MissedMeals(ctx context.Context, userID, date, now string) (*MissedMealsResponse, error) {
	_, meals, _, err := s.plansStorage.GetActivePlan(ctx, userID)
	if err != nil {
		return nil, err
	}

	logs, err := s.logsStorage.ListMealLogs(ctx, userID, date)
	if err != nil {
		return nil, err
	}

	if now == "" {
		now = s.now().Format("15:04")
	}

	dayType := nutrition.ResolveDayType(nutrition.PlanDayTypes(meals), "", loggedDayType(logs))

	loggedIDs := make(map[uuid.UUID]bool)
	for _, log := range logs {
		if !log.IsExtraMeal && log.MealID != nil {
			loggedIDs[*log.MealID] = true
		}
	}

	missed := nutrition.DetectMissedMeals(meals, dayType, loggedIDs, now)
	return &MissedMealsResponse{Date: date, Now: now, Missed: missed}, nil
}

// buildLoggedMealDTO computes totals for one logging event.
func (s *Service) buildLoggedMealDTO(ctx context.Context, log storage.MealLog, mealByID map[uuid.UUID]*storage.Meal) (LoggedMealDTO, error) {
	dto := LoggedMealDTO{
		ID:          log.ID,
		MealID:      log.MealID,
		Name:        log.Name,
		Date:        log.Date,
		Time:        log.Time,
		DayType:     log.DayType,
		IsExtraMeal: log.IsExtraMeal,
		Notes:       log.Notes,
	}

	if log.IsExtraMeal {
		foodDTOs := make([]LoggedFoodDTO, len(log.Foods))
		for i, lf := range log.Foods {
			macros := nutrition.LogFoodMacros(lf)
			dto.Totals = dto.Totals.Add(macros)

			foodDTO := LoggedFoodDTO{
				ID:         lf.ID,
				FoodItemID: lf.FoodItemID,
				Quantity:   lf.Quantity,
				Unit:       lf.Unit,
				Macros:     macros,
			}
			if lf.FoodItem != nil {
				foodDTO.FoodName = &lf.FoodItem.Name
			}
			foodDTOs[i] = foodDTO
		}
		dto.Foods = foodDTOs
		return dto, nil
	}

	if log.MealID == nil {
		return dto, nil
	}

	meal := mealByID[*log.MealID]
	if meal == nil {
		fetched, found, err := s.plansStorage.GetMeal(ctx, *log.MealID)
		if err != nil {
			return LoggedMealDTO{}, err
		}
		if !found {
			// meal deleted after logging: the event stays, totals are zero
			return dto, nil
		}
		meal = &fetched
	}
	dto.Totals = nutrition.MealTotals(*meal)
	return dto, nil
}

// loggedDayType returns the day-type recorded on an existing log, if any.
func loggedDayType(logs []storage.MealLog) *string {
	for _, log := range logs {
		if log.DayType != nil && *log.DayType != "" {
			return log.DayType
		}
	}
	return nil
}
