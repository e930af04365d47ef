package nutrition

import "github.com/brunosouza-justauto/eng-sub005/internal/storage"

// PlanDayTypes returns the distinct day-type labels declared by a plan's
// meals, in first-seen order.
func PlanDayTypes(meals []storage.Meal) []string {
	seen := make(map[string]bool)
	var types []string
	for _, m := range meals {
		if m.DayType == nil || *m.DayType == "" {
			continue
		}
		if !seen[*m.DayType] {
			seen[*m.DayType] = true
			types = append(types, *m.DayType)
		}
	}
	return types
}

// ResolveDayType picks the day type governing the current view.
// Precedence: caller override (if declared by the plan), then the day type
// recorded on an existing log (if still declared), then the first declared
// day type. A nil result means the plan declares no day types and all meals
// are ungated.
func ResolveDayType(declared []string, override string, logged *string) *string {
	if len(declared) == 0 {
		return nil
	}

	if override != "" {
		for _, d := range declared {
			if d == override {
				return &d
			}
		}
	}

	if logged != nil && *logged != "" {
		for _, d := range declared {
			if d == *logged {
				return &d
			}
		}
	}

	first := declared[0]
	return &first
}
