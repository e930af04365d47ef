package nutrition

import (
	"sort"

	"github.com/brunosouza-justauto/eng-sub005/internal/storage"
)

// Selection is the result of filtering a plan's meals to a day type.
// FellBackToAll marks the degraded case where no meal matched the requested
// day type and the full meal list was returned instead, so callers can surface
// a data-quality warning rather than silently masking bad tags.
type Selection struct {
	Meals         []storage.Meal
	FellBackToAll bool
}

// SelectMeals filters meals to those tagged with dayType, ordered by
// OrderIndex ascending (stable, so equal indexes keep insertion order).
// A nil dayType means the plan is ungated and all meals apply. When the
// day-type string matches no meal at all, the whole list is returned with
// FellBackToAll set.
func SelectMeals(meals []storage.Meal, dayType *string) Selection {
	if dayType == nil {
		return Selection{Meals: sortByOrder(meals)}
	}

	var matched []storage.Meal
	for _, m := range meals {
		if m.DayType != nil && *m.DayType == *dayType {
			matched = append(matched, m)
		}
	}

	if len(matched) == 0 {
		return Selection{Meals: sortByOrder(meals), FellBackToAll: true}
	}

	return Selection{Meals: sortByOrder(matched)}
}

func sortByOrder(meals []storage.Meal) []storage.Meal {
	out := make([]storage.Meal, len(meals))
	copy(out, meals)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].OrderIndex < out[j].OrderIndex
	})
	return out
}
