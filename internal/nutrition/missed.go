package nutrition

import (
	"sort"
	"strings"

	"github.com/brunosouza-justauto/eng-sub005/internal/storage"
	"github.com/google/uuid"
)

// MissedMeal describes a planned meal whose suggested time has passed without
// a corresponding log entry.
type MissedMeal struct {
	MealID         uuid.UUID `json:"meal_id"`
	Name           string    `json:"name"`
	TimeSuggestion string    `json:"time_suggestion"`
}

// DetectMissedMeals returns the planned meals for the resolved day type that
// have a suggested time strictly earlier than now ("HH:MM" or "HH:MM:SS") and
// no non-extra log entry. Stateless: re-running with unchanged inputs yields
// the same set.
//
// Meals sharing a display name produce a single entry: duplicate meal rows
// with the same name are a known data-quality issue and must not double-alert.
func DetectMissedMeals(meals []storage.Meal, dayType *string, loggedMealIDs map[uuid.UUID]bool, now string) []MissedMeal {
	nowHHMM := clockHHMM(now)
	if nowHHMM == "" {
		return nil
	}

	candidates := SelectMeals(meals, dayType).Meals

	seenNames := make(map[string]bool)
	var missed []MissedMeal
	for _, m := range candidates {
		if m.TimeSuggestion == nil || *m.TimeSuggestion == "" {
			continue
		}
		if clockHHMM(*m.TimeSuggestion) >= nowHHMM {
			continue
		}
		if loggedMealIDs[m.ID] {
			continue
		}
		if seenNames[m.Name] {
			continue
		}
		seenNames[m.Name] = true
		missed = append(missed, MissedMeal{
			MealID:         m.ID,
			Name:           m.Name,
			TimeSuggestion: *m.TimeSuggestion,
		})
	}

	sort.Slice(missed, func(i, j int) bool {
		if missed[i].TimeSuggestion != missed[j].TimeSuggestion {
			return missed[i].TimeSuggestion < missed[j].TimeSuggestion
		}
		return missed[i].Name < missed[j].Name
	})

	return missed
}

// clockHHMM normalizes "HH:MM[:SS]" to "HH:MM". Zero-padded clock strings
// compare correctly as plain strings.
func clockHHMM(t string) string {
	t = strings.TrimSpace(t)
	if len(t) < 5 {
		return ""
	}
	return t[:5]
}
