package nutrition

import "strings"

// UnknownUnitPolicy names the fallback applied to units missing from the
// conversion table. The current policy treats the quantity as grams; swapping
// to a fail-closed (reject) behavior only requires changing this constant and
// the fallback branch in ToGrams.
const UnknownUnitPolicy = "treat-as-grams"

// DefaultServingSizeG is used for the "serving" unit when a food item does not
// declare its own serving size.
const DefaultServingSizeG = 100.0

// UnitServing multiplies by the food item's serving size instead of a fixed
// gram factor, so it is handled separately from the table.
const UnitServing = "serving"

// gramFactors maps supported units to their gram equivalent.
// Volume units assume 1:1 density with water.
var gramFactors = map[string]float64{
	"g":    1,
	"kg":   1000,
	"oz":   28.35,
	"lb":   453.59,
	"ml":   1,
	"l":    1000,
	"cup":  240,
	"tbsp": 15,
	"tsp":  5,
}

// ToGrams converts a quantity in the given unit to grams. The unit is matched
// case-insensitively; servingSizeG is only consulted for the "serving" unit.
func ToGrams(quantity float64, unit string, servingSizeG *float64) float64 {
	u := strings.ToLower(strings.TrimSpace(unit))

	if u == UnitServing {
		size := DefaultServingSizeG
		if servingSizeG != nil && *servingSizeG > 0 {
			size = *servingSizeG
		}
		return quantity * size
	}

	if factor, ok := gramFactors[u]; ok {
		return quantity * factor
	}

	// Unknown unit: see UnknownUnitPolicy.
	return quantity
}

// IsWeightUnit reports whether unit is a recognized weight unit, for which
// macros can be derived from a per-100g profile without explicit values.
func IsWeightUnit(unit string) bool {
	u := strings.ToLower(strings.TrimSpace(unit))
	return u == "g" || u == "oz"
}

// IsSupportedUnit reports whether unit is present in the conversion table.
func IsSupportedUnit(unit string) bool {
	u := strings.ToLower(strings.TrimSpace(unit))
	if u == UnitServing {
		return true
	}
	_, ok := gramFactors[u]
	return ok
}
