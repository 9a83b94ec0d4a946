package constants

import (
	"strings"
)

type Category string

const (
	FoodAndDrink   Category = "Food & Drink"
	Transportation Category = "Transportation"
	Shopping       Category = "Shopping"
	Entertainment  Category = "Entertainment"
	Healthcare     Category = "Healthcare"
	Utilities      Category = "Utilities"
	Travel         Category = "Travel"
	Education      Category = "Education"
	Business       Category = "Business"
	Other          Category = "Other"
)

var allCategories = []Category{
	FoodAndDrink,
	Transportation,
	Shopping,
	Entertainment,
	Healthcare,
	Utilities,
	Travel,
	Education,
	Business,
	Other,
}

func AsStringSlice() []string {
	result := make([]string, len(allCategories))
	for i, cat := range allCategories {
		result[i] = string(cat)
	}
	return result
}

// Canonicalize maps free-form category labels (e.g. from an LLM response)
// onto the fixed taxonomy. Returns (Other, false) when nothing matches.
func Canonicalize(input string) (Category, bool) {
	if input == "" {
		return Other, false
	}

	normalized := strings.ToLower(strings.TrimSpace(input))

	// synonyms map
	synonyms := map[string]Category{
		"food":           FoodAndDrink,
		"food and drink": FoodAndDrink,
		"dining":         FoodAndDrink,
		"groceries":      FoodAndDrink,
		"restaurant":     FoodAndDrink,
		"transport":      Transportation,
		"fuel":           Transportation,
		"gas":            Transportation,
		"retail":         Shopping,
		"medical":        Healthcare,
		"health":         Healthcare,
		"bills":          Utilities,
		"utility":        Utilities,
		"hotel":          Travel,
		"airline":        Travel,
		"flight":         Travel,
		"training":       Education,
		"course":         Education,
		"office":         Business,
		"professional":   Business,
		"misc":           Other,
		"miscellaneous":  Other,
	}

	if cat, ok := synonyms[normalized]; ok {
		return cat, true
	}

	// check if it matches any category string
	for _, cat := range allCategories {
		if normalized == strings.ToLower(string(cat)) {
			return cat, true
		}
	}

	return Other, false
}
