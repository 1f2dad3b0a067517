package constants

import (
	"strings"
)

type Category string

// Canonical extraction vocabulary. Both the provider contract and the
// pattern extractor classify into these values; anything else is coerced
// to Other before a candidate crosses the pipeline boundary.
const (
	Food           Category = "food"
	Transportation Category = "transportation"
	Utilities      Category = "utilities"
	Entertainment  Category = "entertainment"
	Shopping       Category = "shopping"
	Healthcare     Category = "healthcare"
	Education      Category = "education"
	Housing        Category = "housing"
	Income         Category = "income"
	Transfer       Category = "transfer"
	Other          Category = "other"
)

var allCategories = []Category{
	Food,
	Transportation,
	Utilities,
	Entertainment,
	Shopping,
	Healthcare,
	Education,
	Housing,
	Income,
	Transfer,
	Other,
}

// DisplayCategories is the larger vocabulary the manual-entry surface offers.
// It is intentionally wider than the extraction vocabulary; Canonicalize
// reconciles the two.
var DisplayCategories = []string{
	"Food & Dining",
	"Shopping",
	"Housing",
	"Transportation",
	"Entertainment",
	"Healthcare",
	"Education",
	"Personal Care",
	"Travel",
	"Utilities",
	"Insurance",
	"Investments",
	"Income",
	"Transfer",
	"Other",
}

// displayToCanonical maps each display label onto the canonical vocabulary.
// Display-only labels without a narrower home collapse to the closest
// canonical bucket, or Other.
var displayToCanonical = map[string]Category{
	"food & dining":  Food,
	"shopping":       Shopping,
	"housing":        Housing,
	"transportation": Transportation,
	"entertainment":  Entertainment,
	"healthcare":     Healthcare,
	"education":      Education,
	"personal care":  Healthcare,
	"travel":         Transportation,
	"utilities":      Utilities,
	"insurance":      Other,
	"investments":    Other,
	"income":         Income,
	"transfer":       Transfer,
	"other":          Other,
}

func AsStringSlice() []string {
	result := make([]string, len(allCategories))
	for i, cat := range allCategories {
		result[i] = string(cat)
	}
	return result
}

// Canonicalize maps arbitrary category input onto the canonical vocabulary.
// The boolean reports whether the input was recognized; unrecognized input
// always lands on Other.
func Canonicalize(input string) (Category, bool) {
	if input == "" {
		return Other, false
	}

	normalized := strings.ToLower(strings.TrimSpace(input))

	for _, cat := range allCategories {
		if normalized == string(cat) {
			return cat, true
		}
	}

	if cat, ok := displayToCanonical[normalized]; ok {
		return cat, true
	}

	return Other, false
}
