package fallback

import (
	"strings"

	"github.com/budgetwise/statements/constants"
)

// categoryRule pairs a category with the keywords that select it. Rules are
// tried in order; the first category with any keyword hit wins.
type categoryRule struct {
	category constants.Category
	keywords []string
}

var categoryRules = []categoryRule{
	{constants.Food, []string{
		"restaurant", "food", "grocery", "starbucks", "mcdonald", "pizza",
		"cafe", "dining", "uber eats", "doordash", "grubhub",
	}},
	{constants.Transportation, []string{
		"gas", "fuel", "uber", "lyft", "taxi", "metro", "bus", "parking", "toll",
	}},
	{constants.Utilities, []string{
		"electric", "water", "internet", "phone", "cable", "utility",
		"verizon", "at&t", "comcast",
	}},
	{constants.Entertainment, []string{
		"netflix", "spotify", "movie", "theater", "game", "entertainment",
		"amazon prime", "hulu", "disney",
	}},
	{constants.Shopping, []string{
		"amazon", "walmart", "target", "store", "shop", "purchase", "retail", "mall",
	}},
	{constants.Healthcare, []string{
		"medical", "doctor", "pharmacy", "hospital", "health", "cvs", "walgreens", "clinic",
	}},
	{constants.Housing, []string{
		"rent", "mortgage", "property", "home", "apartment", "housing",
	}},
	{constants.Income, []string{
		"salary", "payroll", "deposit", "income", "payment received", "refund",
	}},
	{constants.Transfer, []string{
		"transfer", "atm", "withdrawal", "deposit", "wire",
	}},
}

// categorize picks a category for a description by first keyword match;
// anything unmatched lands on Other.
func categorize(description string) constants.Category {
	desc := strings.ToLower(description)
	for _, rule := range categoryRules {
		for _, kw := range rule.keywords {
			if strings.Contains(desc, kw) {
				return rule.category
			}
		}
	}
	return constants.Other
}
