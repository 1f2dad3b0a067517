package llm

import (
	"strings"

	"github.com/budgetwise/statements/constants"
)

// categoryGuidance enumerates the provider-side vocabulary with one-line
// selection rules. Order matches constants.AsStringSlice.
var categoryGuidance = map[constants.Category]string{
	constants.Food:           "restaurants, groceries, food delivery",
	constants.Transportation: "gas, uber, public transport, car payments",
	constants.Utilities:      "electricity, water, internet, phone bills",
	constants.Entertainment:  "movies, games, streaming services",
	constants.Shopping:       "retail purchases, clothing, electronics",
	constants.Healthcare:     "medical bills, pharmacy, insurance",
	constants.Education:      "tuition, books, courses",
	constants.Housing:        "rent, mortgage, home maintenance",
	constants.Income:         "salary, freelance, business income",
	constants.Transfer:       "bank transfers, ATM withdrawals",
	constants.Other:          "anything that doesn't fit above categories",
}

// BuildSystemPrompt composes the fixed extraction contract: output schema,
// category vocabulary, and one worked example. The contract never varies per
// document, only the user message does.
func BuildSystemPrompt() string {
	var b strings.Builder
	b.WriteString("You are an expert financial transaction extractor and categorizer. ")
	b.WriteString("Extract transactions from bank statements and return them as a JSON array.\n\n")
	b.WriteString("Each transaction should have:\n")
	b.WriteString("- date: YYYY-MM-DD format\n")
	b.WriteString("- description: clean transaction description\n")
	b.WriteString("- amount: number (positive for income/deposits, negative for expenses/withdrawals)\n")
	b.WriteString("- type: \"income\", \"expense\", or \"transfer\"\n")
	b.WriteString("- category: one of these categories based on the transaction:\n")
	for _, cat := range constants.AsStringSlice() {
		b.WriteString("  * \"" + cat + "\" - " + categoryGuidance[constants.Category(cat)] + "\n")
	}
	b.WriteString("- merchant: extract merchant/company name if identifiable\n\n")
	b.WriteString(`Example format:
[
  {
    "date": "2024-01-15",
    "description": "Salary Deposit - ABC Company",
    "amount": 5000.00,
    "type": "income",
    "category": "income",
    "merchant": "ABC Company"
  },
  {
    "date": "2024-01-16",
    "description": "Walmart Grocery Purchase",
    "amount": -150.75,
    "type": "expense",
    "category": "food",
    "merchant": "Walmart"
  }
]

Return ONLY the JSON array, no other text.`)
	return b.String()
}

// BuildUserPrompt packages the normalized statement text.
func BuildUserPrompt(text string) string {
	return "Extract transactions from this bank statement:\n\n" + text
}
