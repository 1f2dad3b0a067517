package fallback

import (
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/budgetwise/statements/constants"
	"github.com/budgetwise/statements/internal/entity"
)

// minLineLength mirrors the extractor-wide minimum-content gate at line
// granularity: shorter lines cannot carry a date, description and amount.
const minLineLength = 10

var amountNoise = strings.NewReplacer("$", "", ",", "")
var descriptionNoise = strings.NewReplacer(`"`, "", ",", "")

// Extract is the deterministic pattern path used when the provider is
// unavailable or fails. It is pure, never errors, and at worst returns an
// empty list. All candidates carry the fixed pattern confidence.
//
// Transfer is never inferred here; only the provider hints transfers.
func Extract(text string, statementID uuid.UUID) []entity.Transaction {
	var out []entity.Transaction

	for _, line := range strings.Split(text, "\n") {
		trimmed := strings.TrimSpace(line)
		if len(trimmed) < minLineLength {
			continue
		}

		m, ok := matchLine(trimmed)
		if !ok {
			continue
		}

		date, ok := parseDate(strings.TrimSpace(m.Date))
		if !ok {
			continue
		}

		description := strings.TrimSpace(descriptionNoise.Replace(m.Description))
		if len(description) < 3 {
			continue
		}

		amount, err := decimal.NewFromString(amountNoise.Replace(strings.TrimSpace(m.Amount)))
		if err != nil {
			continue
		}

		out = append(out, entity.Transaction{
			Date:         date,
			Description:  description,
			Amount:       amount,
			Type:         inferType(m.TypeHint, amount),
			Category:     categorize(description),
			Merchant:     extractMerchant(description),
			SourceFile:   statementID,
			Confidence:   constants.FallbackConfidence,
			UserModified: false,
		})
	}
	return out
}

// inferType decides income vs expense. A credit/deposit hint or a
// non-negative amount means income; everything else is an expense.
func inferType(hint string, amount decimal.Decimal) constants.TransactionType {
	h := strings.ToLower(strings.TrimSpace(hint))
	if strings.Contains(h, "credit") || strings.Contains(h, "deposit") || !amount.IsNegative() {
		return constants.TypeIncome
	}
	return constants.TypeExpense
}
