package pipeline

import (
	"log/slog"
	"strings"

	"github.com/budgetwise/statements/constants"
	"github.com/budgetwise/statements/internal/entity"
)

// normalize applies the final acceptance rules to candidates from either
// extraction path. Rows with a zero date, blank description or unrecognized
// type are dropped; unknown categories fall back to Other and confidence is
// clamped to [0,1]. It never re-derives a type, it only rejects nonsense.
func normalize(candidates []entity.Transaction, logger *slog.Logger) []entity.Transaction {
	out := make([]entity.Transaction, 0, len(candidates))
	for i, tx := range candidates {
		if tx.Date.IsZero() {
			logger.Debug("normalize.drop", "index", i, "reason", "zero date")
			continue
		}
		tx.Description = strings.TrimSpace(tx.Description)
		if tx.Description == "" {
			logger.Debug("normalize.drop", "index", i, "reason", "empty description")
			continue
		}
		if _, ok := constants.Canonicalize(string(tx.Category)); !ok {
			tx.Category = constants.Other
		}
		switch tx.Type {
		case constants.TypeIncome, constants.TypeExpense, constants.TypeTransfer:
		default:
			logger.Debug("normalize.drop", "index", i, "reason", "unknown type", "type", tx.Type)
			continue
		}
		if tx.Confidence < 0 {
			tx.Confidence = 0
		} else if tx.Confidence > 1 {
			tx.Confidence = 1
		}
		out = append(out, tx)
	}
	return out
}
