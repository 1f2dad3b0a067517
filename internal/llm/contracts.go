package llm

import (
	"context"
	"encoding/json"

	"github.com/google/uuid"

	"github.com/budgetwise/statements/internal/entity"
)

// TransactionFields is the per-element shape the provider contract asks for.
// Amount stays a json.Number until validation so malformed elements can be
// dropped individually instead of failing the batch.
type TransactionFields struct {
	Date        string      `json:"date"`        // YYYY-MM-DD
	Description string      `json:"description"` // clean transaction description
	Amount      json.Number `json:"amount"`      // signed; positive = inflow
	Type        string      `json:"type,omitempty"`
	Category    string      `json:"category,omitempty"` // provider-side vocabulary
	Merchant    string      `json:"merchant,omitempty"`
}

type ExtractRequest struct {
	Text        string // normalized statement text, already truncated to budget
	StatementID uuid.UUID
}

// TransactionExtractor is the interface the pipeline depends on.
type TransactionExtractor interface {
	ExtractTransactions(ctx context.Context, req ExtractRequest) ([]entity.Transaction, []byte /*rawJSON*/, error)
}

// Truncate clips text to the provider character budget.
func Truncate(text string, budget int) string {
	if budget > 0 && len(text) > budget {
		return text[:budget]
	}
	return text
}
