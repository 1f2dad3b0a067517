package entity

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/budgetwise/statements/constants"
)

// Transaction is a normalized transaction record. Candidates produced by the
// extraction pipeline become Transactions once the caller persists them.
type Transaction struct {
	ID           uuid.UUID
	Date         time.Time // calendar date, midnight UTC
	Description  string
	Amount       decimal.Decimal // positive = inflow
	Type         constants.TransactionType
	Category     constants.Category
	Merchant     string
	SourceFile   uuid.UUID // statement this was extracted from; Nil for manual entries
	Confidence   float32   // 0.85 provider, 0.6 pattern, 1.0 manual
	UserModified bool
	CreatedAt    time.Time
}
