package fallback

import (
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/budgetwise/statements/constants"
)

func mustDecimal(t *testing.T, s string) decimal.Decimal {
	t.Helper()
	d, err := decimal.NewFromString(s)
	require.NoError(t, err)
	return d
}

func TestExtract_PseudoCSVLine(t *testing.T) {
	statementID := uuid.New()
	txs := Extract("2024-02-01,Starbucks Coffee,-5.75,Debit", statementID)

	require.Len(t, txs, 1)
	tx := txs[0]
	assert.Equal(t, "2024-02-01", tx.Date.Format("2006-01-02"))
	assert.Equal(t, "Starbucks Coffee", tx.Description)
	assert.Equal(t, "-5.75", tx.Amount.String())
	assert.Equal(t, constants.TypeExpense, tx.Type)
	assert.Equal(t, constants.Food, tx.Category)
	assert.Equal(t, "Starbucks Coffee", tx.Merchant)
	assert.Equal(t, constants.FallbackConfidence, tx.Confidence)
	assert.Equal(t, statementID, tx.SourceFile)
}

func TestExtract_DateCommaLine(t *testing.T) {
	txs := Extract("01/15/2024, Salary Deposit, 3000.00", uuid.New())

	require.Len(t, txs, 1)
	assert.Equal(t, "2024-01-15", txs[0].Date.Format("2006-01-02"))
	assert.Equal(t, "Salary Deposit", txs[0].Description)
	assert.Equal(t, "3000", txs[0].Amount.String())
	assert.Equal(t, constants.TypeIncome, txs[0].Type)
	assert.Equal(t, constants.Income, txs[0].Category)
}

func TestExtract_SkipsShortLines(t *testing.T) {
	text := "too short\n\n2024-02-01,Grocery Store Purchase,-42.00,Debit\n"
	txs := Extract(text, uuid.New())

	require.Len(t, txs, 1)
	assert.Equal(t, "Grocery Store Purchase", txs[0].Description)
}

func TestExtract_SkipsUnmatchableLines(t *testing.T) {
	text := "Statement period ending in March\nThank you for banking with us\n"
	txs := Extract(text, uuid.New())
	assert.Empty(t, txs)
}

func TestExtract_Deterministic(t *testing.T) {
	statementID := uuid.New()
	text := "2024-02-01,Starbucks Coffee,-5.75,Debit\n" +
		"2024-02-02,Shell Gas Station,-38.20,Debit\n" +
		"02/03/2024 Payroll Deposit 2500.00\n"

	first := Extract(text, statementID)
	second := Extract(text, statementID)
	assert.Equal(t, first, second)
	require.Len(t, first, 3)
}

func TestExtract_NeverInfersTransfer(t *testing.T) {
	txs := Extract("2024-03-10,Wire Transfer Out,-500.00,Debit", uuid.New())

	require.Len(t, txs, 1)
	assert.Equal(t, constants.TypeExpense, txs[0].Type)
	assert.Equal(t, constants.Transfer, txs[0].Category)
}

func TestInferType(t *testing.T) {
	neg := mustDecimal(t, "-10")
	pos := mustDecimal(t, "10")

	assert.Equal(t, constants.TypeExpense, inferType("Debit", neg))
	assert.Equal(t, constants.TypeIncome, inferType("Credit", neg))
	assert.Equal(t, constants.TypeIncome, inferType("deposit", neg))
	assert.Equal(t, constants.TypeIncome, inferType("", pos))
	assert.Equal(t, constants.TypeIncome, inferType("Debit", pos))
}
