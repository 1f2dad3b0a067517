package pipeline

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/budgetwise/statements/constants"
	"github.com/budgetwise/statements/internal/entity"
)

func candidate(mutate func(*entity.Transaction)) entity.Transaction {
	tx := entity.Transaction{
		Date:        time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC),
		Description: "Coffee Shop",
		Amount:      decimal.RequireFromString("-4.50"),
		Type:        constants.TypeExpense,
		Category:    constants.Food,
		Confidence:  constants.ProviderConfidence,
	}
	if mutate != nil {
		mutate(&tx)
	}
	return tx
}

func TestNormalize_PassesValidCandidates(t *testing.T) {
	out := normalize([]entity.Transaction{candidate(nil)}, testLogger())
	require.Len(t, out, 1)
	assert.Equal(t, "Coffee Shop", out[0].Description)
}

func TestNormalize_DropRules(t *testing.T) {
	in := []entity.Transaction{
		candidate(func(tx *entity.Transaction) { tx.Date = time.Time{} }),
		candidate(func(tx *entity.Transaction) { tx.Description = "   " }),
		candidate(func(tx *entity.Transaction) { tx.Type = "refund" }),
		candidate(nil),
	}
	out := normalize(in, testLogger())
	require.Len(t, out, 1)
	assert.Equal(t, constants.TypeExpense, out[0].Type)
}

func TestNormalize_DefaultsUnknownCategory(t *testing.T) {
	in := []entity.Transaction{
		candidate(func(tx *entity.Transaction) { tx.Category = "" }),
		candidate(func(tx *entity.Transaction) { tx.Category = "cryptocurrency" }),
	}
	out := normalize(in, testLogger())
	require.Len(t, out, 2)
	assert.Equal(t, constants.Other, out[0].Category)
	assert.Equal(t, constants.Other, out[1].Category)
}

func TestNormalize_ClampsConfidence(t *testing.T) {
	in := []entity.Transaction{
		candidate(func(tx *entity.Transaction) { tx.Confidence = 1.7 }),
		candidate(func(tx *entity.Transaction) { tx.Confidence = -0.2 }),
	}
	out := normalize(in, testLogger())
	require.Len(t, out, 2)
	assert.Equal(t, float32(1), out[0].Confidence)
	assert.Equal(t, float32(0), out[1].Confidence)
}

func TestNormalize_TrimsDescription(t *testing.T) {
	in := []entity.Transaction{
		candidate(func(tx *entity.Transaction) { tx.Description = "  Coffee Shop  " }),
	}
	out := normalize(in, testLogger())
	require.Len(t, out, 1)
	assert.Equal(t, "Coffee Shop", out[0].Description)
}

func TestNormalize_EmptyInput(t *testing.T) {
	assert.Empty(t, normalize(nil, testLogger()))
}
