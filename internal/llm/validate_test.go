package llm

import (
	"encoding/json"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/budgetwise/statements/constants"
)

func rawElements(t *testing.T, docs ...string) []json.RawMessage {
	t.Helper()
	out := make([]json.RawMessage, 0, len(docs))
	for _, d := range docs {
		require.True(t, json.Valid([]byte(d)), "test element must be valid JSON: %s", d)
		out = append(out, json.RawMessage(d))
	}
	return out
}

func TestValidateElements_AcceptsWellFormed(t *testing.T) {
	statementID := uuid.New()
	elements := rawElements(t,
		`{"date":"2024-01-15","description":"Salary","amount":3000.00,"type":"income","category":"income","merchant":"Acme Corp"}`,
	)

	txs := ValidateElements(elements, statementID, nil)
	require.Len(t, txs, 1)

	tx := txs[0]
	assert.Equal(t, "2024-01-15", tx.Date.Format("2006-01-02"))
	assert.Equal(t, "Salary", tx.Description)
	assert.Equal(t, "3000", tx.Amount.String())
	assert.Equal(t, constants.TypeIncome, tx.Type)
	assert.Equal(t, constants.Income, tx.Category)
	assert.Equal(t, "Acme Corp", tx.Merchant)
	assert.Equal(t, constants.ProviderConfidence, tx.Confidence)
	assert.Equal(t, statementID, tx.SourceFile)
	assert.False(t, tx.UserModified)
}

func TestValidateElements_DropsInvalidIndividually(t *testing.T) {
	elements := rawElements(t,
		`{"date":"2024-01-15","description":"Keeper","amount":-5.0}`,
		`{"date":"Jan 15 2024","description":"Bad date","amount":-5.0}`,
		`{"date":"2024-01-15","description":"","amount":-5.0}`,
		`{"date":"2024-01-15","amount":-5.0}`,
		`{"date":"2024-01-15","description":"String amount","amount":"-5.0"}`,
		`{"date":"2024-01-16","description":"Also keeper","amount":2.0}`,
	)

	txs := ValidateElements(elements, uuid.New(), nil)
	require.Len(t, txs, 2)
	assert.Equal(t, "Keeper", txs[0].Description)
	assert.Equal(t, "Also keeper", txs[1].Description)
}

func TestValidateElements_RecomputesType(t *testing.T) {
	elements := rawElements(t,
		// positive amount labeled expense: sign wins
		`{"date":"2024-01-01","description":"Mislabeled","amount":50.0,"type":"expense"}`,
		// negative amount labeled income: sign wins
		`{"date":"2024-01-02","description":"Also mislabeled","amount":-50.0,"type":"income"}`,
		// transfer hint survives either sign
		`{"date":"2024-01-03","description":"Savings move","amount":-200.0,"type":"transfer"}`,
	)

	txs := ValidateElements(elements, uuid.New(), nil)
	require.Len(t, txs, 3)
	assert.Equal(t, constants.TypeIncome, txs[0].Type)
	assert.Equal(t, constants.TypeExpense, txs[1].Type)
	assert.Equal(t, constants.TypeTransfer, txs[2].Type)
}

func TestValidateElements_CoercesCategory(t *testing.T) {
	elements := rawElements(t,
		`{"date":"2024-01-01","description":"Groceries","amount":-50.0,"category":"FOOD"}`,
		`{"date":"2024-01-02","description":"Unknown","amount":-10.0,"category":"cryptocurrency"}`,
		`{"date":"2024-01-03","description":"No category","amount":-10.0}`,
	)

	txs := ValidateElements(elements, uuid.New(), nil)
	require.Len(t, txs, 3)
	assert.Equal(t, constants.Food, txs[0].Category)
	assert.Equal(t, constants.Other, txs[1].Category)
	assert.Equal(t, constants.Other, txs[2].Category)
}

func TestBuildSystemPrompt_NamesAllCategories(t *testing.T) {
	prompt := BuildSystemPrompt()
	for _, cat := range constants.AsStringSlice() {
		assert.Contains(t, prompt, cat)
	}
	assert.Contains(t, prompt, "YYYY-MM-DD")
}
