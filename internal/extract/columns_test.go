package extract

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInferColumns_Headers(t *testing.T) {
	headers := []string{"Transaction Date", "Description", "Amount", "Type"}
	m := InferColumns(headers, DefaultInferenceConfig())

	assert.Equal(t, 0, m.Date)
	assert.Equal(t, 1, m.Description)
	assert.Equal(t, 2, m.Amount)
	assert.Equal(t, 3, m.Type)
	assert.Equal(t, -1, m.Debit)
	assert.Equal(t, -1, m.Credit)
}

func TestInferColumns_PositionalFallback(t *testing.T) {
	headers := []string{"col1", "col2", "col3"}
	m := InferColumns(headers, DefaultInferenceConfig())

	assert.Equal(t, 0, m.Date)
	assert.Equal(t, 1, m.Description)
	assert.Equal(t, 2, m.Amount)
	assert.Equal(t, -1, m.Type)
}

func TestResolveRow_DebitCreditPair(t *testing.T) {
	headers := []string{"Date", "Memo", "Debit Amount", "Credit Amount"}
	m := InferColumns(headers, DefaultInferenceConfig())
	require.Equal(t, 2, m.Debit)
	require.Equal(t, 3, m.Credit)

	line, ok := m.ResolveRow([]string{"2024-01-10", "Coffee Shop", "4.50", ""})
	require.True(t, ok)
	assert.Equal(t, "2024-01-10,Coffee Shop,-4.5,Debit", line)

	line, ok = m.ResolveRow([]string{"2024-01-11", "Paycheck", "", "1200.00"})
	require.True(t, ok)
	assert.Equal(t, "2024-01-11,Paycheck,1200,Credit", line)
}

func TestResolveRow_TypeKeywordCorrectsSign(t *testing.T) {
	headers := []string{"Date", "Description", "Amount", "Type"}
	m := InferColumns(headers, DefaultInferenceConfig())

	line, ok := m.ResolveRow([]string{"2024-03-01", "Grocery Run", "52.10", "Debit"})
	require.True(t, ok)
	assert.Equal(t, "2024-03-01,Grocery Run,-52.1,Debit", line)

	line, ok = m.ResolveRow([]string{"2024-03-02", "Refund", "-10.00", "Credit"})
	require.True(t, ok)
	assert.Equal(t, "2024-03-02,Refund,10,Credit", line)
}

func TestResolveRow_DropsIncompleteRows(t *testing.T) {
	headers := []string{"Date", "Description", "Amount"}
	m := InferColumns(headers, DefaultInferenceConfig())

	_, ok := m.ResolveRow([]string{"", "No Date", "5.00"})
	assert.False(t, ok)

	_, ok = m.ResolveRow([]string{"2024-01-01", "", "5.00"})
	assert.False(t, ok)

	_, ok = m.ResolveRow([]string{"2024-01-01", "Not A Number", "abc"})
	assert.False(t, ok)
}

func TestResolveRow_StripsCurrencyNoise(t *testing.T) {
	headers := []string{"Date", "Description", "Amount"}
	m := InferColumns(headers, DefaultInferenceConfig())

	line, ok := m.ResolveRow([]string{"2024-04-01", "Rent", "$1,450.00"})
	require.True(t, ok)
	assert.Equal(t, "2024-04-01,Rent,1450,", line)
}
