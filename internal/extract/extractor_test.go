package extract

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/budgetwise/statements/constants"
	"github.com/budgetwise/statements/internal/common"
)

func newTestExtractor(t *testing.T) *Extractor {
	t.Helper()
	return NewExtractor(Config{}, nil)
}

func TestExtract_UnsupportedFormat(t *testing.T) {
	e := newTestExtractor(t)
	_, err := e.Extract(context.Background(), "DOCX", []byte("whatever content this holds"))
	assert.ErrorIs(t, err, common.ErrUnsupportedFormat)
}

func TestExtract_EmptyContentGate(t *testing.T) {
	e := newTestExtractor(t)

	_, err := e.Extract(context.Background(), constants.TXT, []byte("   \n  "))
	assert.ErrorIs(t, err, common.ErrEmptyContent)

	// 9 trimmed characters is still under the gate
	_, err = e.Extract(context.Background(), constants.TXT, []byte(" short txt "))
	assert.ErrorIs(t, err, common.ErrEmptyContent)
}

func TestExtract_TXT(t *testing.T) {
	e := newTestExtractor(t)
	content := "2024-02-01 Starbucks Coffee -5.75\n2024-02-02 Payroll 3000.00\n"

	res, err := e.Extract(context.Background(), constants.TXT, []byte(content))
	require.NoError(t, err)
	assert.Equal(t, constants.TXT, res.Format)
	assert.Contains(t, res.Text, "Starbucks Coffee")
}

func TestExtract_CSV(t *testing.T) {
	e := newTestExtractor(t)
	content := "Date,Description,Amount,Type\n" +
		"01/15/2024,Salary Deposit,3000.00,Credit\n" +
		"01/16/2024,Grocery Store,-82.45,Debit\n"

	res, err := e.Extract(context.Background(), constants.CSV, []byte(content))
	require.NoError(t, err)
	assert.Equal(t, 2, res.Rows)
	assert.Contains(t, res.Text, "01/15/2024,Salary Deposit,3000,Credit")
	assert.Contains(t, res.Text, "01/16/2024,Grocery Store,-82.45,Debit")
}

func TestExtract_CSV_SkipsBadRows(t *testing.T) {
	e := newTestExtractor(t)
	content := "Date,Description,Amount\n" +
		"2024-01-01,Coffee,4.50\n" +
		"not,a,transaction,row,at all\n" +
		"2024-01-02,Lunch,12.00\n"

	res, err := e.Extract(context.Background(), constants.CSV, []byte(content))
	require.NoError(t, err)
	assert.Equal(t, 2, res.Rows)
}

func TestExtract_CSV_NoResolvableRows(t *testing.T) {
	e := newTestExtractor(t)
	content := "Date,Description,Amount\n,,\n,,\n"

	_, err := e.Extract(context.Background(), constants.CSV, []byte(content))
	assert.ErrorIs(t, err, common.ErrEmptyContent)
}

func TestExtract_PDF_Corrupt(t *testing.T) {
	e := newTestExtractor(t)
	_, err := e.Extract(context.Background(), constants.PDF, []byte("this is not a pdf at all"))
	assert.ErrorIs(t, err, common.ErrCorruptFile)
}

func TestExtract_XLSX_Corrupt(t *testing.T) {
	e := newTestExtractor(t)
	_, err := e.Extract(context.Background(), constants.XLSX, []byte("this is not a workbook"))
	assert.Error(t, err)
}
