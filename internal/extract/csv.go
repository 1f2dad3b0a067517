package extract

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/budgetwise/statements/internal/common"
)

// extractCSV parses rows tolerantly (unparsable lines are skipped, not fatal),
// infers column roles from the header row, and re-renders data rows as the
// canonical `date,description,amount,type` pseudo-CSV shared with the
// spreadsheet path.
func (e *Extractor) extractCSV(content []byte) (Result, error) {
	r := csv.NewReader(bytes.NewReader(content))
	r.FieldsPerRecord = -1
	r.LazyQuotes = true
	r.TrimLeadingSpace = true

	var records [][]string
	var warnings []string
	for {
		rec, err := r.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			warnings = append(warnings, err.Error())
			continue
		}
		if len(rec) == 0 {
			continue
		}
		records = append(records, rec)
	}
	if len(records) == 0 {
		return Result{Warnings: warnings}, fmt.Errorf("%w: no parsable rows in csv", common.ErrEmptyContent)
	}

	headers := records[0]
	mapping := InferColumns(headers, e.cfg.Columns)
	e.logger.Debug("extract.csv.columns",
		"headers", len(headers),
		"date_col", mapping.Date, "desc_col", mapping.Description,
		"amount_col", mapping.Amount, "type_col", mapping.Type,
		"debit_col", mapping.Debit, "credit_col", mapping.Credit,
	)

	var lines []string
	for _, row := range records[1:] {
		line, ok := mapping.ResolveRow(row)
		if !ok {
			continue
		}
		lines = append(lines, line)
	}
	if len(lines) == 0 {
		return Result{Warnings: warnings}, fmt.Errorf("%w: no transaction rows resolved from csv", common.ErrEmptyContent)
	}

	return Result{
		Text:     strings.Join(lines, "\n"),
		Rows:     len(lines),
		Warnings: warnings,
	}, nil
}
