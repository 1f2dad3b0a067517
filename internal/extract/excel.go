package extract

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/extrame/xls"
	"github.com/xuri/excelize/v2"

	"github.com/budgetwise/statements/internal/common"
)

// extractXLSX loads the configured worksheet (first by default), converts it
// to a 2-D grid with blank cells as empty strings, and joins each row with
// commas into pseudo-CSV text.
func (e *Extractor) extractXLSX(content []byte) (Result, error) {
	f, err := excelize.OpenReader(bytes.NewReader(content))
	if err != nil {
		return Result{}, fmt.Errorf("%w: open xlsx: %v", common.ErrCorruptFile, err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil {
			e.logger.Warn("extract.xlsx.close_error", "error", cerr)
		}
	}()

	sheets := f.GetSheetList()
	if e.cfg.WorksheetIndex >= len(sheets) {
		return Result{}, fmt.Errorf("%w: workbook has no worksheet at index %d", common.ErrUnsupportedFormat, e.cfg.WorksheetIndex)
	}

	rows, err := f.GetRows(sheets[e.cfg.WorksheetIndex])
	if err != nil {
		return Result{}, fmt.Errorf("%w: read worksheet: %v", common.ErrCorruptFile, err)
	}
	if len(rows) == 0 {
		return Result{}, fmt.Errorf("%w: worksheet %q is empty", common.ErrEmptyContent, sheets[e.cfg.WorksheetIndex])
	}

	lines := make([]string, 0, len(rows))
	for _, row := range rows {
		lines = append(lines, strings.Join(row, ","))
	}
	return Result{Text: strings.Join(lines, "\n"), Rows: len(lines)}, nil
}

// extractXLS handles the legacy binary workbook format.
func (e *Extractor) extractXLS(content []byte) (Result, error) {
	wb, err := xls.OpenReader(bytes.NewReader(content), "utf-8")
	if err != nil {
		return Result{}, fmt.Errorf("%w: open xls: %v", common.ErrCorruptFile, err)
	}
	if wb.NumSheets() == 0 || e.cfg.WorksheetIndex >= wb.NumSheets() {
		return Result{}, fmt.Errorf("%w: workbook has no worksheet at index %d", common.ErrUnsupportedFormat, e.cfg.WorksheetIndex)
	}

	sheet := wb.GetSheet(e.cfg.WorksheetIndex)
	if sheet == nil {
		return Result{}, fmt.Errorf("%w: worksheet %d unreadable", common.ErrCorruptFile, e.cfg.WorksheetIndex)
	}

	var lines []string
	for i := 0; i <= int(sheet.MaxRow); i++ {
		row := sheet.Row(i)
		if row == nil {
			lines = append(lines, "")
			continue
		}
		cells := make([]string, 0, row.LastCol())
		for c := 0; c < row.LastCol(); c++ {
			cells = append(cells, row.Col(c))
		}
		lines = append(lines, strings.Join(cells, ","))
	}
	if len(lines) == 0 {
		return Result{}, fmt.Errorf("%w: worksheet %d is empty", common.ErrEmptyContent, e.cfg.WorksheetIndex)
	}
	return Result{Text: strings.Join(lines, "\n"), Rows: len(lines)}, nil
}
