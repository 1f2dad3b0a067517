package extract

import (
	"context"
	"time"
)

// TextExtractor is stage 1 of the pipeline: statement bytes -> normalized text.
type TextExtractor interface {
	Extract(ctx context.Context, format string, content []byte) (Result, error)
}

// Result is the normalized text derived from one source document. For CSV and
// spreadsheet inputs the text is pseudo-CSV: one comma-joined line per row.
type Result struct {
	Text     string
	Format   string // constants.PDF | CSV | TXT | XLS | XLSX
	Rows     int    // line count for tabular sources, 0 otherwise
	Duration time.Duration
	Warnings []string
}
