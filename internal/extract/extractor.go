package extract

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/budgetwise/statements/constants"
	"github.com/budgetwise/statements/internal/common"
)

// MinTextLength is the minimum number of trimmed characters any extractor
// result must carry; anything shorter fails with ErrEmptyContent regardless
// of format.
const MinTextLength = 10

type Config struct {
	WorksheetIndex int             // which worksheet of a workbook to read, default 0
	Columns        InferenceConfig // role-priority patterns for header inference
}

type Extractor struct {
	cfg    Config
	logger *slog.Logger
}

func NewExtractor(cfg Config, logger *slog.Logger) *Extractor {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.Columns.RolePatterns == nil {
		cfg.Columns = DefaultInferenceConfig()
	}
	return &Extractor{cfg: cfg, logger: logger}
}

// Extract picks a strategy based on the declared format and enforces the
// minimum-content gate shared by all formats.
func (e *Extractor) Extract(ctx context.Context, format string, content []byte) (Result, error) {
	start := time.Now()
	e.logger.Debug("extract.start", "format", format, "bytes", len(content))

	var (
		res Result
		err error
	)
	switch format {
	case constants.PDF:
		res, err = e.extractPDF(content)
	case constants.TXT:
		res, err = e.extractText(content)
	case constants.CSV:
		res, err = e.extractCSV(content)
	case constants.XLS:
		res, err = e.extractXLS(content)
	case constants.XLSX:
		res, err = e.extractXLSX(content)
	default:
		return Result{}, fmt.Errorf("%w: %q", common.ErrUnsupportedFormat, format)
	}
	if err != nil {
		e.logger.Error("extract.failed", "format", format, "error", err)
		return res, err
	}

	if len(strings.TrimSpace(res.Text)) < MinTextLength {
		return res, fmt.Errorf("%w: %d chars after %s extraction", common.ErrEmptyContent, len(strings.TrimSpace(res.Text)), format)
	}

	res.Format = format
	res.Duration = time.Since(start)
	e.logger.Info("extract.ok", "format", format, "text_len", len(res.Text), "rows", res.Rows, "elapsed_ms", res.Duration.Milliseconds())
	return res, nil
}
