package extract

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/dslipak/pdf"

	"github.com/budgetwise/statements/internal/common"
)

// extractPDF reads the embedded text layer. Scanned PDFs without a text layer
// come back empty and fail the minimum-content gate upstream.
func (e *Extractor) extractPDF(content []byte) (Result, error) {
	r, err := pdf.NewReader(bytes.NewReader(content), int64(len(content)))
	if err != nil {
		return Result{}, fmt.Errorf("%w: open pdf: %v", common.ErrCorruptFile, err)
	}

	plain, err := r.GetPlainText()
	if err != nil {
		return Result{}, fmt.Errorf("%w: read pdf text: %v", common.ErrCorruptFile, err)
	}

	var buf bytes.Buffer
	if _, err := buf.ReadFrom(plain); err != nil {
		return Result{}, fmt.Errorf("%w: buffer pdf text: %v", common.ErrCorruptFile, err)
	}

	text := buf.String()
	if strings.TrimSpace(text) == "" {
		return Result{}, fmt.Errorf("%w: no text layer in pdf", common.ErrEmptyContent)
	}
	return Result{Text: text}, nil
}

func (e *Extractor) extractText(content []byte) (Result, error) {
	text := string(content)
	if strings.TrimSpace(text) == "" {
		return Result{}, fmt.Errorf("%w: text file is empty", common.ErrEmptyContent)
	}
	return Result{Text: text}, nil
}
