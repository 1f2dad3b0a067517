package entity

import (
	"time"

	"github.com/google/uuid"

	"github.com/budgetwise/statements/constants"
)

// Statement is an uploaded source document. Content is immutable once stored;
// processing status and transaction count are updated by the pipeline.
type Statement struct {
	ID               uuid.UUID
	OriginalFilename string
	FileType         string // constants.PDF | CSV | TXT | XLS | XLSX
	FileSize         int64
	MimeType         string
	Content          []byte
	UploadedAt       time.Time
	Processed        bool
	ProcessingStatus constants.ProcessingStatus
	TransactionCount int
}
