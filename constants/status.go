package constants

// ProcessingStatus is the canonical status for uploaded statements.
type ProcessingStatus string

// Stable values (store these exact strings in DB).
const (
	StatusPending    ProcessingStatus = "pending"    // uploaded, not yet processed
	StatusProcessing ProcessingStatus = "processing" // extraction in progress
	StatusCompleted  ProcessingStatus = "completed"  // at least one candidate persisted
	StatusFailed     ProcessingStatus = "failed"     // terminal failure or zero candidates
)

// TransactionType classifies a transaction's direction.
type TransactionType string

const (
	TypeIncome   TransactionType = "income"
	TypeExpense  TransactionType = "expense"
	TypeTransfer TransactionType = "transfer"
)

// Confidence levels by extraction origin.
const (
	ProviderConfidence float32 = 0.85 // structured extraction via the model provider
	FallbackConfidence float32 = 0.6  // deterministic pattern extraction
	ManualConfidence   float32 = 1.0  // user-entered
)
