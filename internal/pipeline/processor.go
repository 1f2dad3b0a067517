package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/budgetwise/statements/constants"
	"github.com/budgetwise/statements/internal/common"
	"github.com/budgetwise/statements/internal/entity"
	"github.com/budgetwise/statements/internal/extract"
	"github.com/budgetwise/statements/internal/fallback"
	"github.com/budgetwise/statements/internal/llm"
	"github.com/budgetwise/statements/internal/repository"
)

// DocumentResult is the per-statement outcome of a batch run.
type DocumentResult struct {
	StatementID uuid.UUID
	Status      constants.ProcessingStatus
	Count       int
	Err         error
}

// Processor drives a statement through extraction, provider or pattern
// candidate generation, normalization and persistence.
type Processor struct {
	statements repository.StatementRepository
	txs        repository.TransactionRepository
	extractor  *extract.Extractor
	provider   llm.TransactionExtractor
	cfg        common.PipelineConfig
	logger     *slog.Logger
}

func NewProcessor(
	statements repository.StatementRepository,
	txs repository.TransactionRepository,
	extractor *extract.Extractor,
	provider llm.TransactionExtractor,
	cfg common.PipelineConfig,
	logger *slog.Logger,
) *Processor {
	if logger == nil {
		logger = slog.Default()
	}
	return &Processor{
		statements: statements,
		txs:        txs,
		extractor:  extractor,
		provider:   provider,
		cfg:        cfg,
		logger:     logger,
	}
}

// ProcessBatch runs every statement in ids independently. A failure in one
// document is recorded in its result and never aborts the siblings. The
// returned total counts only accepted transactions from completed documents.
func (p *Processor) ProcessBatch(ctx context.Context, ids []uuid.UUID) (int, []DocumentResult) {
	total := 0
	results := make([]DocumentResult, 0, len(ids))
	for _, id := range ids {
		count, err := p.Process(ctx, id)
		res := DocumentResult{StatementID: id, Count: count}
		if err != nil {
			res.Status = constants.StatusFailed
			res.Err = err
			p.logger.Warn("pipeline.document.failed", "statement_id", id, "error", err)
		} else {
			res.Status = constants.StatusCompleted
			total += count
		}
		results = append(results, res)
	}
	p.logger.Info("pipeline.batch.done", "documents", len(ids), "transactions", total)
	return total, results
}

// Process runs one statement end to end and returns the number of accepted
// transactions. The statement's status row always reflects the outcome, even
// when an error is returned.
func (p *Processor) Process(ctx context.Context, id uuid.UUID) (int, error) {
	start := time.Now()

	st, err := p.statements.GetByID(ctx, id)
	if err != nil {
		return 0, err
	}
	if err := p.statements.MarkProcessing(ctx, id); err != nil {
		return 0, err
	}

	candidates, err := p.extractCandidates(ctx, st)
	if err != nil {
		p.fail(ctx, id, err)
		return 0, err
	}

	accepted := normalize(candidates, p.logger)
	if len(accepted) == 0 {
		err := common.NewAppError("NO_TRANSACTIONS", "no transactions recognized in statement", common.ErrEmptyContent)
		p.fail(ctx, id, err)
		return 0, err
	}

	if err := p.txs.CreateBatch(ctx, accepted); err != nil {
		p.fail(ctx, id, err)
		return 0, err
	}
	if err := p.statements.FinishProcessing(ctx, id, constants.StatusCompleted, len(accepted)); err != nil {
		return len(accepted), err
	}

	p.logger.Info("pipeline.document.ok",
		"statement_id", id,
		"format", st.FileType,
		"transactions", len(accepted),
		"elapsed_ms", time.Since(start).Milliseconds())
	return len(accepted), nil
}

// extractCandidates turns statement bytes into transaction candidates. The
// provider path is tried first; provider unavailability or failure falls back
// to the deterministic pattern extractor.
func (p *Processor) extractCandidates(ctx context.Context, st *entity.Statement) ([]entity.Transaction, error) {
	res, err := p.extractor.Extract(ctx, st.FileType, st.Content)
	if err != nil {
		return nil, err
	}

	text := llm.Truncate(res.Text, p.cfg.PromptCharBudget)

	provCtx := ctx
	if p.cfg.ProviderTimeout > 0 {
		var cancel context.CancelFunc
		provCtx, cancel = context.WithTimeout(ctx, p.cfg.ProviderTimeout)
		defer cancel()
	}

	candidates, _, err := p.provider.ExtractTransactions(provCtx, llm.ExtractRequest{
		Text:        text,
		StatementID: st.ID,
	})
	if err != nil {
		if !errors.Is(err, common.ErrProviderUnavailable) && !errors.Is(err, common.ErrProviderError) &&
			!errors.Is(err, context.DeadlineExceeded) {
			return nil, fmt.Errorf("provider extraction: %w", err)
		}
		p.logger.Warn("pipeline.provider.fallback", "statement_id", st.ID, "error", err)
		candidates = fallback.Extract(res.Text, st.ID)
	}
	return candidates, nil
}

func (p *Processor) fail(ctx context.Context, id uuid.UUID, cause error) {
	if err := p.statements.FinishProcessing(ctx, id, constants.StatusFailed, 0); err != nil {
		p.logger.Error("pipeline.status.update_failed", "statement_id", id, "error", err, "cause", cause)
	}
}
