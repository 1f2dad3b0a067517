package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/joho/godotenv"

	"github.com/budgetwise/statements/constants"
	"github.com/budgetwise/statements/internal/common"
	"github.com/budgetwise/statements/internal/entity"
	"github.com/budgetwise/statements/internal/export"
	"github.com/budgetwise/statements/internal/extract"
	"github.com/budgetwise/statements/internal/llm/openai"
	"github.com/budgetwise/statements/internal/pipeline"
	"github.com/budgetwise/statements/internal/repository"
)

// printError prints an error message to stderr, falling back to stdout if stderr fails
func printError(format string, args ...interface{}) {
	if _, err := fmt.Fprintf(os.Stderr, format, args...); err != nil {
		fmt.Printf(format, args...)
	}
}

func main() {
	var (
		dir     = flag.String("dir", "", "directory to process statements from (required)")
		out     = flag.String("out", "", "output XLSX file path (optional, defaults to parent directory)")
		fromStr = flag.String("from", "", "from date YYYY-MM-DD")
		toStr   = flag.String("to", "", "to date YYYY-MM-DD")
	)
	flag.Parse()

	if *dir == "" {
		printError("Error: --dir is required\n")
		os.Exit(1)
	}
	if *out == "" {
		parentDir := filepath.Dir(*dir)
		*out = filepath.Join(parentDir, "transactions.xlsx")
	}

	var from, to *time.Time
	if *fromStr != "" {
		if parsed, err := time.Parse("2006-01-02", *fromStr); err != nil {
			printError("Error: invalid --from date format, use YYYY-MM-DD: %v\n", err)
			os.Exit(1)
		} else {
			from = &parsed
		}
	}
	if *toStr != "" {
		if parsed, err := time.Parse("2006-01-02", *toStr); err != nil {
			printError("Error: invalid --to date format, use YYYY-MM-DD: %v\n", err)
			os.Exit(1)
		} else {
			to = &parsed
		}
	}

	_ = godotenv.Load()

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	ctx := context.Background()
	cfg := common.LoadConfig()
	if err := cfg.Validate(); err != nil {
		logger.Error("invalid configuration", "error", err)
		os.Exit(2)
	}

	db, err := repository.Open(ctx, cfg.Database, logger)
	if err != nil {
		logger.Error("failed to open database", "error", err)
		os.Exit(1)
	}
	defer func() {
		if cerr := db.Close(); cerr != nil {
			logger.Error("failed to close database", "error", cerr)
		}
	}()

	statementsRepo := repository.NewStatementRepository(db, logger)
	txsRepo := repository.NewTransactionRepository(db, logger)

	extractor := extract.NewExtractor(extract.Config{
		WorksheetIndex: cfg.Pipeline.WorksheetIndex,
	}, logger)

	provider := openai.NewClient(openai.Config{
		APIKey:      cfg.LLM.APIKey,
		BaseURL:     cfg.LLM.BaseURL,
		Model:       cfg.LLM.Model,
		Temperature: cfg.LLM.Temperature,
		MaxTokens:   cfg.LLM.MaxTokens,
		Timeout:     cfg.LLM.Timeout,
	}, logger)
	if cfg.LLM.APIKey == "" {
		logger.Warn("OPENAI_API_KEY not configured, pattern extraction only")
	}

	processor := pipeline.NewProcessor(statementsRepo, txsRepo, extractor, provider, cfg.Pipeline, logger)

	logger.Info("starting ingestion", "dir", *dir)
	ingested, skipped, err := ingestDirectory(ctx, statementsRepo, *dir, logger)
	if err != nil {
		logger.Error("failed to ingest directory", "error", err)
		os.Exit(1)
	}
	logger.Info("ingestion complete", "files_ingested", len(ingested), "skipped", skipped)

	total, results := processor.ProcessBatch(ctx, ingested)
	failures := 0
	for _, res := range results {
		if res.Err != nil {
			failures++
		}
	}

	logger.Info("exporting to XLSX", "output", *out)
	exportService := export.NewService(txsRepo, logger)
	xlsxBytes, err := exportService.ExportTransactionsXLSX(ctx, from, to)
	if err != nil {
		logger.Error("failed to export transactions", "error", err)
		os.Exit(1)
	}
	if err := os.WriteFile(*out, xlsxBytes, 0644); err != nil {
		logger.Error("failed to write output file", "error", err)
		os.Exit(1)
	}

	logger.Info("batch processing complete",
		"files_ingested", len(ingested),
		"transactions", total,
		"failures", failures,
		"output_file", *out)

	fmt.Printf("Batch processing complete!\n")
	fmt.Printf("- Files ingested: %d\n", len(ingested))
	fmt.Printf("- Transactions extracted: %d\n", total)
	fmt.Printf("- Failures: %d\n", failures)
	fmt.Printf("- Output: %s\n", *out)
}

// ingestDirectory loads every supported file in dir (non-recursive) into the
// statements table and returns the new statement IDs.
func ingestDirectory(ctx context.Context, repo repository.StatementRepository, dir string, logger *slog.Logger) ([]uuid.UUID, int, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, 0, fmt.Errorf("read directory: %w", err)
	}

	var ids []uuid.UUID
	skipped := 0
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		format := constants.MapExtToFormat(filepath.Ext(e.Name()))
		if format == "" {
			skipped++
			continue
		}
		path := filepath.Join(dir, e.Name())
		content, err := os.ReadFile(path)
		if err != nil {
			logger.Error("failed to read file", "path", path, "error", err)
			skipped++
			continue
		}
		st := &entity.Statement{
			OriginalFilename: e.Name(),
			FileType:         format,
			FileSize:         int64(len(content)),
			Content:          content,
			ProcessingStatus: constants.StatusPending,
		}
		if err := repo.Create(ctx, st); err != nil {
			logger.Error("failed to save statement", "path", path, "error", err)
			skipped++
			continue
		}
		ids = append(ids, st.ID)
	}
	return ids, skipped, nil
}
