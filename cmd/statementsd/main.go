package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/budgetwise/statements/internal/common"
	"github.com/budgetwise/statements/internal/export"
	"github.com/budgetwise/statements/internal/extract"
	"github.com/budgetwise/statements/internal/llm/openai"
	"github.com/budgetwise/statements/internal/pipeline"
	"github.com/budgetwise/statements/internal/repository"
	"github.com/budgetwise/statements/internal/server"
)

func main() {
	// .env is optional; real deployments set env vars directly
	_ = godotenv.Load()

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	cfg := common.LoadConfig()
	if err := cfg.Validate(); err != nil {
		logger.Error("invalid configuration", "error", err)
		os.Exit(2)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

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
	exporter := export.NewService(txsRepo, logger)

	srv := server.New(cfg.Server, db, statementsRepo, txsRepo, processor, exporter, logger)
	if err := srv.Run(ctx); err != nil {
		logger.Error("server exited with error", "error", err)
		os.Exit(1)
	}
	logger.Info("stopped")
}
