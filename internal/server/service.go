package server

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/budgetwise/statements/internal/common"
	"github.com/budgetwise/statements/internal/export"
	"github.com/budgetwise/statements/internal/pipeline"
	"github.com/budgetwise/statements/internal/repository"
)

// Server wires the HTTP surface over the repositories and the extraction
// pipeline.
type Server struct {
	cfg        common.ServerConfig
	db         *sql.DB
	statements repository.StatementRepository
	txs        repository.TransactionRepository
	processor  *pipeline.Processor
	exporter   *export.Service
	logger     *slog.Logger
}

func New(
	cfg common.ServerConfig,
	db *sql.DB,
	statements repository.StatementRepository,
	txs repository.TransactionRepository,
	processor *pipeline.Processor,
	exporter *export.Service,
	logger *slog.Logger,
) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	return &Server{
		cfg:        cfg,
		db:         db,
		statements: statements,
		txs:        txs,
		processor:  processor,
		exporter:   exporter,
		logger:     logger,
	}
}

// Router builds the gin engine with all routes registered.
func (s *Server) Router() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.MaxMultipartMemory = s.cfg.MaxUploadBytes

	r.GET("/health", s.handleHealth)

	api := r.Group("/api")
	{
		api.POST("/statements/upload", s.handleUpload)
		api.GET("/statements", s.handleListStatements)
		api.GET("/statements/:id", s.handleGetStatement)
		api.POST("/statements/process", s.handleProcess)

		api.GET("/transactions", s.handleListTransactions)
		api.POST("/transactions", s.handleCreateTransaction)
		api.GET("/transactions/categories", s.handleListCategories)
		api.GET("/transactions/:id", s.handleGetTransaction)
		api.PUT("/transactions/:id", s.handleUpdateTransaction)
		api.DELETE("/transactions/:id", s.handleDeleteTransaction)

		api.GET("/export/xlsx", s.handleExportXLSX)
	}
	return r
}

// Run serves HTTP until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:    s.cfg.HTTPAddr,
		Handler: s.Router(),
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("http server listening", "addr", s.cfg.HTTPAddr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	s.logger.Info("shutting down http server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

func (s *Server) handleHealth(c *gin.Context) {
	if err := repository.HealthCheck(c.Request.Context(), s.db, 2*time.Second); err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unhealthy", "error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// respondError maps the error taxonomy onto HTTP status codes.
func (s *Server) respondError(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, common.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, common.ErrInvalidInput),
		errors.Is(err, common.ErrUnsupportedFormat),
		errors.Is(err, common.ErrEmptyContent),
		errors.Is(err, common.ErrCorruptFile):
		status = http.StatusBadRequest
	case errors.Is(err, common.ErrProviderUnavailable):
		status = http.StatusServiceUnavailable
	}
	if status == http.StatusInternalServerError {
		s.logger.Error("request failed", "path", c.FullPath(), "error", err)
	}
	c.JSON(status, gin.H{"error": err.Error()})
}
