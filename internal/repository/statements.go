package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/budgetwise/statements/constants"
	"github.com/budgetwise/statements/internal/common"
	"github.com/budgetwise/statements/internal/entity"
)

// StatementRepository persists uploaded statements and their processing
// lifecycle.
type StatementRepository interface {
	Create(ctx context.Context, st *entity.Statement) error
	GetByID(ctx context.Context, id uuid.UUID) (*entity.Statement, error)
	// List returns statements without their content bytes, newest first.
	List(ctx context.Context) ([]*entity.Statement, error)
	MarkProcessing(ctx context.Context, id uuid.UUID) error
	// FinishProcessing records the terminal status and accepted count.
	FinishProcessing(ctx context.Context, id uuid.UUID, status constants.ProcessingStatus, txCount int) error
}

type statementRepo struct {
	db     *sql.DB
	logger *slog.Logger
}

func NewStatementRepository(db *sql.DB, logger *slog.Logger) StatementRepository {
	if logger == nil {
		logger = slog.Default()
	}
	return &statementRepo{db: db, logger: logger}
}

func (r *statementRepo) Create(ctx context.Context, st *entity.Statement) error {
	if st.ID == uuid.Nil {
		st.ID = uuid.New()
	}
	if st.UploadedAt.IsZero() {
		st.UploadedAt = time.Now().UTC()
	}
	if st.ProcessingStatus == "" {
		st.ProcessingStatus = constants.StatusPending
	}
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO statements
			(id, original_filename, file_type, file_size, mime_type, content, uploaded_at, processed, processing_status, transaction_count)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		st.ID.String(), st.OriginalFilename, st.FileType, st.FileSize, st.MimeType,
		st.Content, st.UploadedAt, boolToInt(st.Processed), string(st.ProcessingStatus), st.TransactionCount,
	)
	if err != nil {
		return fmt.Errorf("insert statement: %w", err)
	}
	return nil
}

func (r *statementRepo) GetByID(ctx context.Context, id uuid.UUID) (*entity.Statement, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT id, original_filename, file_type, file_size, mime_type, content, uploaded_at, processed, processing_status, transaction_count
		FROM statements WHERE id = ?`, id.String())
	st, err := scanStatement(row, true)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("statement %s: %w", id, common.ErrNotFound)
	}
	return st, err
}

func (r *statementRepo) List(ctx context.Context) ([]*entity.Statement, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, original_filename, file_type, file_size, mime_type, uploaded_at, processed, processing_status, transaction_count
		FROM statements ORDER BY uploaded_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("list statements: %w", err)
	}
	defer func() {
		if cerr := rows.Close(); cerr != nil {
			r.logger.Warn("statements rows close error", "error", cerr)
		}
	}()

	var out []*entity.Statement
	for rows.Next() {
		st, err := scanStatement(rows, false)
		if err != nil {
			return nil, err
		}
		out = append(out, st)
	}
	return out, rows.Err()
}

func (r *statementRepo) MarkProcessing(ctx context.Context, id uuid.UUID) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE statements SET processing_status = ? WHERE id = ?`,
		string(constants.StatusProcessing), id.String())
	if err != nil {
		return fmt.Errorf("mark processing: %w", err)
	}
	return nil
}

func (r *statementRepo) FinishProcessing(ctx context.Context, id uuid.UUID, status constants.ProcessingStatus, txCount int) error {
	_, err := r.db.ExecContext(ctx, `
		UPDATE statements
		SET processing_status = ?, processed = ?, transaction_count = ?
		WHERE id = ?`,
		string(status), boolToInt(status == constants.StatusCompleted), txCount, id.String())
	if err != nil {
		return fmt.Errorf("finish processing: %w", err)
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanStatement(row rowScanner, withContent bool) (*entity.Statement, error) {
	var (
		st        entity.Statement
		idStr     string
		status    string
		processed int
	)
	var err error
	if withContent {
		err = row.Scan(&idStr, &st.OriginalFilename, &st.FileType, &st.FileSize, &st.MimeType,
			&st.Content, &st.UploadedAt, &processed, &status, &st.TransactionCount)
	} else {
		err = row.Scan(&idStr, &st.OriginalFilename, &st.FileType, &st.FileSize, &st.MimeType,
			&st.UploadedAt, &processed, &status, &st.TransactionCount)
	}
	if err != nil {
		return nil, err
	}
	st.ID, err = uuid.Parse(idStr)
	if err != nil {
		return nil, fmt.Errorf("parse statement id: %w", err)
	}
	st.Processed = processed != 0
	st.ProcessingStatus = constants.ProcessingStatus(status)
	return &st, nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
