package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/budgetwise/statements/constants"
	"github.com/budgetwise/statements/internal/common"
	"github.com/budgetwise/statements/internal/entity"
)

// TransactionRepository persists extracted and manually entered transactions.
type TransactionRepository interface {
	// CreateBatch inserts all candidates in one transaction, assigning IDs
	// and creation timestamps. Either every row lands or none do.
	CreateBatch(ctx context.Context, txs []entity.Transaction) error
	Create(ctx context.Context, tx *entity.Transaction) error
	GetByID(ctx context.Context, id uuid.UUID) (*entity.Transaction, error)
	// List returns all transactions ordered by date, newest first.
	List(ctx context.Context) ([]*entity.Transaction, error)
	ListByCategory(ctx context.Context, category constants.Category) ([]*entity.Transaction, error)
	ListByDateRange(ctx context.Context, from, to time.Time) ([]*entity.Transaction, error)
	ListBySourceFile(ctx context.Context, statementID uuid.UUID) ([]*entity.Transaction, error)
	// Update overwrites the editable fields and marks the row user modified.
	Update(ctx context.Context, tx *entity.Transaction) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type transactionRepo struct {
	db     *sql.DB
	logger *slog.Logger
}

func NewTransactionRepository(db *sql.DB, logger *slog.Logger) TransactionRepository {
	if logger == nil {
		logger = slog.Default()
	}
	return &transactionRepo{db: db, logger: logger}
}

const insertTransactionSQL = `
	INSERT INTO transactions
		(id, tx_date, description, amount, tx_type, category, merchant, source_file, confidence, user_modified, created_at)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

const selectTransactionSQL = `
	SELECT id, tx_date, description, amount, tx_type, category, merchant, source_file, confidence, user_modified, created_at
	FROM transactions`

func (r *transactionRepo) CreateBatch(ctx context.Context, txs []entity.Transaction) error {
	if len(txs) == 0 {
		return nil
	}
	dbTx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin batch insert: %w", err)
	}
	stmt, err := dbTx.PrepareContext(ctx, insertTransactionSQL)
	if err != nil {
		_ = dbTx.Rollback()
		return fmt.Errorf("prepare batch insert: %w", err)
	}
	defer func() {
		if cerr := stmt.Close(); cerr != nil {
			r.logger.Warn("batch statement close error", "error", cerr)
		}
	}()

	now := time.Now().UTC()
	for i := range txs {
		tx := &txs[i]
		if tx.ID == uuid.Nil {
			tx.ID = uuid.New()
		}
		if tx.CreatedAt.IsZero() {
			tx.CreatedAt = now
		}
		if _, err := stmt.ExecContext(ctx, insertArgs(tx)...); err != nil {
			_ = dbTx.Rollback()
			return fmt.Errorf("insert transaction %d of %d: %w", i+1, len(txs), err)
		}
	}
	if err := dbTx.Commit(); err != nil {
		return fmt.Errorf("commit batch insert: %w", err)
	}
	return nil
}

func (r *transactionRepo) Create(ctx context.Context, tx *entity.Transaction) error {
	if tx.ID == uuid.Nil {
		tx.ID = uuid.New()
	}
	if tx.CreatedAt.IsZero() {
		tx.CreatedAt = time.Now().UTC()
	}
	if _, err := r.db.ExecContext(ctx, insertTransactionSQL, insertArgs(tx)...); err != nil {
		return fmt.Errorf("insert transaction: %w", err)
	}
	return nil
}

func (r *transactionRepo) GetByID(ctx context.Context, id uuid.UUID) (*entity.Transaction, error) {
	row := r.db.QueryRowContext(ctx, selectTransactionSQL+` WHERE id = ?`, id.String())
	tx, err := scanTransaction(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("transaction %s: %w", id, common.ErrNotFound)
	}
	return tx, err
}

func (r *transactionRepo) List(ctx context.Context) ([]*entity.Transaction, error) {
	return r.query(ctx, selectTransactionSQL+` ORDER BY tx_date DESC`)
}

func (r *transactionRepo) ListByCategory(ctx context.Context, category constants.Category) ([]*entity.Transaction, error) {
	return r.query(ctx, selectTransactionSQL+` WHERE category = ? ORDER BY tx_date DESC`, string(category))
}

func (r *transactionRepo) ListByDateRange(ctx context.Context, from, to time.Time) ([]*entity.Transaction, error) {
	return r.query(ctx, selectTransactionSQL+` WHERE tx_date >= ? AND tx_date <= ? ORDER BY tx_date DESC`, from, to)
}

func (r *transactionRepo) ListBySourceFile(ctx context.Context, statementID uuid.UUID) ([]*entity.Transaction, error) {
	return r.query(ctx, selectTransactionSQL+` WHERE source_file = ? ORDER BY tx_date DESC`, statementID.String())
}

func (r *transactionRepo) Update(ctx context.Context, tx *entity.Transaction) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE transactions
		SET tx_date = ?, description = ?, amount = ?, tx_type = ?, category = ?, merchant = ?, confidence = ?, user_modified = 1
		WHERE id = ?`,
		tx.Date, tx.Description, tx.Amount.String(), string(tx.Type), string(tx.Category),
		tx.Merchant, tx.Confidence, tx.ID.String())
	if err != nil {
		return fmt.Errorf("update transaction: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("transaction %s: %w", tx.ID, common.ErrNotFound)
	}
	tx.UserModified = true
	return nil
}

func (r *transactionRepo) Delete(ctx context.Context, id uuid.UUID) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM transactions WHERE id = ?`, id.String())
	if err != nil {
		return fmt.Errorf("delete transaction: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("transaction %s: %w", id, common.ErrNotFound)
	}
	return nil
}

func (r *transactionRepo) query(ctx context.Context, q string, args ...any) ([]*entity.Transaction, error) {
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("list transactions: %w", err)
	}
	defer func() {
		if cerr := rows.Close(); cerr != nil {
			r.logger.Warn("transactions rows close error", "error", cerr)
		}
	}()

	var out []*entity.Transaction
	for rows.Next() {
		tx, err := scanTransaction(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, tx)
	}
	return out, rows.Err()
}

func insertArgs(tx *entity.Transaction) []any {
	var source any
	if tx.SourceFile != uuid.Nil {
		source = tx.SourceFile.String()
	}
	return []any{
		tx.ID.String(), tx.Date, tx.Description, tx.Amount.String(), string(tx.Type),
		string(tx.Category), tx.Merchant, source, tx.Confidence,
		boolToInt(tx.UserModified), tx.CreatedAt,
	}
}

func scanTransaction(row rowScanner) (*entity.Transaction, error) {
	var (
		tx        entity.Transaction
		idStr     string
		amountStr string
		txType    string
		category  string
		source    sql.NullString
		modified  int
	)
	err := row.Scan(&idStr, &tx.Date, &tx.Description, &amountStr, &txType,
		&category, &tx.Merchant, &source, &tx.Confidence, &modified, &tx.CreatedAt)
	if err != nil {
		return nil, err
	}
	tx.ID, err = uuid.Parse(idStr)
	if err != nil {
		return nil, fmt.Errorf("parse transaction id: %w", err)
	}
	tx.Amount, err = decimal.NewFromString(amountStr)
	if err != nil {
		return nil, fmt.Errorf("parse transaction amount: %w", err)
	}
	if source.Valid {
		tx.SourceFile, err = uuid.Parse(source.String)
		if err != nil {
			return nil, fmt.Errorf("parse transaction source: %w", err)
		}
	}
	tx.Type = constants.TransactionType(txType)
	tx.Category = constants.Category(category)
	tx.UserModified = modified != 0
	return &tx, nil
}
