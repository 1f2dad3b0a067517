package server

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/budgetwise/statements/constants"
	"github.com/budgetwise/statements/internal/common"
	"github.com/budgetwise/statements/internal/entity"
	"github.com/budgetwise/statements/internal/utils"
)

type transactionRequest struct {
	Date        string  `json:"date"` // YYYY-MM-DD
	Description string  `json:"description"`
	Amount      string  `json:"amount"`
	Type        string  `json:"type"`
	Category    string  `json:"category"`
	Merchant    string  `json:"merchant"`
	Confidence  float32 `json:"confidence"`
}

func (r *transactionRequest) toEntity() (*entity.Transaction, error) {
	date, err := utils.ParseYMD(strings.TrimSpace(r.Date))
	if err != nil {
		return nil, common.NewAppError("BAD_REQUEST", "date must be YYYY-MM-DD", common.ErrInvalidInput)
	}
	description := strings.TrimSpace(r.Description)
	if description == "" {
		return nil, common.NewAppError("BAD_REQUEST", "description must not be empty", common.ErrInvalidInput)
	}
	amount, err := decimal.NewFromString(strings.TrimSpace(r.Amount))
	if err != nil {
		return nil, common.NewAppError("BAD_REQUEST", "amount must be a decimal number", common.ErrInvalidInput)
	}

	txType := constants.TransactionType(strings.ToLower(strings.TrimSpace(r.Type)))
	switch txType {
	case constants.TypeIncome, constants.TypeExpense, constants.TypeTransfer:
	case "":
		if amount.IsNegative() {
			txType = constants.TypeExpense
		} else {
			txType = constants.TypeIncome
		}
	default:
		return nil, common.NewAppError("BAD_REQUEST", "type must be income, expense or transfer", common.ErrInvalidInput)
	}

	category, _ := constants.Canonicalize(r.Category)

	return &entity.Transaction{
		Date:        date,
		Description: description,
		Amount:      amount,
		Type:        txType,
		Category:    category,
		Merchant:    strings.TrimSpace(r.Merchant),
		Confidence:  constants.ManualConfidence,
	}, nil
}

func (s *Server) handleListTransactions(c *gin.Context) {
	ctx := c.Request.Context()

	var (
		txs []*entity.Transaction
		err error
	)
	switch {
	case c.Query("category") != "":
		category, ok := constants.Canonicalize(c.Query("category"))
		if !ok {
			s.respondError(c, common.NewAppError("BAD_REQUEST", "unknown category", common.ErrInvalidInput))
			return
		}
		txs, err = s.txs.ListByCategory(ctx, category)
	case c.Query("from") != "" || c.Query("to") != "":
		from, to, perr := parseDateWindow(c.Query("from"), c.Query("to"))
		if perr != nil {
			s.respondError(c, perr)
			return
		}
		txs, err = s.txs.ListByDateRange(ctx, from, to)
	case c.Query("sourceFile") != "":
		id, perr := uuid.Parse(c.Query("sourceFile"))
		if perr != nil {
			s.respondError(c, common.NewAppError("BAD_ID", "sourceFile must be a UUID", common.ErrInvalidInput))
			return
		}
		txs, err = s.txs.ListBySourceFile(ctx, id)
	default:
		txs, err = s.txs.List(ctx)
	}
	if err != nil {
		s.respondError(c, err)
		return
	}

	out := make([]gin.H, 0, len(txs))
	for _, tx := range txs {
		out = append(out, transactionJSON(tx))
	}
	c.JSON(http.StatusOK, gin.H{"transactions": out})
}

func (s *Server) handleGetTransaction(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		s.respondError(c, common.NewAppError("BAD_ID", "id must be a UUID", common.ErrInvalidInput))
		return
	}
	tx, err := s.txs.GetByID(c.Request.Context(), id)
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, transactionJSON(tx))
}

// handleCreateTransaction records a manual entry. Manual entries always carry
// full confidence and no source statement.
func (s *Server) handleCreateTransaction(c *gin.Context) {
	var req transactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.respondError(c, common.NewAppError("BAD_REQUEST", "invalid JSON body", common.ErrInvalidInput))
		return
	}
	tx, err := req.toEntity()
	if err != nil {
		s.respondError(c, err)
		return
	}
	if err := s.txs.Create(c.Request.Context(), tx); err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, transactionJSON(tx))
}

func (s *Server) handleUpdateTransaction(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		s.respondError(c, common.NewAppError("BAD_ID", "id must be a UUID", common.ErrInvalidInput))
		return
	}
	var req transactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.respondError(c, common.NewAppError("BAD_REQUEST", "invalid JSON body", common.ErrInvalidInput))
		return
	}
	tx, err := req.toEntity()
	if err != nil {
		s.respondError(c, err)
		return
	}
	tx.ID = id
	if req.Confidence > 0 {
		tx.Confidence = req.Confidence
	}
	if err := s.txs.Update(c.Request.Context(), tx); err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, transactionJSON(tx))
}

func (s *Server) handleDeleteTransaction(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		s.respondError(c, common.NewAppError("BAD_ID", "id must be a UUID", common.ErrInvalidInput))
		return
	}
	if err := s.txs.Delete(c.Request.Context(), id); err != nil {
		s.respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// handleListCategories exposes both vocabularies so clients can render the
// wider display list while filtering on the canonical one.
func (s *Server) handleListCategories(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"canonical": constants.AsStringSlice(),
		"display":   constants.DisplayCategories,
	})
}

func (s *Server) handleExportXLSX(c *gin.Context) {
	from, to, err := parseOptionalWindow(c.Query("from"), c.Query("to"))
	if err != nil {
		s.respondError(c, err)
		return
	}
	data, err := s.exporter.ExportTransactionsXLSX(c.Request.Context(), from, to)
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.Header("Content-Disposition", `attachment; filename="transactions.xlsx"`)
	c.Data(http.StatusOK,
		"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", data)
}

func parseDateWindow(fromStr, toStr string) (time.Time, time.Time, error) {
	from := time.Date(1900, 1, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2100, 12, 31, 0, 0, 0, 0, time.UTC)
	var err error
	if fromStr != "" {
		if from, err = utils.ParseYMD(fromStr); err != nil {
			return time.Time{}, time.Time{}, common.NewAppError("BAD_REQUEST", "from must be YYYY-MM-DD", common.ErrInvalidInput)
		}
	}
	if toStr != "" {
		if to, err = utils.ParseYMD(toStr); err != nil {
			return time.Time{}, time.Time{}, common.NewAppError("BAD_REQUEST", "to must be YYYY-MM-DD", common.ErrInvalidInput)
		}
	}
	return from, to, nil
}

func parseOptionalWindow(fromStr, toStr string) (*time.Time, *time.Time, error) {
	var from, to *time.Time
	if fromStr != "" {
		t, err := utils.ParseYMD(fromStr)
		if err != nil {
			return nil, nil, common.NewAppError("BAD_REQUEST", "from must be YYYY-MM-DD", common.ErrInvalidInput)
		}
		from = &t
	}
	if toStr != "" {
		t, err := utils.ParseYMD(toStr)
		if err != nil {
			return nil, nil, common.NewAppError("BAD_REQUEST", "to must be YYYY-MM-DD", common.ErrInvalidInput)
		}
		to = &t
	}
	return from, to, nil
}

func transactionJSON(tx *entity.Transaction) gin.H {
	out := gin.H{
		"id":           tx.ID.String(),
		"date":         utils.FormatYMD(tx.Date),
		"description":  tx.Description,
		"amount":       tx.Amount.String(),
		"type":         string(tx.Type),
		"category":     string(tx.Category),
		"merchant":     tx.Merchant,
		"confidence":   tx.Confidence,
		"userModified": tx.UserModified,
		"createdAt":    tx.CreatedAt,
	}
	if tx.SourceFile != uuid.Nil {
		out["sourceFile"] = tx.SourceFile.String()
	}
	return out
}
