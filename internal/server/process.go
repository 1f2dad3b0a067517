package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/budgetwise/statements/internal/common"
)

type processRequest struct {
	FileIDs []string `json:"fileIds"`
}

type processedDocument struct {
	StatementID       string `json:"statementId"`
	Status            string `json:"status"`
	TransactionsCount int    `json:"transactionsCount"`
	Error             string `json:"error,omitempty"`
}

// handleProcess runs the extraction pipeline over the requested statements.
// Documents are processed independently; one failure never aborts the rest.
func (s *Server) handleProcess(c *gin.Context) {
	var req processRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.respondError(c, common.NewAppError("BAD_REQUEST", "invalid JSON body", common.ErrInvalidInput))
		return
	}
	if len(req.FileIDs) == 0 {
		s.respondError(c, common.NewAppError("BAD_REQUEST", "fileIds must not be empty", common.ErrInvalidInput))
		return
	}

	ids := make([]uuid.UUID, 0, len(req.FileIDs))
	for _, raw := range req.FileIDs {
		id, err := uuid.Parse(raw)
		if err != nil {
			s.respondError(c, common.NewAppError("BAD_ID", "fileIds must be UUIDs", common.ErrInvalidInput))
			return
		}
		ids = append(ids, id)
	}

	total, results := s.processor.ProcessBatch(c.Request.Context(), ids)

	docs := make([]processedDocument, 0, len(results))
	for _, res := range results {
		doc := processedDocument{
			StatementID:       res.StatementID.String(),
			Status:            string(res.Status),
			TransactionsCount: res.Count,
		}
		if res.Err != nil {
			doc.Error = res.Err.Error()
		}
		docs = append(docs, doc)
	}

	c.JSON(http.StatusOK, gin.H{
		"transactionsCount": total,
		"documents":         docs,
	})
}
