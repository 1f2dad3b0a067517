package server

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"path/filepath"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/budgetwise/statements/internal/common"
	"github.com/budgetwise/statements/internal/entity"
	"github.com/budgetwise/statements/internal/export"
	"github.com/budgetwise/statements/internal/extract"
	"github.com/budgetwise/statements/internal/llm"
	"github.com/budgetwise/statements/internal/pipeline"
	"github.com/budgetwise/statements/internal/repository"
)

type downProvider struct{}

func (downProvider) ExtractTransactions(context.Context, llm.ExtractRequest) ([]entity.Transaction, []byte, error) {
	return nil, nil, common.ErrProviderUnavailable
}

func newTestServer(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	dbCfg := common.DatabaseConfig{
		Path:        filepath.Join(t.TempDir(), "test.db"),
		DialTimeout: 3 * time.Second,
	}
	db, err := repository.Open(context.Background(), dbCfg, logger)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	statementsRepo := repository.NewStatementRepository(db, logger)
	txsRepo := repository.NewTransactionRepository(db, logger)
	extractor := extract.NewExtractor(extract.Config{}, logger)

	// provider is down in tests: the pipeline exercises the pattern path
	provider := downProvider{}
	pipeCfg := common.PipelineConfig{PromptCharBudget: 15000, ProviderTimeout: time.Minute}
	processor := pipeline.NewProcessor(statementsRepo, txsRepo, extractor, provider, pipeCfg, logger)
	exporter := export.NewService(txsRepo, logger)

	srvCfg := common.ServerConfig{
		HTTPAddr:       ":0",
		MaxUploadBytes: 10 * 1024 * 1024,
		MaxUploadFiles: 5,
	}
	return New(srvCfg, db, statementsRepo, txsRepo, processor, exporter, logger).Router()
}

func addFormFile(t *testing.T, w *multipart.Writer, filename, contentType, content string) {
	t.Helper()
	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", fmt.Sprintf(`form-data; name="files"; filename=%q`, filename))
	h.Set("Content-Type", contentType)
	part, err := w.CreatePart(h)
	require.NoError(t, err)
	_, err = part.Write([]byte(content))
	require.NoError(t, err)
}

func doJSON(t *testing.T, router *gin.Engine, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	return out
}

func TestHealth(t *testing.T) {
	router := newTestServer(t)
	rec := doJSON(t, router, http.MethodGet, "/health", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestUpload_RejectsUnsupportedExtension(t *testing.T) {
	router := newTestServer(t)

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	addFormFile(t, w, "malware.exe", "application/octet-stream", "nope")
	require.NoError(t, w.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/statements/upload", &buf)
	req.Header.Set("Content-Type", w.FormDataContentType())
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestUpload_RejectsMismatchedMIME(t *testing.T) {
	router := newTestServer(t)

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	addFormFile(t, w, "statement.csv", "application/zip", "Date,Description,Amount\n")
	require.NoError(t, w.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/statements/upload", &buf)
	req.Header.Set("Content-Type", w.FormDataContentType())
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestUploadProcessListFlow(t *testing.T) {
	router := newTestServer(t)

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	addFormFile(t, w, "january.csv", "text/csv",
		"Date,Description,Amount,Type\n"+
			"01/15/2024,Salary Deposit,3000.00,Credit\n"+
			"01/16/2024,Grocery Store,-82.45,Debit\n")
	require.NoError(t, w.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/statements/upload", &buf)
	req.Header.Set("Content-Type", w.FormDataContentType())
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	body := decodeBody(t, rec)
	uploaded := body["statements"].([]any)
	require.Len(t, uploaded, 1)
	statementID := uploaded[0].(map[string]any)["id"].(string)

	rec = doJSON(t, router, http.MethodPost, "/api/statements/process",
		map[string]any{"fileIds": []string{statementID}})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	body = decodeBody(t, rec)
	assert.Equal(t, float64(2), body["transactionsCount"])

	rec = doJSON(t, router, http.MethodGet, "/api/transactions", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	body = decodeBody(t, rec)
	assert.Len(t, body["transactions"].([]any), 2)

	rec = doJSON(t, router, http.MethodGet, "/api/statements/"+statementID, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	body = decodeBody(t, rec)
	assert.Equal(t, "completed", body["processingStatus"])
	assert.Equal(t, float64(2), body["transactionCount"])
}

func TestTransactionsCRUDOverHTTP(t *testing.T) {
	router := newTestServer(t)

	rec := doJSON(t, router, http.MethodPost, "/api/transactions", map[string]any{
		"date":        "2024-05-01",
		"description": "Manual Entry",
		"amount":      "-12.34",
		"category":    "Food & Dining",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	body := decodeBody(t, rec)
	id := body["id"].(string)
	assert.Equal(t, "expense", body["type"])
	assert.Equal(t, "food", body["category"])
	assert.Equal(t, float64(1), body["confidence"])

	rec = doJSON(t, router, http.MethodPut, "/api/transactions/"+id, map[string]any{
		"date":        "2024-05-02",
		"description": "Edited Entry",
		"amount":      "-15.00",
		"type":        "expense",
		"category":    "shopping",
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	body = decodeBody(t, rec)
	assert.Equal(t, "Edited Entry", body["description"])
	assert.Equal(t, true, body["userModified"])

	rec = doJSON(t, router, http.MethodGet, "/api/transactions?category=shopping", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	body = decodeBody(t, rec)
	assert.Len(t, body["transactions"].([]any), 1)

	rec = doJSON(t, router, http.MethodDelete, "/api/transactions/"+id, nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = doJSON(t, router, http.MethodGet, "/api/transactions/"+id, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestListCategories(t *testing.T) {
	router := newTestServer(t)
	rec := doJSON(t, router, http.MethodGet, "/api/transactions/categories", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	body := decodeBody(t, rec)
	assert.Len(t, body["canonical"].([]any), 11)
	assert.Len(t, body["display"].([]any), 15)
}

func TestProcess_BadRequest(t *testing.T) {
	router := newTestServer(t)

	rec := doJSON(t, router, http.MethodPost, "/api/statements/process", map[string]any{"fileIds": []string{}})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = doJSON(t, router, http.MethodPost, "/api/statements/process", map[string]any{"fileIds": []string{"not-a-uuid"}})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
