package server

import (
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/budgetwise/statements/constants"
	"github.com/budgetwise/statements/internal/common"
	"github.com/budgetwise/statements/internal/entity"
)

type uploadedStatement struct {
	ID               string `json:"id"`
	OriginalFilename string `json:"originalFilename"`
	FileType         string `json:"fileType"`
	FileSize         int64  `json:"fileSize"`
	ProcessingStatus string `json:"processingStatus"`
}

// handleUpload accepts up to MaxUploadFiles multipart files under the "files"
// field. Every file must pass the extension and MIME allowlists and the
// per-file size cap before any statement row is created.
func (s *Server) handleUpload(c *gin.Context) {
	form, err := c.MultipartForm()
	if err != nil {
		s.respondError(c, common.NewAppError("UPLOAD_ERROR", "invalid multipart form", common.ErrInvalidInput))
		return
	}
	files := form.File["files"]
	if len(files) == 0 {
		s.respondError(c, common.NewAppError("UPLOAD_ERROR", "no files provided", common.ErrInvalidInput))
		return
	}
	if len(files) > s.cfg.MaxUploadFiles {
		s.respondError(c, common.NewAppError("UPLOAD_ERROR",
			fmt.Sprintf("too many files: %d (max %d)", len(files), s.cfg.MaxUploadFiles), common.ErrInvalidInput))
		return
	}

	for _, fh := range files {
		if err := s.validateUpload(fh); err != nil {
			s.respondError(c, err)
			return
		}
	}

	out := make([]uploadedStatement, 0, len(files))
	for _, fh := range files {
		st, err := s.saveUpload(c, fh)
		if err != nil {
			s.respondError(c, err)
			return
		}
		out = append(out, uploadedStatement{
			ID:               st.ID.String(),
			OriginalFilename: st.OriginalFilename,
			FileType:         st.FileType,
			FileSize:         st.FileSize,
			ProcessingStatus: string(st.ProcessingStatus),
		})
		s.logger.Info("upload.accepted",
			"statement_id", st.ID,
			"filename", st.OriginalFilename,
			"format", st.FileType,
			"bytes", st.FileSize)
	}

	c.JSON(http.StatusCreated, gin.H{"statements": out})
}

func (s *Server) validateUpload(fh *multipart.FileHeader) error {
	ext := constants.NormalizeExt(filepath.Ext(fh.Filename))
	if _, ok := constants.AllowedExtensions[ext]; !ok {
		return common.NewAppError("UPLOAD_ERROR",
			fmt.Sprintf("unsupported extension %q for %s", ext, fh.Filename), common.ErrUnsupportedFormat)
	}
	mimeType := strings.TrimSpace(strings.Split(fh.Header.Get("Content-Type"), ";")[0])
	if mimeType != "" {
		if _, ok := constants.AllowedMIMETypes[mimeType]; !ok {
			return common.NewAppError("UPLOAD_ERROR",
				fmt.Sprintf("unsupported content type %q for %s", mimeType, fh.Filename), common.ErrUnsupportedFormat)
		}
	}
	if fh.Size > s.cfg.MaxUploadBytes {
		return common.NewAppError("UPLOAD_ERROR",
			fmt.Sprintf("%s exceeds the %d byte limit", fh.Filename, s.cfg.MaxUploadBytes), common.ErrInvalidInput)
	}
	return nil
}

func (s *Server) saveUpload(c *gin.Context, fh *multipart.FileHeader) (*entity.Statement, error) {
	src, err := fh.Open()
	if err != nil {
		return nil, common.WrapError(err, "open upload")
	}
	defer func() {
		if cerr := src.Close(); cerr != nil {
			s.logger.Warn("upload close error", "filename", fh.Filename, "error", cerr)
		}
	}()

	content, err := io.ReadAll(io.LimitReader(src, s.cfg.MaxUploadBytes+1))
	if err != nil {
		return nil, common.WrapError(err, "read upload")
	}
	if int64(len(content)) > s.cfg.MaxUploadBytes {
		return nil, common.NewAppError("UPLOAD_ERROR",
			fmt.Sprintf("%s exceeds the %d byte limit", fh.Filename, s.cfg.MaxUploadBytes), common.ErrInvalidInput)
	}

	st := &entity.Statement{
		OriginalFilename: filepath.Base(fh.Filename),
		FileType:         constants.MapExtToFormat(filepath.Ext(fh.Filename)),
		FileSize:         int64(len(content)),
		MimeType:         strings.TrimSpace(strings.Split(fh.Header.Get("Content-Type"), ";")[0]),
		Content:          content,
		ProcessingStatus: constants.StatusPending,
	}
	if err := s.statements.Create(c.Request.Context(), st); err != nil {
		return nil, err
	}
	return st, nil
}

func (s *Server) handleListStatements(c *gin.Context) {
	sts, err := s.statements.List(c.Request.Context())
	if err != nil {
		s.respondError(c, err)
		return
	}
	out := make([]gin.H, 0, len(sts))
	for _, st := range sts {
		out = append(out, statementJSON(st))
	}
	c.JSON(http.StatusOK, gin.H{"statements": out})
}

func (s *Server) handleGetStatement(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		s.respondError(c, common.NewAppError("BAD_ID", "id must be a UUID", common.ErrInvalidInput))
		return
	}
	st, err := s.statements.GetByID(c.Request.Context(), id)
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, statementJSON(st))
}

func statementJSON(st *entity.Statement) gin.H {
	return gin.H{
		"id":               st.ID.String(),
		"originalFilename": st.OriginalFilename,
		"fileType":         st.FileType,
		"fileSize":         st.FileSize,
		"mimeType":         st.MimeType,
		"uploadedAt":       st.UploadedAt,
		"processed":        st.Processed,
		"processingStatus": string(st.ProcessingStatus),
		"transactionCount": st.TransactionCount,
	}
}
