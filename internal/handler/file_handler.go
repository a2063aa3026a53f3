package handler

import (
	"fmt"
	"mime/multipart"
	"net/http"
	"path/filepath"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/noah-isme/classroom-api/internal/models"
	"github.com/noah-isme/classroom-api/internal/service"
	"github.com/noah-isme/classroom-api/pkg/config"
	appErrors "github.com/noah-isme/classroom-api/pkg/errors"
	"github.com/noah-isme/classroom-api/pkg/response"
	"github.com/noah-isme/classroom-api/pkg/storage"
)

const uploadFieldName = "documents"

// FileHandler exposes the document upload routes. Size and MIME checks
// happen here, before any byte leaves for the content store.
type FileHandler struct {
	files   *service.FileService
	staging *storage.Staging
	cfg     config.UploadConfig
	logger  *zap.Logger
}

// NewFileHandler creates an instance of FileHandler.
func NewFileHandler(files *service.FileService, staging *storage.Staging, cfg config.UploadConfig, logger *zap.Logger) *FileHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &FileHandler{files: files, staging: staging, cfg: cfg, logger: logger}
}

// List returns stored file metadata.
func (h *FileHandler) List(c *gin.Context) {
	filter := models.FileFilter{Search: c.Query("search")}
	if raw := c.Query("fileType"); raw != "" {
		fileType := models.FileType(raw)
		filter.FileType = &fileType
	}

	files, err := h.files.List(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.List(c, "Files retrieved successfully", len(files), files)
}

// Upload ingests a multipart batch from the "documents" field.
func (h *FileHandler) Upload(c *gin.Context) {
	form, err := c.MultipartForm()
	if err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "No files uploaded."))
		return
	}

	headers := form.File[uploadFieldName]
	if len(headers) == 0 {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "No valid files found."))
		return
	}

	if err := h.checkLimits(headers); err != nil {
		response.Error(c, err)
		return
	}

	staged, err := h.stage(headers)
	if err != nil {
		for _, f := range staged {
			if removeErr := h.staging.Remove(f.Name); removeErr != nil {
				h.logger.Warn("failed to remove staged file", zap.String("file", f.Name), zap.Error(removeErr))
			}
		}
		response.Error(c, err)
		return
	}

	files, err := h.files.Ingest(c.Request.Context(), staged)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, "Files uploaded successfully!", files)
}

// Delete removes one file metadata row.
func (h *FileHandler) Delete(c *gin.Context) {
	id, ok := requireID(c, "Invalid file ID format")
	if !ok {
		return
	}

	if err := h.files.Delete(c.Request.Context(), id); err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, "File deleted successfully!", nil)
}

// checkLimits enforces the per-file ceiling, the MIME allowlist and the
// aggregate batch ceiling, in that order.
func (h *FileHandler) checkLimits(headers []*multipart.FileHeader) error {
	perFileMB := h.cfg.MaxFileSize / (1024 * 1024)
	totalMB := h.cfg.MaxTotalSize / (1024 * 1024)

	var total int64
	for _, fh := range headers {
		if fh.Size > h.cfg.MaxFileSize {
			return appErrors.Clone(appErrors.ErrValidation,
				fmt.Sprintf("File %s exceeds the %dMB limit", fh.Filename, perFileMB))
		}
		mimeType := fh.Header.Get("Content-Type")
		if !h.mimeAllowed(mimeType) {
			return appErrors.Clone(appErrors.ErrValidation,
				fmt.Sprintf("Unsupported file type: %s", mimeType))
		}
		total += fh.Size
	}

	if total > h.cfg.MaxTotalSize {
		return appErrors.Clone(appErrors.ErrValidation,
			fmt.Sprintf("Total file size exceeds the %dMB limit. Uploaded size: %.2fMB",
				totalMB, float64(total)/(1024*1024)))
	}
	return nil
}

func (h *FileHandler) mimeAllowed(mimeType string) bool {
	for _, allowed := range h.cfg.AllowedMIMEs {
		if mimeType == allowed {
			return true
		}
	}
	return false
}

// stage copies every part onto local disk under a collision-free name.
func (h *FileHandler) stage(headers []*multipart.FileHeader) ([]service.StagedFile, error) {
	staged := make([]service.StagedFile, 0, len(headers))
	for _, fh := range headers {
		src, err := fh.Open()
		if err != nil {
			return staged, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to read uploaded file")
		}

		name := uuid.NewString() + filepath.Ext(fh.Filename)
		_, err = h.staging.SaveStream(name, src)
		src.Close() //nolint:errcheck
		if err != nil {
			return staged, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to stage uploaded file")
		}

		staged = append(staged, service.StagedFile{
			Name:         name,
			OriginalName: fh.Filename,
			Size:         fh.Size,
			MIMEType:     fh.Header.Get("Content-Type"),
		})
	}
	return staged, nil
}
