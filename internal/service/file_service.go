package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"os"
	"sync"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/noah-isme/classroom-api/internal/models"
	appErrors "github.com/noah-isme/classroom-api/pkg/errors"
)

type fileRepository interface {
	List(ctx context.Context, filter models.FileFilter) ([]models.File, error)
	FindByID(ctx context.Context, id string) (*models.File, error)
	CreateBatch(ctx context.Context, files []*models.File) error
	Delete(ctx context.Context, id string) error
}

// ContentStore forwards staged document bytes to the external content
// delivery store and hands back durable URLs.
type ContentStore interface {
	Upload(objectPath string, r io.Reader, contentType string) (string, error)
}

// StagingStore holds uploads on local disk between multipart parsing
// and the forward to the content store.
type StagingStore interface {
	Open(name string) (*os.File, error)
	Remove(name string) error
}

// StagedFile describes one uploaded document already sitting in staging.
type StagedFile struct {
	Name         string
	OriginalName string
	Size         int64
	MIMEType     string
}

// FileService handles document uploads and their metadata.
type FileService struct {
	repo    fileRepository
	store   ContentStore
	staging StagingStore
	logger  *zap.Logger
}

// NewFileService creates an instance of FileService.
func NewFileService(repo fileRepository, store ContentStore, staging StagingStore, logger *zap.Logger) *FileService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &FileService{repo: repo, store: store, staging: staging, logger: logger}
}

// List returns file metadata matching the filter.
func (s *FileService) List(ctx context.Context, filter models.FileFilter) ([]models.File, error) {
	files, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list files")
	}
	return files, nil
}

// Get returns file metadata by ID.
func (s *FileService) Get(ctx context.Context, id string) (*models.File, error) {
	file, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "File not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load file")
	}
	return file, nil
}

// Ingest forwards a batch of staged documents to the content store
// concurrently and persists one metadata row per document in a single
// transaction. Staged copies are removed on every exit path, success or
// not; the content store is the durable home of the bytes.
func (s *FileService) Ingest(ctx context.Context, staged []StagedFile) ([]models.File, error) {
	defer func() {
		for _, f := range staged {
			if err := s.staging.Remove(f.Name); err != nil {
				s.logger.Warn("failed to remove staged file", zap.String("file", f.Name), zap.Error(err))
			}
		}
	}()

	records := make([]*models.File, len(staged))
	var mu sync.Mutex

	g, gctx := errgroup.WithContext(ctx)
	for i, f := range staged {
		i, f := i, f
		g.Go(func() error {
			fileType, err := mapMIMEToFileType(f.MIMEType)
			if err != nil {
				return err
			}

			src, err := s.staging.Open(f.Name)
			if err != nil {
				return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to read staged file")
			}
			defer src.Close() //nolint:errcheck

			if err := gctx.Err(); err != nil {
				return err
			}

			url, err := s.store.Upload(f.Name, src, f.MIMEType)
			if err != nil {
				return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, fmt.Sprintf("failed to upload %s", f.OriginalName))
			}

			mu.Lock()
			records[i] = &models.File{
				FileName: f.OriginalName,
				FileType: fileType,
				FileURL:  url,
			}
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	if err := s.repo.CreateBatch(ctx, records); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to save file metadata")
	}

	files := make([]models.File, len(records))
	for i, rec := range records {
		files[i] = *rec
	}
	return files, nil
}

// Delete removes a metadata row. The content store copy is left behind;
// its URL simply stops being referenced.
func (s *FileService) Delete(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFound, "File not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete file")
	}
	return nil
}

// mapMIMEToFileType resolves an allowlisted MIME type to its stored
// enumeration. The multipart layer rejects anything outside the
// allowlist first, so an unknown type here is an internal fault.
func mapMIMEToFileType(mimeType string) (models.FileType, error) {
	switch mimeType {
	case "application/pdf":
		return models.FilePDF, nil
	case "application/vnd.ms-powerpoint",
		"application/vnd.openxmlformats-officedocument.presentationml.presentation":
		return models.FilePPT, nil
	case "application/msword",
		"application/vnd.openxmlformats-officedocument.wordprocessingml.document":
		return models.FileDOCX, nil
	}
	return "", appErrors.Clone(appErrors.ErrInternal, fmt.Sprintf("unmapped MIME type %q", mimeType))
}
