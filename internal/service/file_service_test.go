package service

import (
	"context"
	"database/sql"
	"io"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/noah-isme/classroom-api/internal/models"
	appErrors "github.com/noah-isme/classroom-api/pkg/errors"
	"github.com/noah-isme/classroom-api/pkg/oid"
	"github.com/noah-isme/classroom-api/pkg/storage"
)

type mockFileRepo struct {
	byID    map[string]*models.File
	batches int
}

func newMockFileRepo() *mockFileRepo {
	return &mockFileRepo{byID: make(map[string]*models.File)}
}

func (m *mockFileRepo) List(_ context.Context, _ models.FileFilter) ([]models.File, error) {
	files := make([]models.File, 0, len(m.byID))
	for _, file := range m.byID {
		files = append(files, *file)
	}
	return files, nil
}

func (m *mockFileRepo) FindByID(_ context.Context, id string) (*models.File, error) {
	file, ok := m.byID[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	copied := *file
	return &copied, nil
}

func (m *mockFileRepo) CreateBatch(_ context.Context, files []*models.File) error {
	m.batches++
	for _, file := range files {
		if file.ID == "" {
			file.ID = oid.New()
		}
		m.byID[file.ID] = file
	}
	return nil
}

func (m *mockFileRepo) Delete(_ context.Context, id string) error {
	if _, ok := m.byID[id]; !ok {
		return sql.ErrNoRows
	}
	delete(m.byID, id)
	return nil
}

type mockContentStore struct {
	mu      sync.Mutex
	uploads int
	failOn  string
}

func (m *mockContentStore) Upload(objectPath string, r io.Reader, _ string) (string, error) {
	if _, err := io.Copy(io.Discard, r); err != nil {
		return "", err
	}
	m.mu.Lock()
	m.uploads++
	m.mu.Unlock()
	if m.failOn != "" && strings.Contains(objectPath, m.failOn) {
		return "", assert.AnError
	}
	return "https://cdn.example.com/" + objectPath, nil
}

func stageFiles(t *testing.T, staging *storage.Staging, names ...string) []StagedFile {
	t.Helper()
	staged := make([]StagedFile, 0, len(names))
	for _, name := range names {
		_, err := staging.SaveStream(name, strings.NewReader("document body"))
		require.NoError(t, err)
		staged = append(staged, StagedFile{
			Name:         name,
			OriginalName: "original-" + name,
			Size:         13,
			MIMEType:     "application/pdf",
		})
	}
	return staged
}

func stagedExists(staging *storage.Staging, name string) bool {
	f, err := staging.Open(name)
	if err != nil {
		return false
	}
	f.Close() //nolint:errcheck
	return true
}

func TestFileServiceIngestPersistsAndCleansUp(t *testing.T) {
	staging, err := storage.NewStaging(t.TempDir())
	require.NoError(t, err)
	repo := newMockFileRepo()
	store := &mockContentStore{}
	svc := NewFileService(repo, store, staging, zap.NewNop())

	staged := stageFiles(t, staging, "a.pdf", "b.pdf")

	files, err := svc.Ingest(context.Background(), staged)
	require.NoError(t, err)
	require.Len(t, files, 2)

	assert.Equal(t, 1, repo.batches)
	assert.Equal(t, 2, store.uploads)
	for _, file := range files {
		assert.Equal(t, models.FilePDF, file.FileType)
		assert.Contains(t, file.FileURL, "https://cdn.example.com/")
	}
	assert.False(t, stagedExists(staging, "a.pdf"))
	assert.False(t, stagedExists(staging, "b.pdf"))
}

func TestFileServiceIngestFailureCleansStaging(t *testing.T) {
	staging, err := storage.NewStaging(t.TempDir())
	require.NoError(t, err)
	repo := newMockFileRepo()
	store := &mockContentStore{failOn: "b.pdf"}
	svc := NewFileService(repo, store, staging, zap.NewNop())

	staged := stageFiles(t, staging, "a.pdf", "b.pdf")

	_, err = svc.Ingest(context.Background(), staged)
	require.Error(t, err)

	assert.Zero(t, repo.batches)
	assert.False(t, stagedExists(staging, "a.pdf"))
	assert.False(t, stagedExists(staging, "b.pdf"))
}

func TestFileServiceIngestRejectsUnmappedMIME(t *testing.T) {
	staging, err := storage.NewStaging(t.TempDir())
	require.NoError(t, err)
	repo := newMockFileRepo()
	svc := NewFileService(repo, &mockContentStore{}, staging, zap.NewNop())

	staged := stageFiles(t, staging, "a.pdf")
	staged[0].MIMEType = "image/png"

	_, err = svc.Ingest(context.Background(), staged)
	require.Error(t, err)

	appErr := appErrors.FromError(err)
	assert.Equal(t, appErrors.ErrInternal.Code, appErr.Code)
	assert.Zero(t, repo.batches)
}

func TestFileServiceDeleteNotFound(t *testing.T) {
	staging, err := storage.NewStaging(t.TempDir())
	require.NoError(t, err)
	svc := NewFileService(newMockFileRepo(), &mockContentStore{}, staging, zap.NewNop())

	err = svc.Delete(context.Background(), oid.New())
	require.Error(t, err)

	appErr := appErrors.FromError(err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErr.Code)
	assert.Equal(t, "File not found", appErr.Message)
}

func TestMapMIMEToFileType(t *testing.T) {
	cases := map[string]models.FileType{
		"application/pdf": models.FilePDF,
		"application/vnd.ms-powerpoint": models.FilePPT,
		"application/vnd.openxmlformats-officedocument.presentationml.presentation": models.FilePPT,
		"application/msword": models.FileDOCX,
		"application/vnd.openxmlformats-officedocument.wordprocessingml.document": models.FileDOCX,
	}
	for mime, want := range cases {
		got, err := mapMIMEToFileType(mime)
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}

	_, err := mapMIMEToFileType("text/plain")
	require.Error(t, err)
}
