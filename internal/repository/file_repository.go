package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/classroom-api/internal/models"
	"github.com/noah-isme/classroom-api/pkg/oid"
)

const fileColumns = `id, file_name, file_type, file_url, created_at, updated_at`

// FileRepository provides database access for uploaded file metadata.
type FileRepository struct {
	db *sqlx.DB
}

// NewFileRepository creates a new instance of FileRepository.
func NewFileRepository(db *sqlx.DB) *FileRepository {
	return &FileRepository{db: db}
}

// List returns file metadata matching the filter, newest first.
func (r *FileRepository) List(ctx context.Context, filter models.FileFilter) ([]models.File, error) {
	query := `SELECT ` + fileColumns + ` FROM files WHERE 1=1`
	var conditions []string
	var args []interface{}

	if filter.FileType != nil {
		conditions = append(conditions, fmt.Sprintf("file_type = $%d", len(args)+1))
		args = append(args, *filter.FileType)
	}
	if filter.Search != "" {
		conditions = append(conditions, fmt.Sprintf("file_name ILIKE $%d", len(args)+1))
		args = append(args, containsPattern(filter.Search))
	}

	if len(conditions) > 0 {
		query += " AND " + strings.Join(conditions, " AND ")
	}
	query += " ORDER BY created_at DESC"

	files := []models.File{}
	if err := r.db.SelectContext(ctx, &files, query, args...); err != nil {
		return nil, fmt.Errorf("list files: %w", err)
	}
	return files, nil
}

// FindByID returns file metadata by identifier.
func (r *FileRepository) FindByID(ctx context.Context, id string) (*models.File, error) {
	const query = `SELECT ` + fileColumns + ` FROM files WHERE id = $1 LIMIT 1`
	var file models.File
	if err := r.db.GetContext(ctx, &file, query, id); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("find file by id: %w", err)
	}
	return &file, nil
}

// CreateBatch inserts one metadata row per uploaded file inside a single
// transaction so a batch either fully persists or not at all.
func (r *FileRepository) CreateBatch(ctx context.Context, files []*models.File) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin file batch: %w", err)
	}

	const query = `INSERT INTO files (id, file_name, file_type, file_url, created_at, updated_at)
		VALUES (:id, :file_name, :file_type, :file_url, :created_at, :updated_at)`

	now := time.Now().UTC()
	for _, file := range files {
		if file.ID == "" {
			file.ID = oid.New()
		}
		file.CreatedAt = now
		file.UpdatedAt = now
		if _, err := tx.NamedExecContext(ctx, query, file); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("insert file metadata: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit file batch: %w", err)
	}
	return nil
}

// Delete removes a metadata row outright. Unlike the soft-archive
// resources, file rows are hard-deleted.
func (r *FileRepository) Delete(ctx context.Context, id string) error {
	const query = `DELETE FROM files WHERE id = $1`
	res, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("delete file: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete file rows affected: %w", err)
	}
	if affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}
