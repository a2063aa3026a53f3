package storage

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// Staging holds uploaded documents on local disk between multipart
// parsing and the forward to the content delivery store.
type Staging struct {
	baseDir string
}

// NewStaging ensures the staging directory exists and returns a handle.
func NewStaging(baseDir string) (*Staging, error) {
	if baseDir == "" {
		baseDir = "./uploads/documents"
	}
	if err := os.MkdirAll(baseDir, 0o755); err != nil {
		return nil, fmt.Errorf("create staging directory: %w", err)
	}
	return &Staging{baseDir: baseDir}, nil
}

// Path resolves a staged object name to its on-disk location.
func (s *Staging) Path(name string) string {
	return filepath.Join(s.baseDir, filepath.Base(name))
}

// SaveStream copies from reader into a staged file and returns its path.
func (s *Staging) SaveStream(name string, r io.Reader) (string, error) {
	path := s.Path(name)
	file, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("create staged file: %w", err)
	}
	defer file.Close() //nolint:errcheck
	if _, err := io.Copy(file, r); err != nil {
		return "", fmt.Errorf("write staged file: %w", err)
	}
	return path, nil
}

// Open returns a read-only handle for a staged file.
func (s *Staging) Open(name string) (*os.File, error) {
	file, err := os.Open(s.Path(name))
	if err != nil {
		return nil, fmt.Errorf("open staged file: %w", err)
	}
	return file, nil
}

// Remove deletes a staged file if present.
func (s *Staging) Remove(name string) error {
	if err := os.Remove(s.Path(name)); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("remove staged file: %w", err)
	}
	return nil
}
