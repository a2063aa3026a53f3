package storage

import (
	"fmt"
	"io"

	storage "github.com/supabase-community/storage-go"

	"github.com/noah-isme/classroom-api/pkg/config"
)

// SupabaseStore uploads document bytes to a Supabase storage bucket and
// hands back durable public URLs.
type SupabaseStore struct {
	client *storage.Client
	bucket string
}

// NewSupabaseStore builds a store from configuration.
func NewSupabaseStore(cfg config.StorageConfig) *SupabaseStore {
	client := storage.NewClient(cfg.SupabaseURL+"/storage/v1", cfg.SupabaseKey, nil)
	return &SupabaseStore{client: client, bucket: cfg.Bucket}
}

// Upload pushes the reader's bytes to objectPath and returns the public URL.
func (s *SupabaseStore) Upload(objectPath string, r io.Reader, contentType string) (string, error) {
	upsert := true
	options := storage.FileOptions{
		ContentType: &contentType,
		Upsert:      &upsert,
	}

	if _, err := s.client.UploadFile(s.bucket, objectPath, r, options); err != nil {
		return "", fmt.Errorf("upload %s: %w", objectPath, err)
	}

	publicURL := s.client.GetPublicUrl(s.bucket, objectPath)
	return publicURL.SignedURL, nil
}
