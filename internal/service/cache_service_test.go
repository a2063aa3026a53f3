package service

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"

	appErrors "github.com/noah-isme/classroom-api/pkg/errors"
)

type stubCacheRepo struct {
	store   map[string][]byte
	deleted []string
}

func (s *stubCacheRepo) Get(_ context.Context, key string, dest interface{}) error {
	if s.store == nil {
		return appErrors.ErrCacheMiss
	}
	payload, ok := s.store[key]
	if !ok {
		return appErrors.ErrCacheMiss
	}
	return json.Unmarshal(payload, dest)
}

func (s *stubCacheRepo) Set(_ context.Context, key string, value interface{}, _ time.Duration) error {
	if s.store == nil {
		s.store = make(map[string][]byte)
	}
	payload, err := json.Marshal(value)
	if err != nil {
		return err
	}
	s.store[key] = payload
	return nil
}

func (s *stubCacheRepo) DeleteByPattern(_ context.Context, pattern string) error {
	s.deleted = append(s.deleted, pattern)
	s.store = nil
	return nil
}

func TestCacheServiceDisabledIsNoop(t *testing.T) {
	svc := NewCacheService(nil, nil, time.Minute, zap.NewNop(), false)

	var dest []string
	assert.False(t, svc.Get(context.Background(), "key", &dest))
	svc.Set(context.Background(), "key", []string{"value"})
	svc.Invalidate(context.Background(), "key:*")
}

func TestCacheServiceRoundTrip(t *testing.T) {
	repo := &stubCacheRepo{}
	svc := NewCacheService(repo, nil, time.Minute, zap.NewNop(), true)
	ctx := context.Background()

	var miss []string
	assert.False(t, svc.Get(ctx, "key", &miss))

	svc.Set(ctx, "key", []string{"a", "b"})

	var hit []string
	assert.True(t, svc.Get(ctx, "key", &hit))
	assert.Equal(t, []string{"a", "b"}, hit)

	svc.Invalidate(ctx, "key*")
	assert.Equal(t, []string{"key*"}, repo.deleted)

	var afterInvalidate []string
	assert.False(t, svc.Get(ctx, "key", &afterInvalidate))
}
