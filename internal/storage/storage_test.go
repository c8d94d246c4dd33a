package storage_test

import (
	"context"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/atinyakov/tinyurl/internal/storage"
)

type recordStore interface {
	Create(context.Context, storage.URLRecord) error
	FindByCode(context.Context, string) (*storage.URLRecord, error)
	UpdateActive(context.Context, string, bool) (*storage.URLRecord, error)
	Delete(context.Context, string) (bool, error)
	PingContext(context.Context) error
}

func newRecord(code string) storage.URLRecord {
	return storage.URLRecord{
		ShortCode: code,
		LongURL:   "https://example.com/" + code,
		Active:    true,
		CreatedAt: time.Now().UTC().Truncate(time.Millisecond),
	}
}

func runStoreSuite(t *testing.T, newStore func(t *testing.T) recordStore) {
	ctx := context.Background()

	t.Run("create and find", func(t *testing.T) {
		s := newStore(t)
		record := newRecord("abc123")

		require.NoError(t, s.Create(ctx, record))

		found, err := s.FindByCode(ctx, "abc123")
		require.NoError(t, err)
		assert.Equal(t, record.LongURL, found.LongURL)
		assert.True(t, found.Active)
		assert.True(t, record.CreatedAt.Equal(found.CreatedAt))
		assert.Nil(t, found.UpdatedAt)
	})

	t.Run("duplicate code", func(t *testing.T) {
		s := newStore(t)
		require.NoError(t, s.Create(ctx, newRecord("dup001")))

		err := s.Create(ctx, newRecord("dup001"))
		assert.ErrorIs(t, err, storage.ErrDuplicateKey)
	})

	t.Run("find missing", func(t *testing.T) {
		s := newStore(t)
		_, err := s.FindByCode(ctx, "nope00")
		assert.ErrorIs(t, err, storage.ErrNotFound)
	})

	t.Run("update active stamps updated_at", func(t *testing.T) {
		s := newStore(t)
		require.NoError(t, s.Create(ctx, newRecord("tog001")))

		before := time.Now().UTC().Add(-time.Second)
		updated, err := s.UpdateActive(ctx, "tog001", false)
		require.NoError(t, err)
		assert.False(t, updated.Active)
		require.NotNil(t, updated.UpdatedAt)
		assert.True(t, updated.UpdatedAt.After(before))

		found, err := s.FindByCode(ctx, "tog001")
		require.NoError(t, err)
		assert.False(t, found.Active)

		updated, err = s.UpdateActive(ctx, "tog001", true)
		require.NoError(t, err)
		assert.True(t, updated.Active)
	})

	t.Run("update missing", func(t *testing.T) {
		s := newStore(t)
		_, err := s.UpdateActive(ctx, "nope00", true)
		assert.ErrorIs(t, err, storage.ErrNotFound)
	})

	t.Run("delete is idempotent", func(t *testing.T) {
		s := newStore(t)
		require.NoError(t, s.Create(ctx, newRecord("del001")))

		deleted, err := s.Delete(ctx, "del001")
		require.NoError(t, err)
		assert.True(t, deleted)

		deleted, err = s.Delete(ctx, "del001")
		require.NoError(t, err)
		assert.False(t, deleted)

		_, err = s.FindByCode(ctx, "del001")
		assert.ErrorIs(t, err, storage.ErrNotFound)
	})

	t.Run("concurrent toggles", func(t *testing.T) {
		s := newStore(t)
		require.NoError(t, s.Create(ctx, newRecord("con001")))

		var wg sync.WaitGroup
		for i := 0; i < 20; i++ {
			wg.Add(1)
			go func(active bool) {
				defer wg.Done()
				_, err := s.UpdateActive(ctx, "con001", active)
				assert.NoError(t, err)
			}(i%2 == 0)
		}
		wg.Wait()

		found, err := s.FindByCode(ctx, "con001")
		require.NoError(t, err)
		assert.Equal(t, "https://example.com/con001", found.LongURL)
		assert.NotNil(t, found.UpdatedAt)
	})

	t.Run("ping", func(t *testing.T) {
		s := newStore(t)
		assert.NoError(t, s.PingContext(ctx))
	})
}

func TestMemoryStorage(t *testing.T) {
	runStoreSuite(t, func(t *testing.T) recordStore {
		mem, err := storage.CreateMemoryStorage()
		require.NoError(t, err)
		return mem
	})
}

func TestBoltStorage(t *testing.T) {
	runStoreSuite(t, func(t *testing.T) recordStore {
		s, err := storage.NewBoltStorage(filepath.Join(t.TempDir(), "data", "urls.db"))
		require.NoError(t, err)
		t.Cleanup(func() { _ = s.Close() })
		return s
	})
}

func TestBoltStorage_Reopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "urls.db")
	ctx := context.Background()

	s, err := storage.NewBoltStorage(path)
	require.NoError(t, err)
	require.NoError(t, s.Create(ctx, newRecord("keep01")))
	require.NoError(t, s.Close())

	s, err = storage.NewBoltStorage(path)
	require.NoError(t, err)
	defer s.Close()

	found, err := s.FindByCode(ctx, "keep01")
	require.NoError(t, err)
	assert.Equal(t, "https://example.com/keep01", found.LongURL)
}

func TestBoltStorage_PingAfterClose(t *testing.T) {
	s, err := storage.NewBoltStorage(filepath.Join(t.TempDir(), "urls.db"))
	require.NoError(t, err)
	require.NoError(t, s.Close())

	assert.Error(t, s.PingContext(context.Background()))
}
