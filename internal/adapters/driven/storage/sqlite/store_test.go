package sqlite

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/docdex-labs/docdex-cli/internal/core/ports/driven"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()

	store, err := NewStore(t.TempDir())
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func TestNewStore(t *testing.T) {
	t.Run("creates database under data directory", func(t *testing.T) {
		dataDir := t.TempDir()

		store, err := NewStore(dataDir)
		require.NoError(t, err)
		defer store.Close()

		assert.Equal(t, filepath.Join(dataDir, "scanstate.db"), store.Path())
	})

	t.Run("reopening an existing database succeeds", func(t *testing.T) {
		dataDir := t.TempDir()

		store, err := NewStore(dataDir)
		require.NoError(t, err)
		require.NoError(t, store.Close())

		store, err = NewStore(dataDir)
		require.NoError(t, err)
		assert.NoError(t, store.Close())
	})
}

func TestStore_SaveAndGet(t *testing.T) {
	ctx := context.Background()

	t.Run("round-trips a mark", func(t *testing.T) {
		store := newTestStore(t)

		mark := driven.ScanMark{
			Path:       "/docs/a.csv",
			ModifiedAt: time.Date(2026, 5, 1, 12, 0, 0, 123456789, time.UTC),
			Size:       42,
			IndexedAt:  time.Date(2026, 5, 1, 12, 0, 1, 0, time.UTC),
		}
		require.NoError(t, store.Save(ctx, mark))

		got, err := store.Get(ctx, "/docs/a.csv")
		require.NoError(t, err)
		require.NotNil(t, got)

		assert.Equal(t, mark.Path, got.Path)
		assert.True(t, mark.ModifiedAt.Equal(got.ModifiedAt))
		assert.Equal(t, mark.Size, got.Size)
		assert.True(t, mark.IndexedAt.Equal(got.IndexedAt))
	})

	t.Run("missing path returns nil without error", func(t *testing.T) {
		store := newTestStore(t)

		got, err := store.Get(ctx, "/docs/never-seen.csv")

		require.NoError(t, err)
		assert.Nil(t, got)
	})

	t.Run("saving the same path replaces the mark", func(t *testing.T) {
		store := newTestStore(t)

		first := driven.ScanMark{Path: "/docs/a.csv", ModifiedAt: time.Now(), Size: 10, IndexedAt: time.Now()}
		require.NoError(t, store.Save(ctx, first))

		second := first
		second.Size = 99
		require.NoError(t, store.Save(ctx, second))

		got, err := store.Get(ctx, "/docs/a.csv")
		require.NoError(t, err)
		require.NotNil(t, got)
		assert.Equal(t, int64(99), got.Size)
	})

	t.Run("marks survive reopening", func(t *testing.T) {
		dataDir := t.TempDir()

		store, err := NewStore(dataDir)
		require.NoError(t, err)

		mark := driven.ScanMark{Path: "/docs/a.csv", ModifiedAt: time.Now(), Size: 7, IndexedAt: time.Now()}
		require.NoError(t, store.Save(ctx, mark))
		require.NoError(t, store.Close())

		store, err = NewStore(dataDir)
		require.NoError(t, err)
		defer store.Close()

		got, err := store.Get(ctx, "/docs/a.csv")
		require.NoError(t, err)
		require.NotNil(t, got)
		assert.Equal(t, int64(7), got.Size)
	})
}

func TestStore_Delete(t *testing.T) {
	ctx := context.Background()

	t.Run("removes the mark", func(t *testing.T) {
		store := newTestStore(t)

		mark := driven.ScanMark{Path: "/docs/a.csv", ModifiedAt: time.Now(), Size: 1, IndexedAt: time.Now()}
		require.NoError(t, store.Save(ctx, mark))
		require.NoError(t, store.Delete(ctx, "/docs/a.csv"))

		got, err := store.Get(ctx, "/docs/a.csv")
		require.NoError(t, err)
		assert.Nil(t, got)
	})

	t.Run("deleting an unknown path is not an error", func(t *testing.T) {
		store := newTestStore(t)

		assert.NoError(t, store.Delete(ctx, "/docs/never-seen.csv"))
	})
}
