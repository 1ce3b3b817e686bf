package history

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/deusflow/cryptonews/internal/config"
)

func TestSQLiteStore(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "data", "history.db")

	store, err := NewSQLiteStore(ctx, path)
	require.NoError(t, err)
	defer store.Close()

	entries, err := store.Load(ctx)
	require.NoError(t, err)
	assert.Empty(t, entries)

	first := []Entry{
		{Title: "one", Link: "https://a", PublishedDate: "2025-03-10T12:00:00.000000+00:00"},
		{Title: "two", Link: "", PublishedDate: "garbled"},
	}
	require.NoError(t, store.Save(ctx, first))

	got, err := store.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, first, got)

	// Save replaces, it does not append
	second := []Entry{{Title: "three", Link: "https://c", PublishedDate: "2025-03-11"}}
	require.NoError(t, store.Save(ctx, second))

	got, err = store.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, second, got)
	assert.Equal(t, "sqlite:"+path, store.String())
}

func TestOpenBackends(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()

	s, err := Open(ctx, &config.Config{HistoryBackend: "file", HistoryFile: filepath.Join(dir, "h.json")})
	require.NoError(t, err)
	assert.IsType(t, &FileStore{}, s)

	s, err = Open(ctx, &config.Config{HistoryBackend: "sqlite", SQLitePath: filepath.Join(dir, "h.db")})
	require.NoError(t, err)
	assert.IsType(t, &SQLiteStore{}, s)
	require.NoError(t, s.Close())

	_, err = Open(ctx, &config.Config{HistoryBackend: "redis"})
	assert.Error(t, err)
}
