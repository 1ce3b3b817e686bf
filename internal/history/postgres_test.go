package history

import (
	"context"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Runs only when TEST_DATABASE_URL points at a disposable database.
func TestPostgresStore(t *testing.T) {
	url := os.Getenv("TEST_DATABASE_URL")
	if url == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}
	ctx := context.Background()

	store, err := NewPostgresStore(ctx, url)
	require.NoError(t, err)
	defer store.Close()

	in := []Entry{{Title: "pg entry", Link: "https://pg", PublishedDate: "2025-03-10T12:00:00.000000+00:00"}}
	require.NoError(t, store.Save(ctx, in))

	out, err := store.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, in, out)
}
