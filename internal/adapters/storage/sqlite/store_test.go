package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jsamuelsen/quotebox/internal/domain"
	"github.com/jsamuelsen/quotebox/internal/ports"
)

var _ ports.KeyValueStore = (*Store)(nil)

func openTemp(t *testing.T) (*Store, string) {
	t.Helper()

	path := filepath.Join(t.TempDir(), "nested", "quotes.db")

	store, err := Open(context.Background(), Config{Path: path, BusyTimeout: time.Second})
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	return store, path
}

func TestStore_GetMissingKey(t *testing.T) {
	store, _ := openTemp(t)

	_, err := store.Get(context.Background(), ports.KeyQuotes)

	assert.True(t, domain.IsNotFound(err))
}

func TestStore_SetGetOverwriteDelete(t *testing.T) {
	store, _ := openTemp(t)
	ctx := context.Background()

	require.NoError(t, store.Set(ctx, ports.KeySelectedCategory, "Wisdom"))
	require.NoError(t, store.Set(ctx, ports.KeySelectedCategory, "Motivation"))

	got, err := store.Get(ctx, ports.KeySelectedCategory)
	require.NoError(t, err)
	assert.Equal(t, "Motivation", got)

	require.NoError(t, store.Delete(ctx, ports.KeySelectedCategory))
	require.NoError(t, store.Delete(ctx, ports.KeySelectedCategory))

	_, err = store.Get(ctx, ports.KeySelectedCategory)
	assert.True(t, domain.IsNotFound(err))
}

func TestStore_PersistsAcrossReopen(t *testing.T) {
	store, path := openTemp(t)
	ctx := context.Background()

	payload := `[{"text":"Stay hungry.","category":"Motivation"}]`
	require.NoError(t, store.Set(ctx, ports.KeyQuotes, payload))
	require.NoError(t, store.Close())

	reopened, err := Open(ctx, Config{Path: path})
	require.NoError(t, err)
	t.Cleanup(func() { _ = reopened.Close() })

	got, err := reopened.Get(ctx, ports.KeyQuotes)
	require.NoError(t, err)
	assert.Equal(t, payload, got)
}

func TestStore_InMemoryPath(t *testing.T) {
	store, err := Open(context.Background(), Config{Path: ":memory:"})
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	require.NoError(t, store.Set(context.Background(), "k", "v"))

	got, err := store.Get(context.Background(), "k")
	require.NoError(t, err)
	assert.Equal(t, "v", got)
}

func TestStore_HealthCheck(t *testing.T) {
	store, _ := openTemp(t)

	assert.Equal(t, "quote-store", store.Name())
	require.NoError(t, store.Check(context.Background()))

	require.NoError(t, store.Close())
	assert.Error(t, store.Check(context.Background()))
}

func TestOpen_DriverFailure(t *testing.T) {
	original := openDB
	t.Cleanup(func() { openDB = original })

	openDB = func(string, string) (*sql.DB, error) { return nil, errors.New("boom") }

	_, err := Open(context.Background(), Config{Path: filepath.Join(t.TempDir(), "x.db")})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "open database")
}
