package sqlite

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/nikolayk812/storefront/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestStore(t *testing.T, path, namespace string) *Store {
	t.Helper()

	store, err := Open(path, namespace)
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	return store
}

func TestStoreSetGetDelete(t *testing.T) {
	ctx := t.Context()
	store := openTestStore(t, filepath.Join(t.TempDir(), "storefront.sqlite"), "default")
	store.now = func() time.Time { return time.Date(2026, 1, 23, 12, 0, 0, 0, time.UTC) }

	require.NoError(t, store.Set(ctx,
		domain.Entry{Key: "user", Value: `{"id":7}`},
		domain.Entry{Key: "token", Value: "abc"},
	))
	require.NoError(t, store.Set(ctx, domain.Entry{Key: "token", Value: "def"}))

	value, found, err := store.Get(ctx, "token")
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, "def", value)

	var updatedAt int64
	require.NoError(t, store.sqlDB.QueryRowContext(ctx,
		`SELECT updated_at FROM local_storage WHERE key = 'token'`).Scan(&updatedAt))
	assert.Equal(t, store.now().UnixMilli(), updatedAt)

	require.NoError(t, store.Delete(ctx, "user", "token"))

	_, found, err = store.Get(ctx, "user")
	require.NoError(t, err)
	assert.False(t, found)
}

func TestStoreNamespacesShareFile(t *testing.T) {
	ctx := t.Context()
	path := filepath.Join(t.TempDir(), "storefront.sqlite")

	alice := openTestStore(t, path, "alice")
	bob := openTestStore(t, path, "bob")

	require.NoError(t, alice.Set(ctx, domain.Entry{Key: "cart", Value: "[]"}))

	_, found, err := bob.Get(ctx, "cart")
	require.NoError(t, err)
	assert.False(t, found)

	_, found, err = alice.Get(ctx, "cart")
	require.NoError(t, err)
	assert.True(t, found)
}

func TestStoreSetRejectsEmptyKey(t *testing.T) {
	store := openTestStore(t, filepath.Join(t.TempDir(), "storefront.sqlite"), "default")

	err := store.Set(t.Context(), domain.Entry{Key: "cart", Value: "[]"}, domain.Entry{Value: "x"})
	require.EqualError(t, err, "key is empty")

	_, found, err := store.Get(t.Context(), "cart")
	require.NoError(t, err)
	assert.False(t, found)
}
