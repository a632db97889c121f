package sqlite

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jcmexdev/pizzeria/internal/storefront/storage"
)

func openTemp(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "storefront.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestGetMissingKey(t *testing.T) {
	s := openTemp(t)

	v, err := s.Get(context.Background(), storage.KeyCart)
	require.NoError(t, err)
	assert.Nil(t, v)
}

func TestSetOverwrites(t *testing.T) {
	s := openTemp(t)
	ctx := context.Background()
	s.now = func() time.Time { return time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC) }

	require.NoError(t, s.Set(ctx, storage.KeyFavorites, []byte(`["p1"]`)))
	require.NoError(t, s.Set(ctx, storage.KeyFavorites, []byte(`["p1","p2"]`)))

	v, err := s.Get(ctx, storage.KeyFavorites)
	require.NoError(t, err)
	assert.JSONEq(t, `["p1","p2"]`, string(v))

	var updatedAt string
	require.NoError(t, s.db.QueryRowContext(ctx,
		`SELECT updated_at FROM records WHERE key = ?`, storage.KeyFavorites).Scan(&updatedAt))
	assert.Equal(t, "2026-03-01T12:00:00Z", updatedAt)
}

func TestReopenKeepsRecords(t *testing.T) {
	path := filepath.Join(t.TempDir(), "storefront.db")
	ctx := context.Background()

	s, err := Open(path)
	require.NoError(t, err)
	require.NoError(t, storage.SaveJSON(ctx, s, storage.KeyOrders, []string{"ORD000001"}))
	require.NoError(t, s.Close())

	s, err = Open(path)
	require.NoError(t, err)
	defer s.Close()

	var got []string
	found, err := storage.LoadJSON(ctx, s, storage.KeyOrders, &got)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, []string{"ORD000001"}, got)
}
