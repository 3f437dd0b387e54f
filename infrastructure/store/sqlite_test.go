package store

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ahrav/go-medals/internal/ports"
)

func openTestStore(t *testing.T) (*SQLiteStore, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "prefs.db")
	s, err := Open(context.Background(), path)
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s, path
}

func TestSQLiteStore_DarkMode(t *testing.T) {
	ctx := context.Background()
	s, _ := openTestStore(t)

	dark, err := s.DarkMode(ctx)
	require.NoError(t, err)
	assert.False(t, dark, "unset flag defaults to false")

	require.NoError(t, s.SetDarkMode(ctx, true))
	dark, err = s.DarkMode(ctx)
	require.NoError(t, err)
	assert.True(t, dark)

	require.NoError(t, s.SetDarkMode(ctx, false))
	dark, err = s.DarkMode(ctx)
	require.NoError(t, err)
	assert.False(t, dark)
}

func TestSQLiteStore_Persists(t *testing.T) {
	ctx := context.Background()
	s, path := openTestStore(t)
	require.NoError(t, s.SetDarkMode(ctx, true))
	require.NoError(t, s.Close())

	reopened, err := Open(ctx, path)
	require.NoError(t, err)
	defer reopened.Close()

	dark, err := reopened.DarkMode(ctx)
	require.NoError(t, err)
	assert.True(t, dark)
}

func TestSQLiteStore_Memory(t *testing.T) {
	ctx := context.Background()
	s, err := Open(ctx, ":memory:")
	require.NoError(t, err)
	defer s.Close()

	require.NoError(t, s.SetDarkMode(ctx, true))
	dark, err := s.DarkMode(ctx)
	require.NoError(t, err)
	assert.True(t, dark)
}

func TestSQLiteStore_CorruptValue(t *testing.T) {
	ctx := context.Background()
	s, _ := openTestStore(t)
	require.NoError(t, s.set(ctx, KeyDarkMode, "maybe"))

	_, err := s.DarkMode(ctx)

	var storeErr *ports.StoreError
	require.True(t, errors.As(err, &storeErr))
	assert.Equal(t, KeyDarkMode, storeErr.Key)
	assert.Equal(t, "get", storeErr.Operation)
}

func TestSQLiteStore_Closed(t *testing.T) {
	ctx := context.Background()
	s, _ := openTestStore(t)
	require.NoError(t, s.Close())

	err := s.SetDarkMode(ctx, true)
	assert.ErrorIs(t, err, ports.ErrStoreUnavailable)
}

func TestOpen_EmptyPath(t *testing.T) {
	_, err := Open(context.Background(), "")
	assert.ErrorIs(t, err, ports.ErrConfigNotFound)
}
