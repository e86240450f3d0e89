package blobstore

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/hupe1980/seahash/internal/mmap"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func readAll(t *testing.T, b Blob, off, n int64) string {
	t.Helper()
	rc, err := b.ReadRange(context.Background(), off, n)
	require.NoError(t, err)
	defer rc.Close()
	data, err := io.ReadAll(rc)
	require.NoError(t, err)
	return string(data)
}

func TestLocalStore_Lifecycle(t *testing.T) {
	ctx := context.Background()
	store := NewLocalStore(t.TempDir())

	data := []byte("hello world, this is a test blob")
	require.NoError(t, store.Put(ctx, "dir/data-001.bin", data))

	b, err := store.Open(ctx, "dir/data-001.bin")
	require.NoError(t, err)

	assert.Equal(t, int64(len(data)), b.Size())
	assert.Equal(t, "world", readAll(t, b, 6, 5))
	assert.Equal(t, "blob", readAll(t, b, int64(len(data))-4, 100))
	assert.Equal(t, "", readAll(t, b, 1000, 10))

	m, ok := b.(Mappable)
	require.True(t, ok)
	mapped, err := m.Bytes()
	require.NoError(t, err)
	assert.Equal(t, data, mapped)

	require.NoError(t, b.Close())
	_, err = m.Bytes()
	assert.Error(t, err)

	names, err := store.List(ctx, "")
	require.NoError(t, err)
	assert.Equal(t, []string{"dir/data-001.bin"}, names)
}

func TestLocalStore_ReadRangeAfterClose(t *testing.T) {
	ctx := context.Background()
	store := NewLocalStore(t.TempDir())
	require.NoError(t, store.Put(ctx, "a", []byte("abcdefghi")))

	b, err := store.Open(ctx, "a")
	require.NoError(t, err)

	rc, err := b.ReadRange(ctx, 2, 4)
	require.NoError(t, err)
	require.NoError(t, b.Close())

	// Readers opened before Close fail instead of touching the unmapped region.
	_, err = io.ReadAll(rc)
	assert.ErrorIs(t, err, mmap.ErrClosed)

	_, err = b.ReadRange(ctx, 0, 1)
	assert.ErrorIs(t, err, mmap.ErrClosed)
}

func TestLocalStore_NotFound(t *testing.T) {
	store := NewLocalStore(t.TempDir())
	_, err := store.Open(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestLocalStore_EmptyRoot(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "abs.bin")
	require.NoError(t, os.WriteFile(path, []byte("abc"), 0o600))

	b, err := NewLocalStore("").Open(context.Background(), path)
	require.NoError(t, err)
	defer b.Close()
	assert.Equal(t, "abc", readAll(t, b, 0, 3))
}

func TestLocalStore_EmptyFile(t *testing.T) {
	ctx := context.Background()
	store := NewLocalStore(t.TempDir())
	require.NoError(t, store.Put(ctx, "empty", nil))

	b, err := store.Open(ctx, "empty")
	require.NoError(t, err)
	defer b.Close()

	assert.Equal(t, int64(0), b.Size())
	mapped, err := b.(Mappable).Bytes()
	require.NoError(t, err)
	assert.Empty(t, mapped)
}

func TestLocalStore_ListPrefix(t *testing.T) {
	ctx := context.Background()
	store := NewLocalStore(t.TempDir())
	for _, name := range []string{"a/1", "a/2", "b/1"} {
		require.NoError(t, store.Put(ctx, name, []byte(name)))
	}

	names, err := store.List(ctx, "a/")
	require.NoError(t, err)
	assert.Equal(t, []string{"a/1", "a/2"}, names)
}

func TestLocalStore_CanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewLocalStore(t.TempDir()).Open(ctx, "x")
	assert.ErrorIs(t, err, context.Canceled)
}
