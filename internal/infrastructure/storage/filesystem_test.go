package storage

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

func newFileSystemStore(t *testing.T) (*FileSystemObjectStore, string) {
	t.Helper()
	base := filepath.Join(t.TempDir(), "buckets")
	store, err := NewFileSystemObjectStore(base, zaptest.NewLogger(t))
	require.NoError(t, err)
	require.NoError(t, store.EnsureBucket(context.Background(), "reports"))
	return store, base
}

func TestNewFileSystemObjectStore(t *testing.T) {
	_, err := NewFileSystemObjectStore("", nil)
	require.Error(t, err)

	base := filepath.Join(t.TempDir(), "nested", "buckets")
	store, err := NewFileSystemObjectStore(base, nil)
	require.NoError(t, err)
	assert.DirExists(t, base)
	assert.NotNil(t, store.logger)
}

func TestFileSystemObjectStore_RoundTrip(t *testing.T) {
	store, base := newFileSystemStore(t)
	ctx := context.Background()
	work := t.TempDir()

	src := filepath.Join(work, "q3.pdf")
	require.NoError(t, os.WriteFile(src, []byte("%PDF-1.4 report"), 0o600))
	require.NoError(t, store.Upload(ctx, src, "reports", "2026/q3.pdf"))
	assert.FileExists(t, filepath.Join(base, "reports", "2026", "q3.pdf"))

	dst := filepath.Join(work, "copy", "q3.pdf")
	require.NoError(t, store.Download(ctx, "reports", "2026/q3.pdf", dst))
	data, err := os.ReadFile(dst)
	require.NoError(t, err)
	assert.Equal(t, "%PDF-1.4 report", string(data))
}

func TestFileSystemObjectStore_UploadOverwrites(t *testing.T) {
	store, _ := newFileSystemStore(t)
	ctx := context.Background()
	work := t.TempDir()

	src := filepath.Join(work, "a.pdf")
	require.NoError(t, os.WriteFile(src, []byte("first version"), 0o600))
	require.NoError(t, store.Upload(ctx, src, "reports", "a.pdf"))
	require.NoError(t, os.WriteFile(src, []byte("second"), 0o600))
	require.NoError(t, store.Upload(ctx, src, "reports", "a.pdf"))

	dst := filepath.Join(work, "out.pdf")
	require.NoError(t, store.Download(ctx, "reports", "a.pdf", dst))
	data, err := os.ReadFile(dst)
	require.NoError(t, err)
	assert.Equal(t, "second", string(data))
}

func TestFileSystemObjectStore_Errors(t *testing.T) {
	store, _ := newFileSystemStore(t)
	ctx := context.Background()
	work := t.TempDir()

	t.Run("missing object", func(t *testing.T) {
		err := store.Download(ctx, "reports", "absent.html", filepath.Join(work, "absent.html"))
		require.Error(t, err)
		assert.ErrorIs(t, err, os.ErrNotExist)
	})

	t.Run("missing bucket on upload", func(t *testing.T) {
		src := filepath.Join(work, "x.pdf")
		require.NoError(t, os.WriteFile(src, []byte("x"), 0o600))
		err := store.Upload(ctx, src, "unknown", "x.pdf")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "bucket unknown")
	})

	t.Run("path escapes are rejected", func(t *testing.T) {
		for _, tc := range []struct{ bucket, key string }{
			{"reports", "../other/secret.html"},
			{"reports", "/etc/passwd"},
			{"reports", `a\..\..\x`},
			{"..", "x"},
			{"a/b", "x"},
			{"", "x"},
		} {
			err := store.Download(ctx, tc.bucket, tc.key, filepath.Join(work, "never"))
			assert.ErrorIs(t, err, ErrInvalidPath, "%s/%s", tc.bucket, tc.key)
		}
	})

	t.Run("cancelled context", func(t *testing.T) {
		cctx, cancel := context.WithCancel(ctx)
		cancel()
		assert.ErrorIs(t, store.Download(cctx, "reports", "a.html", filepath.Join(work, "a.html")), context.Canceled)
	})
}
