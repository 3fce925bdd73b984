package storage

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"testing"

	"github.com/html2pdf/backend/internal/infrastructure/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

// fakeS3 is a minimal path-style S3 endpoint
type fakeS3 struct {
	mu          sync.Mutex
	objects     map[string]string
	contentType map[string]string
}

func (f *fakeS3) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()

	path := strings.TrimPrefix(r.URL.Path, "/")
	switch r.Method {
	case http.MethodGet, http.MethodHead:
		body, ok := f.objects[path]
		if !ok {
			w.Header().Set("Content-Type", "application/xml")
			w.WriteHeader(http.StatusNotFound)
			if r.Method == http.MethodGet {
				_, _ = io.WriteString(w, `<?xml version="1.0" encoding="UTF-8"?><Error><Code>NoSuchKey</Code><Message>The specified key does not exist.</Message></Error>`)
			}
			return
		}
		w.Header().Set("Content-Length", strconv.Itoa(len(body)))
		if r.Method == http.MethodGet {
			_, _ = io.WriteString(w, body)
		}
	case http.MethodPut:
		data, _ := io.ReadAll(r.Body)
		f.objects[path] = string(data)
		f.contentType[path] = r.Header.Get("Content-Type")
		w.WriteHeader(http.StatusOK)
	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

func newFakeS3Store(t *testing.T) (*S3ObjectStore, *fakeS3) {
	t.Helper()
	fake := &fakeS3{objects: map[string]string{}, contentType: map[string]string{}}
	srv := httptest.NewServer(fake)
	t.Cleanup(srv.Close)

	store, err := NewS3ObjectStore(context.Background(), &config.StorageConfig{
		Region:       "us-east-1",
		Endpoint:     srv.URL,
		AccessKey:    "test-key",
		SecretKey:    "test-secret",
		UsePathStyle: true,
	}, WithLogger(zaptest.NewLogger(t)))
	require.NoError(t, err)
	return store, fake
}

func TestNewS3ObjectStore_Validation(t *testing.T) {
	ctx := context.Background()

	t.Run("nil config returns error", func(t *testing.T) {
		_, err := NewS3ObjectStore(ctx, nil)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "configuration is required")
	})

	t.Run("access key without secret returns error", func(t *testing.T) {
		_, err := NewS3ObjectStore(ctx, &config.StorageConfig{AccessKey: "AKIA"})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "set together")
	})

	t.Run("no keys uses the default credential chain", func(t *testing.T) {
		store, err := NewS3ObjectStore(ctx, &config.StorageConfig{Region: "eu-west-1"})
		require.NoError(t, err)
		assert.NotNil(t, store.client)
	})
}

func TestNormalizeEndpoint(t *testing.T) {
	tests := []struct {
		endpoint string
		useSSL   bool
		expected string
		wantErr  bool
	}{
		{"", false, "", false},
		{"localhost:9000", false, "http://localhost:9000", false},
		{"minio.internal:9000", true, "https://minio.internal:9000", false},
		{"https://s3.example.com", false, "https://s3.example.com", false},
		{"http://", false, "", true},
	}

	for _, tt := range tests {
		t.Run(tt.endpoint, func(t *testing.T) {
			got, err := normalizeEndpoint(tt.endpoint, tt.useSSL)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestS3ObjectStore_DownloadAndUpload(t *testing.T) {
	store, fake := newFakeS3Store(t)
	ctx := context.Background()
	fake.objects["reports/in/q3.html"] = "<h1>Q3</h1>"

	dir := t.TempDir()
	local := filepath.Join(dir, "in", "q3.html")
	require.NoError(t, store.Download(ctx, "reports", "in/q3.html", local))

	data, err := os.ReadFile(local)
	require.NoError(t, err)
	assert.Equal(t, "<h1>Q3</h1>", string(data))

	pdf := filepath.Join(dir, "in", "q3.pdf")
	require.NoError(t, os.WriteFile(pdf, []byte("%PDF-1.4 fake"), 0o600))
	require.NoError(t, store.Upload(ctx, pdf, "reports", "in/q3.pdf"))

	assert.Contains(t, fake.objects["reports/in/q3.pdf"], "%PDF-1.4 fake")
	assert.Equal(t, PDFContentType, fake.contentType["reports/in/q3.pdf"])
}

func TestS3ObjectStore_DownloadMissingKey(t *testing.T) {
	store, _ := newFakeS3Store(t)

	err := store.Download(context.Background(), "reports", "missing.html", filepath.Join(t.TempDir(), "missing.html"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to get object")
}

func TestS3ObjectStore_ArgumentValidation(t *testing.T) {
	store, _ := newFakeS3Store(t)
	ctx := context.Background()

	assert.Error(t, store.Download(ctx, "", "k", "/tmp/x"))
	assert.Error(t, store.Upload(ctx, "/tmp/x", "b", ""))
	assert.Error(t, store.Download(ctx, "reports", "", "/tmp/x"))

	err := store.Upload(ctx, filepath.Join(t.TempDir(), "absent.pdf"), "reports", "absent.pdf")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to open")
}
