//go:build integration

package storage

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/html2pdf/backend/internal/infrastructure/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
	"go.uber.org/zap/zaptest"
)

const (
	minioImage    = "minio/minio:RELEASE.2024-10-13T13-34-11Z"
	minioUser     = "minioadmin"
	minioPassword = "minioadmin"
)

// newMinIOStore starts a MinIO container and returns a store pointed at it
func newMinIOStore(t *testing.T) *S3ObjectStore {
	t.Helper()
	ctx := context.Background()

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        minioImage,
			ExposedPorts: []string{"9000/tcp"},
			Env: map[string]string{
				"MINIO_ROOT_USER":     minioUser,
				"MINIO_ROOT_PASSWORD": minioPassword,
			},
			Cmd: []string{"server", "/data"},
			WaitingFor: wait.ForHTTP("/minio/health/live").
				WithPort("9000/tcp").
				WithStartupTimeout(60 * time.Second),
		},
		Started: true,
	})
	require.NoError(t, err, "Failed to start MinIO container")
	t.Cleanup(func() {
		_ = container.Terminate(context.Background())
	})

	host, err := container.Host(ctx)
	require.NoError(t, err)
	port, err := container.MappedPort(ctx, "9000/tcp")
	require.NoError(t, err)

	store, err := NewS3ObjectStore(ctx, &config.StorageConfig{
		Region:       "us-east-1",
		Endpoint:     fmt.Sprintf("%s:%s", host, port.Port()),
		AccessKey:    minioUser,
		SecretKey:    minioPassword,
		UsePathStyle: true,
	}, WithLogger(zaptest.NewLogger(t)))
	require.NoError(t, err)
	return store
}

func TestIntegration_S3RoundTrip(t *testing.T) {
	store := newMinIOStore(t)
	ctx := context.Background()

	require.NoError(t, store.EnsureBucket(ctx, "reports"))
	// Second call is a no-op
	require.NoError(t, store.EnsureBucket(ctx, "reports"))

	work := t.TempDir()
	src := filepath.Join(work, "q3.pdf")
	require.NoError(t, os.WriteFile(src, []byte("%PDF-1.4 integration"), 0o600))

	require.NoError(t, store.Upload(ctx, src, "reports", "2026/q3.pdf"))

	dst := filepath.Join(work, "download", "q3.pdf")
	require.NoError(t, store.Download(ctx, "reports", "2026/q3.pdf", dst))
	data, err := os.ReadFile(dst)
	require.NoError(t, err)
	assert.Equal(t, "%PDF-1.4 integration", string(data))

	err = store.Download(ctx, "reports", "2026/absent.pdf", filepath.Join(work, "absent.pdf"))
	assert.ErrorContains(t, err, "failed to get object")
}
