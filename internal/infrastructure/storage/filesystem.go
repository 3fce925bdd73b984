package storage

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"go.uber.org/zap"
)

// ErrInvalidPath is returned for bucket names or keys that would resolve
// outside the store's base directory
var ErrInvalidPath = errors.New("invalid storage path")

// FileSystemObjectStore keeps objects on local disk as
// {base}/{bucket}/{key}. It backs the local development server.
type FileSystemObjectStore struct {
	basePath string
	logger   *zap.Logger
}

// NewFileSystemObjectStore creates a store rooted at basePath
func NewFileSystemObjectStore(basePath string, logger *zap.Logger) (*FileSystemObjectStore, error) {
	if basePath == "" {
		return nil, errors.New("storage base path is required")
	}
	abs, err := filepath.Abs(basePath)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve base path: %w", err)
	}
	if err := os.MkdirAll(abs, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create storage directory %s: %w", abs, err)
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &FileSystemObjectStore{basePath: abs, logger: logger}, nil
}

// EnsureBucket creates the bucket directory
func (s *FileSystemObjectStore) EnsureBucket(ctx context.Context, bucket string) error {
	dir, err := s.resolve(bucket, "")
	if err != nil {
		return err
	}
	return os.MkdirAll(dir, 0o755)
}

// Download copies bucket/key to localPath
func (s *FileSystemObjectStore) Download(ctx context.Context, bucket, key, localPath string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	src, err := s.resolve(bucket, key)
	if err != nil {
		return err
	}

	f, err := os.Open(src)
	if err != nil {
		return fmt.Errorf("failed to open object %s/%s: %w", bucket, key, err)
	}
	defer f.Close()

	n, err := writeFile(localPath, f)
	if err != nil {
		return err
	}
	s.logger.Debug("object downloaded",
		zap.String("bucket", bucket),
		zap.String("key", key),
		zap.Int64("bytes", n))
	return nil
}

// Upload copies localPath to bucket/key, replacing any existing object
func (s *FileSystemObjectStore) Upload(ctx context.Context, localPath, bucket, key string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	dst, err := s.resolve(bucket, key)
	if err != nil {
		return err
	}
	if _, err := os.Stat(filepath.Join(s.basePath, bucket)); err != nil {
		return fmt.Errorf("bucket %s: %w", bucket, err)
	}

	f, err := os.Open(localPath)
	if err != nil {
		return fmt.Errorf("failed to open %s: %w", localPath, err)
	}
	defer f.Close()

	n, err := writeFile(dst, f)
	if err != nil {
		return err
	}
	s.logger.Debug("object uploaded",
		zap.String("bucket", bucket),
		zap.String("key", key),
		zap.Int64("bytes", n))
	return nil
}

// resolve maps bucket/key onto the file system, rejecting anything that
// would escape basePath
func (s *FileSystemObjectStore) resolve(bucket, key string) (string, error) {
	if bucket == "" || strings.ContainsAny(bucket, `/\`) || bucket == "." || bucket == ".." {
		return "", fmt.Errorf("%w: bucket %q", ErrInvalidPath, bucket)
	}
	if key != "" && (filepath.IsAbs(key) || containsDotDot(key)) {
		s.logger.Warn("blocked potentially malicious path", zap.String("key", key))
		return "", fmt.Errorf("%w: key %q", ErrInvalidPath, key)
	}

	full := filepath.Join(s.basePath, bucket, filepath.FromSlash(key))
	if !strings.HasPrefix(full, s.basePath+string(filepath.Separator)) {
		return "", fmt.Errorf("%w: %s/%s", ErrInvalidPath, bucket, key)
	}
	return full, nil
}

// containsDotDot checks if a path contains ".." components
func containsDotDot(path string) bool {
	parts := strings.FieldsFunc(path, func(r rune) bool {
		return r == '/' || r == '\\'
	})
	return slices.Contains(parts, "..")
}
