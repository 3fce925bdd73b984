// Package conversion contains the application service that orchestrates a
// single HTML-to-PDF conversion: validate, materialize, render, upload.
package conversion

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/html2pdf/backend/internal/domain/conversion"
	"github.com/html2pdf/backend/internal/infrastructure/logger"
	"github.com/html2pdf/backend/internal/infrastructure/telemetry"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

// Outcomes reported to the MetricsRecorder
const (
	OutcomeSuccess = "success"
	OutcomeFailure = "failure"
	OutcomeFault   = "fault"
)

// Service converts HTML documents into PDFs stored in object storage
type Service struct {
	store    ObjectStore
	renderer Renderer
	metrics  MetricsRecorder
	logger   *zap.Logger
	workDir  string
	now      func() time.Time
}

// Option configures a Service
type Option func(*Service)

// WithWorkDir sets the parent directory of per-conversion work directories
func WithWorkDir(dir string) Option {
	return func(s *Service) {
		s.workDir = dir
	}
}

// WithMetrics sets the metrics recorder
func WithMetrics(m MetricsRecorder) Option {
	return func(s *Service) {
		s.metrics = m
	}
}

// WithClock overrides the clock used to name inline HTML files
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		s.now = now
	}
}

// NewService creates a new conversion Service
func NewService(store ObjectStore, renderer Renderer, log *zap.Logger, opts ...Option) *Service {
	if log == nil {
		log = zap.NewNop()
	}
	s := &Service{
		store:    store,
		renderer: renderer,
		logger:   log,
		workDir:  os.TempDir(),
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Convert runs one conversion. Recognized failures are reported as a 400
// Result with a nil error. A non-nil error means the conversion could not
// be attempted (source download or local file system failure) and must be
// surfaced to the platform as an unhandled fault.
func (s *Service) Convert(ctx context.Context, req *conversion.Request) (*conversion.Result, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "conversion", "convert")
	defer span.End()
	if req != nil {
		telemetry.SetAttributes(span,
			telemetry.SpanAttrBucket, req.Bucket,
			telemetry.SpanAttrFileKey, req.FileKey)
	}

	start := time.Now()
	log := logger.WithTraceContext(ctx, logger.FromContextOr(ctx, s.logger))

	result, err := s.convert(ctx, log, req)
	elapsed := time.Since(start)

	switch {
	case err != nil:
		telemetry.RecordError(span, err)
		s.record(ctx, OutcomeFault, "", elapsed)
		log.Error("conversion fault", zap.Error(err), zap.Duration("duration", elapsed))
	case result.IsSuccess():
		telemetry.SetAttribute(span, telemetry.SpanAttrOutputKey, result.OutputKey)
		telemetry.SetOK(span)
		s.record(ctx, OutcomeSuccess, "", elapsed)
		log.Info("conversion succeeded",
			zap.String("output_key", result.OutputKey),
			zap.Duration("duration", elapsed))
	default:
		telemetry.SetAttribute(span, telemetry.SpanAttrErrorCode, result.Code)
		s.record(ctx, OutcomeFailure, result.Code, elapsed)
		log.Warn("conversion failed",
			zap.String("code", result.Code),
			zap.String("message", result.Message),
			zap.Duration("duration", elapsed))
	}

	return result, err
}

func (s *Service) convert(ctx context.Context, log *zap.Logger, req *conversion.Request) (*conversion.Result, error) {
	if err := req.Validate(); err != nil {
		if result, ok := conversion.FailedFrom(err); ok {
			return result, nil
		}
		return nil, err
	}
	if req.HasBothSources() {
		log.Debug("both file_key and html_string supplied, using file_key",
			zap.String("file_key", req.FileKey))
	}

	dir, err := os.MkdirTemp(s.workDir, "conversion-*")
	if err != nil {
		return nil, fmt.Errorf("failed to create work directory: %w", err)
	}
	defer func() {
		if err := os.RemoveAll(dir); err != nil {
			log.Warn("failed to remove work directory", zap.String("dir", dir), zap.Error(err))
		}
	}()

	inputPath, outputKey, err := s.materialize(ctx, log, dir, req)
	if err != nil {
		return nil, err
	}

	settings := conversion.DeriveSettings(req.Options)
	outputPath := filepath.Join(filepath.Dir(inputPath), conversion.OutputName(filepath.Base(inputPath)))

	if err := s.renderer.Render(ctx, inputPath, outputPath, settings); err != nil {
		fields := []zap.Field{zap.String("input", inputPath), zap.Error(err)}
		if code := renderErrorCode(err); code != "" {
			telemetry.SetAttribute(trace.SpanFromContext(ctx), telemetry.SpanAttrRenderErrorCode, code)
			fields = append(fields, zap.String("render_code", code))
		}
		log.Error("renderer failed", fields...)
		return conversion.Failed(conversion.ErrRenderFailed), nil
	}

	info, err := os.Stat(outputPath)
	if err != nil || info.Size() == 0 {
		log.Error("renderer produced no output", zap.String("output", outputPath), zap.Error(err))
		return conversion.Failed(conversion.ErrRenderFailed), nil
	}
	if s.metrics != nil {
		s.metrics.RecordOutputSize(ctx, info.Size())
	}
	log.Info("generated PDF", zap.String("output", outputPath), zap.Int64("bytes", info.Size()))

	if err := s.store.Upload(ctx, outputPath, req.Bucket, outputKey); err != nil {
		log.Error("failed to upload PDF",
			zap.String("bucket", req.Bucket),
			zap.String("key", outputKey),
			zap.Error(err))
		return conversion.Failed(conversion.ErrUploadFailed), nil
	}
	log.Info("uploaded PDF", zap.String("bucket", req.Bucket), zap.String("key", outputKey))

	return conversion.Succeeded(outputKey), nil
}

// materialize places the source HTML in dir. It returns the local path and
// the object key of the PDF, which keeps the caller's key prefix as given.
func (s *Service) materialize(ctx context.Context, log *zap.Logger, dir string, req *conversion.Request) (string, string, error) {
	if req.UsesFileKey() {
		key, err := conversion.CleanFileKey(req.FileKey)
		if err != nil {
			return "", "", err
		}
		localPath := filepath.Join(dir, filepath.FromSlash(key))
		if err := os.MkdirAll(filepath.Dir(localPath), 0o755); err != nil {
			return "", "", fmt.Errorf("failed to create directory for %s: %w", key, err)
		}
		if err := s.store.Download(ctx, req.Bucket, req.FileKey, localPath); err != nil {
			return "", "", fmt.Errorf("failed to download %s/%s: %w", req.Bucket, req.FileKey, err)
		}
		log.Info("downloaded HTML file", zap.String("bucket", req.Bucket), zap.String("path", localPath))
		return localPath, conversion.OutputName(req.FileKey), nil
	}

	name := conversion.InlineHTMLName(s.now())
	localPath := filepath.Join(dir, name)
	if err := os.Remove(localPath); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return "", "", fmt.Errorf("failed to remove stale HTML file: %w", err)
	}
	if err := os.WriteFile(localPath, []byte(*req.HTMLContent), 0o600); err != nil {
		return "", "", fmt.Errorf("failed to write HTML file: %w", err)
	}
	log.Debug("wrote inline HTML", zap.String("path", localPath), zap.Int("bytes", len(*req.HTMLContent)))
	return localPath, conversion.OutputName(name), nil
}

// renderErrorCode extracts the renderer's failure code, if it carries one
func renderErrorCode(err error) string {
	var coded interface{ ErrorCode() string }
	if errors.As(err, &coded) {
		return coded.ErrorCode()
	}
	return ""
}

func (s *Service) record(ctx context.Context, outcome, code string, elapsed time.Duration) {
	if s.metrics == nil {
		return
	}
	s.metrics.RecordConversion(ctx, outcome, code, elapsed)
}
