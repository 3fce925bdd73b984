// Package bootstrap wires the conversion service from configuration. Both
// the Lambda entrypoint and the local HTTP server start from here.
package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"os"

	appconversion "github.com/html2pdf/backend/internal/application/conversion"
	"github.com/html2pdf/backend/internal/infrastructure/config"
	"github.com/html2pdf/backend/internal/infrastructure/printing"
	"github.com/html2pdf/backend/internal/infrastructure/storage"
	"github.com/html2pdf/backend/internal/infrastructure/telemetry"
	"go.uber.org/zap"
)

// Store is an object store that can also create buckets at startup
type Store interface {
	appconversion.ObjectStore
	EnsureBucket(ctx context.Context, bucket string) error
}

// App holds the long-lived components of one process
type App struct {
	Config   *config.Config
	Logger   *zap.Logger
	Service  *appconversion.Service
	Store    Store
	Renderer printing.PDFRenderer
	Tracer   *telemetry.TracerProvider
	Meter    *telemetry.MeterProvider
}

// New builds telemetry, the object store, the renderer and the conversion
// service described by cfg. Components created before a failure are shut down.
func New(ctx context.Context, cfg *config.Config, log *zap.Logger) (*App, error) {
	if log == nil {
		log = zap.NewNop()
	}
	app := &App{Config: cfg, Logger: log}

	var err error
	app.Tracer, err = telemetry.NewTracerProvider(ctx, telemetry.Config{
		Enabled:           cfg.Telemetry.Enabled,
		CollectorEndpoint: cfg.Telemetry.CollectorEndpoint,
		SamplingRatio:     cfg.Telemetry.SamplingRatio,
		ServiceName:       cfg.Telemetry.ServiceName,
		Insecure:          cfg.Telemetry.Insecure,
	}, log)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize tracer provider: %w", err)
	}

	app.Meter, err = telemetry.NewMeterProvider(ctx, telemetry.MetricsConfig{
		Enabled:           cfg.Telemetry.MetricsEnabled,
		CollectorEndpoint: cfg.Telemetry.CollectorEndpoint,
		ExportInterval:    cfg.Telemetry.ExportInterval,
		ServiceName:       cfg.Telemetry.ServiceName,
		Insecure:          cfg.Telemetry.Insecure,
	}, log)
	if err != nil {
		app.shutdown(ctx)
		return nil, fmt.Errorf("failed to initialize meter provider: %w", err)
	}

	metrics, err := telemetry.NewConversionMetrics(app.Meter.Meter(telemetry.MeterName), cfg.Renderer.Engine)
	if err != nil {
		app.shutdown(ctx)
		return nil, fmt.Errorf("failed to create conversion metrics: %w", err)
	}

	app.Store, err = NewObjectStore(ctx, &cfg.Storage, log)
	if err != nil {
		app.shutdown(ctx)
		return nil, err
	}
	for _, bucket := range cfg.Storage.EnsureBuckets {
		if err := app.Store.EnsureBucket(ctx, bucket); err != nil {
			app.shutdown(ctx)
			return nil, fmt.Errorf("failed to ensure bucket %s: %w", bucket, err)
		}
	}

	app.Renderer, err = NewRenderer(&cfg.Renderer, log)
	if err != nil {
		app.shutdown(ctx)
		return nil, err
	}

	workDir := cfg.Renderer.WorkDir
	if workDir == "" {
		workDir = os.TempDir()
	}
	if err := os.MkdirAll(workDir, 0o755); err != nil {
		app.shutdown(ctx)
		return nil, fmt.Errorf("failed to create work directory %s: %w", workDir, err)
	}

	app.Service = appconversion.NewService(app.Store, app.Renderer, log,
		appconversion.WithWorkDir(workDir),
		appconversion.WithMetrics(metrics),
	)

	log.Info("Conversion service ready",
		zap.String("storage_driver", cfg.Storage.Driver),
		zap.String("renderer", cfg.Renderer.Engine),
		zap.String("work_dir", workDir),
	)
	return app, nil
}

// NewObjectStore creates the object store selected by cfg.Driver
func NewObjectStore(ctx context.Context, cfg *config.StorageConfig, log *zap.Logger) (Store, error) {
	switch cfg.Driver {
	case config.StorageDriverS3:
		store, err := storage.NewS3ObjectStore(ctx, cfg, storage.WithLogger(log))
		if err != nil {
			return nil, fmt.Errorf("failed to create s3 object store: %w", err)
		}
		return store, nil
	case config.StorageDriverFileSystem:
		store, err := storage.NewFileSystemObjectStore(cfg.BasePath, log)
		if err != nil {
			return nil, fmt.Errorf("failed to create filesystem object store: %w", err)
		}
		return store, nil
	default:
		return nil, fmt.Errorf("unknown storage driver %q", cfg.Driver)
	}
}

// NewRenderer creates the PDF renderer selected by cfg.Engine
func NewRenderer(cfg *config.RendererConfig, log *zap.Logger) (printing.PDFRenderer, error) {
	if log == nil {
		log = zap.NewNop()
	}
	switch cfg.Engine {
	case config.RendererWkhtmltopdf:
		renderer, err := printing.NewWkhtmltopdfRenderer(&printing.WkhtmltopdfConfig{
			BinaryPath:     cfg.BinaryPath,
			DefaultTimeout: cfg.Timeout,
			Logger:         log,
		})
		if err != nil {
			if printing.IsRenderError(err, printing.ErrCodeBinaryNotFound) {
				log.Error("wkhtmltopdf not found, install it or set renderer.binary_path",
					zap.String("binary_path", cfg.BinaryPath))
			}
			return nil, fmt.Errorf("failed to create wkhtmltopdf renderer: %w", err)
		}
		return renderer, nil
	case config.RendererChromium:
		renderer, err := printing.NewChromedpRenderer(&printing.ChromedpConfig{
			DefaultTimeout: cfg.Timeout,
			RemoteURL:      cfg.ChromeRemoteURL,
			NoSandbox:      cfg.ChromeNoSandbox,
			Logger:         log,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to create chromium renderer: %w", err)
		}
		return renderer, nil
	default:
		return nil, fmt.Errorf("unknown renderer engine %q", cfg.Engine)
	}
}

// Shutdown releases the renderer and flushes telemetry
func (a *App) Shutdown(ctx context.Context) error {
	return a.shutdown(ctx)
}

func (a *App) shutdown(ctx context.Context) error {
	var errs []error
	if a.Renderer != nil {
		if err := a.Renderer.Close(); err != nil {
			errs = append(errs, fmt.Errorf("renderer: %w", err))
		}
	}
	if a.Meter != nil {
		if err := a.Meter.Shutdown(ctx); err != nil {
			errs = append(errs, fmt.Errorf("meter provider: %w", err))
		}
	}
	if a.Tracer != nil {
		if err := a.Tracer.Shutdown(ctx); err != nil {
			errs = append(errs, fmt.Errorf("tracer provider: %w", err))
		}
	}
	return errors.Join(errs...)
}
