package printing

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"github.com/html2pdf/backend/internal/domain/conversion"
	"go.uber.org/zap"
)

const (
	defaultBinaryPath = "wkhtmltopdf"
	defaultTimeout    = 60 * time.Second
)

// WkhtmltopdfConfig contains configuration for the wkhtmltopdf renderer
type WkhtmltopdfConfig struct {
	// BinaryPath is the path to the wkhtmltopdf binary
	// If empty, will search in PATH
	BinaryPath string
	// DefaultTimeout bounds a single renderer run
	DefaultTimeout time.Duration
	// Logger for debug output
	Logger *zap.Logger
}

// WkhtmltopdfRenderer renders HTML to PDF using wkhtmltopdf command-line tool
type WkhtmltopdfRenderer struct {
	config *WkhtmltopdfConfig
	logger *zap.Logger
}

// NewWkhtmltopdfRenderer creates a new wkhtmltopdf-based PDF renderer
func NewWkhtmltopdfRenderer(config *WkhtmltopdfConfig) (*WkhtmltopdfRenderer, error) {
	if config == nil {
		config = &WkhtmltopdfConfig{}
	}
	cfg := *config

	if cfg.BinaryPath == "" {
		cfg.BinaryPath = defaultBinaryPath
	}
	if cfg.DefaultTimeout == 0 {
		cfg.DefaultTimeout = defaultTimeout
	}

	binaryPath, err := resolveBinaryPath(cfg.BinaryPath)
	if err != nil {
		return nil, NewRenderError(ErrCodeBinaryNotFound,
			fmt.Sprintf("wkhtmltopdf binary not found: %s", cfg.BinaryPath), err)
	}
	cfg.BinaryPath = binaryPath

	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	return &WkhtmltopdfRenderer{
		config: &cfg,
		logger: logger,
	}, nil
}

// resolveBinaryPath finds the full path to the binary
func resolveBinaryPath(path string) (string, error) {
	if filepath.IsAbs(path) {
		if _, err := os.Stat(path); err != nil {
			return "", err
		}
		return path, nil
	}
	return exec.LookPath(path)
}

// Render runs wkhtmltopdf on inputPath and writes the PDF to outputPath.
// The process is started directly with an argument vector, so option values
// are never interpreted by a shell.
func (r *WkhtmltopdfRenderer) Render(ctx context.Context, inputPath, outputPath string, settings conversion.RenderSettings) error {
	if err := checkInput(inputPath); err != nil {
		return err
	}

	startTime := time.Now()
	timeout := r.config.DefaultTimeout

	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	args := BuildArgs(settings, inputPath, outputPath)

	r.logger.Debug("executing wkhtmltopdf",
		zap.String("binary", r.config.BinaryPath),
		zap.Strings("args", args))

	cmd := exec.CommandContext(ctx, r.config.BinaryPath, args...)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		if ctxErr := contextError(ctx, timeout, err); ctxErr != nil {
			return ctxErr
		}

		r.logger.Error("wkhtmltopdf failed",
			zap.Error(err),
			zap.String("stderr", stderr.String()),
			zap.String("stdout", stdout.String()))

		return NewRenderError(ErrCodeRenderFailed,
			"wkhtmltopdf execution failed: "+strings.TrimSpace(stderr.String()), err)
	}

	size, err := checkOutput(outputPath)
	if err != nil {
		r.logger.Error("wkhtmltopdf exited cleanly without output",
			zap.String("output", outputPath),
			zap.String("stderr", stderr.String()))
		return err
	}

	r.logger.Info("PDF rendered successfully",
		zap.String("engine", "wkhtmltopdf"),
		zap.Int64("bytes", size),
		zap.Duration("duration", time.Since(startTime)))

	return nil
}

// BuildArgs constructs the wkhtmltopdf argument vector: load errors are
// ignored, each derived option becomes "--<name> <value>", then input and
// output paths.
func BuildArgs(settings conversion.RenderSettings, inputPath, outputPath string) []string {
	opts := settings.Options()
	args := make([]string, 0, 4+2*len(opts))
	args = append(args, "--load-error-handling", "ignore")
	for _, opt := range opts {
		args = append(args, "--"+opt.Name, opt.Value)
	}
	return append(args, inputPath, outputPath)
}

// Close releases resources (no-op for wkhtmltopdf)
func (r *WkhtmltopdfRenderer) Close() error {
	return nil
}

// Ensure WkhtmltopdfRenderer implements PDFRenderer
var _ PDFRenderer = (*WkhtmltopdfRenderer)(nil)
