package printing

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/chromedp"
	"github.com/html2pdf/backend/internal/domain/conversion"
	"go.uber.org/zap"
)

const (
	defaultChromeTimeout = 60 * time.Second
	defaultScale         = 1.0
	// Chrome's own default margin when none is requested
	defaultMarginInches = 0.4
	letterWidthInches   = 8.5
	letterHeightInches  = 11.0
)

// ChromedpConfig contains configuration for the chromedp renderer
type ChromedpConfig struct {
	// DefaultTimeout for rendering operations
	DefaultTimeout time.Duration
	// RemoteURL is the URL of a remote Chrome/Chromium instance (optional)
	// If empty, chromedp will launch a new browser instance
	RemoteURL string
	// NoSandbox runs Chrome without sandbox (required for Docker/root)
	NoSandbox bool
	// Scale for rendering (default: 1.0)
	Scale float64
	// Logger for debug output
	Logger *zap.Logger
}

// ChromedpRenderer renders HTML to PDF using Chrome DevTools Protocol
type ChromedpRenderer struct {
	config      *ChromedpConfig
	logger      *zap.Logger
	allocCtx    context.Context
	allocCancel context.CancelFunc
}

// NewChromedpRenderer creates a new chromedp-based PDF renderer
func NewChromedpRenderer(config *ChromedpConfig) (*ChromedpRenderer, error) {
	if config == nil {
		config = &ChromedpConfig{}
	}
	cfg := *config

	if cfg.DefaultTimeout == 0 {
		cfg.DefaultTimeout = defaultChromeTimeout
	}
	if cfg.Scale == 0 {
		cfg.Scale = defaultScale
	}

	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	renderer := &ChromedpRenderer{
		config: &cfg,
		logger: logger,
	}
	renderer.initAllocator()

	return renderer, nil
}

// initAllocator initializes the Chrome allocator. The browser itself is
// started lazily by the first Render call.
func (r *ChromedpRenderer) initAllocator() {
	if r.config.RemoteURL != "" {
		r.allocCtx, r.allocCancel = chromedp.NewRemoteAllocator(context.Background(), r.config.RemoteURL)
		return
	}

	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", true),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("no-first-run", true),
		chromedp.Flag("disable-extensions", true),
		chromedp.Flag("disable-dev-shm-usage", true), // /dev/shm is tiny on Lambda and in Docker
		chromedp.Flag("single-process", true),
		chromedp.Flag("font-render-hinting", "none"),
	)
	if r.config.NoSandbox {
		opts = append(opts, chromedp.Flag("no-sandbox", true))
	}
	r.allocCtx, r.allocCancel = chromedp.NewExecAllocator(context.Background(), opts...)
}

// Render prints the HTML file at inputPath to a PDF at outputPath
func (r *ChromedpRenderer) Render(ctx context.Context, inputPath, outputPath string, settings conversion.RenderSettings) error {
	if err := checkInput(inputPath); err != nil {
		return err
	}
	html, err := os.ReadFile(inputPath)
	if err != nil {
		return NewRenderError(ErrCodeInvalidInput, "failed to read input HTML", err)
	}

	startTime := time.Now()
	timeout := r.config.DefaultTimeout

	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	browserCtx, browserCancel := chromedp.NewContext(r.allocCtx,
		chromedp.WithLogf(func(format string, args ...interface{}) {
			r.logger.Debug(fmt.Sprintf(format, args...))
		}),
	)
	defer browserCancel()

	// Tie the browser tab to the caller's deadline
	stop := context.AfterFunc(ctx, browserCancel)
	defer stop()

	params := buildPrintParams(settings, r.config.Scale)
	var pdfData []byte

	actions := []chromedp.Action{
		chromedp.Navigate("about:blank"),
		chromedp.ActionFunc(func(ctx context.Context) error {
			frameTree, err := page.GetFrameTree().Do(ctx)
			if err != nil {
				return err
			}
			return page.SetDocumentContent(frameTree.Frame.ID, string(html)).Do(ctx)
		}),
	}
	if settings.Title != "" {
		title, _ := json.Marshal(settings.Title)
		actions = append(actions, chromedp.Evaluate("document.title = "+string(title), nil))
	}
	actions = append(actions, chromedp.ActionFunc(func(ctx context.Context) error {
		data, _, err := page.PrintToPDF().
			WithPrintBackground(true).
			WithPaperWidth(params.paperWidth).
			WithPaperHeight(params.paperHeight).
			WithMarginTop(params.marginTop).
			WithMarginRight(params.marginRight).
			WithMarginBottom(params.marginBottom).
			WithMarginLeft(params.marginLeft).
			WithScale(params.scale).
			WithLandscape(params.landscape).
			Do(ctx)
		if err != nil {
			return err
		}
		pdfData = data
		return nil
	}))

	if err := chromedp.Run(browserCtx, actions...); err != nil {
		if ctxErr := contextError(ctx, timeout, err); ctxErr != nil {
			return ctxErr
		}
		r.logger.Error("chromedp rendering failed", zap.Error(err))
		return NewRenderError(ErrCodeRenderFailed, "chromedp execution failed", err)
	}

	if len(pdfData) == 0 {
		return NewRenderError(ErrCodeEmptyOutput, "generated PDF is empty", nil)
	}
	if err := os.WriteFile(outputPath, pdfData, 0o600); err != nil {
		return NewRenderError(ErrCodeRenderFailed, "failed to write PDF", err)
	}

	r.logger.Info("PDF rendered successfully",
		zap.String("engine", "chromium"),
		zap.Int("bytes", len(pdfData)),
		zap.Duration("duration", time.Since(startTime)))

	return nil
}

// printParams holds the parameters for PDF printing, in inches
type printParams struct {
	paperWidth   float64
	paperHeight  float64
	marginTop    float64
	marginRight  float64
	marginBottom float64
	marginLeft   float64
	scale        float64
	landscape    bool
}

// buildPrintParams maps renderer settings onto Chrome print parameters.
// Margins Chrome cannot interpret fall back to its default margin.
func buildPrintParams(settings conversion.RenderSettings, scale float64) *printParams {
	params := &printParams{
		paperWidth:   letterWidthInches,
		paperHeight:  letterHeightInches,
		marginTop:    defaultMarginInches,
		marginRight:  defaultMarginInches,
		marginBottom: defaultMarginInches,
		marginLeft:   defaultMarginInches,
		scale:        scale,
		landscape:    settings.Orientation == conversion.OrientationLandscape,
	}

	if m := settings.Margins; m != nil {
		params.marginTop = lengthToInches(m.Top, defaultMarginInches)
		params.marginRight = lengthToInches(m.Right, defaultMarginInches)
		params.marginBottom = lengthToInches(m.Bottom, defaultMarginInches)
		params.marginLeft = lengthToInches(m.Left, defaultMarginInches)
	}

	return params
}

// lengthToInches parses a wkhtmltopdf-style length ("10mm", "1.5cm",
// "0.5in", "12px"). A bare number is millimeters, matching wkhtmltopdf.
func lengthToInches(value string, fallback float64) float64 {
	v := strings.ToLower(strings.TrimSpace(value))

	factor := 1 / 25.4
	for _, unit := range []struct {
		suffix string
		factor float64
	}{
		{"mm", 1 / 25.4},
		{"cm", 10 / 25.4},
		{"in", 1},
		{"px", 1.0 / 96},
	} {
		if strings.HasSuffix(v, unit.suffix) {
			v = strings.TrimSuffix(v, unit.suffix)
			factor = unit.factor
			break
		}
	}

	n, err := strconv.ParseFloat(v, 64)
	if err != nil || n < 0 {
		return fallback
	}
	return n * factor
}

// Close releases resources held by the renderer
func (r *ChromedpRenderer) Close() error {
	if r.allocCancel != nil {
		r.allocCancel()
	}
	return nil
}

// Ensure ChromedpRenderer implements PDFRenderer
var _ PDFRenderer = (*ChromedpRenderer)(nil)
