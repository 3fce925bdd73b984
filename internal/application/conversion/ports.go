package conversion

import (
	"context"
	"time"

	"github.com/html2pdf/backend/internal/domain/conversion"
)

// ObjectStore is the object storage the service reads HTML from and writes
// PDFs to.
type ObjectStore interface {
	// Download copies the object bucket/key to localPath
	Download(ctx context.Context, bucket, key, localPath string) error
	// Upload stores the file at localPath as bucket/key
	Upload(ctx context.Context, localPath, bucket, key string) error
}

// Renderer converts a local HTML file into a PDF at outputPath
type Renderer interface {
	Render(ctx context.Context, inputPath, outputPath string, settings conversion.RenderSettings) error
}

// MetricsRecorder receives conversion outcomes. A nil recorder is allowed.
type MetricsRecorder interface {
	RecordConversion(ctx context.Context, outcome, code string, elapsed time.Duration)
	RecordOutputSize(ctx context.Context, bytes int64)
}
