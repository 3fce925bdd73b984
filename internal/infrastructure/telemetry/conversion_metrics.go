package telemetry

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// MeterName is the instrumentation scope for conversion metrics
const MeterName = "html2pdf/conversion"

// ConversionMetrics records conversion outcomes. A nil *ConversionMetrics
// is valid and records nothing.
type ConversionMetrics struct {
	total      *Counter
	duration   *Histogram
	outputSize *Histogram
	renderer   string
}

// NewConversionMetrics creates the conversion instruments on meter.
func NewConversionMetrics(meter metric.Meter, renderer string) (*ConversionMetrics, error) {
	total, err := NewCounter(meter,
		"conversion_requests_total",
		"Number of conversion requests by outcome",
		"{request}",
	)
	if err != nil {
		return nil, err
	}

	duration, err := NewHistogram(meter, HistogramOpts{
		Name:        "conversion_duration_seconds",
		Description: "End-to-end conversion duration",
		Unit:        "s",
		Boundaries:  RenderDurationBuckets,
	})
	if err != nil {
		return nil, err
	}

	outputSize, err := NewHistogram(meter, HistogramOpts{
		Name:        "conversion_output_bytes",
		Description: "Size of generated PDF documents",
		Unit:        "By",
		Boundaries:  OutputSizeBuckets,
	})
	if err != nil {
		return nil, err
	}

	return &ConversionMetrics{
		total:      total,
		duration:   duration,
		outputSize: outputSize,
		renderer:   renderer,
	}, nil
}

// RecordConversion counts one conversion and records its duration.
func (m *ConversionMetrics) RecordConversion(ctx context.Context, outcome, code string, elapsed time.Duration) {
	if m == nil {
		return
	}
	attrs := []attribute.KeyValue{
		AttrOutcome.String(outcome),
		AttrRenderer.String(m.renderer),
	}
	if code != "" {
		attrs = append(attrs, AttrErrorCode.String(code))
	}
	m.total.Inc(ctx, attrs...)
	m.duration.RecordDuration(ctx, elapsed, attrs...)
}

// RecordOutputSize records the size of a generated PDF.
func (m *ConversionMetrics) RecordOutputSize(ctx context.Context, bytes int64) {
	if m == nil {
		return
	}
	m.outputSize.Record(ctx, float64(bytes), AttrRenderer.String(m.renderer))
}
