// Package lambda adapts the conversion service to the AWS Lambda runtime.
package lambda

import (
	"context"

	"github.com/aws/aws-lambda-go/lambdacontext"
	"github.com/google/uuid"
	"github.com/html2pdf/backend/internal/domain/conversion"
	"github.com/html2pdf/backend/internal/infrastructure/logger"
	"github.com/html2pdf/backend/internal/infrastructure/telemetry"
	"github.com/html2pdf/backend/internal/interfaces/event"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

// Converter runs a single conversion
type Converter interface {
	Convert(ctx context.Context, req *conversion.Request) (*conversion.Result, error)
}

// Flusher exports buffered telemetry before the execution environment is frozen
type Flusher interface {
	ForceFlush(ctx context.Context) error
}

// Handler serves Lambda invocations
type Handler struct {
	converter Converter
	logger    *zap.Logger
	flushers  []Flusher
}

// NewHandler creates a Lambda handler. Flushers run after every invocation.
func NewHandler(converter Converter, log *zap.Logger, flushers ...Flusher) *Handler {
	if log == nil {
		log = zap.NewNop()
	}
	return &Handler{
		converter: converter,
		logger:    log,
		flushers:  flushers,
	}
}

// Handle converts one event. A returned error is reported by the runtime
// as a failed invocation; recognized failures are a 400 Response instead.
func (h *Handler) Handle(ctx context.Context, ev event.Event) (event.Response, error) {
	base := h.logger
	if lc, ok := lambdacontext.FromContext(ctx); ok {
		base = base.With(zap.String("function_arn", lc.InvokedFunctionArn))
	}
	ctx, log := logger.WithRequestID(ctx, base, requestIDFrom(ctx))

	ctx, span := telemetry.StartSpan(ctx, "lambda.invoke",
		telemetry.WithSpanKind(trace.SpanKindServer),
		telemetry.WithAttribute(telemetry.SpanAttrBucket, ev.Bucket),
		telemetry.WithAttribute(telemetry.SpanAttrFileKey, ev.FileKey),
	)
	defer h.flush(ctx, log)
	defer span.End()

	fields := []zap.Field{
		zap.String("bucket", ev.Bucket),
		zap.String("file_key", ev.FileKey),
	}
	if ev.HTMLString != nil {
		fields = append(fields, zap.Int("html_bytes", len(*ev.HTMLString)))
	}
	log.Info("invocation received", fields...)

	result, err := h.converter.Convert(ctx, ev.ToRequest())
	if err != nil {
		telemetry.RecordError(span, err)
		return event.Response{}, err
	}

	resp := event.FromResult(result)
	telemetry.SetAttribute(span, "response.status", resp.Status)
	if resp.Body != "" {
		log.Info("invocation completed", zap.Int("status", resp.Status), zap.String("message", resp.Message()))
	} else {
		log.Info("invocation completed", zap.Int("status", resp.Status), zap.String("file_key", resp.FileKey))
	}
	return resp, nil
}

func (h *Handler) flush(ctx context.Context, log *zap.Logger) {
	for _, f := range h.flushers {
		if err := f.ForceFlush(context.WithoutCancel(ctx)); err != nil {
			log.Warn("failed to flush telemetry", zap.Error(err))
		}
	}
	_ = log.Sync()
}

// requestIDFrom returns the Lambda request ID, or a fresh UUID when the
// handler runs outside the Lambda runtime.
func requestIDFrom(ctx context.Context) string {
	if lc, ok := lambdacontext.FromContext(ctx); ok && lc.AwsRequestID != "" {
		return lc.AwsRequestID
	}
	return uuid.New().String()
}
