package printing

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/html2pdf/backend/internal/domain/conversion"
)

// PDFRenderer converts the HTML file at inputPath into a PDF at outputPath
type PDFRenderer interface {
	Render(ctx context.Context, inputPath, outputPath string, settings conversion.RenderSettings) error
	// Close releases any resources held by the renderer
	Close() error
}

// RenderError represents an error during PDF rendering
type RenderError struct {
	Code    string
	Message string
	Cause   error
}

func (e *RenderError) Error() string {
	if e.Cause != nil {
		return e.Message + ": " + e.Cause.Error()
	}
	return e.Message
}

func (e *RenderError) Unwrap() error {
	return e.Cause
}

// ErrorCode returns the failure code, e.g. RENDER_TIMEOUT
func (e *RenderError) ErrorCode() string {
	return e.Code
}

// Error codes for rendering failures
const (
	ErrCodeRenderTimeout  = "RENDER_TIMEOUT"
	ErrCodeRenderCanceled = "RENDER_CANCELED"
	ErrCodeRenderFailed   = "RENDER_FAILED"
	ErrCodeInvalidInput   = "INVALID_INPUT"
	ErrCodeBinaryNotFound = "BINARY_NOT_FOUND"
	ErrCodeEmptyOutput    = "EMPTY_OUTPUT"
)

// NewRenderError creates a new RenderError
func NewRenderError(code, message string, cause error) *RenderError {
	return &RenderError{
		Code:    code,
		Message: message,
		Cause:   cause,
	}
}

// IsRenderError reports whether err carries a RenderError with the given code
func IsRenderError(err error, code string) bool {
	var re *RenderError
	return errors.As(err, &re) && re.Code == code
}

// contextError maps a finished context to a timeout or cancellation
// RenderError, or nil when the context is still live.
func contextError(ctx context.Context, timeout time.Duration, cause error) error {
	switch {
	case errors.Is(ctx.Err(), context.DeadlineExceeded):
		return NewRenderError(ErrCodeRenderTimeout,
			fmt.Sprintf("PDF rendering timed out after %v", timeout), cause)
	case errors.Is(ctx.Err(), context.Canceled):
		return NewRenderError(ErrCodeRenderCanceled, "PDF rendering was cancelled", cause)
	}
	return nil
}

// checkInput verifies the input file exists and is not a directory
func checkInput(inputPath string) error {
	info, err := os.Stat(inputPath)
	if err != nil {
		return NewRenderError(ErrCodeInvalidInput, "input HTML file is not readable", err)
	}
	if info.IsDir() {
		return NewRenderError(ErrCodeInvalidInput, "input path is a directory: "+inputPath, nil)
	}
	return nil
}

// checkOutput verifies the renderer left a non-empty file at outputPath
func checkOutput(outputPath string) (int64, error) {
	info, err := os.Stat(outputPath)
	if err != nil {
		return 0, NewRenderError(ErrCodeEmptyOutput, "renderer produced no output file", err)
	}
	if info.Size() == 0 {
		return 0, NewRenderError(ErrCodeEmptyOutput, "generated PDF is empty", nil)
	}
	return info.Size(), nil
}
