package conversion

import "github.com/html2pdf/backend/internal/domain/shared"

// Error codes reported in a failed Result
const (
	CodeMissingParameter = "MISSING_PARAMETER"
	CodeMissingSource    = "MISSING_SOURCE"
	CodeInvalidFileKey   = "INVALID_FILE_KEY"
	CodeInvalidRequest   = "INVALID_REQUEST"
	CodeRenderFailed     = "RENDER_FAILED"
	CodeUploadFailed     = "UPLOAD_FAILED"
)

// Conversion errors. Each one maps to a 400 Result.
var (
	ErrMissingBucket = shared.NewDomainError(CodeMissingParameter,
		`Missing required "bucket" parameter from request payload.`)
	ErrMissingSource = shared.NewDomainError(CodeMissingSource,
		`Missing both a "file_key" and "html_string" from request payload. One of these must be included.`)
	ErrInvalidFileKey = shared.NewDomainError(CodeInvalidFileKey,
		`The "file_key" parameter must be a relative object key without ".." segments.`)
	ErrRenderFailed = shared.NewDomainError(CodeRenderFailed,
		"Failed to generate PDF from the given HTML file. Please check to make sure the file is valid HTML.")
	ErrUploadFailed = shared.NewDomainError(CodeUploadFailed,
		"Failed to upload the generated PDF to the requested bucket.")
)
