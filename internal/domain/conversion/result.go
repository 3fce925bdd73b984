package conversion

import (
	"errors"
	"net/http"

	"github.com/html2pdf/backend/internal/domain/shared"
)

// Result is the outcome reported to the caller of a conversion
type Result struct {
	StatusCode int
	// OutputKey is the object key of the stored PDF on success
	OutputKey string
	// Code and Message describe a failure
	Code    string
	Message string
}

// Succeeded creates a 200 result for the uploaded key
func Succeeded(outputKey string) *Result {
	return &Result{
		StatusCode: http.StatusOK,
		OutputKey:  outputKey,
	}
}

// Failed creates a 400 result from a domain error
func Failed(err *shared.DomainError) *Result {
	return &Result{
		StatusCode: http.StatusBadRequest,
		Code:       err.Code,
		Message:    err.Message,
	}
}

// FailedFrom creates a 400 result when err wraps a *shared.DomainError.
// ok is false for any other error.
func FailedFrom(err error) (result *Result, ok bool) {
	var domainErr *shared.DomainError
	if !errors.As(err, &domainErr) {
		return nil, false
	}
	return Failed(domainErr), true
}

// IsSuccess reports whether the conversion produced a stored PDF
func (r *Result) IsSuccess() bool {
	return r.StatusCode == http.StatusOK && r.OutputKey != ""
}
