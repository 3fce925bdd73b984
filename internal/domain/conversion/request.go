package conversion

import (
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/html2pdf/backend/internal/domain/shared"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// Request describes a single conversion. Exactly one of FileKey or
// HTMLContent selects the source; FileKey wins when both are set.
// HTMLContent is a pointer because an empty document is still a source.
type Request struct {
	Bucket      string `validate:"required"`
	FileKey     string `validate:"required_without=HTMLContent"`
	HTMLContent *string
	Options     *RenderingOptions
}

// Validate checks the request and returns a *shared.DomainError on failure
func (r *Request) Validate() error {
	if r == nil {
		return ErrMissingBucket
	}

	if err := validate.Struct(r); err != nil {
		var fieldErrs validator.ValidationErrors
		if !errors.As(err, &fieldErrs) {
			return shared.NewDomainError(CodeInvalidRequest, err.Error())
		}
		// Field errors follow struct order, so a missing bucket is reported first.
		for _, fe := range fieldErrs {
			switch fe.StructField() {
			case "Bucket":
				return ErrMissingBucket
			case "FileKey":
				return ErrMissingSource
			}
		}
		return shared.NewDomainError(CodeInvalidRequest, err.Error())
	}

	if r.UsesFileKey() {
		if _, err := CleanFileKey(r.FileKey); err != nil {
			return err
		}
	}
	return nil
}

// UsesFileKey reports whether the source HTML is read from the object store
func (r *Request) UsesFileKey() bool {
	return r.FileKey != ""
}

// HasBothSources reports whether the caller supplied a key and inline HTML
func (r *Request) HasBothSources() bool {
	return r.FileKey != "" && r.HTMLContent != nil
}
