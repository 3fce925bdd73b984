// Package event defines the JSON payload the function is invoked with and
// the JSON response it returns. Both the Lambda handler and the local HTTP
// server speak this format.
package event

import (
	"encoding/json"

	"github.com/html2pdf/backend/internal/domain/conversion"
)

// Event is the invocation payload
type Event struct {
	Bucket             string              `json:"bucket"`
	FileKey            string              `json:"file_key,omitempty"`
	HTMLString         *string             `json:"html_string,omitempty"`
	WkhtmltopdfOptions *WkhtmltopdfOptions `json:"wkhtmltopdf_options,omitempty"`
}

// WkhtmltopdfOptions are the caller's formatting directives
type WkhtmltopdfOptions struct {
	Margin      string `json:"margin,omitempty"`
	Orientation string `json:"orientation,omitempty"`
	Title       string `json:"title,omitempty"`
}

// Response is the invocation result. FileKey is set on success, Body on
// failure.
type Response struct {
	Status  int    `json:"status"`
	FileKey string `json:"file_key,omitempty"`
	Body    string `json:"body,omitempty"`
}

// ToRequest maps the payload onto a conversion request
func (e Event) ToRequest() *conversion.Request {
	req := &conversion.Request{
		Bucket:      e.Bucket,
		FileKey:     e.FileKey,
		HTMLContent: e.HTMLString,
	}
	if o := e.WkhtmltopdfOptions; o != nil {
		req.Options = &conversion.RenderingOptions{
			Margin:      o.Margin,
			Orientation: o.Orientation,
			Title:       o.Title,
		}
	}
	return req
}

// FromResult builds the response for a conversion result. Failure messages
// are JSON-encoded into Body, so callers see a quoted string.
func FromResult(r *conversion.Result) Response {
	if r.IsSuccess() {
		return Response{Status: r.StatusCode, FileKey: r.OutputKey}
	}
	body, err := json.Marshal(r.Message)
	if err != nil {
		body = []byte(`""`)
	}
	return Response{Status: r.StatusCode, Body: string(body)}
}

// Message decodes Body back into the plain failure message
func (r Response) Message() string {
	var msg string
	if err := json.Unmarshal([]byte(r.Body), &msg); err != nil {
		return r.Body
	}
	return msg
}
