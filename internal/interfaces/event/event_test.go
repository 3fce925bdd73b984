package event

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/html2pdf/backend/internal/domain/conversion"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEvent_DecodeAndMap(t *testing.T) {
	payload := `{
		"bucket": "reports",
		"file_key": "in/q3.html",
		"html_string": "<h1>ignored</h1>",
		"wkhtmltopdf_options": {"margin": "1 2 3 4", "orientation": "Landscape", "title": "Q3 report"}
	}`

	var ev Event
	require.NoError(t, json.Unmarshal([]byte(payload), &ev))

	req := ev.ToRequest()
	assert.Equal(t, "reports", req.Bucket)
	assert.Equal(t, "in/q3.html", req.FileKey)
	require.NotNil(t, req.HTMLContent)
	assert.Equal(t, "<h1>ignored</h1>", *req.HTMLContent)
	require.NotNil(t, req.Options)
	assert.Equal(t, conversion.RenderingOptions{
		Margin:      "1 2 3 4",
		Orientation: "Landscape",
		Title:       "Q3 report",
	}, *req.Options)
}

func TestEvent_NoOptions(t *testing.T) {
	var ev Event
	require.NoError(t, json.Unmarshal([]byte(`{"bucket":"b","html_string":"<p/>"}`), &ev))

	req := ev.ToRequest()
	assert.Nil(t, req.Options)
	assert.False(t, req.UsesFileKey())
}

func TestEvent_EmptyHTMLStringIsPresent(t *testing.T) {
	var ev Event
	require.NoError(t, json.Unmarshal([]byte(`{"bucket":"b","html_string":""}`), &ev))

	req := ev.ToRequest()
	require.NotNil(t, req.HTMLContent)
	assert.Empty(t, *req.HTMLContent)
	assert.NoError(t, req.Validate())

	var absent Event
	require.NoError(t, json.Unmarshal([]byte(`{"bucket":"b"}`), &absent))
	assert.ErrorIs(t, absent.ToRequest().Validate(), conversion.ErrMissingSource)
}

func TestFromResult_Success(t *testing.T) {
	resp := FromResult(conversion.Succeeded("in/q3.pdf"))

	data, err := json.Marshal(resp)
	require.NoError(t, err)
	assert.JSONEq(t, `{"status":200,"file_key":"in/q3.pdf"}`, string(data))
}

func TestFromResult_Failure(t *testing.T) {
	resp := FromResult(conversion.Failed(conversion.ErrMissingBucket))

	assert.Equal(t, http.StatusBadRequest, resp.Status)
	assert.Empty(t, resp.FileKey)
	assert.Equal(t, `"Missing required \"bucket\" parameter from request payload."`, resp.Body)
	assert.Equal(t, conversion.ErrMissingBucket.Message, resp.Message())

	data, err := json.Marshal(resp)
	require.NoError(t, err)
	assert.NotContains(t, string(data), "file_key")
}

func TestResponse_MessageFallsBackToRawBody(t *testing.T) {
	assert.Equal(t, "plain", Response{Body: "plain"}.Message())
}
