package conversion

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCleanFileKey(t *testing.T) {
	valid := map[string]string{
		"report.html":         "report.html",
		"in/2026/report.html": "in/2026/report.html",
		"in//report.html":     "in/report.html",
		"in/./report.html":    "in/report.html",
		"in/..report.html":    "in/..report.html",
	}
	for key, expected := range valid {
		t.Run(key, func(t *testing.T) {
			cleaned, err := CleanFileKey(key)
			require.NoError(t, err)
			assert.Equal(t, expected, cleaned)
		})
	}

	for _, key := range []string{
		"", ".", "./", "..", "../x.html", "a/../../x.html", "in/../in/report.html", "in/..", "/abs.html", `a\b.html`,
	} {
		t.Run("rejects "+key, func(t *testing.T) {
			_, err := CleanFileKey(key)
			assert.ErrorIs(t, err, ErrInvalidFileKey)
		})
	}
}

func TestInlineHTMLName(t *testing.T) {
	now := time.Date(2026, 10, 16, 9, 30, 12, 123456000, time.UTC)
	assert.Equal(t, "2026-10-16_09:30:12123456-html-string.html", InlineHTMLName(now))
}

func TestOutputName(t *testing.T) {
	tests := map[string]string{
		"report.html":            "report.pdf",
		"in/report.html":         "in/report.pdf",
		"in/report.htm":          "in/report.pdf",
		"in/report":              "in/report.pdf",
		"v1.2/report.final.html": "v1.2/report.final.pdf",
		"in//report.html":        "in//report.pdf",
	}
	for input, expected := range tests {
		t.Run(input, func(t *testing.T) {
			assert.Equal(t, expected, OutputName(input))
		})
	}

	inline := InlineHTMLName(time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC))
	assert.Equal(t, "2026-01-02_03:04:05000000-html-string.pdf", OutputName(inline))
}
