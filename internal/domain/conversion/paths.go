package conversion

import (
	"path"
	"strings"
	"time"
)

const (
	// InlineHTMLSuffix is appended to the timestamp of inline HTML sources
	InlineHTMLSuffix = "-html-string.html"
	// PDFExtension is the extension of every rendered document
	PDFExtension = ".pdf"

	inlineTimestampLayout = "2006-01-02_15:04:05.000000"
)

// CleanFileKey normalizes an object key for use as a path below the
// conversion work directory. Absolute keys, backslashes and any ".."
// segment are rejected, so the key the store sees and the local path
// always name the same object.
func CleanFileKey(key string) (string, error) {
	if key == "" || strings.HasPrefix(key, "/") || strings.Contains(key, `\`) {
		return "", ErrInvalidFileKey
	}
	for _, segment := range strings.Split(key, "/") {
		if segment == ".." {
			return "", ErrInvalidFileKey
		}
	}
	cleaned := path.Clean(key)
	if cleaned == "." {
		return "", ErrInvalidFileKey
	}
	return cleaned, nil
}

// InlineHTMLName returns the file name used for inline HTML content,
// e.g. "2026-10-16_09:30:12123456-html-string.html".
func InlineHTMLName(now time.Time) string {
	stamp := strings.ReplaceAll(now.Format(inlineTimestampLayout), ".", "")
	return stamp + InlineHTMLSuffix
}

// OutputName returns the PDF name for an HTML name: same base name with
// its extension replaced by ".pdf".
func OutputName(htmlName string) string {
	dir, file := path.Split(htmlName)
	if ext := path.Ext(file); ext != "" && ext != file {
		file = strings.TrimSuffix(file, ext)
	}
	return dir + file + PDFExtension
}
