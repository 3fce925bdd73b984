// Package printing provides the renderer engines that turn an HTML file on
// local disk into a PDF file next to it.
//
// This package contains:
// - WkhtmltopdfRenderer, which runs the wkhtmltopdf command-line tool
// - ChromedpRenderer, which prints through Chrome DevTools Protocol
// - RenderError, the typed error both engines return
//
// Example usage:
//
//	renderer, err := NewWkhtmltopdfRenderer(&WkhtmltopdfConfig{
//	    BinaryPath:     "/opt/bin/wkhtmltopdf",
//	    DefaultTimeout: 60 * time.Second,
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	settings := conversion.DeriveSettings(&conversion.RenderingOptions{
//	    Margin:      "10mm 10mm 10mm 10mm",
//	    Orientation: "landscape",
//	})
//	if err := renderer.Render(ctx, "/tmp/in/report.html", "/tmp/in/report.pdf", settings); err != nil {
//	    log.Fatal(err)
//	}
package printing
