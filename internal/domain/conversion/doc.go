// Package conversion holds the domain model of an HTML-to-PDF conversion:
// the incoming request, the rendering options a caller may supply, the
// settings derived from them and the result handed back to the caller.
package conversion
