package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/html2pdf/backend/internal/interfaces/http/dto"
)

// BodyLimit caps the request body at maxBytes. A declared Content-Length
// over the cap is refused with the REQUEST_TOO_LARGE envelope before any
// handler runs; chunked bodies are cut off by http.MaxBytesReader and the
// handler reports the same code when decoding fails.
func BodyLimit(maxBytes int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.ContentLength > maxBytes {
			c.AbortWithStatusJSON(http.StatusRequestEntityTooLarge, dto.NewErrorResponseWithRequestID(
				dto.ErrCodeRequestTooLarge, dto.MessageRequestTooLarge, getRequestID(c)))
			return
		}
		if c.Request.Body != nil {
			c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBytes)
		}
		c.Next()
	}
}
