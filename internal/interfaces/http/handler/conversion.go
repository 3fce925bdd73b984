package handler

import (
	"context"
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/html2pdf/backend/internal/domain/conversion"
	"github.com/html2pdf/backend/internal/infrastructure/logger"
	"github.com/html2pdf/backend/internal/interfaces/event"
	"github.com/html2pdf/backend/internal/interfaces/http/dto"
	"go.uber.org/zap"
)

// Converter runs a single conversion
type Converter interface {
	Convert(ctx context.Context, req *conversion.Request) (*conversion.Result, error)
}

// ConversionHandler exposes the conversion function over HTTP. It accepts
// the same JSON event as the Lambda entrypoint and answers with the same
// response, using the response status as the HTTP status.
type ConversionHandler struct {
	BaseHandler
	converter Converter
}

// NewConversionHandler creates a new ConversionHandler
func NewConversionHandler(converter Converter) *ConversionHandler {
	return &ConversionHandler{converter: converter}
}

// Convert handles POST /conversions
func (h *ConversionHandler) Convert(c *gin.Context) {
	log := logger.GetGinLogger(c)

	var ev event.Event
	if err := c.ShouldBindJSON(&ev); err != nil {
		var maxBytesErr *http.MaxBytesError
		switch {
		case errors.As(err, &maxBytesErr):
			h.Error(c, http.StatusRequestEntityTooLarge, dto.ErrCodeRequestTooLarge, dto.MessageRequestTooLarge)
		case errors.Is(err, io.EOF):
			h.BadRequest(c, "Request body is empty")
		default:
			h.BadRequest(c, "Request body is not a valid conversion event")
		}
		return
	}

	result, err := h.converter.Convert(c.Request.Context(), ev.ToRequest())
	if err != nil {
		log.Error("conversion fault", zap.Error(err))
		_ = c.Error(err)
		h.InternalError(c, dto.ErrCodeConversionFault)
		return
	}

	resp := event.FromResult(result)
	c.JSON(resp.Status, resp)
}

// RegisterRoutes registers the conversion routes
func (h *ConversionHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/conversions", h.Convert)
}
