package router

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
	"go.uber.org/zap/zaptest"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type echoRegistrar struct{}

func (echoRegistrar) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/echo", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"request_id": c.GetString("request_id")})
	})
	rg.GET("/panic", func(c *gin.Context) {
		panic("boom")
	})
}

func newTestRouter(t *testing.T, cfg EngineConfig) *gin.Engine {
	t.Helper()
	if cfg.Logger == nil {
		cfg.Logger = zaptest.NewLogger(t)
	}
	r := NewRouter(NewEngine(cfg), WithHealthCheck(func(c *gin.Context) {
		c.String(http.StatusOK, "ok")
	}))
	r.Register(echoRegistrar{}).Setup()
	return r.Engine()
}

func TestRouter_Setup(t *testing.T) {
	engine := newTestRouter(t, EngineConfig{ServiceName: "html2pdf"})

	t.Run("health at root", func(t *testing.T) {
		w := httptest.NewRecorder()
		engine.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))
		assert.Equal(t, http.StatusOK, w.Code)
		assert.NotEmpty(t, w.Header().Get("X-Request-ID"))
	})

	t.Run("registrars under versioned prefix", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/api/v1/echo", nil)
		req.Header.Set("X-Request-ID", "abc")
		w := httptest.NewRecorder()
		engine.ServeHTTP(w, req)
		assert.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `{"request_id":"abc"}`, w.Body.String())
	})

	t.Run("unknown route", func(t *testing.T) {
		w := httptest.NewRecorder()
		engine.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/echo", nil))
		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("panic recovered", func(t *testing.T) {
		w := httptest.NewRecorder()
		engine.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/panic", nil))
		assert.Equal(t, http.StatusInternalServerError, w.Code)
	})
}

func TestRouter_WithAPIVersion(t *testing.T) {
	r := NewRouter(NewEngine(EngineConfig{}), WithAPIVersion("v2"))
	r.Register(echoRegistrar{}).Setup()

	w := httptest.NewRecorder()
	r.Engine().ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/api/v2/echo", nil))
	assert.Equal(t, http.StatusOK, w.Code)

	w = httptest.NewRecorder()
	r.Engine().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestNewEngine_BodyLimit(t *testing.T) {
	engine := newTestRouter(t, EngineConfig{MaxBodySize: 8})

	req := httptest.NewRequest(http.MethodPost, "/api/v1/echo", strings.NewReader(strings.Repeat("x", 64)))
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)

	assert.Equal(t, http.StatusRequestEntityTooLarge, w.Code)
}

func TestNewEngine_Tracing(t *testing.T) {
	recorder := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))
	t.Cleanup(func() { _ = tp.Shutdown(t.Context()) })

	engine := newTestRouter(t, EngineConfig{ServiceName: "html2pdf", Tracing: true, TracerProvider: tp})

	w := httptest.NewRecorder()
	engine.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/api/v1/echo", nil))
	require.Equal(t, http.StatusOK, w.Code)

	spans := recorder.Ended()
	require.Len(t, spans, 1)
	assert.Equal(t, "POST /api/v1/echo", spans[0].Name())
}
