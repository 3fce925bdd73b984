// Command server runs the conversion function behind a local HTTP endpoint.
// POST /api/v1/conversions accepts the same JSON event as the Lambda
// function and answers with the same response.
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/html2pdf/backend/internal/bootstrap"
	"github.com/html2pdf/backend/internal/infrastructure/config"
	"github.com/html2pdf/backend/internal/infrastructure/logger"
	"github.com/html2pdf/backend/internal/infrastructure/telemetry"
	"github.com/html2pdf/backend/internal/interfaces/http/handler"
	"github.com/html2pdf/backend/internal/interfaces/http/router"
	"go.uber.org/zap"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	// Initialize logger
	log, err := logger.New(&logger.Config{
		Level:   cfg.Log.Level,
		Format:  cfg.Log.Format,
		Output:  cfg.Log.Output,
		Service: cfg.App.Name,
	})
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	defer func() {
		_ = logger.Sync(log)
	}()

	log.Info("Starting html2pdf server",
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
	)

	app, err := bootstrap.New(context.Background(), cfg, log)
	if err != nil {
		log.Fatal("Failed to initialize conversion service", zap.Error(err))
	}

	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	engine := router.NewEngine(router.EngineConfig{
		Logger:      log,
		ServiceName: cfg.Telemetry.ServiceName,
		Tracing:     app.Tracer.IsEnabled(),
		MaxBodySize: cfg.HTTP.MaxBodySize,
	})

	systemHandler := handler.NewSystemHandler(cfg.App.Name, telemetry.ServiceVersion)
	r := router.NewRouter(engine, router.WithHealthCheck(systemHandler.Health))
	r.Register(systemHandler).
		Register(handler.NewConversionHandler(app.Service)).
		Setup()

	srv := &http.Server{
		Addr:           ":" + cfg.App.Port,
		Handler:        engine,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderBytes,
	}

	go func() {
		log.Info("Server starting", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), cfg.HTTP.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Error("Server forced to shutdown", zap.Error(err))
	}
	if err := app.Shutdown(ctx); err != nil {
		log.Error("Error shutting down conversion service", zap.Error(err))
	}

	log.Info("Server exited gracefully")
}
