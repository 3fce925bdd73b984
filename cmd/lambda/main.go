// Command lambda is the AWS Lambda entrypoint of the conversion function.
package main

import (
	"context"

	"github.com/aws/aws-lambda-go/lambda"
	"github.com/html2pdf/backend/internal/bootstrap"
	"github.com/html2pdf/backend/internal/infrastructure/config"
	"github.com/html2pdf/backend/internal/infrastructure/logger"
	lambdahandler "github.com/html2pdf/backend/internal/interfaces/lambda"
	"go.uber.org/zap"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	logCfg := logger.FunctionConfig()
	logCfg.Level = cfg.Log.Level
	logCfg.Service = cfg.App.Name
	log, err := logger.New(logCfg)
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	defer func() {
		_ = logger.Sync(log)
	}()

	// Built once per execution environment and reused by warm invocations
	app, err := bootstrap.New(context.Background(), cfg, log)
	if err != nil {
		log.Fatal("Failed to initialize conversion service", zap.Error(err))
	}

	handler := lambdahandler.NewHandler(app.Service, log, app.Tracer, app.Meter)
	lambda.StartWithOptions(handler.Handle,
		lambda.WithEnableSIGTERM(func() {
			if err := app.Shutdown(context.Background()); err != nil {
				log.Error("Error shutting down conversion service", zap.Error(err))
			}
			_ = logger.Sync(log)
		}),
	)
}
