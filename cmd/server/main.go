package main

import (
	"context"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"

	"newsletter-go/internal/app"
	"newsletter-go/internal/config"
	"newsletter-go/internal/logging"
	"newsletter-go/internal/telemetry"
)

func main() {
	settings, err := config.Load(".")
	if err != nil {
		logrus.Fatalf("Failed to read configuration: %v", err)
	}

	logger := logging.Init(settings.Application.ServiceName, logrus.InfoLevel, os.Stdout)

	var spanSink io.Writer
	if settings.Telemetry.StdoutExporter {
		spanSink = os.Stderr
	}
	tp, err := telemetry.InitTracing(settings.Application.ServiceName, settings.Application.ServiceVersion, spanSink)
	if err != nil {
		logger.Fatalf("Failed to initialize tracing: %v", err)
	}
	defer func() {
		if err := telemetry.ShutdownTracing(context.Background(), tp); err != nil {
			logger.Errorf("Error shutting down tracer provider: %v", err)
		}
	}()

	repo, closeRepo, err := app.OpenRepository(context.Background(), settings)
	if err != nil {
		logger.Fatalf("Failed to open %s store: %v", settings.Store.Backend, err)
	}
	defer closeRepo()

	application := app.Build(&app.Config{
		ServiceName:    settings.Application.ServiceName,
		Address:        settings.Application.Address(),
		Logger:         logger,
		TracerProvider: tp,
		GinMode:        settings.Application.GinMode,
		Repository:     repo,
	})

	go func() {
		if err := application.Run(); err != nil {
			logger.Fatalf("Failed to start server: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := application.Shutdown(ctx); err != nil {
		logger.Errorf("Server forced to shutdown: %v", err)
	}

	logger.Info("Server exited")
}
