package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"portfolio-api/internal/app"
	"portfolio-api/internal/config"
	"portfolio-api/internal/logger"
)

func main() {
	cfg, err := config.Load()
	logger.Init(cfg.LogLevel, cfg.IsProduction())
	if err != nil {
		logger.Fatal("invalid configuration", map[string]any{
			"error": err.Error(),
		})
	}

	ctx, stop := signal.NotifyContext(
		context.Background(),
		os.Interrupt,
		syscall.SIGTERM,
	)
	defer stop()

	application, err := app.New(ctx, cfg)
	if err != nil {
		logger.Fatal("failed to initialize app", map[string]any{
			"error": err.Error(),
		})
	}

	go func() {
		if err := application.Run(); err != nil {
			logger.Fatal("http server failed", map[string]any{
				"error": err.Error(),
			})
		}
	}()

	logger.Info("portfolio-api started", map[string]any{
		"port":          cfg.AppPort,
		"env":           cfg.AppEnv,
		"session_store": cfg.SessionStore,
	})

	<-ctx.Done() // wait for Ctrl+C

	logger.Info("shutdown signal received", nil)

	shutdownCtx, cancel := context.WithTimeout(
		context.Background(),
		10*time.Second,
	)
	defer cancel()

	if err := application.Shutdown(shutdownCtx); err != nil {
		logger.Fatal("graceful shutdown failed", map[string]any{
			"error": err.Error(),
		})
	}

	logger.Info("portfolio-api stopped cleanly", nil)
}
