// Command rollocd serves the wheel catalog over HTTP.
package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/phanxgames/rolloc"
	"github.com/phanxgames/rolloc/internal/catalog"
	"github.com/phanxgames/rolloc/internal/config"
	"github.com/phanxgames/rolloc/internal/server"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: cfg.LogLevel}))
	slog.SetDefault(logger)

	cat, err := catalog.Load(cfg.CatalogPath)
	if err != nil {
		logger.Error("failed to load catalog", "path", cfg.CatalogPath, "error", err)
		os.Exit(1)
	}

	var opts []rolloc.Option
	if cfg.OverlappingSpins {
		opts = append(opts, rolloc.WithOverlappingSpins())
	}
	svc, err := server.NewService(cat, logger, server.Limits{
		SpinTimeout:     cfg.SpinTimeout,
		MaxSpinDuration: cfg.MaxSpinDuration,
	}, opts...)
	if err != nil {
		logger.Error("failed to build wheels", "error", err)
		os.Exit(1)
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	e.Use(middleware.Recover())
	e.Use(server.RequestIDMiddleware())
	e.Use(server.LoggingMiddleware(logger))

	server.NewHandler(svc).Register(e)

	// Graceful shutdown.
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	go func() {
		logger.Info("starting server", "addr", cfg.HTTPAddr, "wheels", cat.IDs())
		if err := e.Start(cfg.HTTPAddr); err != nil && err != http.ErrServerClosed {
			logger.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		logger.Error("shutdown error", "error", err)
	}
}
