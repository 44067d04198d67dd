// Package main is the entry point for the demo server. It wires the toolbar
// and its surrounding middleware using samber/do v2, starts the HTTP server,
// and handles graceful shutdown on SIGINT/SIGTERM.
package main

import (
	"context"
	"fmt"
	"log/slog"
	nethttp "net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/samber/do/v2"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"

	debugtoolbar "github.com/JacobCoffee/debug-toolbar"
	adapthttp "github.com/JacobCoffee/debug-toolbar/internal/adapters/http"
	"github.com/JacobCoffee/debug-toolbar/internal/adapters/http/handlers"
	"github.com/JacobCoffee/debug-toolbar/internal/adapters/http/middleware"
	"github.com/JacobCoffee/debug-toolbar/internal/platform/config"
	"github.com/JacobCoffee/debug-toolbar/internal/platform/logging"
	"github.com/JacobCoffee/debug-toolbar/internal/platform/telemetry"
)

const (
	serverShutdownTimeout = 15 * time.Second
	tracerShutdownTimeout = 5 * time.Second
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	profile := os.Getenv("APP_PROFILE")
	if profile == "" {
		profile = "local"
	}

	// Bootstrap: config, logger, tracer.
	cfg, err := config.Load(profile)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	logger := logging.New(cfg.Log.Level, cfg.Log.Format, os.Stderr)

	var tracer *sdktrace.TracerProvider
	if cfg.Telemetry.Enabled {
		tracer, err = telemetry.InitTracer(cfg.Telemetry.ServiceName)
		if err != nil {
			return fmt.Errorf("initializing tracer: %w", err)
		}
	}

	// DI container.
	injector := do.New()

	do.ProvideValue(injector, cfg)
	do.ProvideValue(injector, logger)

	registerDependencies(injector, cfg, logger)

	// Resolve the server (eagerly wires the full graph).
	server, err := do.Invoke[*adapthttp.Server](injector)
	if err != nil {
		return fmt.Errorf("resolving server: %w", err)
	}

	// Start server in background.
	serverErr := make(chan error, 1)
	go func() {
		serverErr <- server.Start()
	}()

	// Wait for shutdown signal or server error.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-quit:
		logger.Info("received shutdown signal", slog.String("signal", sig.String()))
	case err := <-serverErr:
		return fmt.Errorf("server failed: %w", err)
	}

	// Graceful shutdown: drain HTTP requests.
	shutdownCtx, cancel := context.WithTimeout(context.Background(), serverShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown error", slog.Any("error", err))
	}

	// Wait for Start() goroutine to return.
	<-serverErr

	// Flush spans.
	if tracer != nil {
		tracerCtx, tracerCancel := context.WithTimeout(context.Background(), tracerShutdownTimeout)
		defer tracerCancel()

		if err := tracer.Shutdown(tracerCtx); err != nil {
			logger.Error("tracer shutdown error", slog.Any("error", err))
		}
	}

	logger.Info("shutdown complete")
	return nil
}

func registerDependencies(injector *do.RootScope, cfg *config.Config, logger *slog.Logger) {
	do.Provide(injector, func(_ do.Injector) (*debugtoolbar.Toolbar, error) {
		return debugtoolbar.New(debugtoolbar.Config{
			Enabled:        cfg.Toolbar.Enabled,
			InsertBefore:   cfg.Toolbar.InsertBefore,
			ExcludePaths:   cfg.Toolbar.ExcludePaths,
			MaxBodySize:    cfg.Toolbar.MaxBodySize,
			HistorySize:    cfg.Toolbar.HistorySize,
			PathPrefix:     cfg.Toolbar.PathPrefix,
			DisabledCodecs: cfg.Toolbar.DisabledCodecs,
		}, logger)
	})

	do.Provide(injector, func(_ do.Injector) (*handlers.Demo, error) {
		return handlers.NewDemo(logger), nil
	})

	do.Provide(injector, func(i do.Injector) (nethttp.Handler, error) {
		demo := do.MustInvoke[*handlers.Demo](i)
		toolbar := do.MustInvoke[*debugtoolbar.Toolbar](i)

		return adapthttp.NewRouter(demo, toolbar,
			middleware.Recovery(logger),
			middleware.RequestID(),
			middleware.Tracing(),
			middleware.Logging(logger),
			toolbar.Middleware(),
		), nil
	})

	do.Provide(injector, func(i do.Injector) (*adapthttp.Server, error) {
		handler := do.MustInvoke[nethttp.Handler](i)
		return adapthttp.NewServer(cfg.Server, handler, logger), nil
	})
}
