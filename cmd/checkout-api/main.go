package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.opentelemetry.io/otel"

	"github.com/jcmexdev/membership-checkout/internal/app"
	"github.com/jcmexdev/membership-checkout/internal/config"
	"github.com/jcmexdev/membership-checkout/internal/pkg/telemetry"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := config.Load(); err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	cfg := config.C()

	telemetry.InitLogger(cfg.Telemetry.LogLevel())
	otel.SetTextMapPropagator(telemetry.NewPropagator())

	if cfg.Telemetry.TracingEnabled() {
		shutdown, err := telemetry.SetupTracer(ctx, cfg.Telemetry.ServiceName(), cfg.Telemetry.Endpoint())
		if err != nil {
			slog.Error("failed to initialise tracer", "error", err)
			os.Exit(1)
		}
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := shutdown(shutdownCtx); err != nil {
				slog.Error("tracer shutdown error", "error", err)
			}
		}()
	}

	a, err := app.New(ctx, app.Settings{
		Gateway:    cfg.Gateway,
		Cache:      cfg.Cache,
		AttemptLog: cfg.AttemptLog,
		Auth:       cfg.Auth,
	})
	if err != nil {
		slog.Error("failed to build app", "error", err)
		os.Exit(1)
	}
	defer func() {
		if err := a.Close(); err != nil {
			slog.Error("app close error", "error", err)
		}
	}()

	srv := &http.Server{
		Addr:              cfg.Server.Address(),
		Handler:           a.Handler(),
		ReadHeaderTimeout: cfg.Server.ReadHeaderTimeout(),
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("checkout api running", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case <-ctx.Done():
		slog.Info("shutting down")
	case err := <-errCh:
		if err != nil {
			slog.Error("http server failed", "error", err)
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout())
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("http server shutdown error", "error", err)
	}
}
