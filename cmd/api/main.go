package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"cost-estimator/internal/bootstrap"
	"cost-estimator/internal/shared/config"
	"cost-estimator/internal/shared/server"
	"cost-estimator/internal/shared/telemetry"
)

const shutdownTimeout = 15 * time.Second

func main() {
	cfg := config.Load()
	telemetry.Init(telemetry.Options{Level: cfg.LogLevel, File: cfg.LogFile})

	app, err := bootstrap.Build(cfg)
	if err != nil {
		log.Fatalf("bootstrap error: %v", err)
	}

	srv := &http.Server{
		Addr:              server.Addr(cfg.Port),
		Handler:           app.Router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	telemetry.Info("server.start", map[string]any{"addr": srv.Addr, "env": cfg.Env, "llm_provider": cfg.LLMProvider})
	err = serve(ctx, srv, shutdownTimeout)
	stop()

	if cerr := app.Close(); cerr != nil {
		telemetry.Error("db.close_failed", map[string]any{"error": cerr.Error()})
	}
	if err != nil {
		telemetry.Error("server.failed", map[string]any{"error": err.Error()})
		os.Exit(1)
	}
}

// serve runs srv until ctx is done or the listener fails, then shuts it down.
// It returns the listener error, if any.
func serve(ctx context.Context, srv *http.Server, timeout time.Duration) error {
	serveErr := make(chan error, 1)
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	var err error
	select {
	case <-ctx.Done():
		telemetry.Info("server.shutdown", nil)
	case err = <-serveErr:
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	if serr := srv.Shutdown(shutdownCtx); serr != nil {
		telemetry.Error("server.shutdown_failed", map[string]any{"error": serr.Error()})
	}
	return err
}
