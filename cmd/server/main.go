package main

import (
	"context"
	"errors"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/munchkineatter/DrawDrum/internal/app"
	"github.com/munchkineatter/DrawDrum/internal/broadcast"
	"github.com/munchkineatter/DrawDrum/internal/config"
	"github.com/munchkineatter/DrawDrum/internal/logging"
	"github.com/munchkineatter/DrawDrum/internal/metrics"
	"github.com/munchkineatter/DrawDrum/internal/server"
	"github.com/munchkineatter/DrawDrum/internal/store"
	"github.com/munchkineatter/DrawDrum/internal/uploads"
	"github.com/munchkineatter/DrawDrum/internal/version"
)

func setupConfig() *config.Config {
	cfg, err := config.Load()
	if err != nil {
		// Use log before slog is initialized
		log.Fatalf("Failed to load config: %v", err)
	}
	return cfg
}

func setupStore(cfg *config.Config, clock clockwork.Clock) *store.Store {
	st, err := store.Open(cfg.DatabasePath(), clock)
	if err != nil {
		logging.WithError(err).Error("Failed to open settings database", "path", cfg.DatabasePath())
		os.Exit(1)
	}
	return st
}

func setupUploads(cfg *config.Config) *uploads.Store {
	logos, err := uploads.NewStore(cfg.UploadsDir())
	if err != nil {
		logging.WithError(err).Error("Failed to prepare uploads directory", "dir", cfg.UploadsDir())
		os.Exit(1)
	}
	return logos
}

func runGracefulShutdown(srv *server.Server, hub *broadcast.Hub) <-chan struct{} {
	done := make(chan struct{})
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	go func() {
		<-sigChan
		slog.Info("Shutdown signal received, cleaning up...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			slog.Error("Server shutdown error", "error", err)
		}

		hub.Stop()

		close(done)
	}()

	return done
}

func main() {
	clock := clockwork.NewRealClock()

	cfg := setupConfig()

	logging.InitLogger(cfg.LogLevel, cfg.LogFormat)
	slog.Info("Application starting", "env", cfg.AppEnv, "port", cfg.Port, "data_dir", cfg.DataDir)

	info := version.Get()
	metrics.BuildInfo.WithLabelValues(info.Version, info.Commit, info.BuildTime, info.GoVersion).Set(1)

	st := setupStore(cfg, clock)
	defer st.Close()

	logos := setupUploads(cfg)

	hub := broadcast.NewHub(cfg.MaxDisplayClients, clock)
	appSvc := app.NewService(st, logos, hub)

	srv, err := server.NewServer(cfg, appSvc, hub, logos, st)
	if err != nil {
		slog.Error("Failed to create server", "error", err)
		os.Exit(1)
	}

	done := runGracefulShutdown(srv, hub)

	slog.Info("Server starting", "port", cfg.Port)
	if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		slog.Error("Server error", "error", err)
		os.Exit(1)
	}

	<-done
}
