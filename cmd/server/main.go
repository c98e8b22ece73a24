package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"antaracc/internal/app/server/api"
	"antaracc/internal/config"
	"antaracc/internal/infrastructure/storage"
	"antaracc/internal/utils/logger"
)

const shutdownTimeout = 10 * time.Second

func main() {
	cfg := config.MustLoad()
	log := logger.WithLevel(cfg.Env, cfg.Logger.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	repo, err := storage.Open(ctx, cfg, log)
	if err != nil {
		log.Error("failed to open ledger index", "driver", cfg.DB.Driver, "error", err)
		os.Exit(1)
	}
	defer repo.Close()

	if cfg.DB.Fixture != "" {
		if _, err := storage.LoadFixture(ctx, repo, cfg.DB.Fixture, log); err != nil {
			log.Error("failed to load ledger fixture", "path", cfg.DB.Fixture, "error", err)
			os.Exit(1)
		}
	}

	srv := &http.Server{
		Addr:              cfg.Server.RunAddress,
		Handler:           api.New(repo, cfg, log),
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		log.Info("server started", "address", cfg.Server.RunAddress, "env", cfg.Env, "driver", cfg.DB.Driver)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("server stopped", "error", err)
			stop()
		}
	}()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("graceful shutdown failed", "error", err)
		return
	}
	log.Info("server stopped")
}
