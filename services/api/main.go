package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/02loveslollipop/pollbooth/services/api/config"
	"github.com/02loveslollipop/pollbooth/services/api/db"
	httpserver "github.com/02loveslollipop/pollbooth/services/api/http"
)

const connectTimeout = 15 * time.Second

func main() {
	if err := run(); err != nil {
		log.Fatalf("api failed: %v", err)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("config: %w", err)
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, nil)).With(slog.String("service", "api"))
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	store, err := db.New(ctx, cfg.DatabaseURL, cfg.Table)
	if err != nil {
		return fmt.Errorf("db connection: %w", err)
	}
	defer store.Close()

	pingCtx, cancel := context.WithTimeout(ctx, connectTimeout)
	err = store.Ping(pingCtx)
	cancel()
	if err != nil {
		return fmt.Errorf("db ping: %w", err)
	}

	logger.Info("serving station documents",
		slog.String("addr", cfg.ListenAddr()),
		slog.String("table", cfg.Table),
		slog.Bool("auth", cfg.BearerToken != ""),
		slog.Int("default_limit", cfg.DefaultLimit))

	if err := httpserver.New(cfg, store).Run(ctx); err != nil {
		return fmt.Errorf("server: %w", err)
	}
	logger.Info("shutdown complete")
	return nil
}
