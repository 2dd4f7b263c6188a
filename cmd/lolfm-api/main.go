package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"lolfm/internal/api"
	"lolfm/internal/config"
	"lolfm/internal/db"
	"lolfm/internal/game"
	"lolfm/internal/notify"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.LoadAPIFromEnv()
	if err != nil {
		slog.Error("load config", "err", err)
		os.Exit(1)
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: cfg.LogLevel}))
	pool, err := db.Connect(ctx, cfg.DatabaseURL, db.PoolOptions{})
	if err != nil {
		logger.Error("db connect failed", "err", err)
		os.Exit(1)
	}
	defer pool.Close()

	if err := db.Migrate(ctx, pool, logger); err != nil {
		logger.Error("migrate failed", "err", err)
		os.Exit(1)
	}

	events, closeEvents, err := notify.Open(cfg.RedisURL, cfg.EventStream, logger)
	if err != nil {
		logger.Error("event stream connect failed", "err", err)
		os.Exit(1)
	}
	defer closeEvents()

	gameSvc := game.NewService(pool, logger, events)
	if cfg.StartupSeed {
		if err := gameSvc.SeedDemoLeague(ctx); err != nil {
			logger.Error("seed demo league failed", "err", err)
			os.Exit(1)
		}
	}

	server := api.New(cfg, logger, gameSvc)
	httpServer := &http.Server{
		Addr:              cfg.Addr,
		Handler:           server.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		_ = httpServer.Shutdown(shutdownCtx)
	}()

	logger.Info("lolfm api listening", "addr", cfg.Addr)
	if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Error("server failed", "err", err)
		os.Exit(1)
	}
}
