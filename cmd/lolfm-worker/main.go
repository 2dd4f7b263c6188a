package main

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"lolfm/internal/config"
	"lolfm/internal/cronrunner"
	"lolfm/internal/db"
	"lolfm/internal/game"
	"lolfm/internal/notify"
	"lolfm/internal/season"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.LoadWorkerFromEnv()
	if err != nil {
		slog.Error("load config", "err", err)
		os.Exit(1)
	}
	if err := cronrunner.Validate(cfg.ClockSchedule); err != nil {
		slog.Error("invalid LOLFM_CLOCK_SCHEDULE", "schedule", cfg.ClockSchedule, "err", err)
		os.Exit(1)
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: cfg.LogLevel}))
	pool, err := db.Connect(ctx, cfg.DatabaseURL, db.PoolOptions{MaxConns: int32(cfg.SettleConcurrency) + 2})
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

	svc := game.NewService(pool, logger, events)
	driver := season.NewDriver(svc, logger, season.Options{
		SettleTimeout: cfg.SettleTimeout,
		Concurrency:   cfg.SettleConcurrency,
	})

	if cfg.RunOnce {
		if _, err := driver.Tick(ctx); err != nil {
			logger.Error("tick failed", "err", err)
			os.Exit(1)
		}
		logger.Info("worker run-once completed")
		return
	}

	runner := cronrunner.New(logger, ctx)
	if _, err := runner.Add(cfg.ClockSchedule, func(ctx context.Context) {
		_, err := driver.Tick(ctx)
		switch {
		case errors.Is(err, season.ErrTickInFlight), errors.Is(err, game.ErrClockLeaseHeld):
			logger.Warn("season tick skipped", "reason", err)
		case err != nil:
			logger.Error("season tick failed", "err", err)
		}
	}); err != nil {
		logger.Error("schedule clock failed", "err", err)
		os.Exit(1)
	}

	runner.Start()
	logger.Info("worker started", "clock_schedule", cfg.ClockSchedule, "settle_concurrency", cfg.SettleConcurrency)
	<-ctx.Done()
	runner.Stop()
	logger.Info("worker shutdown")
}
