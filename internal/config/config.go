package config

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"
)

type APIConfig struct {
	Addr        string
	DatabaseURL string
	RedisURL    string
	EventStream string
	StartupSeed bool
	LogLevel    slog.Level
}

type WorkerConfig struct {
	DatabaseURL       string
	RedisURL          string
	EventStream       string
	ClockSchedule     string
	RunOnce           bool
	SettleTimeout     time.Duration
	SettleConcurrency int
	LogLevel          slog.Level
}

type CLIConfig struct {
	APIBaseURL string
}

func LoadAPIFromEnv() (APIConfig, error) {
	addr := os.Getenv("PORT")
	if addr != "" {
		if !strings.HasPrefix(addr, ":") {
			addr = ":" + addr
		}
	} else {
		addr = envDefault("LOLFM_API_ADDR", ":8080")
	}

	cfg := APIConfig{
		Addr:        addr,
		DatabaseURL: strings.TrimSpace(os.Getenv("DATABASE_URL")),
		RedisURL:    strings.TrimSpace(os.Getenv("LOLFM_REDIS_URL")),
		EventStream: envDefault("LOLFM_EVENT_STREAM", "lolfm.events"),
		StartupSeed: envBoolDefault("LOLFM_STARTUP_SEED", true),
		LogLevel:    envLogLevel("LOLFM_LOG_LEVEL"),
	}
	if cfg.DatabaseURL == "" {
		return cfg, fmt.Errorf("DATABASE_URL is required")
	}
	return cfg, nil
}

func LoadWorkerFromEnv() (WorkerConfig, error) {
	cfg := WorkerConfig{
		DatabaseURL:       strings.TrimSpace(os.Getenv("DATABASE_URL")),
		RedisURL:          strings.TrimSpace(os.Getenv("LOLFM_REDIS_URL")),
		EventStream:       envDefault("LOLFM_EVENT_STREAM", "lolfm.events"),
		ClockSchedule:     envDefault("LOLFM_CLOCK_SCHEDULE", "@every 10m"),
		RunOnce:           envBoolDefault("LOLFM_WORKER_RUN_ONCE", false),
		SettleTimeout:     envDurationDefault("LOLFM_SETTLE_TIMEOUT", 30*time.Second),
		SettleConcurrency: envIntDefault("LOLFM_SETTLE_CONCURRENCY", 4),
		LogLevel:          envLogLevel("LOLFM_LOG_LEVEL"),
	}
	if cfg.DatabaseURL == "" {
		return cfg, fmt.Errorf("DATABASE_URL is required")
	}
	if cfg.SettleTimeout <= 0 {
		return cfg, fmt.Errorf("LOLFM_SETTLE_TIMEOUT must be positive")
	}
	if cfg.SettleConcurrency < 1 {
		cfg.SettleConcurrency = 1
	}
	return cfg, nil
}

func LoadCLIFromEnv() CLIConfig {
	return CLIConfig{
		APIBaseURL: strings.TrimRight(envDefault("LOLFM_API_BASE_URL", "http://localhost:8080"), "/"),
	}
}

func envDefault(key, fallback string) string {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback
	}
	return v
}

func envDurationDefault(key string, fallback time.Duration) time.Duration {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return fallback
	}
	return d
}

func envIntDefault(key string, fallback int) int {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}

func envBoolDefault(key string, fallback bool) bool {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return fallback
	}
	return b
}

func envLogLevel(key string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(os.Getenv(key))) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
