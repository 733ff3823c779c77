// Package main implements the chess rules server with a RESTful API and
// optional recording of games to SQLite or Redis.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"chessrules/cmd/chess-server/cli"
	"chessrules/internal/config"
	"chessrules/internal/logging"
	"chessrules/internal/service"
	"chessrules/internal/storage"
	"chessrules/internal/transport/http"

	"go.uber.org/zap"
)

const (
	gracefulShutdownTimeout = time.Second * 5
)

func main() {
	// Check for CLI database commands
	if len(os.Args) > 1 && os.Args[1] == "db" {
		if err := cli.Run(os.Args[2:], os.Stdout); err != nil {
			fmt.Fprintf(os.Stderr, "CLI error: %v\n", err)
			os.Exit(1)
		}
		os.Exit(0)
	}

	configPath := flag.String("config", "", "Path to YAML config file")
	var (
		apiHost     = flag.String("api-host", "", "API server host (overrides config)")
		apiPort     = flag.Int("api-port", 0, "API server port (overrides config)")
		dev         = flag.Bool("dev", false, "Development mode (relaxed rate limits, no WAL)")
		storagePath = flag.String("storage-path", "", "Path to SQLite database file")
		redisURL    = flag.String("redis-url", "", "Redis URL to record games to")
		pidPath     = flag.String("pid", "", "Optional path to write PID file")
		pidLock     = flag.Bool("pid-lock", false, "Lock PID file to allow only one instance (requires -pid)")
		logLevel    = flag.String("log-level", "", "Log level (overrides config)")
	)
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	// flags win over file and environment
	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "api-host":
			cfg.API.Host = *apiHost
		case "api-port":
			cfg.API.Port = *apiPort
		case "dev":
			cfg.Dev = *dev
		case "storage-path":
			cfg.Storage.Path = *storagePath
		case "redis-url":
			cfg.Redis.URL = *redisURL
		case "pid":
			cfg.PID.Path = *pidPath
		case "pid-lock":
			cfg.PID.Lock = *pidLock
		case "log-level":
			cfg.Log.Level = *logLevel
		}
	})
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "Invalid configuration: %v\n", err)
		os.Exit(1)
	}

	if err := run(cfg); err != nil {
		logging.L().Error("server failed", zap.Error(err))
		logging.L().Sync()
		os.Exit(1)
	}
}

func run(cfg config.Config) error {
	logger, err := logging.New(cfg.Log)
	if err != nil {
		return fmt.Errorf("build logger: %w", err)
	}
	logging.Set(logger)
	defer logger.Sync()

	if cfg.PID.Path != "" {
		pid, err := acquirePIDFile(cfg.PID.Path, cfg.PID.Lock)
		if err != nil {
			return fmt.Errorf("manage PID file: %w", err)
		}
		defer pid.Release()
		logger.Info("PID file created", zap.String("path", cfg.PID.Path), zap.Bool("lock", cfg.PID.Lock))
	}

	recorder, err := openRecorder(cfg, logger)
	if err != nil {
		return err
	}

	svc := service.New(recorder, logger, cfg.Wait.Timeout)

	rateLimit := 10
	if cfg.Dev {
		rateLimit = 20
	}
	app := http.NewFiberApp(svc, http.Options{RateLimit: rateLimit, Logger: logger})

	listenErr := make(chan error, 1)
	go func() {
		logger.Info("chess API server starting",
			zap.String("addr", "http://"+cfg.Addr()),
			zap.String("api_version", "v1"),
			zap.Int("rate_limit", rateLimit),
			zap.String("storage", svc.StorageHealth()),
			zap.Bool("dev", cfg.Dev),
		)
		listenErr <- app.Listen(cfg.Addr())
	}()

	// Wait for an interrupt signal to gracefully shut down
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)

	select {
	case sig := <-quit:
		logger.Info("shutting down", zap.Stringer("signal", sig))
	case err := <-listenErr:
		if err != nil {
			svc.Shutdown(gracefulShutdownTimeout)
			return fmt.Errorf("listen: %w", err)
		}
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), gracefulShutdownTimeout)
	defer shutdownCancel()

	// long-polls would hold the listener open, so they go first and the
	// recorder goes last
	if err := svc.ReleaseWaiters(gracefulShutdownTimeout); err != nil {
		logger.Warn("release waiters", zap.Error(err))
	}
	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		logger.Warn("server forced to shutdown", zap.Error(err))
	}
	if err := svc.Close(); err != nil {
		logger.Warn("close service", zap.Error(err))
	}

	logger.Info("server exited")
	return nil
}

// openRecorder returns the configured move log, or nil when recording is
// disabled
func openRecorder(cfg config.Config, logger *zap.Logger) (storage.Recorder, error) {
	switch {
	case cfg.Storage.Path != "":
		store, err := storage.NewStore(cfg.Storage.Path, cfg.Dev, logger)
		if err != nil {
			return nil, fmt.Errorf("initialize storage: %w", err)
		}
		if err := store.InitDB(); err != nil {
			store.Close()
			return nil, fmt.Errorf("initialize schema: %w", err)
		}
		logger.Info("recording games to sqlite", zap.String("path", cfg.Storage.Path))
		return store, nil

	case cfg.Redis.URL != "":
		store, err := storage.NewRedisStore(cfg.Redis.URL, cfg.Redis.TTL, logger)
		if err != nil {
			return nil, fmt.Errorf("initialize redis: %w", err)
		}
		logger.Info("recording games to redis", zap.Duration("ttl", cfg.Redis.TTL))
		return store, nil

	default:
		logger.Info("game recording disabled (use -storage-path or -redis-url to enable)")
		return nil, nil
	}
}
