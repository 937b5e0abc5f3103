package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/iwvelando/immo-invest/internal/auth"
	"github.com/iwvelando/immo-invest/internal/config"
	"github.com/iwvelando/immo-invest/internal/marketdata"
	"github.com/iwvelando/immo-invest/internal/portfolio"
	"github.com/iwvelando/immo-invest/internal/server"
	"github.com/iwvelando/immo-invest/pkg/constants"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

// version is set at build time with -ldflags "-X main.version=...".
var version = "dev"

const shutdownTimeout = 10 * time.Second

func main() {
	configLocation := flag.String("config", constants.DefaultServerConfigFile, "path to server configuration file")
	envFile := flag.String("env-file", ".env", "optional file with environment variables")
	logLevel := flag.String("log-level", "", "log level override (debug, info, warn, error)")
	maxBodySize := flag.String("max-body-size", "", "request body limit override (e.g. 512K, 1M)")
	flag.Parse()

	if err := godotenv.Load(*envFile); err != nil && !errors.Is(err, os.ErrNotExist) {
		fmt.Printf("{\"op\": \"main\", \"level\": \"fatal\", \"msg\": \"failed to load %s\", \"error\": \"%v\"}\n", *envFile, err)
		return
	}

	cfg, err := server.LoadConfig(*configLocation)
	if err != nil {
		fmt.Printf("{\"op\": \"main\", \"level\": \"fatal\", \"msg\": \"failed to load configuration at %s\", \"error\": \"%v\"}\n", *configLocation, err)
		return
	}
	cfg.ApplyEnv()
	if *maxBodySize != "" {
		size, err := server.ParseSize(*maxBodySize)
		if err != nil {
			fmt.Printf("{\"op\": \"main\", \"level\": \"fatal\", \"msg\": \"invalid max-body-size %s\", \"error\": \"%v\"}\n", *maxBodySize, err)
			return
		}
		cfg.SetBodySizeBytes(size)
	}

	logger, err := config.NewLogger(cfg.Logging, *logLevel)
	if err != nil {
		fmt.Printf("{\"op\": \"main\", \"level\": \"fatal\", \"msg\": \"failed to initialize logger\", \"error\": \"%v\"}\n", err)
		return
	}
	defer func() {
		_ = logger.Sync()
	}()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	deps, cleanup, err := buildDependencies(ctx, logger, cfg)
	if err != nil {
		logger.Fatal("failed to set up storage",
			zap.String("op", "main"),
			zap.Error(err),
		)
	}
	defer cleanup()

	srv := &http.Server{
		Addr:              cfg.Address,
		Handler:           server.NewHandler(logger, cfg.BodySizeBytes(), version, deps),
		ReadHeaderTimeout: 10 * time.Second,
	}

	serverErrors := make(chan error, 1)
	go func() {
		logger.Info(fmt.Sprintf("listening on %s", cfg.Address),
			zap.String("op", "main"),
			zap.String("version", version),
		)
		serverErrors <- srv.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server failed",
				zap.String("op", "main"),
				zap.Error(err),
			)
		}
	case <-ctx.Done():
		logger.Info("shutting down",
			zap.String("op", "main"),
		)
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error("graceful shutdown failed",
				zap.String("op", "main"),
				zap.Error(err),
			)
		}
	}
}

// buildDependencies selects the storage backends: Postgres for portfolios
// when a database URL is set, Redis for sessions when an address is set and
// files below the data directory otherwise.
func buildDependencies(ctx context.Context, logger *zap.Logger, cfg *server.Config) (server.Dependencies, func(), error) {
	var closers []func()
	cleanup := func() {
		for i := len(closers) - 1; i >= 0; i-- {
			closers[i]()
		}
	}

	users, err := auth.NewUserStore(filepath.Join(cfg.DataDir, "users.json"))
	if err != nil {
		return server.Dependencies{}, cleanup, err
	}

	var store portfolio.Store
	if cfg.DatabaseURL != "" {
		pool, err := portfolio.Connect(ctx, cfg.DatabaseURL)
		if err != nil {
			return server.Dependencies{}, cleanup, err
		}
		closers = append(closers, pool.Close)
		if store, err = portfolio.NewPostgresStore(ctx, pool); err != nil {
			return server.Dependencies{}, cleanup, err
		}
		logger.Info("portfolios stored in postgres", zap.String("op", "main.buildDependencies"))
	} else {
		if store, err = portfolio.NewFileStore(filepath.Join(cfg.DataDir, "portfolios")); err != nil {
			return server.Dependencies{}, cleanup, err
		}
		logger.Info(fmt.Sprintf("portfolios stored in %s", cfg.DataDir), zap.String("op", "main.buildDependencies"))
	}

	var sessions auth.SessionStore
	if cfg.RedisAddr != "" {
		client, err := auth.NewRedisClient(ctx, cfg.RedisAddr)
		if err != nil {
			return server.Dependencies{}, cleanup, err
		}
		closers = append(closers, func() { _ = client.Close() })
		sessions = auth.NewRedisSessionStore(client, cfg.SessionLifetime())
		logger.Info(fmt.Sprintf("sessions stored in redis at %s", cfg.RedisAddr), zap.String("op", "main.buildDependencies"))
	} else {
		sessions = auth.NewMemorySessionStore(cfg.SessionLifetime())
	}

	return server.Dependencies{
		Users:          users,
		Sessions:       sessions,
		Portfolio:      portfolio.NewService(logger, store),
		Market:         marketdata.NewProvider(logger, cfg.MarketDataLatency()),
		AllowedOrigins: cfg.AllowedOrigins,
		SecureCookies:  cfg.SecureCookies,
	}, cleanup, nil
}
