package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"

	"cardpark/internal/app"
	"cardpark/internal/config"
	"cardpark/internal/directory"
	"cardpark/internal/health"
	"cardpark/internal/http/handler"
	"cardpark/internal/http/middleware"
	"cardpark/internal/http/router"
	"cardpark/internal/lifecycle"
	"cardpark/internal/observability"
	"cardpark/internal/session"
)

func newServeCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return serve()
		},
	}
}

func serve() error {
	ctx, stopSignals := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stopSignals()

	cfg, err := config.Load(ctx)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	logger, loggerProvider, err := observability.InitLogging(ctx, cfg)
	if err != nil {
		return fmt.Errorf("init logging: %w", err)
	}
	slog.SetDefault(logger)

	runtime, err := observability.InitRuntime(ctx, cfg, logger, loggerProvider)
	if err != nil {
		return fmt.Errorf("init observability: %w", err)
	}

	dir, checkers, err := buildDirectory(cfg)
	if err != nil {
		return err
	}

	var sessions session.Store
	var negCache directory.NegativeCache
	if cfg.RedisAddr != "" {
		client := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
		sessions = session.NewRedisStore(client, "")
		negCache = directory.NewRedisNegativeCache(client, "")
		checkers = append(checkers, health.NewRedisChecker(client))
	} else {
		sessions = session.NewMemoryStore()
		negCache = directory.NewMemoryNegativeCache()
		logger.Warn("redis not configured, sessions are process local")
	}
	dir = directory.NewCachedClient(dir, negCache, 30*time.Second)

	engine := lifecycle.NewEngine(dir, sessions, cfg.SessionTTL)
	h := handler.New(engine, sessions, cfg.SessionTTL)
	deviceTokens := middleware.NewDeviceTokenManager(cfg.SessionSecret, cfg.SessionTTL)
	readiness := health.NewProbeRunner(10*time.Second, 2*time.Second, checkers...)

	mux := router.NewRouter(router.Dependencies{
		Handler:           h,
		DeviceTokens:      deviceTokens,
		CORSOrigins:       cfg.CORSOrigins,
		APIRateLimitRPM:   cfg.APIRateLimitRPM,
		ClaimRateLimitRPM: cfg.ClaimRateLimitRPM,
		Readiness:         readiness,
		EnableOTelHTTP:    cfg.OTELTracesEnabled || cfg.OTELMetricsEnabled,
	})

	server := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	a := app.New(cfg, logger, server, runtime, readiness, stopSignals)
	logger.Info("starting cardpark",
		"profile", cfg.Profile,
		"directory_backend", cfg.DirectoryBackend,
		"session_store", sessionStoreName(cfg),
	)
	return a.Run(ctx)
}

func buildDirectory(cfg *config.Config) (directory.Client, []health.Checker, error) {
	switch cfg.DirectoryBackend {
	case config.BackendREST:
		d := directory.NewRESTDirectory(cfg.DirectoryEndpoint, cfg.DirectoryAPIKey, cfg.DirectoryTimeout,
			directory.WithTable(cfg.DirectoryTable))
		check := health.PingFunc{Name: "directory", Fn: func(ctx context.Context) error {
			_, err := d.Get(ctx, "ZZZZZ")
			if err == directory.ErrCodeNotFound {
				return nil
			}
			return err
		}}
		return d, []health.Checker{check}, nil
	case config.BackendSQLite, config.BackendPostgres:
		db, err := directory.OpenGorm(cfg.DirectoryBackend, cfg.DirectoryDSN)
		if err != nil {
			return nil, nil, fmt.Errorf("open directory: %w", err)
		}
		return directory.NewGormDirectory(db), []health.Checker{health.NewGormChecker(db)}, nil
	default:
		return nil, nil, fmt.Errorf("unknown directory backend %q", cfg.DirectoryBackend)
	}
}

func sessionStoreName(cfg *config.Config) string {
	if cfg.RedisAddr != "" {
		return "redis"
	}
	return "memory"
}
