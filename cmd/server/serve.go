package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/spf13/cobra"

	"go-courses-api/internal/adapter/api/rest"
	"go-courses-api/internal/adapter/cache/noop"
	"go-courses-api/internal/adapter/cache/redis"
	"go-courses-api/internal/core/ports"
	"go-courses-api/internal/core/service"
	"go-courses-api/internal/observability"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Migrate the database and start the HTTP server",
	RunE: func(cmd *cobra.Command, args []string) error {
		return serve(cmd.Context())
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func serve(ctx context.Context) error {
	cfg, logger, err := setup()
	if err != nil {
		return err
	}

	// Init Tracing
	tpShutdown, err := observability.InitTracerProvider(ctx, serviceName, cfg.OtelExporterEndpoint)
	if err != nil {
		return fmt.Errorf("failed to init tracer: %w", err)
	}
	defer func() {
		if err := tpShutdown(context.Background()); err != nil {
			logger.Error("failed to shutdown tracer", "error", err)
		}
	}()

	// Init DB
	store, err := openStorage(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer store.close()

	// Run Migrations (Apply on Startup)
	if err := store.migrate(ctx); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	// Metrics: DB Stats Poller
	observability.StartDBStatsCollector(ctx, 5*time.Second, store.stats)

	// Init Cache
	var cache ports.Cache = noop.Cache{}
	if cfg.RedisAddr != "" {
		redisAdapter := redis.NewAdapter(cfg.RedisAddr, cfg.CacheTTL)
		defer redisAdapter.Close()
		if err := redisAdapter.Ping(ctx); err != nil {
			logger.Warn("redis unreachable, reads will fall back to the database", "addr", cfg.RedisAddr, "error", err)
		}
		cache = redisAdapter
	} else {
		logger.Info("REDIS_ADDR not set, course cache disabled")
	}
	// Wrap with metrics
	cache = observability.NewInstrumentedCache(cache)

	// Service Init
	authSvc := service.NewAuthService(store.users, cfg.BcryptCost)
	courseSvc := service.NewCourseService(store.courses, cache, logger)

	// Init Router
	router := rest.NewRouter(
		rest.NewUserHandler(authSvc, logger),
		rest.NewCourseHandler(courseSvc, logger),
		courseSvc,
		rest.BasicAuth(authSvc, logger),
		logger,
		rest.RequestID, rest.Logger(logger), observability.Middleware, rest.Recoverer(logger),
	)

	mux := http.NewServeMux()
	mux.Handle("GET /metrics", observability.Handler())
	mux.Handle("/", router)

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errC := make(chan error, 1)
	go func() {
		logger.Info("Starting server", "addr", srv.Addr, "env", cfg.AppEnv)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errC <- err
		}
		close(errC)
	}()

	// Graceful Shutdown
	select {
	case err := <-errC:
		return fmt.Errorf("server failed: %w", err)
	case <-ctx.Done():
	}
	logger.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Server forced to shutdown", "error", err)
	}

	logger.Info("Server exited")
	return nil
}
