package main

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5/pgxpool"

	"go-courses-api/internal/adapter/storage/postgres"
	"go-courses-api/internal/adapter/storage/sqlite"
	"go-courses-api/internal/config"
	"go-courses-api/internal/core/ports"
	"go-courses-api/internal/observability"
)

// storage bundles the repositories of whichever engine DATABASE_URL names.
type storage struct {
	users    ports.UserRepository
	courses  ports.CourseRepository
	stats    func() observability.DBStats
	migrate  func(ctx context.Context) error
	rollback func(ctx context.Context) error
	close    func()
}

func openStorage(ctx context.Context, cfg config.Config, logger *slog.Logger) (*storage, error) {
	engine, dsn, err := cfg.Storage()
	if err != nil {
		return nil, err
	}

	switch engine {
	case config.EnginePostgres:
		pool, err := pgxpool.New(ctx, dsn)
		if err != nil {
			return nil, fmt.Errorf("unable to connect to database: %w", err)
		}
		return &storage{
			users:    postgres.NewUserRepository(pool),
			courses:  postgres.NewCourseRepository(pool),
			stats:    observability.PgxPoolStats(pool),
			migrate:  func(ctx context.Context) error { return postgres.RunMigrations(ctx, pool, logger) },
			rollback: func(ctx context.Context) error { return postgres.RollbackMigrations(ctx, pool, logger) },
			close:    pool.Close,
		}, nil

	default:
		db, err := sqlite.Open(dsn)
		if err != nil {
			return nil, err
		}
		return &storage{
			users:    sqlite.NewUserRepository(db),
			courses:  sqlite.NewCourseRepository(db),
			stats:    observability.SQLDBStats(db),
			migrate:  func(ctx context.Context) error { return sqlite.RunMigrations(ctx, db, logger) },
			rollback: func(ctx context.Context) error { return sqlite.RollbackMigrations(ctx, db, logger) },
			close: func() {
				if err := db.Close(); err != nil {
					logger.Error("failed to close database", "error", err)
				}
			},
		}, nil
	}
}
