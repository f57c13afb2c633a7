package postgres

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"sync"
	"testing"
	"time"

	"go-courses-api/internal/core/domain/courses"
	"go-courses-api/internal/core/domain/users"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
)

func setupTestDB(t *testing.T) (*pgxpool.Pool, func()) {
	ctx := context.Background()
	pgContainer, err := postgres.Run(ctx,
		"postgres:16-alpine",
		postgres.WithDatabase("testdb"),
		postgres.WithUsername("user"),
		postgres.WithPassword("password"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(10*time.Second)),
	)
	if err != nil {
		t.Fatalf("failed to start postgres: %v", err)
	}

	connStr, err := pgContainer.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		t.Fatalf("failed to get connection string: %v", err)
	}

	dbPool, err := pgxpool.New(ctx, connStr)
	if err != nil {
		t.Fatalf("failed to connect to postgres: %v", err)
	}

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	if err := RunMigrations(ctx, dbPool, logger); err != nil {
		t.Fatalf("failed to migrate: %v", err)
	}

	cleanup := func() {
		dbPool.Close()
		if err := pgContainer.Terminate(ctx); err != nil {
			t.Logf("failed to terminate postgres: %v", err)
		}
	}

	return dbPool, cleanup
}

func seedUser(t *testing.T, repo *UserRepository, email string) users.User {
	t.Helper()
	u, err := repo.Save(context.Background(), users.User{
		FirstName:    "Joe",
		LastName:     "Smith",
		EmailAddress: email,
		PasswordHash: "hash",
	})
	require.NoError(t, err)
	return u
}

func strPtr(s string) *string { return &s }

func TestRepositories(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	dbPool, cleanup := setupTestDB(t)
	defer cleanup()

	userRepo := NewUserRepository(dbPool)
	courseRepo := NewCourseRepository(dbPool)
	ctx := context.Background()

	t.Run("users", func(t *testing.T) {
		joe := seedUser(t, userRepo, "joe@smith.com")
		assert.NotZero(t, joe.ID)
		assert.False(t, joe.CreatedAt.IsZero())

		found, err := userRepo.FindByEmail(ctx, "joe@smith.com")
		require.NoError(t, err)
		assert.Equal(t, joe.ID, found.ID)
		assert.Equal(t, "hash", found.PasswordHash)

		_, err = userRepo.Save(ctx, users.User{FirstName: "A", LastName: "B", EmailAddress: "joe@smith.com", PasswordHash: "x"})
		assert.ErrorIs(t, err, users.ErrEmailInUse)

		_, err = userRepo.FindByEmail(ctx, "nobody@example.com")
		assert.ErrorIs(t, err, users.ErrNotFound)
	})

	t.Run("course lifecycle", func(t *testing.T) {
		owner := seedUser(t, userRepo, "owner@example.com")

		created, err := courseRepo.Save(ctx, courses.Course{
			Title:         "Build a Basic Bookcase",
			Description:   "High-end furniture projects are great.",
			EstimatedTime: strPtr("12 hours"),
			UserID:        owner.ID,
		})
		require.NoError(t, err)
		assert.NotZero(t, created.ID)
		assert.Equal(t, owner.ID, created.Owner.ID)
		assert.Equal(t, "owner@example.com", created.Owner.EmailAddress)
		assert.Nil(t, created.MaterialsNeeded)

		created.Title = "New Title"
		created.EstimatedTime = nil
		require.NoError(t, courseRepo.Update(ctx, created))

		got, err := courseRepo.FindByID(ctx, created.ID)
		require.NoError(t, err)
		assert.Equal(t, "New Title", got.Title)
		assert.Nil(t, got.EstimatedTime)

		require.NoError(t, courseRepo.Delete(ctx, created.ID))
		_, err = courseRepo.FindByID(ctx, created.ID)
		assert.ErrorIs(t, err, courses.ErrNotFound)

		assert.ErrorIs(t, courseRepo.Delete(ctx, created.ID), courses.ErrNotFound)
		assert.ErrorIs(t, courseRepo.Update(ctx, created), courses.ErrNotFound)
	})

	t.Run("text columns have no length cap", func(t *testing.T) {
		long := strings.Repeat("x", 300)
		owner, err := userRepo.Save(ctx, users.User{
			FirstName:    long,
			LastName:     long,
			EmailAddress: strings.Repeat("e", 250) + "@example.com",
			PasswordHash: "hash",
		})
		require.NoError(t, err)

		created, err := courseRepo.Save(ctx, courses.Course{
			Title:           long,
			Description:     long,
			EstimatedTime:   strPtr(long),
			MaterialsNeeded: strPtr(long),
			UserID:          owner.ID,
		})
		require.NoError(t, err)

		got, err := courseRepo.FindByID(ctx, created.ID)
		require.NoError(t, err)
		assert.Equal(t, long, got.Title)
		assert.Equal(t, long, *got.EstimatedTime)
		assert.Equal(t, long, *got.MaterialsNeeded)
		assert.Equal(t, long, got.Owner.FirstName)
	})

	t.Run("FindAll orders by id and paginates", func(t *testing.T) {
		owner := seedUser(t, userRepo, "lister@example.com")
		var ids []int64
		for i := 0; i < 5; i++ {
			c, err := courseRepo.Save(ctx, courses.Course{
				Title:       fmt.Sprintf("Course %d", i),
				Description: "desc",
				UserID:      owner.ID,
			})
			require.NoError(t, err)
			ids = append(ids, c.ID)
		}

		seq, err := courseRepo.FindAll(ctx, 0, 0)
		require.NoError(t, err)
		var all []int64
		for c, err := range seq {
			require.NoError(t, err)
			all = append(all, c.ID)
		}
		assert.IsIncreasing(t, all)
		assert.Subset(t, all, ids)

		seq, err = courseRepo.FindAll(ctx, 2, 1)
		require.NoError(t, err)
		var page []int64
		for c, err := range seq {
			require.NoError(t, err)
			page = append(page, c.ID)
		}
		assert.Equal(t, all[1:3], page)
	})

	t.Run("deleting a user cascades to their courses", func(t *testing.T) {
		owner := seedUser(t, userRepo, "cascade@example.com")
		c, err := courseRepo.Save(ctx, courses.Course{Title: "T", Description: "D", UserID: owner.ID})
		require.NoError(t, err)

		_, err = dbPool.Exec(ctx, "DELETE FROM users WHERE id = $1", owner.ID)
		require.NoError(t, err)

		_, err = courseRepo.FindByID(ctx, c.ID)
		assert.ErrorIs(t, err, courses.ErrNotFound)
	})

	t.Run("concurrent saves", func(t *testing.T) {
		owner := seedUser(t, userRepo, "concurrent@example.com")
		const numGoroutines = 50
		var wg sync.WaitGroup
		wg.Add(numGoroutines)

		for i := 0; i < numGoroutines; i++ {
			go func(idx int) {
				defer wg.Done()
				_, err := courseRepo.Save(ctx, courses.Course{
					Title:       fmt.Sprintf("Course %d", idx),
					Description: "concurrent",
					UserID:      owner.ID,
				})
				if err != nil {
					t.Errorf("failed to save course %d: %v", idx, err)
				}
			}(i)
		}
		wg.Wait()

		var count int
		err := dbPool.QueryRow(ctx, "SELECT count(*) FROM courses WHERE user_id = $1", owner.ID).Scan(&count)
		require.NoError(t, err)
		assert.Equal(t, numGoroutines, count)
	})

	t.Run("migrations are idempotent", func(t *testing.T) {
		logger := slog.New(slog.NewTextHandler(io.Discard, nil))
		assert.NoError(t, RunMigrations(ctx, dbPool, logger))
	})

	t.Run("ping", func(t *testing.T) {
		assert.NoError(t, courseRepo.Ping(ctx))
	})
}
