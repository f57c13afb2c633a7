package main

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go-courses-api/internal/config"
	"go-courses-api/internal/core/domain/users"
)

func TestOpenStorage_SQLite(t *testing.T) {
	ctx := context.Background()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	s, err := openStorage(ctx, config.Config{DatabaseURL: "sqlite://:memory:"}, logger)
	require.NoError(t, err)
	defer s.close()

	require.NoError(t, s.migrate(ctx))

	saved, err := s.users.Save(ctx, users.User{FirstName: "Joe", LastName: "Smith", EmailAddress: "joe@x.com", PasswordHash: "h"})
	require.NoError(t, err)
	assert.NotZero(t, saved.ID)
	assert.NoError(t, s.courses.Ping(ctx))
	assert.Equal(t, 1, s.stats().Total)

	require.NoError(t, s.rollback(ctx))
}

func TestOpenStorage_UnknownScheme(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	_, err := openStorage(context.Background(), config.Config{DatabaseURL: "mysql://x"}, logger)
	assert.Error(t, err)
}
