package main

import (
	"context"

	"github.com/spf13/cobra"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Run database migrations",
}

var migrateUpCmd = &cobra.Command{
	Use:   "up",
	Short: "Apply all up migrations",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withStorage(cmd.Context(), func(ctx context.Context, s *storage) error {
			return s.migrate(ctx)
		})
	},
}

var migrateDownCmd = &cobra.Command{
	Use:   "down",
	Short: "Revert all migrations",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withStorage(cmd.Context(), func(ctx context.Context, s *storage) error {
			return s.rollback(ctx)
		})
	},
}

func init() {
	rootCmd.AddCommand(migrateCmd)
	migrateCmd.AddCommand(migrateUpCmd, migrateDownCmd)
}

func withStorage(ctx context.Context, fn func(context.Context, *storage) error) error {
	cfg, logger, err := setup()
	if err != nil {
		return err
	}

	s, err := openStorage(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer s.close()

	return fn(ctx, s)
}
