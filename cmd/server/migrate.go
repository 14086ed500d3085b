package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/kiranshivaraju/mediagate/internal/config"
	"github.com/kiranshivaraju/mediagate/internal/logging"
	"github.com/kiranshivaraju/mediagate/internal/store"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply pending database migrations and exit",
	Args:  cobra.NoArgs,
	RunE:  runMigrate,
}

func runMigrate(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	logger := logging.New(cfg.Server.Env)

	if err := store.RunMigrations(cfg.Database.URL); err != nil {
		return fmt.Errorf("run migrations: %w", err)
	}
	logger.Info().Msg("database migrations applied")
	return nil
}
