package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"github.com/spf13/cobra"

	"github.com/MaxwellOliveira01/cp-quest-chronicles-sub000/db"
)

const migrateTimeout = 2 * time.Minute

func runMigrate(cmd *cobra.Command, _ []string) error {
	cfg, logger, err := setup()
	if err != nil {
		return err
	}

	dbConn, err := db.Connect(cfg.DatabaseURL, 5*time.Second)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer dbConn.Close()

	return migrate(cmd.Context(), dbConn, logger)
}

func migrate(ctx context.Context, dbConn *sql.DB, logger *slog.Logger) error {
	ctx, cancel := context.WithTimeout(ctx, migrateTimeout)
	defer cancel()

	applied, err := db.Migrate(ctx, dbConn, logger)
	if err != nil {
		return fmt.Errorf("failed to apply migrations: %w", err)
	}
	logger.Info("migrations complete", slog.Int("applied", len(applied)), slog.Any("versions", applied))
	return nil
}
