package main

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/Veraticus/la-lenera/internal/cli"
	"github.com/Veraticus/la-lenera/internal/storage"
)

func migrateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Run database migrations",
		Long: `Initialize or update the local database schema to the latest version.

The database keeps the order cooldown between runs of the interactive flow.`,
		RunE: runMigrate,
	}

	cmd.Flags().Bool("status", false, "Show current migration status without applying changes")

	return cmd
}

func runMigrate(cmd *cobra.Command, _ []string) error {
	status, _ := cmd.Flags().GetBool("status")
	out := cmd.OutOrStdout()

	_, site, err := loadSite()
	if err != nil {
		return err
	}

	slog.Info("Starting database migration",
		"database", site.DatabasePath,
		"status_only", status)

	store, err := storage.NewSQLiteStorage(site.DatabasePath)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer func() { _ = store.Close() }()

	ctx := cmd.Context()
	before, err := store.SchemaVersion(ctx)
	if err != nil {
		return err
	}

	if status {
		fmt.Fprintf(out, "Schema version: %d (latest %d)\n", before, storage.ExpectedSchemaVersion)
		return nil
	}

	if err := store.Migrate(ctx); err != nil {
		return fmt.Errorf("migration failed: %w", err)
	}
	after, err := store.SchemaVersion(ctx)
	if err != nil {
		return err
	}

	if after == before {
		fmt.Fprintln(out, cli.FormatInfo(fmt.Sprintf("Database already at version %d", after)))
		return nil
	}
	fmt.Fprintln(out, cli.FormatSuccess(fmt.Sprintf("Migrated database from version %d to %d", before, after)))
	return nil
}
