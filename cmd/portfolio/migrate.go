package main

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/pressly/goose/v3"
	"github.com/spf13/cobra"

	"github.com/jonathan/portfolio/internal/db"
	"github.com/jonathan/portfolio/internal/observability"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Manage the database schema",
}

var migrateUpCmd = &cobra.Command{
	Use:   "up",
	Short: "Apply every pending migration",
	RunE: func(cmd *cobra.Command, _ []string) error {
		url, err := databaseURL()
		if err != nil {
			return err
		}
		results, err := db.Migrate(cmd.Context(), url)
		rows := make([]observability.MigrationRow, 0, len(results))
		for _, r := range results {
			rows = append(rows, resultRow(r))
		}
		observability.NewPrinter(cmd.OutOrStdout()).PrintMigrations("MIGRATIONS APPLIED", rows)
		return err
	},
}

var migrateDownCmd = &cobra.Command{
	Use:   "down",
	Short: "Roll back the most recent migration",
	RunE: func(cmd *cobra.Command, _ []string) error {
		url, err := databaseURL()
		if err != nil {
			return err
		}
		result, err := db.MigrateDown(cmd.Context(), url)
		if result != nil {
			row := resultRow(result)
			row.Applied = false
			observability.NewPrinter(cmd.OutOrStdout()).PrintMigrations("MIGRATION ROLLED BACK", []observability.MigrationRow{row})
		}
		return err
	},
}

var migrateStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show which migrations are applied",
	RunE: func(cmd *cobra.Command, _ []string) error {
		url, err := databaseURL()
		if err != nil {
			return err
		}
		status, err := db.MigrationStatus(cmd.Context(), url)
		if err != nil {
			return err
		}
		rows := make([]observability.MigrationRow, 0, len(status))
		for _, s := range status {
			rows = append(rows, observability.MigrationRow{
				Version:   s.Source.Version,
				Name:      migrationName(s.Source.Path),
				Applied:   s.State == goose.StateApplied,
				AppliedAt: s.AppliedAt,
			})
		}
		observability.NewPrinter(cmd.OutOrStdout()).PrintMigrations("MIGRATION STATUS", rows)
		return nil
	},
}

func init() {
	migrateCmd.AddCommand(migrateUpCmd, migrateDownCmd, migrateStatusCmd)
	rootCmd.AddCommand(migrateCmd)
}

func databaseURL() (string, error) {
	if appConfig.Database.URL == "" {
		return "", fmt.Errorf("DATABASE_URL is required")
	}
	return appConfig.Database.URL, nil
}

func resultRow(r *goose.MigrationResult) observability.MigrationRow {
	row := observability.MigrationRow{Applied: r.Error == nil}
	if r.Source != nil {
		row.Version = r.Source.Version
		row.Name = migrationName(r.Source.Path)
	}
	return row
}

// migrationName strips the version prefix and extension from a migration
// file name.
func migrationName(path string) string {
	name := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	if _, rest, ok := strings.Cut(name, "_"); ok {
		return rest
	}
	return name
}
