package db

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"io/fs"

	_ "github.com/jackc/pgx/v5/stdlib" // pgx driver for database/sql
	"github.com/pressly/goose/v3"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// Migrations returns the embedded schema migrations.
func Migrations() fs.FS {
	sub, err := fs.Sub(migrationsFS, "migrations")
	if err != nil {
		panic(err)
	}
	return sub
}

// openProvider opens a database/sql handle (goose requires *sql.DB) and a
// goose provider over the embedded migrations. Closing the provider closes
// the handle.
func openProvider(ctx context.Context, databaseURL string) (*goose.Provider, error) {
	sqlDB, err := sql.Open("pgx", databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if err := sqlDB.PingContext(ctx); err != nil {
		sqlDB.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}
	provider, err := goose.NewProvider(goose.DialectPostgres, sqlDB, Migrations())
	if err != nil {
		sqlDB.Close()
		return nil, fmt.Errorf("failed to create migration provider: %w", err)
	}
	return provider, nil
}

// Migrate applies every pending migration.
func Migrate(ctx context.Context, databaseURL string) ([]*goose.MigrationResult, error) {
	provider, err := openProvider(ctx, databaseURL)
	if err != nil {
		return nil, err
	}
	defer provider.Close()

	results, err := provider.Up(ctx)
	if err != nil {
		return results, fmt.Errorf("failed to apply migrations: %w", err)
	}
	return results, nil
}

// MigrateDown rolls back the most recent migration.
func MigrateDown(ctx context.Context, databaseURL string) (*goose.MigrationResult, error) {
	provider, err := openProvider(ctx, databaseURL)
	if err != nil {
		return nil, err
	}
	defer provider.Close()

	result, err := provider.Down(ctx)
	if err != nil {
		return result, fmt.Errorf("failed to roll back migration: %w", err)
	}
	return result, nil
}

// MigrationStatus reports every known migration and whether it is applied.
func MigrationStatus(ctx context.Context, databaseURL string) ([]*goose.MigrationStatus, error) {
	provider, err := openProvider(ctx, databaseURL)
	if err != nil {
		return nil, err
	}
	defer provider.Close()

	status, err := provider.Status(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to read migration status: %w", err)
	}
	return status, nil
}
