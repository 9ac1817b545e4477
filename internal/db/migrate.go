// Package db provides database opening and schema migration.
//
// Migrations are run with goose (github.com/pressly/goose/v3) from SQL files
// embedded per dialect in internal/db/migrations. Up/down sections live in
// the same file (-- +goose Up / -- +goose Down).
package db

import (
	"context"
	"database/sql"
	"fmt"
	"io/fs"

	_ "github.com/jackc/pgx/v5/stdlib" // register pgx as database/sql driver
	"github.com/pressly/goose/v3"
	"github.com/sirupsen/logrus"

	"github.com/persistorai/listings/internal/db/migrations"
	"github.com/persistorai/listings/internal/dbpool"
)

// Migrate applies all pending migrations for dialect to sqlDB.
func Migrate(ctx context.Context, sqlDB *sql.DB, dialect goose.Dialect, log *logrus.Logger) error {
	fsys, err := migrationsFor(dialect)
	if err != nil {
		return err
	}

	return RunMigrations(ctx, sqlDB, dialect, log, fsys)
}

// MigratePostgres applies the PostgreSQL migrations through a database/sql
// handle opened on the pool's connection string.
func MigratePostgres(ctx context.Context, pool *dbpool.Pool, log *logrus.Logger) error {
	// goose requires a *sql.DB, so wrap the pool's DSN via the pgx stdlib driver.
	sqlDB, err := sql.Open("pgx", pool.ConnString())
	if err != nil {
		return fmt.Errorf("opening sql.DB for migrations: %w", err)
	}
	defer sqlDB.Close()

	return Migrate(ctx, sqlDB, goose.DialectPostgres, log)
}

// RunMigrations applies all pending migrations from the provided filesystem.
// The fsys should contain goose-annotated SQL files (e.g. "001_properties.sql").
func RunMigrations(ctx context.Context, sqlDB *sql.DB, dialect goose.Dialect, log *logrus.Logger, fsys fs.FS) error {
	provider, err := goose.NewProvider(dialect, sqlDB, fsys)
	if err != nil {
		return fmt.Errorf("creating goose provider: %w", err)
	}

	results, err := provider.Up(ctx)
	if err != nil {
		return fmt.Errorf("applying migrations: %w", err)
	}

	for _, r := range results {
		if r.Error != nil {
			return fmt.Errorf("migration %d (%s) failed: %w", r.Source.Version, r.Source.Path, r.Error)
		}

		log.WithFields(logrus.Fields{
			"dialect":  dialect,
			"version":  r.Source.Version,
			"file":     r.Source.Path,
			"duration": r.Duration,
		}).Info("migration applied")
	}

	if len(results) == 0 {
		log.Debug("all migrations already applied")
	}

	return nil
}

func migrationsFor(dialect goose.Dialect) (fs.FS, error) {
	switch dialect {
	case goose.DialectPostgres:
		return migrations.Postgres(), nil
	case goose.DialectSQLite3:
		return migrations.SQLite(), nil
	default:
		return nil, fmt.Errorf("unsupported migration dialect %q", dialect)
	}
}
