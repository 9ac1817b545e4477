package db_test

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/pressly/goose/v3"
	"github.com/sirupsen/logrus"

	"github.com/persistorai/listings/internal/db"
)

func testLogger() *logrus.Logger {
	log := logrus.New()
	log.SetLevel(logrus.ErrorLevel)

	return log
}

func TestOpenSQLite_CreatesDirectory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "dir", "listings.db")

	sqlDB, err := db.OpenSQLite(path)
	if err != nil {
		t.Fatalf("OpenSQLite: %v", err)
	}
	defer sqlDB.Close()

	var fk int
	if err := sqlDB.QueryRow("PRAGMA foreign_keys").Scan(&fk); err != nil {
		t.Fatalf("reading foreign_keys pragma: %v", err)
	}
	if fk != 1 {
		t.Errorf("expected foreign_keys=1, got %d", fk)
	}

	var mode string
	if err := sqlDB.QueryRow("PRAGMA journal_mode").Scan(&mode); err != nil {
		t.Fatalf("reading journal_mode pragma: %v", err)
	}
	if mode != "wal" {
		t.Errorf("expected journal_mode wal, got %q", mode)
	}
}

func TestMigrate_SQLite(t *testing.T) {
	ctx := context.Background()

	sqlDB, err := db.OpenSQLite(filepath.Join(t.TempDir(), "listings.db"))
	if err != nil {
		t.Fatalf("OpenSQLite: %v", err)
	}
	defer sqlDB.Close()

	if err := db.Migrate(ctx, sqlDB, goose.DialectSQLite3, testLogger()); err != nil {
		t.Fatalf("Migrate: %v", err)
	}

	// Idempotent on a migrated database.
	if err := db.Migrate(ctx, sqlDB, goose.DialectSQLite3, testLogger()); err != nil {
		t.Fatalf("second Migrate: %v", err)
	}

	for _, table := range []string{"properties", "property_change_logs"} {
		var name string
		err := sqlDB.QueryRow("SELECT name FROM sqlite_master WHERE type='table' AND name=?", table).Scan(&name)
		if err != nil {
			t.Errorf("expected table %s: %v", table, err)
		}
	}

	var idx string
	err = sqlDB.QueryRow("SELECT name FROM sqlite_master WHERE type='index' AND tbl_name='property_change_logs'").Scan(&idx)
	if err != nil {
		t.Errorf("expected index on property_change_logs: %v", err)
	}
}

func TestMigrate_ForeignKeyEnforced(t *testing.T) {
	ctx := context.Background()

	sqlDB, err := db.OpenSQLite(filepath.Join(t.TempDir(), "listings.db"))
	if err != nil {
		t.Fatalf("OpenSQLite: %v", err)
	}
	defer sqlDB.Close()

	if err := db.Migrate(ctx, sqlDB, goose.DialectSQLite3, testLogger()); err != nil {
		t.Fatalf("Migrate: %v", err)
	}

	_, err = sqlDB.Exec(`INSERT INTO property_change_logs (property_id, changed_field, old_value, new_value) VALUES (999, 'price', '1', '2')`)
	if err == nil {
		t.Error("expected foreign key violation for unknown property")
	}
}

func TestSchemaVersion(t *testing.T) {
	if got := db.SchemaVersion(goose.DialectSQLite3); got != 2 {
		t.Errorf("expected sqlite schema version 2, got %d", got)
	}
	if got := db.SchemaVersion(goose.DialectPostgres); got != 2 {
		t.Errorf("expected postgres schema version 2, got %d", got)
	}
	if got := db.SchemaVersion(goose.DialectMySQL); got != 0 {
		t.Errorf("expected unsupported dialect version 0, got %d", got)
	}
}
