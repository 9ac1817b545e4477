package db

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "github.com/mattn/go-sqlite3" // register sqlite3 as database/sql driver
)

// sqliteParams are applied to every pooled connection. _txlock=immediate
// makes every BEGIN take the write lock so concurrent updates queue on
// busy_timeout instead of failing at commit.
const sqliteParams = "_foreign_keys=on&_journal_mode=WAL&_busy_timeout=5000&_txlock=immediate"

// OpenSQLite opens (or creates) a SQLite database at path.
func OpenSQLite(path string) (*sql.DB, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("creating database directory %s: %w", dir, err)
		}
	}

	sqlDB, err := sql.Open("sqlite3", fmt.Sprintf("file:%s?%s", path, sqliteParams))
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	if err := sqlDB.Ping(); err != nil {
		if closeErr := sqlDB.Close(); closeErr != nil {
			return nil, fmt.Errorf("pinging database: %w (also failed to close: %v)", err, closeErr)
		}

		return nil, fmt.Errorf("pinging database: %w", err)
	}

	return sqlDB, nil
}
