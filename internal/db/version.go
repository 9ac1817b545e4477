package db

import (
	"io/fs"

	"github.com/pressly/goose/v3"
)

// SchemaVersion returns the number of embedded SQL migration files for
// dialect, which equals the schema version once migrations have run.
func SchemaVersion(dialect goose.Dialect) int {
	fsys, err := migrationsFor(dialect)
	if err != nil {
		return 0
	}

	matches, err := fs.Glob(fsys, "*.sql")
	if err != nil {
		return 0
	}

	return len(matches)
}
