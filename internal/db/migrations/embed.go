// Package migrations embeds the SQL migration files for each supported dialect.
package migrations

import (
	"embed"
	"io/fs"
)

//go:embed postgres/*.sql sqlite/*.sql
var files embed.FS

// Postgres returns the PostgreSQL migrations rooted at the dialect directory.
func Postgres() fs.FS { return sub("postgres") }

// SQLite returns the SQLite migrations rooted at the dialect directory.
func SQLite() fs.FS { return sub("sqlite") }

func sub(dir string) fs.FS {
	fsys, err := fs.Sub(files, dir)
	if err != nil {
		panic(err) // embedded directory names are fixed at compile time
	}

	return fsys
}
