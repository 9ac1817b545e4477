// Package store provides data access for properties and their change log.
//
// Two backends implement domain.PropertyStore: SQLiteStore over
// database/sql with mattn/go-sqlite3, and PostgresStore over a pgx pool.
// Both share the column lists and scan helpers in scan.go.
package store

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"
)

const defaultQueryTimeout = 30 * time.Second

// Base contains shared dependencies for all stores.
// Embed this in each store struct.
type Base struct {
	Log *logrus.Logger
}

// withTimeout creates a context with the default query timeout.
func withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, defaultQueryTimeout)
}
