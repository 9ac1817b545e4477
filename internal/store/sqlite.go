package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/persistorai/listings/internal/domain"
	"github.com/persistorai/listings/internal/models"
)

var _ domain.PropertyStore = (*SQLiteStore)(nil)

// SQLiteStore persists properties in SQLite. The handle must be opened with
// db.OpenSQLite so transactions begin IMMEDIATE and serialize writers.
type SQLiteStore struct {
	Base
	DB *sql.DB
}

// NewSQLiteStore creates a new SQLiteStore.
func NewSQLiteStore(base Base, sqlDB *sql.DB) *SQLiteStore {
	return &SQLiteStore{Base: base, DB: sqlDB}
}

// CreateProperty inserts p and returns the assigned id.
func (s *SQLiteStore) CreateProperty(ctx context.Context, p *models.Property) (int64, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	args := append(propertyArgs(p), p.CreatedAt.UTC())

	res, err := s.DB.ExecContext(ctx,
		`INSERT INTO properties (name, description, image, location, price, address,
			area, rooms, bathrooms, garage, is_sold, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		args...,
	)
	if err != nil {
		return 0, fmt.Errorf("inserting property: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("reading property id: %w", err)
	}

	return id, nil
}

// GetProperty returns the property with id.
func (s *SQLiteStore) GetProperty(ctx context.Context, id int64) (*models.Property, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	row := s.DB.QueryRowContext(ctx, `SELECT `+propertyColumns+` FROM properties WHERE id = ?`, id)

	p, err := scanProperty(row.Scan)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, models.ErrPropertyNotFound
		}

		return nil, fmt.Errorf("getting property: %w", err)
	}

	return p, nil
}

// ListProperties returns properties in ascending id order.
func (s *SQLiteStore) ListProperties(ctx context.Context, offset, limit int) ([]models.Property, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	r, err := s.DB.QueryContext(ctx,
		`SELECT `+propertyColumns+` FROM properties ORDER BY id ASC LIMIT ? OFFSET ?`,
		limit, offset,
	)
	if err != nil {
		return nil, fmt.Errorf("listing properties: %w", err)
	}
	defer r.Close()

	props, err := collect(r, scanProperty)
	if err != nil {
		return nil, fmt.Errorf("scanning properties: %w", err)
	}

	return props, nil
}

// ListChanges returns change rows for a property in ascending id order.
func (s *SQLiteStore) ListChanges(ctx context.Context, propertyID int64, field string) ([]models.PropertyChange, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	query, args := buildChangeQuery(propertyID, field, question)

	r, err := s.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing property changes: %w", err)
	}
	defer r.Close()

	changes, err := collect(r, scanChange)
	if err != nil {
		return nil, fmt.Errorf("scanning property changes: %w", err)
	}

	return changes, nil
}

// InTx runs fn inside one IMMEDIATE transaction.
func (s *SQLiteStore) InTx(ctx context.Context, fn func(ctx context.Context, tx domain.PropertyTx) error) error {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}

	defer tx.Rollback() //nolint:errcheck // best-effort rollback after commit.

	if err := fn(ctx, &sqliteTx{tx: tx}); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}

	return nil
}

// Ping verifies the database is reachable.
func (s *SQLiteStore) Ping(ctx context.Context) error {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	if err := s.DB.PingContext(ctx); err != nil {
		return fmt.Errorf("pinging sqlite: %w", err)
	}

	return nil
}

// sqliteTx implements domain.PropertyTx on a *sql.Tx. The transaction
// already holds the database write lock, so LockProperty is a plain read.
type sqliteTx struct {
	tx *sql.Tx
}

func (t *sqliteTx) LockProperty(ctx context.Context, id int64) (*models.Property, error) {
	row := t.tx.QueryRowContext(ctx, `SELECT `+propertyColumns+` FROM properties WHERE id = ?`, id)

	p, err := scanProperty(row.Scan)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, models.ErrPropertyNotFound
		}

		return nil, fmt.Errorf("locking property: %w", err)
	}

	return p, nil
}

func (t *sqliteTx) UpdateProperty(ctx context.Context, p *models.Property) error {
	args := append(propertyArgs(p), p.ID)

	res, err := t.tx.ExecContext(ctx,
		`UPDATE properties SET name = ?, description = ?, image = ?, location = ?, price = ?,
			address = ?, area = ?, rooms = ?, bathrooms = ?, garage = ?, is_sold = ?
		WHERE id = ?`,
		args...,
	)
	if err != nil {
		return fmt.Errorf("updating property: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("reading updated rows: %w", err)
	}

	if n == 0 {
		return models.ErrPropertyNotFound
	}

	return nil
}

func (t *sqliteTx) InsertChanges(ctx context.Context, changes []models.PropertyChange) error {
	if len(changes) == 0 {
		return nil
	}

	query, args := buildChangeInsert(changes, question)

	if _, err := t.tx.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("inserting property changes: %w", err)
	}

	return nil
}
