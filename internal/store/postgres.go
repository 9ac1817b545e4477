package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/persistorai/listings/internal/dbpool"
	"github.com/persistorai/listings/internal/domain"
	"github.com/persistorai/listings/internal/models"
)

var _ domain.PropertyStore = (*PostgresStore)(nil)

// PostgresStore persists properties in PostgreSQL.
type PostgresStore struct {
	Base
	Pool *dbpool.Pool
}

// NewPostgresStore creates a new PostgresStore.
func NewPostgresStore(base Base, pool *dbpool.Pool) *PostgresStore {
	return &PostgresStore{Base: base, Pool: pool}
}

// beginReadTx starts a read-only transaction.
func (s *PostgresStore) beginReadTx(ctx context.Context) (pgx.Tx, error) {
	tx, err := s.Pool.BeginTx(ctx, pgx.TxOptions{AccessMode: pgx.ReadOnly})
	if err != nil {
		return nil, fmt.Errorf("beginning read transaction: %w", err)
	}

	return tx, nil
}

// CreateProperty inserts p and returns the assigned id.
func (s *PostgresStore) CreateProperty(ctx context.Context, p *models.Property) (int64, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	args := append(propertyArgs(p), p.CreatedAt.UTC())

	var id int64

	err := s.Pool.QueryRow(ctx,
		`INSERT INTO properties (name, description, image, location, price, address,
			area, rooms, bathrooms, garage, is_sold, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		RETURNING id`,
		args...,
	).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("inserting property: %w", err)
	}

	return id, nil
}

// GetProperty returns the property with id.
func (s *PostgresStore) GetProperty(ctx context.Context, id int64) (*models.Property, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	row := s.Pool.QueryRow(ctx, `SELECT `+propertyColumns+` FROM properties WHERE id = $1`, id)

	p, err := scanProperty(row.Scan)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, models.ErrPropertyNotFound
		}

		return nil, fmt.Errorf("getting property: %w", err)
	}

	return p, nil
}

// ListProperties returns properties in ascending id order.
func (s *PostgresStore) ListProperties(ctx context.Context, offset, limit int) ([]models.Property, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	r, err := s.Pool.Query(ctx,
		`SELECT `+propertyColumns+` FROM properties ORDER BY id ASC LIMIT $1 OFFSET $2`,
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
func (s *PostgresStore) ListChanges(ctx context.Context, propertyID int64, field string) ([]models.PropertyChange, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	tx, err := s.beginReadTx(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing property changes: %w", err)
	}

	defer tx.Rollback(ctx) //nolint:errcheck // best-effort rollback after commit.

	query, args := buildChangeQuery(propertyID, field, dollar)

	r, err := tx.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying property changes: %w", err)
	}

	changes, err := collect(r, scanChange)
	r.Close()

	if err != nil {
		return nil, fmt.Errorf("scanning property changes: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("committing property changes query: %w", err)
	}

	return changes, nil
}

// InTx runs fn inside one read-write transaction.
func (s *PostgresStore) InTx(ctx context.Context, fn func(ctx context.Context, tx domain.PropertyTx) error) error {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	tx, err := s.Pool.BeginTx(ctx, pgx.TxOptions{AccessMode: pgx.ReadWrite})
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}

	defer tx.Rollback(ctx) //nolint:errcheck // best-effort rollback after commit.

	if err := fn(ctx, &pgTx{tx: tx}); err != nil {
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}

	return nil
}

// Ping verifies the database is reachable.
func (s *PostgresStore) Ping(ctx context.Context) error {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	return s.Pool.HealthCheck(ctx)
}

// PoolStats reports acquired and maximum pool connections.
func (s *PostgresStore) PoolStats() (acquired, maxConns int32) {
	st := s.Pool.Stats()

	return st.AcquiredConns(), st.MaxConns()
}

// pgTx implements domain.PropertyTx on a pgx transaction.
type pgTx struct {
	tx pgx.Tx
}

// LockProperty reads the row with SELECT ... FOR UPDATE so concurrent
// updates of the same property queue behind this transaction.
func (t *pgTx) LockProperty(ctx context.Context, id int64) (*models.Property, error) {
	row := t.tx.QueryRow(ctx, `SELECT `+propertyColumns+` FROM properties WHERE id = $1 FOR UPDATE`, id)

	p, err := scanProperty(row.Scan)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, models.ErrPropertyNotFound
		}

		return nil, fmt.Errorf("locking property: %w", err)
	}

	return p, nil
}

func (t *pgTx) UpdateProperty(ctx context.Context, p *models.Property) error {
	args := append(propertyArgs(p), p.ID)

	tag, err := t.tx.Exec(ctx,
		`UPDATE properties SET name = $1, description = $2, image = $3, location = $4, price = $5,
			address = $6, area = $7, rooms = $8, bathrooms = $9, garage = $10, is_sold = $11
		WHERE id = $12`,
		args...,
	)
	if err != nil {
		return fmt.Errorf("updating property: %w", err)
	}

	if tag.RowsAffected() == 0 {
		return models.ErrPropertyNotFound
	}

	return nil
}

func (t *pgTx) InsertChanges(ctx context.Context, changes []models.PropertyChange) error {
	if len(changes) == 0 {
		return nil
	}

	query, args := buildChangeInsert(changes, dollar)

	if _, err := t.tx.Exec(ctx, query, args...); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23503" {
			return models.ErrPropertyNotFound
		}

		return fmt.Errorf("inserting property changes: %w", err)
	}

	return nil
}
