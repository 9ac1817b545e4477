package service

import (
	"context"
	"sync"

	"github.com/persistorai/listings/internal/domain"
	"github.com/persistorai/listings/internal/models"
)

// mockPropertyStore records calls and returns configured responses.
type mockPropertyStore struct {
	mu    sync.Mutex
	calls []string

	createProperty func(ctx context.Context, p *models.Property) (int64, error)
	getProperty    func(ctx context.Context, id int64) (*models.Property, error)
	listProperties func(ctx context.Context, offset, limit int) ([]models.Property, error)
	listChanges    func(ctx context.Context, propertyID int64, field string) ([]models.PropertyChange, error)
	tx             *mockPropertyTx
	commitErr      error
}

func (m *mockPropertyStore) record(name string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = append(m.calls, name)
}

func (m *mockPropertyStore) getCalls() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]string, len(m.calls))
	copy(out, m.calls)
	return out
}

func (m *mockPropertyStore) CreateProperty(ctx context.Context, p *models.Property) (int64, error) {
	m.record("CreateProperty")
	return m.createProperty(ctx, p)
}

func (m *mockPropertyStore) GetProperty(ctx context.Context, id int64) (*models.Property, error) {
	m.record("GetProperty")
	return m.getProperty(ctx, id)
}

func (m *mockPropertyStore) ListProperties(ctx context.Context, offset, limit int) ([]models.Property, error) {
	m.record("ListProperties")
	return m.listProperties(ctx, offset, limit)
}

func (m *mockPropertyStore) ListChanges(ctx context.Context, propertyID int64, field string) ([]models.PropertyChange, error) {
	m.record("ListChanges")
	return m.listChanges(ctx, propertyID, field)
}

func (m *mockPropertyStore) InTx(ctx context.Context, fn func(ctx context.Context, tx domain.PropertyTx) error) error {
	m.record("InTx")

	if err := fn(ctx, m.tx); err != nil {
		return err
	}

	return m.commitErr
}

func (m *mockPropertyStore) Ping(context.Context) error {
	m.record("Ping")
	return nil
}

// mockPropertyTx serves a single in-memory property.
type mockPropertyTx struct {
	property *models.Property
	lockErr  error
	writeErr error

	updated  *models.Property
	inserted []models.PropertyChange
}

func (m *mockPropertyTx) LockProperty(_ context.Context, id int64) (*models.Property, error) {
	if m.lockErr != nil {
		return nil, m.lockErr
	}
	if m.property == nil || m.property.ID != id {
		return nil, models.ErrPropertyNotFound
	}
	cp := *m.property
	return &cp, nil
}

func (m *mockPropertyTx) UpdateProperty(_ context.Context, p *models.Property) error {
	if m.writeErr != nil {
		return m.writeErr
	}
	cp := *p
	m.updated = &cp
	return nil
}

func (m *mockPropertyTx) InsertChanges(_ context.Context, changes []models.PropertyChange) error {
	m.inserted = append(m.inserted, changes...)
	return nil
}

// mockEnqueuer captures batches handed to the change worker.
type mockEnqueuer struct {
	mu      sync.Mutex
	batches [][]models.PropertyChange
}

func (m *mockEnqueuer) Enqueue(changes []models.PropertyChange) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.batches = append(m.batches, changes)
}
