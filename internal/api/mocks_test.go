package api_test

import (
	"context"

	"github.com/persistorai/listings/internal/models"
)

// mockPropertyService implements domain.PropertyService for testing.
type mockPropertyService struct {
	createFn  func(ctx context.Context, req models.CreatePropertyRequest) (int64, error)
	getFn     func(ctx context.Context, id int64) (*models.Property, error)
	listFn    func(ctx context.Context, offset, limit int) ([]models.Property, error)
	updateFn  func(ctx context.Context, id int64, req models.UpdatePropertyRequest) (*models.Property, error)
	changesFn func(ctx context.Context, id int64, field string) ([]models.PropertyChange, error)
}

func (m *mockPropertyService) CreateProperty(ctx context.Context, req models.CreatePropertyRequest) (int64, error) {
	return m.createFn(ctx, req)
}

func (m *mockPropertyService) GetProperty(ctx context.Context, id int64) (*models.Property, error) {
	return m.getFn(ctx, id)
}

func (m *mockPropertyService) ListProperties(ctx context.Context, offset, limit int) ([]models.Property, error) {
	return m.listFn(ctx, offset, limit)
}

func (m *mockPropertyService) UpdateProperty(ctx context.Context, id int64, req models.UpdatePropertyRequest) (*models.Property, error) {
	return m.updateFn(ctx, id, req)
}

func (m *mockPropertyService) ListPropertyChanges(ctx context.Context, id int64, field string) ([]models.PropertyChange, error) {
	return m.changesFn(ctx, id, field)
}

// mockPinger implements api.Pinger.
type mockPinger struct {
	err error
}

func (m *mockPinger) Ping(context.Context) error { return m.err }

// mockPoolPinger is a mockPinger that also reports pool usage.
type mockPoolPinger struct {
	mockPinger
	acquired, maxConns int32
}

func (m *mockPoolPinger) PoolStats() (acquired, maxConns int32) { return m.acquired, m.maxConns }
