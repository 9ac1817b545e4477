// Package domain defines the canonical interfaces shared across layers
// (REST handlers, services, stores). Consumers should depend on these
// interfaces rather than re-declaring equivalent ones.
package domain

import (
	"context"

	"github.com/persistorai/listings/internal/models"
)

// PropertyService defines all property operations exposed to transports.
type PropertyService interface {
	CreateProperty(ctx context.Context, req models.CreatePropertyRequest) (int64, error)
	GetProperty(ctx context.Context, id int64) (*models.Property, error)
	ListProperties(ctx context.Context, offset, limit int) ([]models.Property, error)
	UpdateProperty(ctx context.Context, id int64, req models.UpdatePropertyRequest) (*models.Property, error)
	ListPropertyChanges(ctx context.Context, id int64, field string) ([]models.PropertyChange, error)
}

// PropertyStore is the persistence contract for properties and their change log.
type PropertyStore interface {
	CreateProperty(ctx context.Context, p *models.Property) (int64, error)
	GetProperty(ctx context.Context, id int64) (*models.Property, error)
	ListProperties(ctx context.Context, offset, limit int) ([]models.Property, error)
	// ListChanges returns change rows for a property in ascending id order.
	// An empty field matches every field.
	ListChanges(ctx context.Context, propertyID int64, field string) ([]models.PropertyChange, error)
	// InTx runs fn inside one transaction. The transaction commits when fn
	// returns nil and rolls back otherwise.
	InTx(ctx context.Context, fn func(ctx context.Context, tx PropertyTx) error) error
	Ping(ctx context.Context) error
}

// PropertyTx is the set of writes available inside a store transaction.
type PropertyTx interface {
	// LockProperty reads a property and holds it for update until the
	// transaction ends.
	LockProperty(ctx context.Context, id int64) (*models.Property, error)
	UpdateProperty(ctx context.Context, p *models.Property) error
	InsertChanges(ctx context.Context, changes []models.PropertyChange) error
}
