// Package service provides business logic between API handlers and data stores.
package service

import (
	"context"
	"errors"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/persistorai/listings/internal/audit"
	"github.com/persistorai/listings/internal/domain"
	"github.com/persistorai/listings/internal/metrics"
	"github.com/persistorai/listings/internal/models"
)

// Compile-time check: *PropertyService must satisfy domain.PropertyService.
var _ domain.PropertyService = (*PropertyService)(nil)

// Option configures a PropertyService.
type Option func(*PropertyService)

// WithClock overrides the time source used for created_at and changed_at.
func WithClock(now func() time.Time) Option {
	return func(s *PropertyService) { s.now = now }
}

// WithChangeWorker publishes committed changes through w instead of inline.
func WithChangeWorker(w ChangeEnqueuer) Option {
	return func(s *PropertyService) { s.changes = w }
}

// PropertyService orchestrates property CRUD and the change log.
type PropertyService struct {
	store   domain.PropertyStore
	changes ChangeEnqueuer
	log     *logrus.Logger
	now     func() time.Time
}

// NewPropertyService creates a PropertyService.
func NewPropertyService(store domain.PropertyStore, log *logrus.Logger, opts ...Option) *PropertyService {
	s := &PropertyService{
		store: store,
		log:   log,
		now:   func() time.Time { return time.Now().UTC() },
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// CreateProperty persists a new property built from a validated request.
func (s *PropertyService) CreateProperty(ctx context.Context, req models.CreatePropertyRequest) (int64, error) {
	id, err := s.store.CreateProperty(ctx, req.NewProperty(s.now()))
	if err != nil {
		return 0, err
	}

	s.log.WithFields(logrus.Fields{
		"property_id": id,
		"name":        *req.Name,
	}).Debug("property.create")

	return id, nil
}

// GetProperty returns a single property by id (pass-through).
func (s *PropertyService) GetProperty(ctx context.Context, id int64) (*models.Property, error) {
	return s.store.GetProperty(ctx, id)
}

// ListProperties returns a page of properties in ascending id order.
func (s *PropertyService) ListProperties(ctx context.Context, offset, limit int) ([]models.Property, error) {
	if offset < 0 || limit < 0 {
		return nil, models.ErrInvalidPagination
	}

	if limit == 0 {
		return []models.Property{}, nil
	}

	return s.store.ListProperties(ctx, offset, limit)
}

// UpdateProperty applies req to the property and records one change row per
// differing field, all in one transaction.
func (s *PropertyService) UpdateProperty(
	ctx context.Context, id int64, req models.UpdatePropertyRequest,
) (*models.Property, error) {
	var (
		updated *models.Property
		changes []models.PropertyChange
	)

	err := s.store.InTx(ctx, func(ctx context.Context, tx domain.PropertyTx) error {
		cur, err := tx.LockProperty(ctx, id)
		if err != nil {
			return err
		}

		changes = audit.Diff(cur, &req, s.now())
		if len(changes) == 0 {
			updated = cur
			return nil
		}

		audit.Apply(cur, &req)

		if err := tx.UpdateProperty(ctx, cur); err != nil {
			return err
		}

		if err := tx.InsertChanges(ctx, changes); err != nil {
			return err
		}

		updated = cur

		return nil
	})
	if err != nil {
		outcome := "error"
		if errors.Is(err, models.ErrPropertyNotFound) {
			outcome = "not_found"
		}
		metrics.PropertyUpdatesTotal.WithLabelValues(outcome).Inc()

		return nil, err
	}

	s.log.WithFields(logrus.Fields{
		"property_id": id,
		"changes":     len(changes),
	}).Debug("property.update")

	if len(changes) == 0 {
		metrics.PropertyUpdatesTotal.WithLabelValues("unchanged").Inc()
		return updated, nil
	}

	metrics.PropertyUpdatesTotal.WithLabelValues("changed").Inc()

	if s.changes != nil {
		s.changes.Enqueue(changes)
	} else {
		publishChanges(s.log, changes)
	}

	return updated, nil
}

// ListPropertyChanges returns the change log for a property, optionally
// filtered to one field. An empty log is reported as ErrChangesNotFound.
func (s *PropertyService) ListPropertyChanges(
	ctx context.Context, id int64, field string,
) ([]models.PropertyChange, error) {
	s.log.WithFields(logrus.Fields{
		"property_id": id,
		"field":       field,
	}).Debug("property.list_changes")

	if field != "" {
		if _, ok := audit.Lookup(field); !ok {
			return nil, models.ErrUnknownField
		}
	}

	changes, err := s.store.ListChanges(ctx, id, field)
	if err != nil {
		return nil, err
	}

	if len(changes) == 0 {
		return nil, models.ErrChangesNotFound
	}

	return changes, nil
}
