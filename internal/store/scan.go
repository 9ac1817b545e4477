package store

import (
	"github.com/persistorai/listings/internal/models"
)

// propertyColumns lists the columns selected for property queries.
const propertyColumns = `id, name, description, image, location, price, address,
	area, rooms, bathrooms, garage, is_sold, created_at`

// changeColumns lists the columns selected for change log queries.
const changeColumns = `id, property_id, changed_field, old_value, new_value, changed_at`

// rows is the iteration surface shared by pgx.Rows and *sql.Rows.
type rows interface {
	Next() bool
	Scan(dest ...any) error
	Err() error
}

// propertyArgs returns the mutable column values in propertyColumns order,
// without id and created_at.
func propertyArgs(p *models.Property) []any {
	return []any{
		p.Name, p.Description, p.Image, p.Location, p.Price, p.Address,
		p.Area, p.Rooms, p.Bathrooms, p.Garage, p.IsSold,
	}
}

// scanProperty scans a single row into a models.Property.
func scanProperty(scan func(dest ...any) error) (*models.Property, error) {
	var p models.Property

	err := scan(
		&p.ID,
		&p.Name,
		&p.Description,
		&p.Image,
		&p.Location,
		&p.Price,
		&p.Address,
		&p.Area,
		&p.Rooms,
		&p.Bathrooms,
		&p.Garage,
		&p.IsSold,
		&p.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	p.CreatedAt = p.CreatedAt.UTC()

	return &p, nil
}

// scanChange scans a single row into a models.PropertyChange.
func scanChange(scan func(dest ...any) error) (*models.PropertyChange, error) {
	var c models.PropertyChange

	if err := scan(&c.ID, &c.PropertyID, &c.ChangedField, &c.OldValue, &c.NewValue, &c.ChangedAt); err != nil {
		return nil, err
	}

	c.ChangedAt = c.ChangedAt.UTC()

	return &c, nil
}

// collect drains r, scanning each row with scanRow.
func collect[T any](r rows, scanRow func(func(dest ...any) error) (*T, error)) ([]T, error) {
	out := make([]T, 0)

	for r.Next() {
		v, err := scanRow(r.Scan)
		if err != nil {
			return nil, err
		}

		out = append(out, *v)
	}

	if err := r.Err(); err != nil {
		return nil, err
	}

	return out, nil
}
