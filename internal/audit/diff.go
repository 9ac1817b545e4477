package audit

import (
	"time"

	"github.com/persistorai/listings/internal/models"
)

// Diff returns one change record per field present in req whose value differs
// from cur, in field declaration order. It does not modify its arguments.
func Diff(cur *models.Property, req *models.UpdatePropertyRequest, at time.Time) []models.PropertyChange {
	var changes []models.PropertyChange

	for _, f := range fields {
		if !f.changed(cur, req) {
			continue
		}

		changes = append(changes, models.PropertyChange{
			PropertyID:   cur.ID,
			ChangedField: f.name,
			OldValue:     f.current(cur),
			NewValue:     f.next(req),
			ChangedAt:    at,
		})
	}

	return changes
}

// Apply assigns every field present in req onto p.
func Apply(p *models.Property, req *models.UpdatePropertyRequest) {
	for _, f := range fields {
		f.apply(p, req)
	}
}
