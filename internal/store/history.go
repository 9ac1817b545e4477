package store

import (
	"fmt"
	"strings"

	"github.com/persistorai/listings/internal/models"
)

// placeholder renders the n-th (1-based) bind parameter for a dialect.
type placeholder func(n int) string

func dollar(n int) string { return fmt.Sprintf("$%d", n) }

func question(int) string { return "?" }

// buildChangeInsert builds one multi-row INSERT for the change log so every
// row of an update lands in a single statement, in slice order.
func buildChangeInsert(changes []models.PropertyChange, ph placeholder) (string, []any) {
	valueParts := make([]string, 0, len(changes))
	args := make([]any, 0, len(changes)*5)

	for i, c := range changes {
		base := i*5 + 1
		valueParts = append(valueParts, fmt.Sprintf(
			"(%s, %s, %s, %s, %s)",
			ph(base), ph(base+1), ph(base+2), ph(base+3), ph(base+4),
		))
		args = append(args, c.PropertyID, c.ChangedField, c.OldValue, c.NewValue, c.ChangedAt.UTC())
	}

	query := `INSERT INTO property_change_logs (property_id, changed_field, old_value, new_value, changed_at)
		VALUES ` + strings.Join(valueParts, ", ")

	return query, args
}

// buildChangeQuery builds the change listing query with an optional field filter.
func buildChangeQuery(propertyID int64, field string, ph placeholder) (string, []any) {
	query := `SELECT ` + changeColumns + ` FROM property_change_logs WHERE property_id = ` + ph(1)
	args := []any{propertyID}

	if field != "" {
		query += " AND changed_field = " + ph(2)
		args = append(args, field)
	}

	query += " ORDER BY id ASC"

	return query, args
}
