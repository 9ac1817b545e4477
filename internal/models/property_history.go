package models

import "time"

// PropertyChange is one row of the property change log: a single field's
// value transition recorded by one update.
type PropertyChange struct {
	ID           int64     `json:"id"`
	PropertyID   int64     `json:"property_id"`
	ChangedField string    `json:"changed_field"`
	OldValue     string    `json:"old_value"`
	NewValue     string    `json:"new_value"`
	ChangedAt    time.Time `json:"changed_at"`
}
