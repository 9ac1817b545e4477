package client

import "time"

// Property is a real-estate listing as returned by the API.
type Property struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Image       string    `json:"image"`
	Location    string    `json:"location"`
	Price       string    `json:"price"`
	Address     string    `json:"address"`
	Area        int       `json:"area"`
	Rooms       int       `json:"rooms"`
	Bathrooms   int       `json:"bathrooms"`
	Garage      bool      `json:"garage"`
	IsSold      bool      `json:"is_sold"`
	CreatedAt   time.Time `json:"created_at"`
}

// PropertyChange is one field-level change recorded by an update.
type PropertyChange struct {
	ID           int64     `json:"id"`
	PropertyID   int64     `json:"property_id"`
	ChangedField string    `json:"changed_field"`
	OldValue     string    `json:"old_value"`
	NewValue     string    `json:"new_value"`
	ChangedAt    time.Time `json:"changed_at"`
}

// CreatePropertyRequest is the payload for creating a property.
type CreatePropertyRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Image       string `json:"image"`
	Location    string `json:"location"`
	Price       string `json:"price"`
	Address     string `json:"address"`
	Area        int    `json:"area"`
	Rooms       int    `json:"rooms"`
	Bathrooms   int    `json:"bathrooms"`
	Garage      bool   `json:"garage"`
	IsSold      bool   `json:"is_sold"`
}

// UpdatePropertyRequest is the payload for a partial update. Nil fields are left unchanged.
type UpdatePropertyRequest struct {
	Name        *string `json:"name,omitempty"`
	Description *string `json:"description,omitempty"`
	Image       *string `json:"image,omitempty"`
	Location    *string `json:"location,omitempty"`
	Price       *string `json:"price,omitempty"`
	Address     *string `json:"address,omitempty"`
	Area        *int    `json:"area,omitempty"`
	Rooms       *int    `json:"rooms,omitempty"`
	Bathrooms   *int    `json:"bathrooms,omitempty"`
	Garage      *bool   `json:"garage,omitempty"`
	IsSold      *bool   `json:"is_sold,omitempty"`
}

// ListOptions controls offset pagination for property listing.
type ListOptions struct {
	Offset int
	Limit  int
}

// HealthResponse is the liveness check payload.
type HealthResponse struct {
	Status        string  `json:"status"`
	Version       string  `json:"version"`
	Driver        string  `json:"driver"`
	Database      string  `json:"database"`
	SchemaVersion int     `json:"schema_version"`
	UptimeSeconds float64 `json:"uptime_seconds"`
}

// CreateResponse is returned after a property is created.
type CreateResponse struct {
	Message    string `json:"message"`
	PropertyID int64  `json:"property_id"`
}
