// Package models defines data types for real-estate listings and their change log.
package models

import (
	"math"
	"time"
)

// Field length limits enforced on incoming payloads.
const (
	maxShortText = 1000
	maxLongText  = 10000
)

// Property is a single real-estate listing.
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

// CreatePropertyRequest is the payload for creating a property.
// Every field except is_sold is required; pointers distinguish an omitted
// field from its zero value.
type CreatePropertyRequest struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
	Image       *string `json:"image"`
	Location    *string `json:"location"`
	Price       *string `json:"price"`
	Address     *string `json:"address"`
	Area        *int    `json:"area"`
	Rooms       *int    `json:"rooms"`
	Bathrooms   *int    `json:"bathrooms"`
	Garage      *bool   `json:"garage"`
	IsSold      *bool   `json:"is_sold,omitempty"`
}

// Validate checks that required fields are present and within limits on CreatePropertyRequest.
func (r *CreatePropertyRequest) Validate() error {
	required := []struct {
		name    string
		present bool
	}{
		{"name", r.Name != nil},
		{"description", r.Description != nil},
		{"image", r.Image != nil},
		{"location", r.Location != nil},
		{"price", r.Price != nil},
		{"address", r.Address != nil},
		{"area", r.Area != nil},
		{"rooms", r.Rooms != nil},
		{"bathrooms", r.Bathrooms != nil},
		{"garage", r.Garage != nil},
	}

	for _, f := range required {
		if !f.present {
			return ErrMissingField(f.name)
		}
	}

	if err := validateText(r.Name, r.Description, r.Image, r.Location, r.Price, r.Address); err != nil {
		return err
	}

	return validateCounts(r.Area, r.Rooms, r.Bathrooms)
}

// NewProperty builds an unsaved Property from a validated request.
// is_sold defaults to false when omitted.
func (r *CreatePropertyRequest) NewProperty(createdAt time.Time) *Property {
	p := &Property{
		Name:        *r.Name,
		Description: *r.Description,
		Image:       *r.Image,
		Location:    *r.Location,
		Price:       *r.Price,
		Address:     *r.Address,
		Area:        *r.Area,
		Rooms:       *r.Rooms,
		Bathrooms:   *r.Bathrooms,
		Garage:      *r.Garage,
		CreatedAt:   createdAt,
	}

	if r.IsSold != nil {
		p.IsSold = *r.IsSold
	}

	return p
}

// UpdatePropertyRequest is the payload for updating a property.
// Nil fields are left untouched.
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

// Validate checks UpdatePropertyRequest fields.
func (r *UpdatePropertyRequest) Validate() error {
	if err := validateText(r.Name, r.Description, r.Image, r.Location, r.Price, r.Address); err != nil {
		return err
	}

	return validateCounts(r.Area, r.Rooms, r.Bathrooms)
}

// validateText enforces length limits on the text fields, in declaration order:
// name, description, image, location, price, address.
func validateText(name, description, image, location, price, address *string) error {
	checks := []struct {
		field  string
		value  *string
		maxLen int
	}{
		{"name", name, maxShortText},
		{"description", description, maxLongText},
		{"image", image, maxShortText},
		{"location", location, maxShortText},
		{"price", price, maxShortText},
		{"address", address, maxShortText},
	}

	for _, c := range checks {
		if c.value != nil && len(*c.value) > c.maxLen {
			return ErrFieldTooLong(c.field, c.maxLen)
		}
	}

	return nil
}

// validateCounts keeps area, rooms and bathrooms within the 32-bit INTEGER
// columns that store them.
func validateCounts(area, rooms, bathrooms *int) error {
	checks := []struct {
		field string
		value *int
	}{
		{"area", area},
		{"rooms", rooms},
		{"bathrooms", bathrooms},
	}

	for _, c := range checks {
		if c.value != nil && (*c.value > math.MaxInt32 || *c.value < math.MinInt32) {
			return ErrOutOfRange(c.field)
		}
	}

	return nil
}
