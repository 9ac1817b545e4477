// Package audit computes field-level change records for property updates.
//
// The set of audited attributes is a static table of typed descriptors, so
// comparisons happen on the declared Go type and stringification is fixed
// per field.
package audit

import (
	"strconv"

	"github.com/persistorai/listings/internal/models"
)

// Field describes one audited property attribute.
type Field struct {
	name    string
	present func(req *models.UpdatePropertyRequest) bool
	changed func(cur *models.Property, req *models.UpdatePropertyRequest) bool
	apply   func(p *models.Property, req *models.UpdatePropertyRequest)
	current func(p *models.Property) string
	next    func(req *models.UpdatePropertyRequest) string
}

// Name returns the JSON and column name of the field.
func (f Field) Name() string { return f.name }

// Value returns the stringified value of the field on p.
func (f Field) Value(p *models.Property) string { return f.current(p) }

// Present reports whether req carries a value for the field.
func (f Field) Present(req *models.UpdatePropertyRequest) bool { return f.present(req) }

func bind[T comparable](
	name string,
	in func(*models.UpdatePropertyRequest) *T,
	ref func(*models.Property) *T,
	format func(T) string,
) Field {
	return Field{
		name:    name,
		present: func(req *models.UpdatePropertyRequest) bool { return in(req) != nil },
		changed: func(cur *models.Property, req *models.UpdatePropertyRequest) bool {
			v := in(req)
			return v != nil && *v != *ref(cur)
		},
		apply: func(p *models.Property, req *models.UpdatePropertyRequest) {
			if v := in(req); v != nil {
				*ref(p) = *v
			}
		},
		current: func(p *models.Property) string { return format(*ref(p)) },
		next: func(req *models.UpdatePropertyRequest) string {
			if v := in(req); v != nil {
				return format(*v)
			}
			return ""
		},
	}
}

func text(s string) string { return s }

// fields is declared in property attribute order; Diff output follows it.
var fields = []Field{
	bind("name",
		func(r *models.UpdatePropertyRequest) *string { return r.Name },
		func(p *models.Property) *string { return &p.Name }, text),
	bind("description",
		func(r *models.UpdatePropertyRequest) *string { return r.Description },
		func(p *models.Property) *string { return &p.Description }, text),
	bind("image",
		func(r *models.UpdatePropertyRequest) *string { return r.Image },
		func(p *models.Property) *string { return &p.Image }, text),
	bind("location",
		func(r *models.UpdatePropertyRequest) *string { return r.Location },
		func(p *models.Property) *string { return &p.Location }, text),
	bind("price",
		func(r *models.UpdatePropertyRequest) *string { return r.Price },
		func(p *models.Property) *string { return &p.Price }, text),
	bind("address",
		func(r *models.UpdatePropertyRequest) *string { return r.Address },
		func(p *models.Property) *string { return &p.Address }, text),
	bind("area",
		func(r *models.UpdatePropertyRequest) *int { return r.Area },
		func(p *models.Property) *int { return &p.Area }, strconv.Itoa),
	bind("rooms",
		func(r *models.UpdatePropertyRequest) *int { return r.Rooms },
		func(p *models.Property) *int { return &p.Rooms }, strconv.Itoa),
	bind("bathrooms",
		func(r *models.UpdatePropertyRequest) *int { return r.Bathrooms },
		func(p *models.Property) *int { return &p.Bathrooms }, strconv.Itoa),
	bind("garage",
		func(r *models.UpdatePropertyRequest) *bool { return r.Garage },
		func(p *models.Property) *bool { return &p.Garage }, strconv.FormatBool),
	bind("is_sold",
		func(r *models.UpdatePropertyRequest) *bool { return r.IsSold },
		func(p *models.Property) *bool { return &p.IsSold }, strconv.FormatBool),
}

// Fields returns the audited fields in declaration order.
func Fields() []Field {
	out := make([]Field, len(fields))
	copy(out, fields)

	return out
}

// Lookup returns the field with the given name.
func Lookup(name string) (Field, bool) {
	for _, f := range fields {
		if f.name == name {
			return f, true
		}
	}

	return Field{}, false
}
