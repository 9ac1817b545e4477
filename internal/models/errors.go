package models

import (
	"errors"
	"fmt"
)

// Sentinel errors for entity lookups.
var (
	ErrPropertyNotFound = errors.New("property not found")
	ErrChangesNotFound  = errors.New("no changes found for the specified property")
)

// ErrInvalidPagination indicates a negative offset or limit.
var ErrInvalidPagination = errors.New("offset and limit must be non-negative")

// ErrUnknownField indicates a field name that is not a property attribute.
var ErrUnknownField = errors.New("unknown property field")

// ErrMissingField returns an error indicating a required field was omitted.
func ErrMissingField(field string) error {
	return fmt.Errorf("%s is required", field)
}

// ErrFieldTooLong returns an error indicating a field exceeds its maximum length.
func ErrFieldTooLong(field string, maxLen int) error {
	return fmt.Errorf("%s exceeds maximum length of %d", field, maxLen)
}

// ErrOutOfRange returns an error indicating an integer field does not fit its column.
func ErrOutOfRange(field string) error {
	return fmt.Errorf("%s is out of range", field)
}

// IsNotFound reports whether err is one of the not-found sentinels.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrPropertyNotFound) || errors.Is(err, ErrChangesNotFound)
}
