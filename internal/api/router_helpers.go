package api

import (
	"errors"
	"fmt"
	"strconv"
)

// defaultListLimit is the page size when limit is omitted.
const defaultListLimit = 100

var errInvalidID = errors.New("id must be an integer")

// parsePathID parses a property id path parameter. Zero and negative ids are
// valid input; they name no row and the lookup answers not found.
func parsePathID(s string) (int64, error) {
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, errInvalidID
	}

	return id, nil
}

// parseQueryInt parses an optional integer query parameter. Range checks are
// left to the service so negative values surface as validation errors.
func parseQueryInt(name, s string, fallback int) (int, error) {
	if s == "" {
		return fallback, nil
	}

	v, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("%s must be an integer", name)
	}

	return v, nil
}
