package client

import (
	"context"
	"net/url"
	"strconv"
)

// PropertyService handles property operations.
type PropertyService struct {
	c *Client
}

// Create creates a property and returns its assigned id.
func (s *PropertyService) Create(ctx context.Context, req *CreatePropertyRequest) (int64, error) {
	var resp CreateResponse
	if err := s.c.post(ctx, "/api/v1/properties", req, &resp); err != nil {
		return 0, err
	}
	return resp.PropertyID, nil
}

// List returns properties in ascending id order. A nil opts uses the server default limit.
func (s *PropertyService) List(ctx context.Context, opts *ListOptions) ([]Property, error) {
	params := url.Values{}
	if opts != nil {
		if opts.Offset > 0 {
			params.Set("offset", strconv.Itoa(opts.Offset))
		}
		if opts.Limit > 0 {
			params.Set("limit", strconv.Itoa(opts.Limit))
		}
	}
	var resp struct {
		Properties []Property `json:"properties"`
	}
	if err := s.c.get(ctx, "/api/v1/properties", params, &resp); err != nil {
		return nil, err
	}
	return resp.Properties, nil
}

// Get returns a single property by id.
func (s *PropertyService) Get(ctx context.Context, id int64) (*Property, error) {
	var p Property
	if err := s.c.get(ctx, propertyPath(id), nil, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

// Update applies a partial update and returns the resulting property.
func (s *PropertyService) Update(ctx context.Context, id int64, req *UpdatePropertyRequest) (*Property, error) {
	var p Property
	if err := s.c.patch(ctx, propertyPath(id), req, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

// Changes returns the change log of a property in application order.
// A non-empty field restricts the result to that field.
func (s *PropertyService) Changes(ctx context.Context, id int64, field string) ([]PropertyChange, error) {
	params := url.Values{}
	if field != "" {
		params.Set("field", field)
	}
	var resp struct {
		Changes []PropertyChange `json:"changes"`
	}
	if err := s.c.get(ctx, propertyPath(id)+"/changes", params, &resp); err != nil {
		return nil, err
	}
	return resp.Changes, nil
}

func propertyPath(id int64) string {
	return "/api/v1/properties/" + strconv.FormatInt(id, 10)
}
