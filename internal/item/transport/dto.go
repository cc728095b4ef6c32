// Package transport defines the wire-level request and response shapes for
// the item endpoints. All JSON fields use lower snake_case.
package transport

// CreateItemRequest contains data for registering a new upstream item.
// Port is a pointer so that an explicit 0 satisfies the required check.
type CreateItemRequest struct {
	Name   string  `json:"name" validate:"required,min=1,max=255"`
	URL    string  `json:"url" validate:"required,min=1,max=2048"`
	Port   *int    `json:"port" validate:"required,min=0,max=65535"`
	Prefix *string `json:"prefix,omitempty" validate:"omitempty,min=1,max=255"`
}

// UpdateItemRequest contains a partial update for an item.
// Absent fields leave the stored value unchanged.
type UpdateItemRequest struct {
	Name   *string `json:"name,omitempty" validate:"omitempty,min=1,max=255"`
	URL    *string `json:"url,omitempty" validate:"omitempty,min=1,max=2048"`
	Port   *int    `json:"port,omitempty" validate:"omitempty,min=0,max=65535"`
	Prefix *string `json:"prefix,omitempty" validate:"omitempty,min=1,max=255"`
}

// ItemResponse represents an item in API responses.
type ItemResponse struct {
	ID     int64   `json:"id"`
	Name   string  `json:"name"`
	URL    string  `json:"url"`
	Port   int     `json:"port"`
	Prefix *string `json:"prefix"`
}
