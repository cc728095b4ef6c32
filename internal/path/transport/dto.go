// Package transport defines the wire-level request and response shapes for
// the path endpoints. All JSON fields use lower snake_case.
package transport

import (
	itemtransport "gateway_manager_api/internal/item/transport"
)

// CreatePathRequest contains data for registering a new route rule.
// Boolean and integer fields are pointers so explicit zero values satisfy
// the required checks.
type CreatePathRequest struct {
	Path       string  `json:"path" validate:"required,min=1,max=255"`
	Priority   *int    `json:"priority" validate:"required"`
	EnableAuth *bool   `json:"enable_auth" validate:"required"`
	Role       *string `json:"role,omitempty" validate:"omitempty,min=1,max=255"`
	HTTPMethod string  `json:"http_method" validate:"required,oneof=GET POST PUT DELETE PATCH HEAD OPTIONS TRACE"`
	Enabled    *bool   `json:"enabled" validate:"required"`
	ItemID     int64   `json:"item_id" validate:"required,min=1"`
}

// UpdatePathRequest contains a partial update for a path. Absent fields leave
// the stored value unchanged. Role is tri-state: an explicit null is a
// meaningful request to clear it (only legal together with disabling auth).
type UpdatePathRequest struct {
	Path       *string          `json:"path,omitempty" validate:"omitempty,min=1,max=255"`
	Priority   *int             `json:"priority,omitempty"`
	EnableAuth *bool            `json:"enable_auth,omitempty"`
	Role       Optional[string] `json:"role" validate:"-"`
	HTTPMethod *string          `json:"http_method,omitempty" validate:"omitempty,oneof=GET POST PUT DELETE PATCH HEAD OPTIONS TRACE"`
	Enabled    *bool            `json:"enabled,omitempty"`
}

// PathResponse represents a route rule in API responses, embedding its
// owning item.
type PathResponse struct {
	ID         int64                      `json:"id"`
	Path       string                     `json:"path"`
	Priority   int                        `json:"priority"`
	EnableAuth bool                       `json:"enable_auth"`
	Role       *string                    `json:"role"`
	HTTPMethod string                     `json:"http_method"`
	Enabled    bool                       `json:"enabled"`
	Item       itemtransport.ItemResponse `json:"item"`
}
