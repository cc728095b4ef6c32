package repository

import (
	"context"

	"gateway_manager_api/platform/pagination"
)

// Item is a registered upstream backend service.
type Item struct {
	ID     int64
	Name   string
	URL    string
	Port   int
	Prefix *string
}

// SortKeys is the enumerated whitelist of item sort keys.
var SortKeys = pagination.NewSortKeySet("id", "name", "port", "prefix")

// CreateParams carries the fields for a new item.
type CreateParams struct {
	Name   string
	URL    string
	Port   int
	Prefix *string
}

// UpdateParams carries the full resulting field set for an item update.
// Partial-update merging happens in the service; the repository persists the
// combined state.
type UpdateParams struct {
	ID     int64
	Name   string
	URL    string
	Port   int
	Prefix *string
}

// Repository defines data access for items.
type Repository interface {
	GetByID(ctx context.Context, id int64) (Item, error)
	List(ctx context.Context, page pagination.Request) ([]Item, int64, error)
	Create(ctx context.Context, params CreateParams) (Item, error)
	Update(ctx context.Context, params UpdateParams) (Item, error)
	Delete(ctx context.Context, id int64) error

	// InTx runs fn against a transaction-scoped repository so that
	// read-then-check-then-write sequences execute atomically.
	InTx(ctx context.Context, fn func(Repository) error) error
}
