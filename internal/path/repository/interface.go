package repository

import (
	"context"

	itemrepo "gateway_manager_api/internal/item/repository"
	"gateway_manager_api/platform/pagination"
)

// Path is a route rule owned by exactly one item.
type Path struct {
	ID         int64
	Path       string
	Priority   int
	EnableAuth bool
	Role       *string
	HTTPMethod string
	Enabled    bool
	Item       itemrepo.Item
}

// SortKeys is the enumerated whitelist of path sort keys.
var SortKeys = pagination.NewSortKeySet("id", "role", "method", "priority")

// CreateParams carries the fields for a new path.
type CreateParams struct {
	Path       string
	Priority   int
	EnableAuth bool
	Role       *string
	HTTPMethod string
	Enabled    bool
	ItemID     int64
}

// UpdateParams carries the full resulting field set for a path update.
// The service applies partial fields and runs the auth/role checks before
// handing the combined state to the repository.
type UpdateParams struct {
	ID         int64
	Path       string
	Priority   int
	EnableAuth bool
	Role       *string
	HTTPMethod string
	Enabled    bool
}

// Repository defines data access for paths. GetItem resolves the owning item
// through the same connection (and, inside InTx, the same transaction) so a
// path mutation never references a concurrently deleted item.
type Repository interface {
	GetByID(ctx context.Context, id int64) (Path, error)
	ListByItem(ctx context.Context, itemID int64, page pagination.Request) ([]Path, int64, error)
	GetItem(ctx context.Context, itemID int64) (itemrepo.Item, error)
	Create(ctx context.Context, params CreateParams) (Path, error)
	Update(ctx context.Context, params UpdateParams) (Path, error)
	Delete(ctx context.Context, id int64) error

	// InTx runs fn against a transaction-scoped repository so that
	// read-then-check-then-write sequences execute atomically.
	InTx(ctx context.Context, fn func(Repository) error) error
}
