package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"gateway_manager_api/platform/apperr"
	"gateway_manager_api/platform/pagination"
)

// DBTX is the subset of pgx operations shared by pools and transactions.
type DBTX interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// notFound builds the typed error for a missing item id.
func notFound(id int64) *apperr.Error {
	return apperr.NotFound("Item Not Found", fmt.Sprintf("Item with ID %d does not exist.", id))
}

// sortColumns maps whitelisted sort keys to their columns.
var sortColumns = map[string]string{
	"id":     "id",
	"name":   "name",
	"port":   "port",
	"prefix": "prefix",
}

// Repo implements the Repository interface with PostgreSQL.
type Repo struct {
	db   DBTX
	pool *pgxpool.Pool
}

// New creates a new item repository backed by the given pool.
func New(pool *pgxpool.Pool) *Repo {
	return &Repo{db: pool, pool: pool}
}

// Compile-time check that Repo implements Repository.
var _ Repository = (*Repo)(nil)

// InTx runs fn against a transaction-scoped copy of the repository.
// A repository that is already transaction-scoped reuses its transaction.
func (r *Repo) InTx(ctx context.Context, fn func(Repository) error) error {
	if r.pool == nil {
		return fn(r)
	}

	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin item tx: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if err := fn(&Repo{db: tx}); err != nil {
		return err
	}

	return tx.Commit(ctx)
}

// GetByID retrieves an item by its ID.
func (r *Repo) GetByID(ctx context.Context, id int64) (Item, error) {
	query := `
		SELECT id, name, url, port, prefix
		FROM gateway_items
		WHERE id = $1`

	var it Item
	err := r.db.QueryRow(ctx, query, id).Scan(&it.ID, &it.Name, &it.URL, &it.Port, &it.Prefix)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Item{}, notFound(id)
		}
		return Item{}, fmt.Errorf("get item by id: %w", err)
	}

	return it, nil
}

// List retrieves one page of items with the total count across all pages.
// The sort key has already been validated against SortKeys.
func (r *Repo) List(ctx context.Context, page pagination.Request) ([]Item, int64, error) {
	var total int64
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM gateway_items`).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count items: %w", err)
	}

	query := fmt.Sprintf(`
		SELECT id, name, url, port, prefix
		FROM gateway_items
		ORDER BY %s, id ASC
		LIMIT $1 OFFSET $2`, orderBy(page))

	rows, err := r.db.Query(ctx, query, page.Limit(), page.Offset())
	if err != nil {
		return nil, 0, fmt.Errorf("list items: %w", err)
	}
	defer rows.Close()

	items, err := scanItems(rows)
	if err != nil {
		return nil, 0, err
	}

	return items, total, nil
}

// Create inserts a new item and returns it with its assigned identity.
func (r *Repo) Create(ctx context.Context, params CreateParams) (Item, error) {
	query := `
		INSERT INTO gateway_items (name, url, port, prefix)
		VALUES ($1, $2, $3, $4)
		RETURNING id, name, url, port, prefix`

	var it Item
	err := r.db.QueryRow(ctx, query, params.Name, params.URL, params.Port, params.Prefix).
		Scan(&it.ID, &it.Name, &it.URL, &it.Port, &it.Prefix)
	if err != nil {
		return Item{}, fmt.Errorf("create item: %w", err)
	}

	return it, nil
}

// Update persists the combined field state for an existing item.
func (r *Repo) Update(ctx context.Context, params UpdateParams) (Item, error) {
	query := `
		UPDATE gateway_items
		SET name = $2, url = $3, port = $4, prefix = $5
		WHERE id = $1
		RETURNING id, name, url, port, prefix`

	var it Item
	err := r.db.QueryRow(ctx, query, params.ID, params.Name, params.URL, params.Port, params.Prefix).
		Scan(&it.ID, &it.Name, &it.URL, &it.Port, &it.Prefix)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Item{}, notFound(params.ID)
		}
		return Item{}, fmt.Errorf("update item: %w", err)
	}

	return it, nil
}

// Delete removes an item by ID. Dependent paths are removed by the schema's
// ON DELETE CASCADE policy.
func (r *Repo) Delete(ctx context.Context, id int64) error {
	result, err := r.db.Exec(ctx, `DELETE FROM gateway_items WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete item: %w", err)
	}

	if result.RowsAffected() == 0 {
		return notFound(id)
	}

	return nil
}

func orderBy(page pagination.Request) string {
	column, ok := sortColumns[page.SortKey]
	if !ok {
		column = "id"
	}
	direction := "ASC"
	if page.Direction == pagination.Desc {
		direction = "DESC"
	}
	return column + " " + direction
}

func scanItems(rows pgx.Rows) ([]Item, error) {
	var results []Item

	for rows.Next() {
		var it Item
		if err := rows.Scan(&it.ID, &it.Name, &it.URL, &it.Port, &it.Prefix); err != nil {
			return nil, fmt.Errorf("scan item: %w", err)
		}
		results = append(results, it)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate items: %w", err)
	}

	return results, nil
}
