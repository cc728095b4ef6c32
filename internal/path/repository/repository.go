package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	itemrepo "gateway_manager_api/internal/item/repository"
	"gateway_manager_api/platform/apperr"
	"gateway_manager_api/platform/pagination"
)

// notFound builds the typed error for a missing path id.
func notFound(id int64) *apperr.Error {
	return apperr.NotFound("Path Not Found", fmt.Sprintf("Path with id %d not found.", id))
}

func itemNotFound(id int64) *apperr.Error {
	return apperr.NotFound("Item Not Found", fmt.Sprintf("Item with ID %d does not exist.", id))
}

// sortColumns maps whitelisted sort keys to their columns.
var sortColumns = map[string]string{
	"id":       "id",
	"role":     "role",
	"method":   "http_method",
	"priority": "priority",
}

// Repo implements the Repository interface with PostgreSQL.
type Repo struct {
	db   itemrepo.DBTX
	pool *pgxpool.Pool
}

// New creates a new path repository backed by the given pool.
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
		return fmt.Errorf("begin path tx: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if err := fn(&Repo{db: tx}); err != nil {
		return err
	}

	return tx.Commit(ctx)
}

// GetByID retrieves a path by its ID together with its owning item.
func (r *Repo) GetByID(ctx context.Context, id int64) (Path, error) {
	query := `
		SELECT p.id, p.path, p.priority, p.enable_auth, p.role, p.http_method, p.enabled,
		       i.id, i.name, i.url, i.port, i.prefix
		FROM gateway_paths p
		JOIN gateway_items i ON i.id = p.item_id
		WHERE p.id = $1`

	var p Path
	err := r.db.QueryRow(ctx, query, id).Scan(
		&p.ID, &p.Path, &p.Priority, &p.EnableAuth, &p.Role, &p.HTTPMethod, &p.Enabled,
		&p.Item.ID, &p.Item.Name, &p.Item.URL, &p.Item.Port, &p.Item.Prefix,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Path{}, notFound(id)
		}
		return Path{}, fmt.Errorf("get path by id: %w", err)
	}

	return p, nil
}

// GetItem resolves an owning item by ID.
func (r *Repo) GetItem(ctx context.Context, itemID int64) (itemrepo.Item, error) {
	query := `
		SELECT id, name, url, port, prefix
		FROM gateway_items
		WHERE id = $1`

	var it itemrepo.Item
	err := r.db.QueryRow(ctx, query, itemID).Scan(&it.ID, &it.Name, &it.URL, &it.Port, &it.Prefix)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return itemrepo.Item{}, itemNotFound(itemID)
		}
		return itemrepo.Item{}, fmt.Errorf("get owning item: %w", err)
	}

	return it, nil
}

// ListByItem retrieves one page of an item's paths with the total count.
// The sort key has already been validated against SortKeys; the caller
// resolves the owning item and fills it in.
func (r *Repo) ListByItem(ctx context.Context, itemID int64, page pagination.Request) ([]Path, int64, error) {
	var total int64
	if err := r.db.QueryRow(ctx,
		`SELECT COUNT(*) FROM gateway_paths WHERE item_id = $1`, itemID,
	).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count paths: %w", err)
	}

	query := fmt.Sprintf(`
		SELECT id, path, priority, enable_auth, role, http_method, enabled
		FROM gateway_paths
		WHERE item_id = $1
		ORDER BY %s, id ASC
		LIMIT $2 OFFSET $3`, orderBy(page))

	rows, err := r.db.Query(ctx, query, itemID, page.Limit(), page.Offset())
	if err != nil {
		return nil, 0, fmt.Errorf("list paths: %w", err)
	}
	defer rows.Close()

	var results []Path
	for rows.Next() {
		var p Path
		if err := rows.Scan(&p.ID, &p.Path, &p.Priority, &p.EnableAuth, &p.Role, &p.HTTPMethod, &p.Enabled); err != nil {
			return nil, 0, fmt.Errorf("scan path: %w", err)
		}
		results = append(results, p)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("iterate paths: %w", err)
	}

	return results, total, nil
}

// Create inserts a new path and returns it with its assigned identity.
// The caller resolves the owning item and fills it in.
func (r *Repo) Create(ctx context.Context, params CreateParams) (Path, error) {
	query := `
		INSERT INTO gateway_paths (path, priority, enable_auth, role, http_method, enabled, item_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, path, priority, enable_auth, role, http_method, enabled`

	var p Path
	err := r.db.QueryRow(ctx, query,
		params.Path, params.Priority, params.EnableAuth, params.Role, params.HTTPMethod, params.Enabled, params.ItemID,
	).Scan(&p.ID, &p.Path, &p.Priority, &p.EnableAuth, &p.Role, &p.HTTPMethod, &p.Enabled)
	if err != nil {
		return Path{}, fmt.Errorf("create path: %w", err)
	}

	return p, nil
}

// Update persists the combined field state for an existing path.
func (r *Repo) Update(ctx context.Context, params UpdateParams) (Path, error) {
	query := `
		UPDATE gateway_paths
		SET path = $2, priority = $3, enable_auth = $4, role = $5, http_method = $6, enabled = $7
		WHERE id = $1
		RETURNING id, path, priority, enable_auth, role, http_method, enabled`

	var p Path
	err := r.db.QueryRow(ctx, query,
		params.ID, params.Path, params.Priority, params.EnableAuth, params.Role, params.HTTPMethod, params.Enabled,
	).Scan(&p.ID, &p.Path, &p.Priority, &p.EnableAuth, &p.Role, &p.HTTPMethod, &p.Enabled)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Path{}, notFound(params.ID)
		}
		return Path{}, fmt.Errorf("update path: %w", err)
	}

	return p, nil
}

// Delete removes a path by ID.
func (r *Repo) Delete(ctx context.Context, id int64) error {
	result, err := r.db.Exec(ctx, `DELETE FROM gateway_paths WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete path: %w", err)
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
