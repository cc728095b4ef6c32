// Package service implements the path consistency engine: CRUD over route
// rules with the auth/role pairing law enforced on every mutation. A path's
// role must be present exactly when its auth flag is enabled, and partial
// updates are validated against the combined resulting state.
package service

import (
	"context"

	itemservice "gateway_manager_api/internal/item/service"
	"gateway_manager_api/internal/path/repository"
	"gateway_manager_api/internal/path/transport"
	"gateway_manager_api/platform/apperr"
	"gateway_manager_api/platform/logger"
	"gateway_manager_api/platform/pagination"
)

// Service provides business logic for paths.
type Service struct {
	repo repository.Repository
	log  *logger.Logger
}

// New creates a new path service.
func New(repo repository.Repository, log *logger.Logger) *Service {
	return &Service{repo: repo, log: log}
}

// FetchByID retrieves a single path with its owning item.
func (s *Service) FetchByID(ctx context.Context, id int64) (transport.PathResponse, error) {
	p, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return transport.PathResponse{}, err
	}
	return toResponse(p), nil
}

// ListByItem retrieves one page of an item's paths. The owning item is
// resolved first; a missing item fails the whole request. Resolution and
// listing share one transaction.
func (s *Service) ListByItem(ctx context.Context, itemID int64, page pagination.Request) (pagination.Page[transport.PathResponse], error) {
	var result pagination.Page[transport.PathResponse]

	err := s.repo.InTx(ctx, func(r repository.Repository) error {
		item, err := r.GetItem(ctx, itemID)
		if err != nil {
			return err
		}

		paths, total, err := r.ListByItem(ctx, itemID, page)
		if err != nil {
			return err
		}

		for i := range paths {
			paths[i].Item = item
		}
		result = pagination.Map(pagination.NewPage(paths, page, total), toResponse)
		return nil
	})
	if err != nil {
		return pagination.Page[transport.PathResponse]{}, err
	}

	return result, nil
}

// Create registers a new route rule. The owning item is resolved first, then
// the proposed (enable_auth, role) pair is checked against the pairing law
// before anything is persisted. All of it runs in one transaction so the item
// cannot vanish between resolution and insert.
func (s *Service) Create(ctx context.Context, req transport.CreatePathRequest) (transport.PathResponse, error) {
	var created repository.Path

	err := s.repo.InTx(ctx, func(r repository.Repository) error {
		item, err := r.GetItem(ctx, req.ItemID)
		if err != nil {
			return err
		}

		if err := checkAuthOption(*req.EnableAuth, req.Role); err != nil {
			return err
		}

		created, err = r.Create(ctx, repository.CreateParams{
			Path:       req.Path,
			Priority:   *req.Priority,
			EnableAuth: *req.EnableAuth,
			Role:       req.Role,
			HTTPMethod: req.HTTPMethod,
			Enabled:    *req.Enabled,
			ItemID:     req.ItemID,
		})
		if err != nil {
			return err
		}

		created.Item = item
		return nil
	})
	if err != nil {
		return transport.PathResponse{}, err
	}

	s.log.Info("path created", "path_id", created.ID, "item_id", created.Item.ID)
	return toResponse(created), nil
}

// Update applies a partial update under the auth/role rules:
//
//  1. When the update changes enable_auth, the pairing law is re-checked
//     against the new flag and the resulting role (the request's role when
//     the field is present, including explicit null, else the stored role).
//  2. When only the role changes, the change is allowed solely while the
//     stored enable_auth is true and the new role is non-null; otherwise the
//     request is rejected.
//  3. Otherwise the remaining fields apply unconditionally.
//
// The auth-option branch is evaluated before the role-only branch. The fetch,
// checks and write share one transaction.
func (s *Service) Update(ctx context.Context, id int64, req transport.UpdatePathRequest) (transport.PathResponse, error) {
	var updated repository.Path

	err := s.repo.InTx(ctx, func(r repository.Repository) error {
		current, err := r.GetByID(ctx, id)
		if err != nil {
			return err
		}

		params := repository.UpdateParams{
			ID:         current.ID,
			Path:       current.Path,
			Priority:   current.Priority,
			EnableAuth: current.EnableAuth,
			Role:       current.Role,
			HTTPMethod: current.HTTPMethod,
			Enabled:    current.Enabled,
		}
		if req.Path != nil {
			params.Path = *req.Path
		}
		if req.Priority != nil {
			params.Priority = *req.Priority
		}
		if req.HTTPMethod != nil {
			params.HTTPMethod = *req.HTTPMethod
		}
		if req.Enabled != nil {
			params.Enabled = *req.Enabled
		}

		switch {
		case changesAuthOption(req, current):
			role := current.Role
			if req.Role.Set {
				role = req.Role.Ptr()
			}
			if err := checkAuthOption(*req.EnableAuth, role); err != nil {
				return err
			}
			params.EnableAuth = *req.EnableAuth
			params.Role = role

		case changesRole(req, current):
			role := req.Role.Ptr()
			if !current.EnableAuth || role == nil {
				return apperr.BadRequest("Path Role Change Error", "Role can only be changed if enableAuth is true.")
			}
			params.Role = role
		}

		updated, err = r.Update(ctx, params)
		if err != nil {
			return err
		}

		updated.Item = current.Item
		return nil
	})
	if err != nil {
		return transport.PathResponse{}, err
	}

	return toResponse(updated), nil
}

// Delete removes a path.
func (s *Service) Delete(ctx context.Context, id int64) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}

	s.log.Info("path deleted", "path_id", id)
	return nil
}

// changesAuthOption reports whether the update carries an enable_auth value
// that differs from the stored one. A value equal to the stored flag is not
// an auth-option change.
func changesAuthOption(req transport.UpdatePathRequest, current repository.Path) bool {
	return req.EnableAuth != nil && *req.EnableAuth != current.EnableAuth
}

// changesRole reports whether the update carries a role differing from the
// stored one, explicit null included.
func changesRole(req transport.UpdatePathRequest, current repository.Path) bool {
	if !req.Role.Set {
		return false
	}
	newRole := req.Role.Ptr()
	if newRole == nil {
		return current.Role != nil
	}
	return current.Role == nil || *current.Role != *newRole
}

// checkAuthOption enforces the pairing law on a combined (enableAuth, role)
// state: a role is present exactly when auth is enabled.
func checkAuthOption(enableAuth bool, role *string) error {
	if enableAuth && role == nil {
		return apperr.BadRequest("Path Auth Option Error", "If enableAuth is true, role must be provided.")
	}
	if !enableAuth && role != nil {
		return apperr.BadRequest("Path Auth Option Error", "If enableAuth is false, role must be null.")
	}
	return nil
}

func toResponse(p repository.Path) transport.PathResponse {
	return transport.PathResponse{
		ID:         p.ID,
		Path:       p.Path,
		Priority:   p.Priority,
		EnableAuth: p.EnableAuth,
		Role:       p.Role,
		HTTPMethod: p.HTTPMethod,
		Enabled:    p.Enabled,
		Item:       itemservice.ToResponse(p.Item),
	}
}
