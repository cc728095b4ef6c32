// Package service implements the item store: CRUD over registered upstream
// services. Items carry no business invariants beyond their identity; partial
// updates merge absent fields from the stored record.
package service

import (
	"context"

	"gateway_manager_api/internal/item/repository"
	"gateway_manager_api/internal/item/transport"
	"gateway_manager_api/platform/logger"
	"gateway_manager_api/platform/pagination"
)

// Service provides business logic for items.
type Service struct {
	repo repository.Repository
	log  *logger.Logger
}

// New creates a new item service.
func New(repo repository.Repository, log *logger.Logger) *Service {
	return &Service{repo: repo, log: log}
}

// FetchByID retrieves a single item.
func (s *Service) FetchByID(ctx context.Context, id int64) (transport.ItemResponse, error) {
	it, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return transport.ItemResponse{}, err
	}
	return ToResponse(it), nil
}

// List retrieves one page of items ordered per the validated page request.
func (s *Service) List(ctx context.Context, page pagination.Request) (pagination.Page[transport.ItemResponse], error) {
	items, total, err := s.repo.List(ctx, page)
	if err != nil {
		return pagination.Page[transport.ItemResponse]{}, err
	}
	return pagination.Map(pagination.NewPage(items, page, total), ToResponse), nil
}

// Create registers a new item and assigns its identity.
func (s *Service) Create(ctx context.Context, req transport.CreateItemRequest) (transport.ItemResponse, error) {
	it, err := s.repo.Create(ctx, repository.CreateParams{
		Name:   req.Name,
		URL:    req.URL,
		Port:   *req.Port,
		Prefix: req.Prefix,
	})
	if err != nil {
		return transport.ItemResponse{}, err
	}

	s.log.Info("item created", "item_id", it.ID, "name", it.Name)
	return ToResponse(it), nil
}

// Update applies a partial update. Absent fields keep their stored values.
// The read-merge-write sequence runs in one transaction so concurrent updates
// cannot interleave between the fetch and the write.
func (s *Service) Update(ctx context.Context, id int64, req transport.UpdateItemRequest) (transport.ItemResponse, error) {
	var updated repository.Item

	err := s.repo.InTx(ctx, func(r repository.Repository) error {
		current, err := r.GetByID(ctx, id)
		if err != nil {
			return err
		}

		params := repository.UpdateParams{
			ID:     current.ID,
			Name:   current.Name,
			URL:    current.URL,
			Port:   current.Port,
			Prefix: current.Prefix,
		}
		if req.Name != nil {
			params.Name = *req.Name
		}
		if req.URL != nil {
			params.URL = *req.URL
		}
		if req.Port != nil {
			params.Port = *req.Port
		}
		if req.Prefix != nil {
			params.Prefix = req.Prefix
		}

		updated, err = r.Update(ctx, params)
		return err
	})
	if err != nil {
		return transport.ItemResponse{}, err
	}

	return ToResponse(updated), nil
}

// Delete removes an item. Dependent paths are removed by the schema's
// cascade policy.
func (s *Service) Delete(ctx context.Context, id int64) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}

	s.log.Info("item deleted", "item_id", id)
	return nil
}

// ToResponse converts a stored item to its wire representation.
func ToResponse(it repository.Item) transport.ItemResponse {
	return transport.ItemResponse{
		ID:     it.ID,
		Name:   it.Name,
		URL:    it.URL,
		Port:   it.Port,
		Prefix: it.Prefix,
	}
}
