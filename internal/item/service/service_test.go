package service

import (
	"context"
	"fmt"
	"sort"
	"testing"

	"gateway_manager_api/internal/item/repository"
	"gateway_manager_api/internal/item/transport"
	"gateway_manager_api/platform/apperr"
	"gateway_manager_api/platform/logger"
	"gateway_manager_api/platform/pagination"
)

// fakeRepo is an in-memory item repository for service tests.
type fakeRepo struct {
	items  map[int64]repository.Item
	nextID int64
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{items: make(map[int64]repository.Item), nextID: 1}
}

func (f *fakeRepo) GetByID(_ context.Context, id int64) (repository.Item, error) {
	it, ok := f.items[id]
	if !ok {
		return repository.Item{}, apperr.NotFound("Item Not Found", fmt.Sprintf("Item with ID %d does not exist.", id))
	}
	return it, nil
}

func (f *fakeRepo) List(_ context.Context, page pagination.Request) ([]repository.Item, int64, error) {
	all := make([]repository.Item, 0, len(f.items))
	for _, it := range f.items {
		all = append(all, it)
	}
	sort.Slice(all, func(i, j int) bool {
		if page.Direction == pagination.Desc {
			return all[i].ID > all[j].ID
		}
		return all[i].ID < all[j].ID
	})

	total := int64(len(all))
	start := page.Offset()
	if start > len(all) {
		start = len(all)
	}
	end := start + page.Limit()
	if end > len(all) {
		end = len(all)
	}
	return all[start:end], total, nil
}

func (f *fakeRepo) Create(_ context.Context, params repository.CreateParams) (repository.Item, error) {
	it := repository.Item{
		ID:     f.nextID,
		Name:   params.Name,
		URL:    params.URL,
		Port:   params.Port,
		Prefix: params.Prefix,
	}
	f.nextID++
	f.items[it.ID] = it
	return it, nil
}

func (f *fakeRepo) Update(_ context.Context, params repository.UpdateParams) (repository.Item, error) {
	if _, ok := f.items[params.ID]; !ok {
		return repository.Item{}, apperr.NotFound("Item Not Found", fmt.Sprintf("Item with ID %d does not exist.", params.ID))
	}
	it := repository.Item{ID: params.ID, Name: params.Name, URL: params.URL, Port: params.Port, Prefix: params.Prefix}
	f.items[it.ID] = it
	return it, nil
}

func (f *fakeRepo) Delete(_ context.Context, id int64) error {
	if _, ok := f.items[id]; !ok {
		return apperr.NotFound("Item Not Found", fmt.Sprintf("Item with ID %d does not exist.", id))
	}
	delete(f.items, id)
	return nil
}

func (f *fakeRepo) InTx(_ context.Context, fn func(repository.Repository) error) error {
	return fn(f)
}

var _ repository.Repository = (*fakeRepo)(nil)

func newService(f *fakeRepo) *Service {
	return New(f, logger.New("development"))
}

func strPtr(s string) *string { return &s }
func intPtr(n int) *int       { return &n }

func TestCreateItem_AssignsSequentialID(t *testing.T) {
	f := newFakeRepo()
	svc := newService(f)

	res, err := svc.Create(context.Background(), transport.CreateItemRequest{
		Name:   "test3",
		URL:    "http://test3.com",
		Port:   intPtr(828),
		Prefix: strPtr("test3"),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.ID != 1 {
		t.Fatalf("expected id 1 on an empty store, got %d", res.ID)
	}
	if res.Name != "test3" || res.URL != "http://test3.com" || res.Port != 828 {
		t.Fatalf("expected request fields echoed, got %+v", res)
	}
	if res.Prefix == nil || *res.Prefix != "test3" {
		t.Fatalf("expected prefix test3, got %v", res.Prefix)
	}
}

func TestUpdateItem_PartialFieldsMerge(t *testing.T) {
	f := newFakeRepo()
	svc := newService(f)

	created, err := svc.Create(context.Background(), transport.CreateItemRequest{
		Name: "backend", URL: "http://backend.example.com", Port: intPtr(8080), Prefix: strPtr("api"),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	res, err := svc.Update(context.Background(), created.ID, transport.UpdateItemRequest{
		Port: intPtr(9090),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Port != 9090 {
		t.Fatalf("expected port 9090, got %d", res.Port)
	}
	if res.Name != "backend" || res.URL != "http://backend.example.com" {
		t.Fatalf("expected untouched fields to survive, got %+v", res)
	}
	if res.Prefix == nil || *res.Prefix != "api" {
		t.Fatalf("expected prefix untouched, got %v", res.Prefix)
	}
}

func TestUpdateItem_NotFound(t *testing.T) {
	f := newFakeRepo()
	svc := newService(f)

	_, err := svc.Update(context.Background(), 42, transport.UpdateItemRequest{Name: strPtr("x")})
	if !apperr.Is(err, apperr.KindNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestDeleteItem_NotFound(t *testing.T) {
	f := newFakeRepo()
	svc := newService(f)

	if err := svc.Delete(context.Background(), 42); !apperr.Is(err, apperr.KindNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestFetchItem_Idempotent(t *testing.T) {
	f := newFakeRepo()
	svc := newService(f)

	created, err := svc.Create(context.Background(), transport.CreateItemRequest{
		Name: "backend", URL: "http://backend.example.com", Port: intPtr(8080),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	first, err := svc.FetchByID(context.Background(), created.ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	second, err := svc.FetchByID(context.Background(), created.ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if first != second {
		t.Fatalf("expected identical reads, got %+v vs %+v", first, second)
	}
}

func TestListItems_PagesCoverAllElements(t *testing.T) {
	f := newFakeRepo()
	svc := newService(f)

	const n = 7
	for i := 0; i < n; i++ {
		if _, err := svc.Create(context.Background(), transport.CreateItemRequest{
			Name: fmt.Sprintf("svc-%d", i), URL: "http://svc.example.com", Port: intPtr(8000 + i),
		}); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}

	const size = 3
	seen := 0
	var totalPages int
	for page := 0; ; page++ {
		res, err := svc.List(context.Background(), pagination.Request{
			Page: page, Size: size, SortKey: "id", Direction: pagination.Asc,
		})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		totalPages = res.TotalPages
		if res.TotalElements != n {
			t.Fatalf("expected %d total elements, got %d", n, res.TotalElements)
		}
		seen += len(res.Content)
		if page >= res.TotalPages-1 {
			break
		}
	}

	if seen != n {
		t.Fatalf("expected pages to cover all %d elements, saw %d", n, seen)
	}
	if want := (n + size - 1) / size; totalPages != want {
		t.Fatalf("expected %d total pages, got %d", want, totalPages)
	}
}
