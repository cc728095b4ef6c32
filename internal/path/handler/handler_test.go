package handler

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"

	itemrepo "gateway_manager_api/internal/item/repository"
	"gateway_manager_api/internal/path/repository"
	"gateway_manager_api/internal/path/service"
	"gateway_manager_api/platform/apperr"
	"gateway_manager_api/platform/httpkit"
	"gateway_manager_api/platform/logger"
	"gateway_manager_api/platform/pagination"
	"gateway_manager_api/platform/validator"
)

// fakeRepo is an in-memory path repository backing the handler tests.
type fakeRepo struct {
	items     map[int64]itemrepo.Item
	paths     map[int64]repository.Path
	nextID    int64
	listCalls int
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{
		items:  make(map[int64]itemrepo.Item),
		paths:  make(map[int64]repository.Path),
		nextID: 1,
	}
}

func (f *fakeRepo) GetByID(_ context.Context, id int64) (repository.Path, error) {
	p, ok := f.paths[id]
	if !ok {
		return repository.Path{}, apperr.NotFound("Path Not Found", fmt.Sprintf("Path with id %d not found.", id))
	}
	return p, nil
}

func (f *fakeRepo) ListByItem(_ context.Context, itemID int64, page pagination.Request) ([]repository.Path, int64, error) {
	f.listCalls++
	var out []repository.Path
	for _, p := range f.paths {
		if p.Item.ID == itemID {
			out = append(out, p)
		}
	}
	return out, int64(len(out)), nil
}

func (f *fakeRepo) GetItem(_ context.Context, itemID int64) (itemrepo.Item, error) {
	it, ok := f.items[itemID]
	if !ok {
		return itemrepo.Item{}, apperr.NotFound("Item Not Found", fmt.Sprintf("Item with ID %d does not exist.", itemID))
	}
	return it, nil
}

func (f *fakeRepo) Create(_ context.Context, params repository.CreateParams) (repository.Path, error) {
	p := repository.Path{
		ID:         f.nextID,
		Path:       params.Path,
		Priority:   params.Priority,
		EnableAuth: params.EnableAuth,
		Role:       params.Role,
		HTTPMethod: params.HTTPMethod,
		Enabled:    params.Enabled,
		Item:       f.items[params.ItemID],
	}
	f.nextID++
	f.paths[p.ID] = p
	return p, nil
}

func (f *fakeRepo) Update(_ context.Context, params repository.UpdateParams) (repository.Path, error) {
	p, ok := f.paths[params.ID]
	if !ok {
		return repository.Path{}, apperr.NotFound("Path Not Found", fmt.Sprintf("Path with id %d not found.", params.ID))
	}
	p.Path = params.Path
	p.Priority = params.Priority
	p.EnableAuth = params.EnableAuth
	p.Role = params.Role
	p.HTTPMethod = params.HTTPMethod
	p.Enabled = params.Enabled
	f.paths[p.ID] = p
	return p, nil
}

func (f *fakeRepo) Delete(_ context.Context, id int64) error {
	if _, ok := f.paths[id]; !ok {
		return apperr.NotFound("Path Not Found", fmt.Sprintf("Path with id %d not found.", id))
	}
	delete(f.paths, id)
	return nil
}

func (f *fakeRepo) InTx(_ context.Context, fn func(repository.Repository) error) error {
	return fn(f)
}

var _ repository.Repository = (*fakeRepo)(nil)

func newRouter(f *fakeRepo) *gin.Engine {
	gin.SetMode(gin.TestMode)

	svc := service.New(f, logger.New("development"))
	h := New(svc, validator.New())

	r := gin.New()
	r.Use(httpkit.RequestID())

	v1 := r.Group("/api/v1")
	v1.GET("/items/:id/paths", h.ListByItem)
	paths := v1.Group("/paths")
	paths.POST("", h.Create)
	paths.PUT("/:id", h.Update)
	paths.DELETE("/:id", h.Delete)
	return r
}

func seedItem(f *fakeRepo) itemrepo.Item {
	it := itemrepo.Item{ID: 1, Name: "backend", URL: "http://backend.example.com", Port: 8080}
	f.items[it.ID] = it
	return it
}

func seedPath(f *fakeRepo, it itemrepo.Item, enableAuth bool, role *string) repository.Path {
	p := repository.Path{
		ID:         f.nextID,
		Path:       "/orders",
		Priority:   1,
		EnableAuth: enableAuth,
		Role:       role,
		HTTPMethod: "GET",
		Enabled:    true,
		Item:       it,
	}
	f.nextID++
	f.paths[p.ID] = p
	return p
}

func doJSON(r *gin.Engine, method, target, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decodeProblem(t *testing.T, w *httptest.ResponseRecorder) httpkit.Problem {
	t.Helper()
	var p httpkit.Problem
	if err := json.Unmarshal(w.Body.Bytes(), &p); err != nil {
		t.Fatalf("problem body not decodable: %v (body %s)", err, w.Body.String())
	}
	return p
}

func TestCreatePath_Created(t *testing.T) {
	f := newFakeRepo()
	seedItem(f)
	r := newRouter(f)

	w := doJSON(r, http.MethodPost, "/api/v1/paths", `{
		"path": "/orders",
		"priority": 0,
		"enable_auth": true,
		"role": "ROLE_USER",
		"http_method": "GET",
		"enabled": true,
		"item_id": 1
	}`)

	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d (body %s)", w.Code, w.Body.String())
	}

	var body struct {
		ID         int64   `json:"id"`
		Role       *string `json:"role"`
		EnableAuth bool    `json:"enable_auth"`
		Item       struct {
			ID int64 `json:"id"`
		} `json:"item"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("response not decodable: %v", err)
	}
	if body.ID != 1 || !body.EnableAuth || body.Role == nil || *body.Role != "ROLE_USER" {
		t.Fatalf("unexpected response: %s", w.Body.String())
	}
	if body.Item.ID != 1 {
		t.Fatalf("expected embedded owning item, got %s", w.Body.String())
	}
}

func TestCreatePath_AuthWithoutRole(t *testing.T) {
	f := newFakeRepo()
	seedItem(f)
	r := newRouter(f)

	w := doJSON(r, http.MethodPost, "/api/v1/paths", `{
		"path": "/orders",
		"priority": 0,
		"enable_auth": true,
		"http_method": "GET",
		"enabled": true,
		"item_id": 1
	}`)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d (body %s)", w.Code, w.Body.String())
	}
	p := decodeProblem(t, w)
	if p.Title != "Path Auth Option Error" {
		t.Fatalf("expected Path Auth Option Error, got %q", p.Title)
	}
	if p.Detail != "If enableAuth is true, role must be provided." {
		t.Fatalf("unexpected detail: %q", p.Detail)
	}
	if p.RequestID == "" {
		t.Fatal("expected a request id in the problem body")
	}
	if len(f.paths) != 0 {
		t.Fatal("expected no path stored after a rejected create")
	}
}

func TestCreatePath_MalformedBody(t *testing.T) {
	f := newFakeRepo()
	seedItem(f)
	r := newRouter(f)

	w := doJSON(r, http.MethodPost, "/api/v1/paths", `{"path": `)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", w.Code)
	}
	p := decodeProblem(t, w)
	if p.Title != "Malformed Request Body" {
		t.Fatalf("expected Malformed Request Body, got %q", p.Title)
	}
}

func TestCreatePath_ValidationFailed(t *testing.T) {
	f := newFakeRepo()
	seedItem(f)
	r := newRouter(f)

	w := doJSON(r, http.MethodPost, "/api/v1/paths", `{
		"path": "/orders",
		"priority": 0,
		"enable_auth": false,
		"http_method": "FETCH",
		"enabled": true,
		"item_id": 1
	}`)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d (body %s)", w.Code, w.Body.String())
	}
	p := decodeProblem(t, w)
	if p.Title != "Validation Failed" {
		t.Fatalf("expected Validation Failed, got %q", p.Title)
	}
}

func TestCreatePath_UnknownItem(t *testing.T) {
	f := newFakeRepo()
	r := newRouter(f)

	w := doJSON(r, http.MethodPost, "/api/v1/paths", `{
		"path": "/orders",
		"priority": 0,
		"enable_auth": false,
		"http_method": "GET",
		"enabled": true,
		"item_id": 9
	}`)

	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d (body %s)", w.Code, w.Body.String())
	}
	p := decodeProblem(t, w)
	if p.Title != "Item Not Found" {
		t.Fatalf("expected Item Not Found, got %q", p.Title)
	}
	if p.Detail != "Item with ID 9 does not exist." {
		t.Fatalf("unexpected detail: %q", p.Detail)
	}
}

func TestUpdatePath_RoleChangeWhileAuthDisabled(t *testing.T) {
	f := newFakeRepo()
	it := seedItem(f)
	p := seedPath(f, it, false, nil)
	r := newRouter(f)

	w := doJSON(r, http.MethodPut, fmt.Sprintf("/api/v1/paths/%d", p.ID), `{"role": "ROLE_ADMIN"}`)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d (body %s)", w.Code, w.Body.String())
	}
	problem := decodeProblem(t, w)
	if problem.Title != "Path Role Change Error" {
		t.Fatalf("expected Path Role Change Error, got %q", problem.Title)
	}
	if problem.Detail != "Role can only be changed if enableAuth is true." {
		t.Fatalf("unexpected detail: %q", problem.Detail)
	}
	if stored := f.paths[p.ID]; stored.Role != nil {
		t.Fatal("expected stored path untouched after a rejected update")
	}
}

func TestUpdatePath_DisableAuthWithNullRole(t *testing.T) {
	f := newFakeRepo()
	it := seedItem(f)
	role := "ROLE_USER"
	p := seedPath(f, it, true, &role)
	r := newRouter(f)

	w := doJSON(r, http.MethodPut, fmt.Sprintf("/api/v1/paths/%d", p.ID), `{"enable_auth": false, "role": null}`)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d (body %s)", w.Code, w.Body.String())
	}
	var body struct {
		EnableAuth bool    `json:"enable_auth"`
		Role       *string `json:"role"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("response not decodable: %v", err)
	}
	if body.EnableAuth || body.Role != nil {
		t.Fatalf("expected auth disabled with role cleared, got %s", w.Body.String())
	}
}

func TestUpdatePath_NotFound(t *testing.T) {
	f := newFakeRepo()
	r := newRouter(f)

	w := doJSON(r, http.MethodPut, "/api/v1/paths/99", `{"priority": 5}`)

	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d (body %s)", w.Code, w.Body.String())
	}
	p := decodeProblem(t, w)
	if p.Detail != "Path with id 99 not found." {
		t.Fatalf("unexpected detail: %q", p.Detail)
	}
}

func TestUpdatePath_IDTypeMismatch(t *testing.T) {
	f := newFakeRepo()
	r := newRouter(f)

	w := doJSON(r, http.MethodPut, "/api/v1/paths/abc", `{"priority": 5}`)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", w.Code)
	}
	p := decodeProblem(t, w)
	if p.Title != "Type Mismatch" {
		t.Fatalf("expected Type Mismatch, got %q", p.Title)
	}
	if p.Detail != "Parameter 'pathId' should be of type 'long'" {
		t.Fatalf("unexpected detail: %q", p.Detail)
	}
}

func TestListPaths_InvalidSortKeySkipsStore(t *testing.T) {
	f := newFakeRepo()
	seedItem(f)
	r := newRouter(f)

	w := doJSON(r, http.MethodGet, "/api/v1/items/1/paths?sort=secret,asc", "")

	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d (body %s)", w.Code, w.Body.String())
	}
	p := decodeProblem(t, w)
	if p.Title != "Invalid Sort Key" {
		t.Fatalf("expected Invalid Sort Key, got %q", p.Title)
	}
	if f.listCalls != 0 {
		t.Fatalf("expected the store untouched, got %d list calls", f.listCalls)
	}
}

func TestListPaths_EmptyItemYieldsZeroPages(t *testing.T) {
	f := newFakeRepo()
	seedItem(f)
	r := newRouter(f)

	w := doJSON(r, http.MethodGet, "/api/v1/items/1/paths", "")

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d (body %s)", w.Code, w.Body.String())
	}
	var body struct {
		Content       []json.RawMessage `json:"content"`
		TotalElements int64             `json:"total_elements"`
		TotalPages    int               `json:"total_pages"`
		SortKey       []struct {
			Key       string `json:"key"`
			Direction string `json:"direction"`
		} `json:"sort_key"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("response not decodable: %v", err)
	}
	if len(body.Content) != 0 || body.TotalElements != 0 || body.TotalPages != 0 {
		t.Fatalf("expected an empty zero-page result, got %s", w.Body.String())
	}
	if len(body.SortKey) != 1 || body.SortKey[0].Key != "id" || body.SortKey[0].Direction != "desc" {
		t.Fatalf("expected default sort echoed, got %s", w.Body.String())
	}
}

func TestDeletePath_NoContent(t *testing.T) {
	f := newFakeRepo()
	it := seedItem(f)
	p := seedPath(f, it, false, nil)
	r := newRouter(f)

	w := doJSON(r, http.MethodDelete, fmt.Sprintf("/api/v1/paths/%d", p.ID), "")

	if w.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", w.Code)
	}
	if len(f.paths) != 0 {
		t.Fatal("expected path removed")
	}
}

func TestDeletePath_NotFound(t *testing.T) {
	f := newFakeRepo()
	r := newRouter(f)

	w := doJSON(r, http.MethodDelete, "/api/v1/paths/7", "")

	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", w.Code)
	}
}
