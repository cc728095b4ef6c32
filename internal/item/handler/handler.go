package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"gateway_manager_api/internal/item/repository"
	"gateway_manager_api/internal/item/service"
	"gateway_manager_api/internal/item/transport"
	"gateway_manager_api/platform/httpkit"
	"gateway_manager_api/platform/pagination"
)

// Handler handles HTTP requests for items.
type Handler struct {
	svc *service.Service
	val Validator
}

// Validator is the request validation dependency.
type Validator interface {
	Struct(s interface{}) error
}

const (
	titleMalformedBody = "Malformed Request Body"
	titleValidation    = "Validation Failed"
	titleTypeMismatch  = "Type Mismatch"

	detailItemID = "Parameter 'id' should be of type 'long'"
)

// listDefaults is the page request applied when query parameters are omitted.
var listDefaults = pagination.Request{
	Page:      pagination.DefaultPage,
	Size:      pagination.DefaultSize,
	SortKey:   "id",
	Direction: pagination.Desc,
}

// New creates a new item handler.
func New(svc *service.Service, val Validator) *Handler {
	return &Handler{svc: svc, val: val}
}

// List returns one page of items.
// GET /api/v1/items?page&size&sort
func (h *Handler) List(c *gin.Context) {
	page, err := pagination.ParseQuery(
		c.Query("page"), c.Query("size"), c.Query("sort"),
		listDefaults, repository.SortKeys,
	)
	if httpkit.HandleError(c, err) {
		return
	}

	result, err := h.svc.List(c.Request.Context(), page)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, result)
}

// Create registers a new item.
// POST /api/v1/items
func (h *Handler) Create(c *gin.Context) {
	var req transport.CreateItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, titleMalformedBody, "Request body is not readable or malformed")
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, titleValidation, err.Error())
		return
	}

	result, err := h.svc.Create(c.Request.Context(), req)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.JSON(c, http.StatusCreated, result)
}

// Update applies a partial update to an item.
// PUT /api/v1/items/:id
func (h *Handler) Update(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, titleTypeMismatch, detailItemID)
		return
	}

	var req transport.UpdateItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, titleMalformedBody, "Request body is not readable or malformed")
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, titleValidation, err.Error())
		return
	}

	result, err := h.svc.Update(c.Request.Context(), id, req)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, result)
}

// Delete removes an item.
// DELETE /api/v1/items/:id
func (h *Handler) Delete(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, titleTypeMismatch, detailItemID)
		return
	}

	if httpkit.HandleError(c, h.svc.Delete(c.Request.Context(), id)) {
		return
	}
	httpkit.NoContent(c)
}
