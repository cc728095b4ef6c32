package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"gateway_manager_api/internal/path/repository"
	"gateway_manager_api/internal/path/service"
	"gateway_manager_api/internal/path/transport"
	"gateway_manager_api/platform/httpkit"
	"gateway_manager_api/platform/pagination"
)

// Handler handles HTTP requests for paths.
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

	detailItemID = "Parameter 'itemId' should be of type 'long'"
	detailPathID = "Parameter 'pathId' should be of type 'long'"
)

// listDefaults is the page request applied when query parameters are omitted.
var listDefaults = pagination.Request{
	Page:      pagination.DefaultPage,
	Size:      pagination.DefaultSize,
	SortKey:   "id",
	Direction: pagination.Desc,
}

// New creates a new path handler.
func New(svc *service.Service, val Validator) *Handler {
	return &Handler{svc: svc, val: val}
}

// ListByItem returns one page of an item's paths.
// GET /api/v1/items/:id/paths?page&size&sort
func (h *Handler) ListByItem(c *gin.Context) {
	itemID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, titleTypeMismatch, detailItemID)
		return
	}

	page, err := pagination.ParseQuery(
		c.Query("page"), c.Query("size"), c.Query("sort"),
		listDefaults, repository.SortKeys,
	)
	if httpkit.HandleError(c, err) {
		return
	}

	result, err := h.svc.ListByItem(c.Request.Context(), itemID, page)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, result)
}

// Create registers a new path.
// POST /api/v1/paths
func (h *Handler) Create(c *gin.Context) {
	var req transport.CreatePathRequest
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

// Update applies a partial update to a path.
// PUT /api/v1/paths/:id
func (h *Handler) Update(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, titleTypeMismatch, detailPathID)
		return
	}

	var req transport.UpdatePathRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, titleMalformedBody, "Request body is not readable or malformed")
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, titleValidation, err.Error())
		return
	}
	// The tri-state role field cannot carry validation tags; bound-check the
	// value here so an over-long role never reaches the service.
	if req.Role.Set && req.Role.Valid && (len(req.Role.Value) < 1 || len(req.Role.Value) > 255) {
		httpkit.Error(c, http.StatusBadRequest, titleValidation, "role must be between 1 and 255 characters")
		return
	}

	result, err := h.svc.Update(c.Request.Context(), id, req)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, result)
}

// Delete removes a path.
// DELETE /api/v1/paths/:id
func (h *Handler) Delete(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, titleTypeMismatch, detailPathID)
		return
	}

	if httpkit.HandleError(c, h.svc.Delete(c.Request.Context(), id)) {
		return
	}
	httpkit.NoContent(c)
}
