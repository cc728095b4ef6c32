// Package item provides the upstream-item bounded context module.
// Items are the registered backend services that route paths attach to.
package item

import (
	apphttp "gateway_manager_api/internal/http"
	"gateway_manager_api/internal/item/handler"
	"gateway_manager_api/internal/item/repository"
	"gateway_manager_api/internal/item/service"
	"gateway_manager_api/platform/logger"
	"gateway_manager_api/platform/validator"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Module is the item bounded context module implementing http.Module.
type Module struct {
	handler *handler.Handler
	service *service.Service
	repo    repository.Repository
}

// NewModule creates and initializes the item module with all its dependencies.
func NewModule(pool *pgxpool.Pool, val *validator.Validator, log *logger.Logger) *Module {
	repo := repository.New(pool)
	svc := service.New(repo, log)
	h := handler.New(svc, val)

	return &Module{
		handler: h,
		service: svc,
		repo:    repo,
	}
}

// Name returns the module identifier.
func (m *Module) Name() string {
	return "item"
}

// Service returns the service layer for external use.
func (m *Module) Service() *service.Service {
	return m.service
}

// RegisterRoutes mounts item routes on the provided router context.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	items := ctx.V1.Group("/items")
	items.GET("", m.handler.List)
	items.POST("", m.handler.Create)
	items.PUT("/:id", m.handler.Update)
	items.DELETE("/:id", m.handler.Delete)
}

// Compile-time check that Module implements http.Module
var _ apphttp.Module = (*Module)(nil)
