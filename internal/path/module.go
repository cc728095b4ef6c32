// Package path provides the route-rule bounded context module.
// It owns path records and enforces the auth/role pairing law on every
// mutation.
package path

import (
	apphttp "gateway_manager_api/internal/http"
	"gateway_manager_api/internal/path/handler"
	"gateway_manager_api/internal/path/repository"
	"gateway_manager_api/internal/path/service"
	"gateway_manager_api/platform/logger"
	"gateway_manager_api/platform/validator"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Module is the path bounded context module implementing http.Module.
type Module struct {
	handler *handler.Handler
	service *service.Service
	repo    repository.Repository
}

// NewModule creates and initializes the path module with all its dependencies.
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
	return "path"
}

// Service returns the service layer for external use.
func (m *Module) Service() *service.Service {
	return m.service
}

// RegisterRoutes mounts path routes on the provided router context.
// The listing route hangs off the owning item's resource.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	ctx.V1.GET("/items/:id/paths", m.handler.ListByItem)

	paths := ctx.V1.Group("/paths")
	paths.POST("", m.handler.Create)
	paths.PUT("/:id", m.handler.Update)
	paths.DELETE("/:id", m.handler.Delete)
}

// Compile-time check that Module implements http.Module
var _ apphttp.Module = (*Module)(nil)
