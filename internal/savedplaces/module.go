// Package savedplaces provides the per-user bookmark store.
package savedplaces

import (
	apphttp "familyplaces_backend/internal/http"
	"familyplaces_backend/internal/savedplaces/handler"
	"familyplaces_backend/internal/savedplaces/repository"
	"familyplaces_backend/internal/savedplaces/service"
	"familyplaces_backend/platform/logger"
	"familyplaces_backend/platform/validator"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Module is the saved places module implementing http.Module.
type Module struct {
	handler *handler.Handler
}

// NewModule creates the module backed by PostgreSQL.
func NewModule(pool *pgxpool.Pool, val *validator.Validator, log *logger.Logger) *Module {
	return NewModuleWithRepository(repository.New(pool), val, log)
}

// NewModuleWithRepository creates the module over any repository implementation.
func NewModuleWithRepository(repo repository.Repository, val *validator.Validator, log *logger.Logger) *Module {
	return &Module{handler: handler.New(service.New(repo, val, log))}
}

// Name returns the module identifier.
func (m *Module) Name() string {
	return "savedplaces"
}

// RegisterRoutes mounts saved place routes on the authenticated group.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	group := ctx.Protected.Group("/saved-places")
	group.GET("", m.handler.List)
	group.POST("", m.handler.Create)
	group.DELETE("/:id", m.handler.Delete)
	group.PATCH("/:id/visited", m.handler.ToggleVisited)
	group.PATCH("/:id/favorite", m.handler.ToggleFavorited)
}

var _ apphttp.Module = (*Module)(nil)
