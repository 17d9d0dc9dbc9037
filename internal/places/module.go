// Package places proxies point-of-interest searches to the Overpass API and
// owns the category catalog shared with the UI.
package places

import (
	apphttp "familyplaces_backend/internal/http"
	"familyplaces_backend/platform/logger"
)

// Module wires the places search HTTP routes.
type Module struct {
	handler *Handler
}

// NewModule builds the module on top of any ElementSource, normally an
// *OverpassClient.
func NewModule(source ElementSource, log *logger.Logger) *Module {
	svc := NewService(source, log)
	h := NewHandler(svc)
	return &Module{handler: h}
}

func (m *Module) Name() string {
	return "places"
}

func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	group := ctx.API.Group("/places")
	group.GET("/search", ctx.PublicRateLimit, m.handler.Search)
	group.GET("/categories", m.handler.Categories)
}

var _ apphttp.Module = (*Module)(nil)
