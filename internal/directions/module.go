// Package directions relays driving directions from an OSRM routing service.
package directions

import (
	apphttp "familyplaces_backend/internal/http"
	"familyplaces_backend/platform/logger"
)

// Module wires the directions HTTP route.
type Module struct {
	handler *Handler
}

func NewModule(source RouteSource, log *logger.Logger) *Module {
	svc := NewService(source, log)
	return &Module{handler: NewHandler(svc)}
}

func (m *Module) Name() string {
	return "directions"
}

func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	ctx.API.GET("/directions", ctx.PublicRateLimit, m.handler.GetDirections)
}

var _ apphttp.Module = (*Module)(nil)
