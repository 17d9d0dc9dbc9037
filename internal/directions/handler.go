package directions

import (
	"familyplaces_backend/platform/apperr"
	"familyplaces_backend/platform/httpkit"

	"github.com/gin-gonic/gin"
)

// Handler exposes the directions endpoint.
type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

// GetDirections handles GET /api/directions?from=lat,lon&to=lat,lon
func (h *Handler) GetDirections(c *gin.Context) {
	var req DirectionsRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		field := fieldOrigin
		if c.Query(fieldOrigin) != "" {
			field = fieldDestination
		}
		httpkit.HandleError(c, apperr.Validation(field, field+" is required"))
		return
	}

	origin, err := ParseCoordinate(fieldOrigin, req.From)
	if httpkit.HandleError(c, err) {
		return
	}
	destination, err := ParseCoordinate(fieldDestination, req.To)
	if httpkit.HandleError(c, err) {
		return
	}

	route, err := h.svc.GetDirections(c.Request.Context(), origin, destination)
	if httpkit.HandleError(c, err) {
		return
	}

	httpkit.OK(c, route)
}
