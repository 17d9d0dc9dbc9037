package places

import (
	"net/http"

	"familyplaces_backend/platform/httpkit"

	"github.com/gin-gonic/gin"
)

// Handler exposes the places search endpoints.
type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

// Search handles GET /api/places/search?categories=...&bbox=...
func (h *Handler) Search(c *gin.Context) {
	var req SearchRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, "invalid query", nil)
		return
	}

	results, err := h.svc.Search(c.Request.Context(), req.Categories, req.BBox)
	if httpkit.HandleError(c, err) {
		return
	}

	httpkit.OK(c, results)
}

// Categories handles GET /api/places/categories
func (h *Handler) Categories(c *gin.Context) {
	httpkit.OK(c, h.svc.CategoryList())
}
