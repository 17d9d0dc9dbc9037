package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"familyplaces_backend/internal/savedplaces/repository"
	"familyplaces_backend/internal/savedplaces/service"
	"familyplaces_backend/internal/savedplaces/transport"
	"familyplaces_backend/platform/apperr"
	"familyplaces_backend/platform/httpkit"
)

const msgInvalidRequest = "invalid request"

// Handler handles HTTP requests for saved places.
type Handler struct {
	svc *service.Service
}

// New creates a new saved places handler.
func New(svc *service.Service) *Handler {
	return &Handler{svc: svc}
}

// List returns the caller's saved places.
// GET /api/saved-places
func (h *Handler) List(c *gin.Context) {
	identity := httpkit.MustGetIdentity(c)
	if identity == nil {
		return
	}

	result, err := h.svc.List(c.Request.Context(), identity.UserID())
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, result)
}

// Create saves a place for the caller.
// POST /api/saved-places
func (h *Handler) Create(c *gin.Context) {
	identity := httpkit.MustGetIdentity(c)
	if identity == nil {
		return
	}

	var req transport.CreateSavedPlaceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		if field := mistypedField(err); field != "" {
			httpkit.HandleError(c, apperr.Validation(field, field+" is invalid"))
			return
		}
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}

	result, err := h.svc.Create(c.Request.Context(), identity.UserID(), req)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.JSON(c, http.StatusCreated, result)
}

// Delete removes one of the caller's saved places.
// DELETE /api/saved-places/:id
func (h *Handler) Delete(c *gin.Context) {
	identity := httpkit.MustGetIdentity(c)
	if identity == nil {
		return
	}
	id, ok := parseID(c)
	if !ok {
		return
	}

	if httpkit.HandleError(c, h.svc.Delete(c.Request.Context(), identity.UserID(), id)) {
		return
	}
	httpkit.NoContent(c)
}

// ToggleVisited flips the visited flag.
// PATCH /api/saved-places/:id/visited
func (h *Handler) ToggleVisited(c *gin.Context) {
	identity := httpkit.MustGetIdentity(c)
	if identity == nil {
		return
	}
	id, ok := parseID(c)
	if !ok {
		return
	}

	result, err := h.svc.ToggleVisited(c.Request.Context(), identity.UserID(), id)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, result)
}

// ToggleFavorited flips the favorite flag.
// PATCH /api/saved-places/:id/favorite
func (h *Handler) ToggleFavorited(c *gin.Context) {
	identity := httpkit.MustGetIdentity(c)
	if identity == nil {
		return
	}
	id, ok := parseID(c)
	if !ok {
		return
	}

	result, err := h.svc.ToggleFavorited(c.Request.Context(), identity.UserID(), id)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, result)
}

// parseID reads :id. Malformed ids are reported as not found so the
// response is the same as for a row the caller does not own.
func parseID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		httpkit.HandleError(c, apperr.NotFound(repository.NotFoundMessage))
		return 0, false
	}
	return id, true
}

// mistypedField returns the json name of a field whose value had the wrong
// type, or "" for bodies that are not valid JSON at all.
func mistypedField(err error) string {
	var typeErr *json.UnmarshalTypeError
	if !errors.As(err, &typeErr) {
		return ""
	}
	return typeErr.Field
}
