package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"

	"familyplaces_backend/internal/savedplaces/repository"
	"familyplaces_backend/internal/savedplaces/service"
	"familyplaces_backend/internal/savedplaces/transport"
	"familyplaces_backend/platform/httpkit"
	"familyplaces_backend/platform/logger"
	"familyplaces_backend/platform/validator"
)

const zilkerBody = `{"osmId":"123","name":"Zilker Park","lat":30.2669,"lon":-97.7729,"type":"park"}`

func newTestEngine() *gin.Engine {
	gin.SetMode(gin.TestMode)
	h := New(service.New(repository.NewMemory(), validator.New(), logger.Discard()))

	engine := gin.New()
	group := engine.Group("/api/saved-places", func(c *gin.Context) {
		if user := c.GetHeader("X-Test-User"); user != "" {
			c.Set(httpkit.ContextUserIDKey, user)
		}
		c.Next()
	})
	group.GET("", h.List)
	group.POST("", h.Create)
	group.DELETE("/:id", h.Delete)
	group.PATCH("/:id/visited", h.ToggleVisited)
	group.PATCH("/:id/favorite", h.ToggleFavorited)
	return engine
}

func do(engine *gin.Engine, method, path, user, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if user != "" {
		req.Header.Set("X-Test-User", user)
	}
	rec := httptest.NewRecorder()
	engine.ServeHTTP(rec, req)
	return rec
}

func TestCreateReturnsCreatedRow(t *testing.T) {
	engine := newTestEngine()

	rec := do(engine, http.MethodPost, "/api/saved-places", "alice", zilkerBody)
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}

	var raw map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &raw); err != nil {
		t.Fatalf("decode: %v", err)
	}
	for _, key := range []string{"id", "userId", "osmId", "name", "lat", "lon", "type", "address", "notes", "isFavorited", "visited", "createdAt"} {
		if _, ok := raw[key]; !ok {
			t.Fatalf("expected key %q in response %s", key, rec.Body.String())
		}
	}
	if raw["address"] != nil || raw["userId"] != "alice" {
		t.Fatalf("unexpected response %s", rec.Body.String())
	}
}

func TestCreateValidationNamesField(t *testing.T) {
	engine := newTestEngine()

	rec := do(engine, http.MethodPost, "/api/saved-places", "alice", `{"osmId":"123","lat":30.1,"lon":-97.7,"type":"park"}`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}

	var resp httpkit.ErrorResponse
	_ = json.Unmarshal(rec.Body.Bytes(), &resp)
	details, _ := resp.Details.(map[string]any)
	if details["field"] != "name" {
		t.Fatalf("expected field name in details, got %s", rec.Body.String())
	}
}

func TestRequiresIdentity(t *testing.T) {
	engine := newTestEngine()

	rec := do(engine, http.MethodGet, "/api/saved-places", "", "")
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
}

func TestToggleAndDeleteFlow(t *testing.T) {
	engine := newTestEngine()

	var created transport.SavedPlaceResponse
	_ = json.Unmarshal(do(engine, http.MethodPost, "/api/saved-places", "alice", zilkerBody).Body.Bytes(), &created)

	rec := do(engine, http.MethodPatch, "/api/saved-places/1/favorite", "alice", "")
	var toggled transport.SavedPlaceResponse
	_ = json.Unmarshal(rec.Body.Bytes(), &toggled)
	if rec.Code != http.StatusOK || !toggled.IsFavorited || toggled.ID != created.ID {
		t.Fatalf("expected favorited row, got %d %s", rec.Code, rec.Body.String())
	}

	if rec := do(engine, http.MethodPatch, "/api/saved-places/1/visited", "bob", ""); rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404 for another user's row, got %d", rec.Code)
	}
	if rec := do(engine, http.MethodDelete, "/api/saved-places/1", "alice", ""); rec.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", rec.Code)
	}
	if rec := do(engine, http.MethodDelete, "/api/saved-places/1", "alice", ""); rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404 on second delete, got %d", rec.Code)
	}
}

func TestMalformedIDIsNotFound(t *testing.T) {
	engine := newTestEngine()

	for _, id := range []string{"abc", "0", "-3", "1.5"} {
		rec := do(engine, http.MethodDelete, "/api/saved-places/"+id, "alice", "")
		if rec.Code != http.StatusNotFound {
			t.Fatalf("%s: expected 404, got %d", id, rec.Code)
		}
	}
}

func TestCreateMistypedFieldIsNamed(t *testing.T) {
	engine := newTestEngine()
	cases := map[string]string{
		"lat":   `{"osmId":"123","name":"Zilker","lat":"abc","lon":-97.7,"type":"park"}`,
		"osmId": `{"osmId":123,"name":"Zilker","lat":30.1,"lon":-97.7,"type":"park"}`,
	}

	for field, body := range cases {
		rec := do(engine, http.MethodPost, "/api/saved-places", "alice", body)
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("%s: expected 400, got %d", field, rec.Code)
		}

		var resp httpkit.ErrorResponse
		_ = json.Unmarshal(rec.Body.Bytes(), &resp)
		details, _ := resp.Details.(map[string]any)
		if details["field"] != field {
			t.Fatalf("expected field %s in details, got %s", field, rec.Body.String())
		}
	}
}

func TestCreateMalformedJSONIsGenericBadRequest(t *testing.T) {
	rec := do(newTestEngine(), http.MethodPost, "/api/saved-places", "alice", `{"osmId":`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}

	var resp httpkit.ErrorResponse
	_ = json.Unmarshal(rec.Body.Bytes(), &resp)
	if resp.Error != msgInvalidRequest || resp.Details != nil {
		t.Fatalf("expected generic invalid request, got %s", rec.Body.String())
	}
}
