package places

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	apphttp "familyplaces_backend/internal/http"
	"familyplaces_backend/platform/apperr"
	"familyplaces_backend/platform/httpkit"
	"familyplaces_backend/platform/logger"

	"github.com/gin-gonic/gin"
)

func newPlacesEngine(src ElementSource) *gin.Engine {
	gin.SetMode(gin.TestMode)
	engine := gin.New()
	NewModule(src, logger.Discard()).RegisterRoutes(&apphttp.RouterContext{
		Engine:          engine,
		API:             engine.Group("/api"),
		PublicRateLimit: func(c *gin.Context) { c.Next() },
	})
	return engine
}

func getJSON(engine *gin.Engine, path string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	engine.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
	return rec
}

func TestSearchEndpointUpstreamFailure(t *testing.T) {
	engine := newPlacesEngine(&fakeSource{err: apperr.Upstream("overpass upstream error", errors.New("status 504"))})

	rec := getJSON(engine, "/api/places/search?categories=park")
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", rec.Code)
	}

	var body httpkit.ErrorResponse
	_ = json.Unmarshal(rec.Body.Bytes(), &body)
	if body.Error != msgSearchFailed {
		t.Fatalf("expected fixed user-facing message, got %q", body.Error)
	}
}

func TestSearchEndpointRejectsBadBBox(t *testing.T) {
	src := &fakeSource{}
	engine := newPlacesEngine(src)

	rec := getJSON(engine, "/api/places/search?bbox=30.35,-97.80,30.25,-97.70")
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
	if len(src.queries) != 0 {
		t.Fatal("expected no upstream call for an invalid bbox")
	}
}

func TestCategoriesEndpointListsCatalog(t *testing.T) {
	rec := getJSON(newPlacesEngine(&fakeSource{}), "/api/places/categories")

	var got []CategoryResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(got) != len(Categories()) || got[0].Tag != "playground" || got[0].Key != "leisure" {
		t.Fatalf("unexpected catalog %+v", got)
	}
}
