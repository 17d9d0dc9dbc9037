package directions

import (
	"context"
	"net/http"
	"net/http/httptest"
	"reflect"
	"strings"
	"testing"
	"time"

	"familyplaces_backend/platform/apperr"
	"familyplaces_backend/platform/logger"
)

type testRoutingConfig struct{ url string }

func (c testRoutingConfig) GetRoutingURL() string             { return c.url }
func (c testRoutingConfig) GetRoutingTimeout() time.Duration { return 5 * time.Second }
func (c testRoutingConfig) GetUpstreamUserAgent() string      { return "FamilyPlacesTest/1.0" }

func newTestClient(t *testing.T, status int, body string, gotPath *string) *OSRMClient {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if gotPath != nil {
			*gotPath = r.URL.RequestURI()
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return NewOSRMClient(testRoutingConfig{url: srv.URL}, logger.Discard())
}

func TestOSRMClientFlipsCoordinates(t *testing.T) {
	var path string
	client := newTestClient(t, http.StatusOK, `{
		"code": "Ok",
		"routes": [{
			"geometry": {"type": "LineString", "coordinates": [[-97.74,30.27],[-97.75,30.28]]},
			"distance": 1523.4,
			"duration": 211.7
		}]
	}`, &path)

	route, err := client.Route(context.Background(), Coordinate{Lat: 30.27, Lon: -97.74}, Coordinate{Lat: 30.28, Lon: -97.75})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := [][2]float64{{30.27, -97.74}, {30.28, -97.75}}
	if !reflect.DeepEqual(route.Path, want) {
		t.Fatalf("expected latitude-first path %v, got %v", want, route.Path)
	}
	if route.DistanceMeters != 1523.4 || route.DurationSeconds != 211.7 {
		t.Fatalf("unexpected summary %+v", route)
	}

	if !strings.HasPrefix(path, "/route/v1/driving/-97.74,30.27;-97.75,30.28?") {
		t.Fatalf("expected longitude-first coordinates in request, got %s", path)
	}
	if !strings.Contains(path, "overview=full") || !strings.Contains(path, "geometries=geojson") {
		t.Fatalf("expected full geojson geometry request, got %s", path)
	}
}

func TestOSRMClientZeroRoutes(t *testing.T) {
	client := newTestClient(t, http.StatusOK, `{"code":"Ok","routes":[]}`, nil)

	_, err := client.Route(context.Background(), Coordinate{}, Coordinate{Lat: 1, Lon: 1})
	if !apperr.Is(err, apperr.KindNoRoute) {
		t.Fatalf("expected no route error, got %v", err)
	}
}

func TestOSRMClientNoRouteCodes(t *testing.T) {
	bodies := []string{
		`{"code":"NoRoute","message":"Impossible route between points"}`,
		`{"code":"NoSegment","message":"Could not find a matching segment for coordinate 0"}`,
	}

	for _, body := range bodies {
		client := newTestClient(t, http.StatusBadRequest, body, nil)
		_, err := client.Route(context.Background(), Coordinate{}, Coordinate{Lat: 1, Lon: 1})
		if !apperr.Is(err, apperr.KindNoRoute) {
			t.Fatalf("%s: expected no route error, got %v", body, err)
		}
		if name, state := client.UpstreamState(); name != "osrm" || state != "closed" {
			t.Fatalf("expected a closed osrm breaker, got %s %s", name, state)
		}
	}
}

func TestOSRMClientUpstreamFailures(t *testing.T) {
	cases := map[string]struct {
		status int
		body   string
	}{
		"server error":  {http.StatusBadGateway, `bad gateway`},
		"invalid query": {http.StatusBadRequest, `{"code":"InvalidQuery","message":"Query string malformed"}`},
		"malformed":     {http.StatusOK, `{"code":"Ok","routes":[{"geometry":`},
		"non ok code":   {http.StatusOK, `{"code":"TooBig","routes":[]}`},
	}

	for name, tc := range cases {
		client := newTestClient(t, tc.status, tc.body, nil)
		_, err := client.Route(context.Background(), Coordinate{}, Coordinate{Lat: 1, Lon: 1})
		if !apperr.Is(err, apperr.KindUpstream) {
			t.Fatalf("%s: expected upstream error, got %v", name, err)
		}
	}
}
