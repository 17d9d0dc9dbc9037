package directions

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"

	"familyplaces_backend/platform/apperr"
	"familyplaces_backend/platform/config"
	"familyplaces_backend/platform/logger"
	"familyplaces_backend/platform/upstream"

	"github.com/goccy/go-json"
)

const (
	routingUpstream = "osrm"
	maxRoutingBody  = 16 << 20

	osrmCodeOK        = "Ok"
	osrmCodeNoRoute   = "NoRoute"
	osrmCodeNoSegment = "NoSegment" // an endpoint is off the road network
)

// RouteSource fetches a driving route between two points.
type RouteSource interface {
	Route(ctx context.Context, origin, destination Coordinate) (Route, error)
}

// OSRMClient calls an OSRM-compatible /route/v1 endpoint.
type OSRMClient struct {
	baseURL   string
	userAgent string
	client    *http.Client
	breaker   *upstream.Breaker[Route]
	log       *logger.Logger
}

func NewOSRMClient(cfg config.RoutingConfig, log *logger.Logger) *OSRMClient {
	return &OSRMClient{
		baseURL:   cfg.GetRoutingURL(),
		userAgent: cfg.GetUpstreamUserAgent(),
		client:    &http.Client{Timeout: cfg.GetRoutingTimeout()},
		breaker:   upstream.NewBreaker[Route](routingUpstream, upstream.Settings{}, log),
		log:       log,
	}
}

// UpstreamState reports the name and breaker state of the routing upstream.
func (c *OSRMClient) UpstreamState() (string, string) {
	return routingUpstream, c.breaker.State()
}

// Route requests full-geometry driving directions. The returned path is
// already latitude-first.
func (c *OSRMClient) Route(ctx context.Context, origin, destination Coordinate) (Route, error) {
	return c.breaker.Execute(func() (Route, error) {
		return c.do(ctx, origin, destination)
	})
}

func (c *OSRMClient) do(ctx context.Context, origin, destination Coordinate) (Route, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.routeURL(origin, destination), nil)
	if err != nil {
		return Route{}, apperr.Upstream("build routing request", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.client.Do(req)
	if err != nil {
		c.log.UpstreamError(routingUpstream, 0, err)
		return Route{}, apperr.Upstream("routing request failed", err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	var payload osrmResponse
	decodeErr := json.NewDecoder(io.LimitReader(resp.Body, maxRoutingBody)).Decode(&payload)

	// OSRM answers "no route" with a 400 and a JSON body.
	if decodeErr == nil && (payload.Code == osrmCodeNoRoute || payload.Code == osrmCodeNoSegment) {
		return Route{}, apperr.NoRoute("no route between the given points")
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		statusErr := fmt.Errorf("status %d: %s", resp.StatusCode, payload.Message)
		c.log.UpstreamError(routingUpstream, resp.StatusCode, statusErr)
		return Route{}, apperr.Upstream("routing upstream error", statusErr)
	}
	if decodeErr != nil {
		c.log.UpstreamError(routingUpstream, resp.StatusCode, decodeErr)
		return Route{}, apperr.Upstream("decode routing payload", decodeErr)
	}
	if payload.Code != osrmCodeOK {
		codeErr := fmt.Errorf("code %q: %s", payload.Code, payload.Message)
		c.log.UpstreamError(routingUpstream, resp.StatusCode, codeErr)
		return Route{}, apperr.Upstream("routing upstream error", codeErr)
	}
	if len(payload.Routes) == 0 {
		return Route{}, apperr.NoRoute("no route between the given points")
	}

	return toRoute(payload.Routes[0]), nil
}

func (c *OSRMClient) routeURL(origin, destination Coordinate) string {
	coords := fmt.Sprintf("%s,%s;%s,%s",
		formatCoord(origin.Lon), formatCoord(origin.Lat),
		formatCoord(destination.Lon), formatCoord(destination.Lat),
	)
	params := url.Values{}
	params.Set("overview", "full")
	params.Set("geometries", "geojson")
	return c.baseURL + "/route/v1/driving/" + coords + "?" + params.Encode()
}

func formatCoord(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
