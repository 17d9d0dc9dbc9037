package places

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"familyplaces_backend/platform/apperr"
	"familyplaces_backend/platform/config"
	"familyplaces_backend/platform/logger"
	"familyplaces_backend/platform/upstream"

	"github.com/goccy/go-json"
)

const (
	overpassUpstream = "overpass"
	maxOverpassBody  = 64 << 20
)

// ElementSource runs a geodata query and returns the raw elements.
type ElementSource interface {
	Query(ctx context.Context, query string) ([]Element, error)
}

// OverpassClient talks to an Overpass API interpreter endpoint.
type OverpassClient struct {
	endpoint  string
	userAgent string
	client    *http.Client
	breaker   *upstream.Breaker[[]Element]
	log       *logger.Logger
}

func NewOverpassClient(cfg config.OverpassConfig, log *logger.Logger) *OverpassClient {
	return &OverpassClient{
		endpoint:  cfg.GetOverpassURL(),
		userAgent: cfg.GetUpstreamUserAgent(),
		client:    &http.Client{Timeout: cfg.GetOverpassTimeout()},
		breaker:   upstream.NewBreaker[[]Element](overpassUpstream, upstream.Settings{}, log),
		log:       log,
	}
}

// UpstreamState reports the name and breaker state of the Overpass upstream.
func (c *OverpassClient) UpstreamState() (string, string) {
	return overpassUpstream, c.breaker.State()
}

// Query posts the query as form data. Every failure is an upstream error.
func (c *OverpassClient) Query(ctx context.Context, query string) ([]Element, error) {
	return c.breaker.Execute(func() ([]Element, error) {
		return c.do(ctx, query)
	})
}

func (c *OverpassClient) do(ctx context.Context, query string) ([]Element, error) {
	form := url.Values{}
	form.Set("data", query)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, apperr.Upstream("build overpass request", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.client.Do(req)
	if err != nil {
		c.log.UpstreamError(overpassUpstream, 0, err)
		return nil, apperr.Upstream("overpass request failed", err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))
		statusErr := fmt.Errorf("status %d", resp.StatusCode)
		c.log.UpstreamError(overpassUpstream, resp.StatusCode, statusErr)
		return nil, apperr.Upstream("overpass upstream error", statusErr)
	}

	var payload overpassResponse
	if err := json.NewDecoder(io.LimitReader(resp.Body, maxOverpassBody)).Decode(&payload); err != nil {
		c.log.UpstreamError(overpassUpstream, resp.StatusCode, err)
		return nil, apperr.Upstream("decode overpass payload", err)
	}

	if payload.Remark != "" {
		c.log.Warn("overpass returned a remark", "remark", payload.Remark, "elements", len(payload.Elements))
	}

	return payload.Elements, nil
}
