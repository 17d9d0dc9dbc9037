package places

import (
	"context"
	"math"
	"strings"

	"familyplaces_backend/platform/apperr"
	"familyplaces_backend/platform/logger"
)

const msgSearchFailed = "Failed to fetch map data"

type Service struct {
	source ElementSource
	log    *logger.Logger
}

func NewService(source ElementSource, log *logger.Logger) *Service {
	return &Service{source: source, log: log}
}

// Search queries the geodata service for the requested categories inside
// bbox and normalizes the answer. Results are never cached.
func (s *Service) Search(ctx context.Context, categories, bbox string) ([]Place, error) {
	box, err := ParseBBox(bbox)
	if err != nil {
		return nil, err
	}

	query := BuildQuery(box, Resolve(splitCategories(categories)))
	s.log.WithContext(ctx).Debug("querying overpass", "bbox", box.String(), "query", query)

	elements, err := s.source.Query(ctx, query)
	if err != nil {
		return nil, apperr.Upstream(msgSearchFailed, err)
	}

	results := make([]Place, 0, len(elements))
	for _, el := range elements {
		place, ok := buildPlace(el)
		if !ok {
			continue
		}
		results = append(results, place)
	}

	return results, nil
}

// CategoryList returns the catalog for the UI.
func (s *Service) CategoryList() []CategoryResponse {
	cats := Categories()
	out := make([]CategoryResponse, 0, len(cats))
	for _, c := range cats {
		out = append(out, CategoryResponse{Tag: c.Tag, Label: c.Label, Key: c.Key, Value: c.Value})
	}
	return out
}

func splitCategories(raw string) []string {
	if strings.TrimSpace(raw) == "" {
		return nil
	}
	return strings.Split(raw, ",")
}

func buildPlace(el Element) (Place, bool) {
	lat, lon, ok := coordinates(el)
	if !ok {
		return Place{}, false
	}

	tags := el.Tags
	if tags == nil {
		tags = map[string]string{}
	}

	placeType := Classify(tags)
	name := tags["name"]
	if name == "" {
		name = placeType + " (Unnamed)"
	}

	return Place{
		ID:   el.ID,
		Lat:  lat,
		Lon:  lon,
		Name: name,
		Type: placeType,
		Tags: tags,
	}, true
}

// coordinates prefers the element's own position (nodes) and falls back to
// the centroid Overpass reports for areas.
func coordinates(el Element) (float64, float64, bool) {
	if el.Lat != nil && el.Lon != nil && finite(*el.Lat, *el.Lon) {
		return *el.Lat, *el.Lon, true
	}
	if el.Center != nil && el.Center.Lat != nil && el.Center.Lon != nil && finite(*el.Center.Lat, *el.Center.Lon) {
		return *el.Center.Lat, *el.Center.Lon, true
	}
	return 0, 0, false
}

func finite(values ...float64) bool {
	for _, v := range values {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}
