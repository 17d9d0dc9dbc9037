package directions

import (
	"context"
	"math"
	"strconv"
	"strings"

	"familyplaces_backend/platform/apperr"
	"familyplaces_backend/platform/logger"

	"github.com/paulmach/orb/geo"
)

const (
	msgNoRoute       = "Could not calculate route"
	msgRoutingFailed = "Failed to fetch directions"
	fieldOrigin      = "from"
	fieldDestination = "to"
)

type Service struct {
	source RouteSource
	log    *logger.Logger
}

func NewService(source RouteSource, log *logger.Logger) *Service {
	return &Service{source: source, log: log}
}

// GetDirections returns the driving route between two coordinates.
func (s *Service) GetDirections(ctx context.Context, origin, destination Coordinate) (Route, error) {
	if err := validateCoordinate(fieldOrigin, origin); err != nil {
		return Route{}, err
	}
	if err := validateCoordinate(fieldDestination, destination); err != nil {
		return Route{}, err
	}

	route, err := s.source.Route(ctx, origin, destination)
	if err != nil {
		if apperr.Is(err, apperr.KindNoRoute) {
			s.log.WithContext(ctx).Info("no route found", "from", origin, "to", destination)
			return Route{}, apperr.NoRoute(msgNoRoute)
		}
		return Route{}, apperr.Upstream(msgRoutingFailed, err)
	}

	return route, nil
}

// ParseCoordinate parses "lat,lon" for the given request field.
func ParseCoordinate(field, raw string) (Coordinate, error) {
	parts := strings.Split(strings.TrimSpace(raw), ",")
	if len(parts) != 2 {
		return Coordinate{}, apperr.Validation(field, field+" must be lat,lon")
	}

	lat, errLat := strconv.ParseFloat(strings.TrimSpace(parts[0]), 64)
	lon, errLon := strconv.ParseFloat(strings.TrimSpace(parts[1]), 64)
	if errLat != nil || errLon != nil {
		return Coordinate{}, apperr.Validation(field, field+" must be lat,lon")
	}

	c := Coordinate{Lat: lat, Lon: lon}
	if err := validateCoordinate(field, c); err != nil {
		return Coordinate{}, err
	}
	return c, nil
}

func validateCoordinate(field string, c Coordinate) error {
	if math.IsNaN(c.Lat) || math.IsNaN(c.Lon) || math.IsInf(c.Lat, 0) || math.IsInf(c.Lon, 0) {
		return apperr.Validation(field, field+" must be finite")
	}
	if c.Lat < -90 || c.Lat > 90 {
		return apperr.Validation(field, field+" latitude must be between -90 and 90")
	}
	if c.Lon < -180 || c.Lon > 180 {
		return apperr.Validation(field, field+" longitude must be between -180 and 180")
	}
	return nil
}

// toRoute flips OSRM's longitude-first geometry into latitude-first pairs.
// A missing distance is derived from the geometry.
func toRoute(r osrmRoute) Route {
	line := r.Geometry.Coordinates
	path := make([][2]float64, 0, len(line))
	for _, p := range line {
		path = append(path, [2]float64{p.Lat(), p.Lon()})
	}

	distance := r.Distance
	if distance == 0 && len(line) > 1 {
		distance = geo.Length(line)
	}

	return Route{
		Path:            path,
		DistanceMeters:  distance,
		DurationSeconds: r.Duration,
	}
}
