package directions

import "github.com/paulmach/orb"

// Coordinate is a latitude/longitude pair.
type Coordinate struct {
	Lat float64
	Lon float64
}

// DirectionsRequest represents the query parameters from the frontend.
type DirectionsRequest struct {
	// From and To are "lat,lon".
	From string `form:"from" binding:"required"`
	To   string `form:"to" binding:"required"`
}

// Route is a driving route with its path in latitude-first order.
type Route struct {
	Path            [][2]float64 `json:"path"`
	DistanceMeters  float64      `json:"distanceMeters"`
	DurationSeconds float64      `json:"durationSeconds"`
}

// osrmResponse mirrors the relevant parts of an OSRM route response.
type osrmResponse struct {
	Code    string      `json:"code"`
	Message string      `json:"message"`
	Routes  []osrmRoute `json:"routes"`
}

type osrmRoute struct {
	Geometry osrmGeometry `json:"geometry"`
	Distance float64      `json:"distance"`
	Duration float64      `json:"duration"`
}

// osrmGeometry is a GeoJSON LineString, longitude first.
type osrmGeometry struct {
	Type        string         `json:"type"`
	Coordinates orb.LineString `json:"coordinates"`
}
