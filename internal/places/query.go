package places

import (
	"math"
	"strconv"
	"strings"

	"familyplaces_backend/platform/apperr"

	"github.com/paulmach/orb"
)

// queryTimeoutSeconds is the server-side timeout directive sent to Overpass.
const queryTimeoutSeconds = 90

const fieldBBox = "bbox"

// BBox is a south/west/north/east rectangle.
type BBox struct {
	bound orb.Bound
}

// DefaultBBox covers central Austin, small enough to keep the first load fast.
var DefaultBBox = NewBBox(30.25, -97.80, 30.35, -97.70)

// NewBBox builds a box from its four edges.
func NewBBox(south, west, north, east float64) BBox {
	return BBox{bound: orb.Bound{
		Min: orb.Point{west, south},
		Max: orb.Point{east, north},
	}}
}

func (b BBox) South() float64 { return b.bound.Min.Lat() }
func (b BBox) West() float64  { return b.bound.Min.Lon() }
func (b BBox) North() float64 { return b.bound.Max.Lat() }
func (b BBox) East() float64  { return b.bound.Max.Lon() }

// String renders the box in Overpass order: south,west,north,east.
func (b BBox) String() string {
	parts := []string{
		formatCoord(b.South()),
		formatCoord(b.West()),
		formatCoord(b.North()),
		formatCoord(b.East()),
	}
	return strings.Join(parts, ",")
}

// ParseBBox parses "south,west,north,east". An empty string yields DefaultBBox.
func ParseBBox(raw string) (BBox, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return DefaultBBox, nil
	}

	parts := strings.Split(raw, ",")
	if len(parts) != 4 {
		return BBox{}, apperr.Validation(fieldBBox, "bbox must be south,west,north,east")
	}

	values := make([]float64, 4)
	for i, part := range parts {
		v, err := strconv.ParseFloat(strings.TrimSpace(part), 64)
		if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
			return BBox{}, apperr.Validation(fieldBBox, "bbox must contain four numbers")
		}
		values[i] = v
	}

	south, west, north, east := values[0], values[1], values[2], values[3]
	switch {
	case south < -90 || north > 90:
		return BBox{}, apperr.Validation(fieldBBox, "bbox latitudes must be between -90 and 90")
	case west < -180 || east > 180:
		return BBox{}, apperr.Validation(fieldBBox, "bbox longitudes must be between -180 and 180")
	case south > north || west > east:
		return BBox{}, apperr.Validation(fieldBBox, "bbox south/west must not exceed north/east")
	}

	return NewBBox(south, west, north, east), nil
}

// BuildQuery renders an Overpass QL query for the given filters inside box.
// Areas are returned with their centroid ("out center").
func BuildQuery(box BBox, fragments []string) string {
	var b strings.Builder
	b.WriteString("[out:json][timeout:")
	b.WriteString(strconv.Itoa(queryTimeoutSeconds))
	b.WriteString("][bbox:")
	b.WriteString(box.String())
	b.WriteString("];\n(\n")
	for _, fragment := range fragments {
		b.WriteString(fragment)
		b.WriteString(";\n")
	}
	b.WriteString(");\nout center;\n")
	return b.String()
}

func formatCoord(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
