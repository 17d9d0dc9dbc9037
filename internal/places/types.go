package places

// SearchRequest represents the query parameters from the frontend.
type SearchRequest struct {
	// Categories is a comma separated list, e.g. "playground,museum".
	Categories string `form:"categories"`
	// BBox is "south,west,north,east"; empty means the default city box.
	BBox string `form:"bbox"`
}

// Place is the normalized point of interest returned to the frontend.
type Place struct {
	ID   int64             `json:"id"`
	Lat  float64           `json:"lat"`
	Lon  float64           `json:"lon"`
	Name string            `json:"name"`
	Type string            `json:"type"`
	Tags map[string]string `json:"tags"`
}

// CategoryResponse describes one category for the UI's filter list.
type CategoryResponse struct {
	Tag   string `json:"tag"`
	Label string `json:"label"`
	Key   string `json:"osmKey"`
	Value string `json:"osmValue"`
}

// Element mirrors the relevant parts of an Overpass element.
type Element struct {
	Type   string            `json:"type"`
	ID     int64             `json:"id"`
	Lat    *float64          `json:"lat"`
	Lon    *float64          `json:"lon"`
	Center *elementCenter    `json:"center"`
	Tags   map[string]string `json:"tags"`
}

type elementCenter struct {
	Lat *float64 `json:"lat"`
	Lon *float64 `json:"lon"`
}

// overpassResponse is the JSON envelope of an interpreter call.
type overpassResponse struct {
	Remark   string    `json:"remark"`
	Elements []Element `json:"elements"`
}
