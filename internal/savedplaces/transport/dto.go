package transport

// CreateSavedPlaceRequest contains data for saving a place. The optional
// flags let a client save-as-favorite or save-as-visited in one call.
type CreateSavedPlaceRequest struct {
	OsmID       string   `json:"osmId" validate:"required,max=64"`
	Name        string   `json:"name" validate:"required,max=255"`
	Lat         *float64 `json:"lat" validate:"required,latitude"`
	Lon         *float64 `json:"lon" validate:"required,longitude"`
	Type        string   `json:"type" validate:"required,max=64"`
	Address     *string  `json:"address,omitempty" validate:"omitempty,max=500"`
	Notes       *string  `json:"notes,omitempty" validate:"omitempty,max=2000"`
	IsFavorited *bool    `json:"isFavorited,omitempty"`
	Visited     *bool    `json:"visited,omitempty"`
}

// SavedPlaceResponse represents a saved place in API responses.
type SavedPlaceResponse struct {
	ID          int64   `json:"id"`
	UserID      string  `json:"userId"`
	OsmID       string  `json:"osmId"`
	Name        string  `json:"name"`
	Lat         float64 `json:"lat"`
	Lon         float64 `json:"lon"`
	Type        string  `json:"type"`
	Address     *string `json:"address"`
	Notes       *string `json:"notes"`
	IsFavorited bool    `json:"isFavorited"`
	Visited     bool    `json:"visited"`
	CreatedAt   string  `json:"createdAt"`
}
