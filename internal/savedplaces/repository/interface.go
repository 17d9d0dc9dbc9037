package repository

import (
	"context"
	"time"
)

// SavedPlace is one user bookmark as stored in saved_places.
type SavedPlace struct {
	ID          int64     `db:"id"`
	UserID      string    `db:"user_id"`
	OsmID       string    `db:"osm_id"`
	Name        string    `db:"name"`
	Lat         float64   `db:"lat"`
	Lon         float64   `db:"lon"`
	Type        string    `db:"type"`
	Address     *string   `db:"address"`
	Notes       *string   `db:"notes"`
	IsFavorited bool      `db:"is_favorited"`
	Visited     bool      `db:"visited"`
	CreatedAt   time.Time `db:"created_at"`
}

// CreateParams contains parameters for creating a saved place.
type CreateParams struct {
	UserID      string
	OsmID       string
	Name        string
	Lat         float64
	Lon         float64
	Type        string
	Address     *string
	Notes       *string
	IsFavorited bool
	Visited     bool
}

// SavedPlaceReader provides read operations for saved places.
type SavedPlaceReader interface {
	List(ctx context.Context, userID string) ([]SavedPlace, error)
}

// SavedPlaceWriter provides write operations for saved places.
// Every call is scoped by userID; a row owned by someone else is NotFound.
type SavedPlaceWriter interface {
	Create(ctx context.Context, params CreateParams) (SavedPlace, error)
	Delete(ctx context.Context, userID string, id int64) error
	ToggleVisited(ctx context.Context, userID string, id int64) (SavedPlace, error)
	ToggleFavorited(ctx context.Context, userID string, id int64) (SavedPlace, error)
}

// Repository combines all saved place repository operations.
type Repository interface {
	SavedPlaceReader
	SavedPlaceWriter
}
