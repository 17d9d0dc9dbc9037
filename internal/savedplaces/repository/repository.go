package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"familyplaces_backend/platform/apperr"
)

// NotFoundMessage is returned for missing rows and rows owned by another user alike.
const NotFoundMessage = "saved place not found"

const savedPlaceColumns = `id, user_id, osm_id, name, lat, lon, type, address, notes, is_favorited, visited, created_at`

const (
	listSavedPlacesQuery = `
		SELECT ` + savedPlaceColumns + `
		FROM saved_places
		WHERE user_id = $1
		ORDER BY id ASC`

	createSavedPlaceQuery = `
		INSERT INTO saved_places (user_id, osm_id, name, lat, lon, type, address, notes, is_favorited, visited)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING ` + savedPlaceColumns

	deleteSavedPlaceQuery = `
		DELETE FROM saved_places
		WHERE id = $1 AND user_id = $2`

	toggleVisitedQuery = `
		UPDATE saved_places
		SET visited = NOT visited
		WHERE id = $1 AND user_id = $2
		RETURNING ` + savedPlaceColumns

	toggleFavoritedQuery = `
		UPDATE saved_places
		SET is_favorited = NOT is_favorited
		WHERE id = $1 AND user_id = $2
		RETURNING ` + savedPlaceColumns
)

// Repo implements the Repository interface with PostgreSQL.
type Repo struct {
	pool *pgxpool.Pool
}

// New creates a new saved places repository.
func New(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

// Compile-time check that Repo implements Repository.
var _ Repository = (*Repo)(nil)

// List returns the user's saved places in insertion order.
func (r *Repo) List(ctx context.Context, userID string) ([]SavedPlace, error) {
	rows, err := r.pool.Query(ctx, listSavedPlacesQuery, userID)
	if err != nil {
		return nil, fmt.Errorf("list saved places: %w", err)
	}
	defer rows.Close()

	items := make([]SavedPlace, 0)
	for rows.Next() {
		p, err := scanSavedPlace(rows)
		if err != nil {
			return nil, fmt.Errorf("scan saved place: %w", err)
		}
		items = append(items, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate saved places: %w", err)
	}

	return items, nil
}

// Create inserts a saved place and returns the stored row.
func (r *Repo) Create(ctx context.Context, params CreateParams) (SavedPlace, error) {
	row := r.pool.QueryRow(ctx, createSavedPlaceQuery,
		params.UserID, params.OsmID, params.Name, params.Lat, params.Lon, params.Type,
		params.Address, params.Notes, params.IsFavorited, params.Visited,
	)

	p, err := scanSavedPlace(row)
	if err != nil {
		return SavedPlace{}, fmt.Errorf("create saved place: %w", err)
	}
	return p, nil
}

// Delete removes the row if it belongs to userID.
func (r *Repo) Delete(ctx context.Context, userID string, id int64) error {
	tag, err := r.pool.Exec(ctx, deleteSavedPlaceQuery, id, userID)
	if err != nil {
		return fmt.Errorf("delete saved place: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound(NotFoundMessage)
	}
	return nil
}

// ToggleVisited flips the visited flag and returns the updated row.
func (r *Repo) ToggleVisited(ctx context.Context, userID string, id int64) (SavedPlace, error) {
	return r.toggle(ctx, toggleVisitedQuery, "toggle visited", userID, id)
}

// ToggleFavorited flips the favorite flag and returns the updated row.
func (r *Repo) ToggleFavorited(ctx context.Context, userID string, id int64) (SavedPlace, error) {
	return r.toggle(ctx, toggleFavoritedQuery, "toggle favorited", userID, id)
}

func (r *Repo) toggle(ctx context.Context, query, op, userID string, id int64) (SavedPlace, error) {
	p, err := scanSavedPlace(r.pool.QueryRow(ctx, query, id, userID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return SavedPlace{}, apperr.NotFound(NotFoundMessage)
		}
		return SavedPlace{}, fmt.Errorf("%s: %w", op, err)
	}
	return p, nil
}

func scanSavedPlace(row pgx.Row) (SavedPlace, error) {
	var p SavedPlace
	err := row.Scan(
		&p.ID, &p.UserID, &p.OsmID, &p.Name, &p.Lat, &p.Lon, &p.Type,
		&p.Address, &p.Notes, &p.IsFavorited, &p.Visited, &p.CreatedAt,
	)
	return p, err
}
