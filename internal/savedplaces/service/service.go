package service

import (
	"context"
	"strings"
	"time"

	"familyplaces_backend/internal/savedplaces/repository"
	"familyplaces_backend/internal/savedplaces/transport"
	"familyplaces_backend/platform/apperr"
	"familyplaces_backend/platform/logger"
	"familyplaces_backend/platform/sanitize"
	"familyplaces_backend/platform/validator"
)

// Service provides business logic for saved places. Every operation takes
// the caller's user id explicitly.
type Service struct {
	repo repository.Repository
	val  *validator.Validator
	log  *logger.Logger
}

// New creates a new saved places service.
func New(repo repository.Repository, val *validator.Validator, log *logger.Logger) *Service {
	return &Service{repo: repo, val: val, log: log}
}

// List returns the user's saved places, oldest first.
func (s *Service) List(ctx context.Context, userID string) ([]transport.SavedPlaceResponse, error) {
	items, err := s.repo.List(ctx, userID)
	if err != nil {
		s.log.DatabaseError("list saved places", err)
		return nil, err
	}

	result := make([]transport.SavedPlaceResponse, 0, len(items))
	for _, p := range items {
		result = append(result, toResponse(p))
	}
	return result, nil
}

// Create validates and stores a new saved place. The same osmId may be
// saved more than once.
func (s *Service) Create(ctx context.Context, userID string, req transport.CreateSavedPlaceRequest) (transport.SavedPlaceResponse, error) {
	req.OsmID = strings.TrimSpace(req.OsmID)
	req.Name = sanitize.Text(req.Name)
	req.Type = strings.TrimSpace(req.Type)
	req.Address = sanitize.OptionalText(req.Address)
	req.Notes = sanitize.OptionalMultilineText(req.Notes)

	if err := s.val.Check(req); err != nil {
		return transport.SavedPlaceResponse{}, err
	}

	p, err := s.repo.Create(ctx, repository.CreateParams{
		UserID:      userID,
		OsmID:       req.OsmID,
		Name:        req.Name,
		Lat:         *req.Lat,
		Lon:         *req.Lon,
		Type:        req.Type,
		Address:     req.Address,
		Notes:       req.Notes,
		IsFavorited: req.IsFavorited != nil && *req.IsFavorited,
		Visited:     req.Visited != nil && *req.Visited,
	})
	if err != nil {
		s.log.DatabaseError("create saved place", err)
		return transport.SavedPlaceResponse{}, err
	}

	s.log.WithContext(ctx).Info("saved place created", "id", p.ID, "osmId", p.OsmID)
	return toResponse(p), nil
}

// Delete removes one of the user's saved places.
func (s *Service) Delete(ctx context.Context, userID string, id int64) error {
	if err := s.repo.Delete(ctx, userID, id); err != nil {
		logUnexpected(s.log, "delete saved place", err)
		return err
	}
	return nil
}

// ToggleVisited flips the visited flag.
func (s *Service) ToggleVisited(ctx context.Context, userID string, id int64) (transport.SavedPlaceResponse, error) {
	p, err := s.repo.ToggleVisited(ctx, userID, id)
	if err != nil {
		logUnexpected(s.log, "toggle visited", err)
		return transport.SavedPlaceResponse{}, err
	}
	return toResponse(p), nil
}

// ToggleFavorited flips the favorite flag.
func (s *Service) ToggleFavorited(ctx context.Context, userID string, id int64) (transport.SavedPlaceResponse, error) {
	p, err := s.repo.ToggleFavorited(ctx, userID, id)
	if err != nil {
		logUnexpected(s.log, "toggle favorited", err)
		return transport.SavedPlaceResponse{}, err
	}
	return toResponse(p), nil
}

func logUnexpected(log *logger.Logger, op string, err error) {
	if apperr.Is(err, apperr.KindNotFound) {
		return
	}
	log.DatabaseError(op, err)
}

func toResponse(p repository.SavedPlace) transport.SavedPlaceResponse {
	return transport.SavedPlaceResponse{
		ID:          p.ID,
		UserID:      p.UserID,
		OsmID:       p.OsmID,
		Name:        p.Name,
		Lat:         p.Lat,
		Lon:         p.Lon,
		Type:        p.Type,
		Address:     p.Address,
		Notes:       p.Notes,
		IsFavorited: p.IsFavorited,
		Visited:     p.Visited,
		CreatedAt:   p.CreatedAt.UTC().Format(time.RFC3339),
	}
}
