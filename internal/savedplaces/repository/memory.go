package repository

import (
	"context"
	"sort"
	"sync"
	"time"

	"familyplaces_backend/platform/apperr"
)

// Memory is an in-process Repository with the same scoping rules as Repo.
// Used by handler and service tests that do not need PostgreSQL.
type Memory struct {
	mu     sync.Mutex
	nextID int64
	rows   map[int64]SavedPlace
	now    func() time.Time
}

// NewMemory returns an empty Memory repository.
func NewMemory() *Memory {
	return &Memory{rows: make(map[int64]SavedPlace), now: time.Now}
}

var _ Repository = (*Memory)(nil)

func (m *Memory) List(_ context.Context, userID string) ([]SavedPlace, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	items := make([]SavedPlace, 0)
	for _, p := range m.rows {
		if p.UserID == userID {
			items = append(items, p)
		}
	}
	sort.Slice(items, func(i, j int) bool { return items[i].ID < items[j].ID })
	return items, nil
}

func (m *Memory) Create(_ context.Context, params CreateParams) (SavedPlace, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.nextID++
	p := SavedPlace{
		ID:          m.nextID,
		UserID:      params.UserID,
		OsmID:       params.OsmID,
		Name:        params.Name,
		Lat:         params.Lat,
		Lon:         params.Lon,
		Type:        params.Type,
		Address:     params.Address,
		Notes:       params.Notes,
		IsFavorited: params.IsFavorited,
		Visited:     params.Visited,
		CreatedAt:   m.now().UTC(),
	}
	m.rows[p.ID] = p
	return p, nil
}

func (m *Memory) Delete(_ context.Context, userID string, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	p, ok := m.rows[id]
	if !ok || p.UserID != userID {
		return apperr.NotFound(NotFoundMessage)
	}
	delete(m.rows, id)
	return nil
}

func (m *Memory) ToggleVisited(_ context.Context, userID string, id int64) (SavedPlace, error) {
	return m.update(userID, id, func(p *SavedPlace) { p.Visited = !p.Visited })
}

func (m *Memory) ToggleFavorited(_ context.Context, userID string, id int64) (SavedPlace, error) {
	return m.update(userID, id, func(p *SavedPlace) { p.IsFavorited = !p.IsFavorited })
}

func (m *Memory) update(userID string, id int64, fn func(*SavedPlace)) (SavedPlace, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	p, ok := m.rows[id]
	if !ok || p.UserID != userID {
		return SavedPlace{}, apperr.NotFound(NotFoundMessage)
	}
	fn(&p)
	m.rows[id] = p
	return p, nil
}
