package service

import (
	"context"
	"errors"
	"testing"

	"familyplaces_backend/internal/savedplaces/repository"
	"familyplaces_backend/internal/savedplaces/transport"
	"familyplaces_backend/platform/apperr"
	"familyplaces_backend/platform/logger"
	"familyplaces_backend/platform/validator"
)

func newTestService() *Service {
	return New(repository.NewMemory(), validator.New(), logger.Discard())
}

func f64(v float64) *float64 { return &v }
func str(v string) *string   { return &v }
func flag(v bool) *bool       { return &v }

func parkRequest() transport.CreateSavedPlaceRequest {
	return transport.CreateSavedPlaceRequest{
		OsmID: "123456",
		Name:  "Zilker Park",
		Lat:   f64(30.2669),
		Lon:   f64(-97.7729),
		Type:  "park",
	}
}

func TestCreateThenListRoundTrip(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()

	created, err := svc.Create(ctx, "alice", parkRequest())
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	items, err := svc.List(ctx, "alice")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(items) != 1 {
		t.Fatalf("expected 1 saved place, got %d", len(items))
	}

	got := items[0]
	if got.ID != created.ID || got.OsmID != "123456" || got.Name != "Zilker Park" || got.Type != "park" {
		t.Fatalf("unexpected row %+v", got)
	}
	if got.Lat != 30.2669 || got.Lon != -97.7729 {
		t.Fatalf("unexpected coordinates %+v", got)
	}
	if got.IsFavorited || got.Visited {
		t.Fatalf("expected flags to default to false, got %+v", got)
	}
	if got.Address != nil || got.Notes != nil {
		t.Fatalf("expected optional fields to be nil, got %+v", got)
	}
	if got.UserID != "alice" {
		t.Fatalf("expected row owned by alice, got %q", got.UserID)
	}
}

func TestCreateWithInitialFlags(t *testing.T) {
	svc := newTestService()
	req := parkRequest()
	req.IsFavorited = flag(true)
	req.Address = str("  2100 Barton Springs Rd  ")
	req.Notes = str("   ")
	req.Name = "<i>Zilker</i>  Park"

	created, err := svc.Create(context.Background(), "alice", req)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if !created.IsFavorited || created.Visited {
		t.Fatalf("expected favorited and not visited, got %+v", created)
	}
	if created.Address == nil || *created.Address != "2100 Barton Springs Rd" {
		t.Fatalf("expected trimmed address, got %v", created.Address)
	}
	if created.Name != "Zilker Park" {
		t.Fatalf("expected sanitized name, got %q", created.Name)
	}
	if created.Notes != nil {
		t.Fatalf("expected blank notes to be dropped, got %q", *created.Notes)
	}
}

func TestCreateKeepsLineBreaksInNotes(t *testing.T) {
	svc := newTestService()
	req := parkRequest()
	req.Name = "Pease  Park\nNorth"
	req.Notes = str("bring   snacks\r\n<b>ages 3 < 5 > 2</b> welcome")

	created, err := svc.Create(context.Background(), "alice", req)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if created.Name != "Pease Park North" {
		t.Fatalf("expected name folded to one line, got %q", created.Name)
	}
	if created.Notes == nil || *created.Notes != "bring snacks\nages 3 < 5 > 2 welcome" {
		t.Fatalf("expected notes to keep their line break, got %v", created.Notes)
	}
}

func TestCreateReportsFirstInvalidField(t *testing.T) {
	cases := map[string]func(*transport.CreateSavedPlaceRequest){
		"osmId": func(r *transport.CreateSavedPlaceRequest) { r.OsmID = "  " },
		"name":  func(r *transport.CreateSavedPlaceRequest) { r.Name = "" },
		"lat":   func(r *transport.CreateSavedPlaceRequest) { r.Lat = nil },
		"lon":   func(r *transport.CreateSavedPlaceRequest) { r.Lon = f64(200) },
		"type":  func(r *transport.CreateSavedPlaceRequest) { r.Type = "" },
	}

	for field, mutate := range cases {
		req := parkRequest()
		mutate(&req)

		_, err := newTestService().Create(context.Background(), "alice", req)
		if !apperr.Is(err, apperr.KindValidation) {
			t.Fatalf("%s: expected validation error, got %v", field, err)
		}
		if got := apperr.FieldOf(err); got != field {
			t.Fatalf("expected field %q, got %q", field, got)
		}
	}
}

func TestCreateAllowsDuplicateOsmID(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		if _, err := svc.Create(ctx, "alice", parkRequest()); err != nil {
			t.Fatalf("create #%d: %v", i+1, err)
		}
	}

	items, _ := svc.List(ctx, "alice")
	if len(items) != 2 || items[0].ID >= items[1].ID {
		t.Fatalf("expected two rows in insertion order, got %+v", items)
	}
}

func TestToggleVisitedIsInvolution(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()
	created, _ := svc.Create(ctx, "alice", parkRequest())

	once, err := svc.ToggleVisited(ctx, "alice", created.ID)
	if err != nil || !once.Visited {
		t.Fatalf("expected visited after one toggle, got %+v %v", once, err)
	}
	twice, err := svc.ToggleVisited(ctx, "alice", created.ID)
	if err != nil || twice.Visited != created.Visited {
		t.Fatalf("expected original visited value after two toggles, got %+v %v", twice, err)
	}
	if twice.IsFavorited != created.IsFavorited {
		t.Fatal("visited toggle must not change the favorite flag")
	}
}

func TestToggleFavoritedReachesAllCombinations(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()
	created, _ := svc.Create(ctx, "alice", parkRequest())

	seen := map[[2]bool]bool{{created.IsFavorited, created.Visited}: true}
	steps := []func(context.Context, string, int64) (transport.SavedPlaceResponse, error){
		svc.ToggleFavorited, svc.ToggleVisited, svc.ToggleFavorited,
	}
	for _, step := range steps {
		p, err := step(ctx, "alice", created.ID)
		if err != nil {
			t.Fatalf("toggle: %v", err)
		}
		seen[[2]bool{p.IsFavorited, p.Visited}] = true
	}

	if len(seen) != 4 {
		t.Fatalf("expected all four flag combinations, got %v", seen)
	}
}

func TestDoubleDeleteIsNotFound(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()
	created, _ := svc.Create(ctx, "alice", parkRequest())

	if err := svc.Delete(ctx, "alice", created.ID); err != nil {
		t.Fatalf("first delete: %v", err)
	}
	if err := svc.Delete(ctx, "alice", created.ID); !apperr.Is(err, apperr.KindNotFound) {
		t.Fatalf("expected not found on second delete, got %v", err)
	}
}

func TestCrossUserIsolation(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()
	owned, _ := svc.Create(ctx, "alice", parkRequest())

	if err := svc.Delete(ctx, "bob", owned.ID); !apperr.Is(err, apperr.KindNotFound) {
		t.Fatalf("expected not found deleting another user's row, got %v", err)
	}
	if _, err := svc.ToggleVisited(ctx, "bob", owned.ID); !apperr.Is(err, apperr.KindNotFound) {
		t.Fatalf("expected not found toggling another user's row, got %v", err)
	}
	if _, err := svc.ToggleFavorited(ctx, "bob", owned.ID); !apperr.Is(err, apperr.KindNotFound) {
		t.Fatalf("expected not found toggling another user's row, got %v", err)
	}

	items, _ := svc.List(ctx, "bob")
	if len(items) != 0 {
		t.Fatalf("expected bob to see no rows, got %+v", items)
	}
	items, _ = svc.List(ctx, "alice")
	if len(items) != 1 || items[0].Visited || items[0].IsFavorited {
		t.Fatalf("expected alice's row untouched, got %+v", items)
	}
}

type failingRepo struct {
	repository.Repository
}

func (failingRepo) List(context.Context, string) ([]repository.SavedPlace, error) {
	return nil, errors.New("connection reset")
}

func TestListPropagatesStorageErrors(t *testing.T) {
	svc := New(failingRepo{}, validator.New(), logger.Discard())

	if _, err := svc.List(context.Background(), "alice"); err == nil {
		t.Fatal("expected storage error")
	}
}
