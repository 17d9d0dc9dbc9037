package db

import (
	"io/fs"
	"strings"
	"testing"
)

func TestEmbeddedMigrationsCreateSavedPlaces(t *testing.T) {
	entries, err := fs.ReadDir(migrationsFS, migrationsDir)
	if err != nil {
		t.Fatalf("read embedded migrations: %v", err)
	}
	if len(entries) == 0 {
		t.Fatal("expected at least one embedded migration")
	}

	raw, err := fs.ReadFile(migrationsFS, migrationsDir+"/"+entries[0].Name())
	if err != nil {
		t.Fatalf("read migration: %v", err)
	}
	sql := strings.ToLower(string(raw))

	requiredFragments := []string{
		"-- +goose up",
		"-- +goose down",
		"create table if not exists saved_places",
		"user_id      text             not null",
		"is_favorited boolean          not null default false",
		"on saved_places (user_id)",
	}
	for _, fragment := range requiredFragments {
		if !strings.Contains(sql, fragment) {
			t.Fatalf("expected migration fragment %q", fragment)
		}
	}
}
