package telegram

import (
	"context"
	"path/filepath"
	"testing"

	"kids-english-guide/internal/database"
	"kids-english-guide/internal/planner"
)

func TestProfileRepository(t *testing.T) {
	ctx := context.Background()

	db, err := database.NewDB(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("Failed to initialize test database: %v", err)
	}
	defer db.Close()

	repo := NewProfileRepository(db.SQL)

	stored, err := repo.Get(ctx, "42")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if stored != nil {
		t.Fatalf("Expected no profile before saving, got %+v", stored)
	}

	profile := planner.LearnerProfile{Age: 7, Level: planner.LevelA1, Preferences: []string{"animals", "colors"}}
	if err := repo.Save(ctx, "42", profile); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	stored, err = repo.Get(ctx, "42")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if stored == nil {
		t.Fatal("Expected a stored profile, got nil")
	}
	if stored.Age != 7 || stored.Level != planner.LevelA1 || len(stored.Preferences) != 2 {
		t.Errorf("Unexpected stored profile: %+v", stored)
	}

	// Saving again replaces the stored profile.
	updated := planner.LearnerProfile{Age: 8, Level: planner.LevelA2, Preferences: []string{"dinosaurs"}}
	if err := repo.Save(ctx, "42", updated); err != nil {
		t.Fatalf("Upsert failed: %v", err)
	}

	stored, err = repo.Get(ctx, "42")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if stored.Age != 8 || stored.Level != planner.LevelA2 || stored.Preferences[0] != "dinosaurs" {
		t.Errorf("Expected updated profile, got %+v", stored)
	}
}
