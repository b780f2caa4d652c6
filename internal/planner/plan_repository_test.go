package planner

import (
	"context"
	"encoding/json"
	"path/filepath"
	"testing"
	"time"

	"kids-english-guide/internal/database"
	"kids-english-guide/internal/enrich"
)

func newTestRepo(t *testing.T) *PlanRepository {
	t.Helper()
	db, err := database.NewDB(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("Failed to initialize test database: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return NewPlanRepository(db.SQL)
}

func TestPlanRepositorySaveAndList(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepo(t)

	p := NewPlanner(enrich.Noop{}, time.Second, 15)
	plan, _, err := p.GeneratePlan(ctx, validProfile(), testWeek, nil)
	if err != nil {
		t.Fatalf("GeneratePlan failed: %v", err)
	}

	if err := repo.Save(ctx, "user-1", plan); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	plans, err := repo.ListRecent(ctx, "user-1", 5)
	if err != nil {
		t.Fatalf("ListRecent failed: %v", err)
	}
	if len(plans) != 1 {
		t.Fatalf("Expected 1 stored plan, got %d", len(plans))
	}
	if plans[0].UserID != "user-1" {
		t.Errorf("Expected user 'user-1', got '%s'", plans[0].UserID)
	}

	var restored WeeklyPlan
	if err := json.Unmarshal(plans[0].PlanData, &restored); err != nil {
		t.Fatalf("Failed to unmarshal stored plan: %v", err)
	}
	if len(restored.Days) != 7 {
		t.Errorf("Expected 7 days in restored plan, got %d", len(restored.Days))
	}

	otherPlans, err := repo.ListRecent(ctx, "user-2", 5)
	if err != nil {
		t.Fatalf("ListRecent failed: %v", err)
	}
	if len(otherPlans) != 0 {
		t.Errorf("Expected no plans for another user, got %d", len(otherPlans))
	}
}

func TestPlanRepositoryExistsForWeek(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepo(t)

	p := NewPlanner(enrich.Noop{}, time.Second, 15)
	plan, _, err := p.GeneratePlan(ctx, validProfile(), testWeek, nil)
	if err != nil {
		t.Fatalf("GeneratePlan failed: %v", err)
	}

	exists, err := repo.ExistsForWeek(ctx, "user-1", testWeek)
	if err != nil {
		t.Fatalf("ExistsForWeek failed: %v", err)
	}
	if exists {
		t.Error("Expected no plan before saving")
	}

	if err := repo.Save(ctx, "user-1", plan); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	exists, err = repo.ExistsForWeek(ctx, "user-1", testWeek)
	if err != nil {
		t.Fatalf("ExistsForWeek failed: %v", err)
	}
	if !exists {
		t.Error("Expected plan to exist after saving")
	}
}
