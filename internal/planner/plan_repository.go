package planner

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// StoredPlan is a persisted weekly plan.
type StoredPlan struct {
	ID        string
	UserID    string
	WeekStart time.Time
	PlanData  []byte // Raw JSON of the weekly plan
	CreatedAt time.Time
}

// PlanRepository is a database-backed repository for weekly plans.
type PlanRepository struct {
	db *sql.DB
}

// NewPlanRepository creates a new PlanRepository.
func NewPlanRepository(d *sql.DB) *PlanRepository {
	return &PlanRepository{db: d}
}

// Save inserts a generated weekly plan for a user.
func (r *PlanRepository) Save(ctx context.Context, userID string, plan *WeeklyPlan) error {
	data, err := json.Marshal(plan)
	if err != nil {
		return fmt.Errorf("failed to marshal weekly plan: %w", err)
	}

	_, err = r.db.ExecContext(ctx,
		`INSERT INTO weekly_plans (id, user_id, week_start, plan_data, created_at)
		 VALUES (?, ?, ?, ?, ?)`,
		uuid.NewString(), userID, plan.WeekStart.UTC(), data, time.Now().UTC(),
	)
	if err != nil {
		return fmt.Errorf("failed to insert weekly plan: %w", err)
	}
	return nil
}

// ExistsForWeek reports whether the user already has a plan for the week.
func (r *PlanRepository) ExistsForWeek(ctx context.Context, userID string, weekStart time.Time) (bool, error) {
	var count int
	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM weekly_plans WHERE user_id = ? AND week_start = ?`,
		userID, weekStart.UTC(),
	).Scan(&count)
	if err != nil {
		return false, fmt.Errorf("failed to check plan existence: %w", err)
	}
	return count > 0, nil
}

// ListRecent retrieves the N most recent plans for a user.
func (r *PlanRepository) ListRecent(ctx context.Context, userID string, limit int) ([]StoredPlan, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, user_id, week_start, plan_data, created_at
		 FROM weekly_plans WHERE user_id = ?
		 ORDER BY created_at DESC LIMIT ?`,
		userID, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list plans for user %s: %w", userID, err)
	}
	defer rows.Close()

	var plans []StoredPlan
	for rows.Next() {
		var p StoredPlan
		if err := rows.Scan(&p.ID, &p.UserID, &p.WeekStart, &p.PlanData, &p.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan plan row: %w", err)
		}
		plans = append(plans, p)
	}
	return plans, rows.Err()
}
