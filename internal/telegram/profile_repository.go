package telegram

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"kids-english-guide/internal/planner"
)

// ProfileRepository persists each user's default learner profile so /plan
// works without retyping age, level and topics every time.
type ProfileRepository struct {
	db *sql.DB
}

// NewProfileRepository creates a new ProfileRepository instance.
func NewProfileRepository(db *sql.DB) *ProfileRepository {
	return &ProfileRepository{db: db}
}

// Save upserts the stored profile for a user.
func (pr *ProfileRepository) Save(ctx context.Context, userID string, profile planner.LearnerProfile) error {
	prefs, err := json.Marshal(profile.Preferences)
	if err != nil {
		return fmt.Errorf("failed to marshal preferences: %w", err)
	}

	_, err = pr.db.ExecContext(ctx,
		`INSERT INTO learner_profiles (user_id, age, level, preferences, updated_at)
		 VALUES (?, ?, ?, ?, ?)
		 ON CONFLICT(user_id) DO UPDATE SET
		   age = excluded.age,
		   level = excluded.level,
		   preferences = excluded.preferences,
		   updated_at = excluded.updated_at`,
		userID, profile.Age, string(profile.Level), string(prefs), time.Now().UTC(),
	)
	if err != nil {
		return fmt.Errorf("failed to save learner profile: %w", err)
	}
	return nil
}

// Get retrieves the stored profile for a user, or nil when none is stored.
func (pr *ProfileRepository) Get(ctx context.Context, userID string) (*planner.LearnerProfile, error) {
	var (
		age       int
		level     string
		prefsJSON string
	)
	err := pr.db.QueryRowContext(ctx,
		`SELECT age, level, preferences FROM learner_profiles WHERE user_id = ?`,
		userID,
	).Scan(&age, &level, &prefsJSON)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get learner profile: %w", err)
	}

	var prefs []string
	if err := json.Unmarshal([]byte(prefsJSON), &prefs); err != nil {
		return nil, fmt.Errorf("failed to unmarshal preferences: %w", err)
	}

	return &planner.LearnerProfile{
		Age:         age,
		Level:       planner.Level(level),
		Preferences: prefs,
	}, nil
}
