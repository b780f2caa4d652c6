package planner

import (
	"errors"
	"fmt"
	"strings"
)

// ErrInvalidProfile signals malformed caller input. It is fatal to the
// plan generation call; no partial plan is returned.
var ErrInvalidProfile = errors.New("invalid learner profile")

// Level is a simplified CEFR level for young learners.
type Level string

const (
	LevelA0 Level = "A0"
	LevelA1 Level = "A1"
	LevelA2 Level = "A2"
	LevelB1 Level = "B1"
)

// Supported age range for learners.
const (
	MinAge = 3
	MaxAge = 12
)

// ParseLevel converts user input into a Level.
func ParseLevel(s string) (Level, error) {
	switch Level(strings.ToUpper(strings.TrimSpace(s))) {
	case LevelA0:
		return LevelA0, nil
	case LevelA1:
		return LevelA1, nil
	case LevelA2:
		return LevelA2, nil
	case LevelB1:
		return LevelB1, nil
	}
	return "", fmt.Errorf("%w: unknown level %q (expected A0, A1, A2 or B1)", ErrInvalidProfile, s)
}

// LearnerProfile describes a child: age, level and topic preferences.
// It is treated as an immutable value by the planner.
type LearnerProfile struct {
	Age         int      `json:"age"`
	Level       Level    `json:"level"`
	Preferences []string `json:"preferences"`
}

// Validate checks the profile against the supported bounds.
func (p LearnerProfile) Validate() error {
	if p.Age < MinAge || p.Age > MaxAge {
		return fmt.Errorf("%w: age %d out of supported range [%d, %d]", ErrInvalidProfile, p.Age, MinAge, MaxAge)
	}
	if _, err := ParseLevel(string(p.Level)); err != nil {
		return err
	}
	return nil
}

// normalizePreferences trims, lowercases and deduplicates topic tags,
// preserving first-seen order so identical input yields identical plans.
func normalizePreferences(prefs []string) []string {
	seen := make(map[string]struct{}, len(prefs))
	var out []string
	for _, p := range prefs {
		topic := strings.ToLower(strings.TrimSpace(p))
		if topic == "" {
			continue
		}
		if _, ok := seen[topic]; ok {
			continue
		}
		seen[topic] = struct{}{}
		out = append(out, topic)
	}
	return out
}
