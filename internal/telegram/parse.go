package telegram

import (
	"fmt"
	"strconv"
	"strings"

	"kids-english-guide/internal/planner"
)

// parseProfileArgs turns "/profile age=7 level=A1 topics=animals,colors"
// style arguments into a LearnerProfile. Age and level are required,
// topics optional.
func parseProfileArgs(args string) (planner.LearnerProfile, error) {
	var profile planner.LearnerProfile
	var haveAge, haveLevel bool

	for _, field := range strings.Fields(args) {
		key, value, found := strings.Cut(field, "=")
		if !found {
			return profile, fmt.Errorf("expected key=value, got %q", field)
		}

		switch strings.ToLower(key) {
		case "age":
			age, err := strconv.Atoi(value)
			if err != nil {
				return profile, fmt.Errorf("age must be a number, got %q", value)
			}
			profile.Age = age
			haveAge = true
		case "level":
			level, err := planner.ParseLevel(value)
			if err != nil {
				return profile, err
			}
			profile.Level = level
			haveLevel = true
		case "topics":
			for _, topic := range strings.Split(value, ",") {
				if topic = strings.TrimSpace(topic); topic != "" {
					profile.Preferences = append(profile.Preferences, topic)
				}
			}
		default:
			return profile, fmt.Errorf("unknown field %q (expected age, level or topics)", key)
		}
	}

	if !haveAge || !haveLevel {
		return profile, fmt.Errorf("age and level are required, e.g. age=7 level=A1 topics=animals,colors")
	}

	return profile, nil
}
