package planner

import "time"

// GetNextMonday returns the Monday strictly after t, at midnight UTC.
func GetNextMonday(t time.Time) time.Time {
	t = t.UTC()
	daysAhead := (int(time.Monday) - int(t.Weekday()) + 7) % 7
	if daysAhead == 0 {
		daysAhead = 7
	}
	next := t.AddDate(0, 0, daysAhead)
	return time.Date(next.Year(), next.Month(), next.Day(), 0, 0, 0, 0, time.UTC)
}
