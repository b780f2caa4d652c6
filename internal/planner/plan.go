package planner

import (
	"time"

	"kids-english-guide/internal/enrich"
)

// PlanDay represents one day of a weekly learning plan.
type PlanDay struct {
	Day          int                `json:"day"` // 1..7, Monday first
	Weekday      string             `json:"weekday"`
	Topic        string             `json:"topic"`
	Skill        Skill              `json:"skill"`
	Activity     string             `json:"activity"`
	FocusPhrases []string           `json:"focus_phrases"`
	Enrichment   *enrich.Enrichment `json:"enrichment,omitempty"`
}

// WeeklyPlan is a full 7-day learning plan, always ordered day 1 through 7.
type WeeklyPlan struct {
	WeekStart     time.Time `json:"week_start"`
	Days          []PlanDay `json:"days"`
	WeeklyGoal    string    `json:"weekly_goal"`
	MinutesPerDay int       `json:"minutes_per_day"`
}
