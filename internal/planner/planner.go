package planner

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"kids-english-guide/internal/enrich"
	"kids-english-guide/internal/search"
	"kids-english-guide/internal/shared"

	"golang.org/x/sync/errgroup"
)

// docsPerDay caps how many documents are handed to the enricher per day.
const docsPerDay = 3

// Planner builds weekly learning plans from a learner profile using fixed
// rules, with optional best-effort enrichment per day.
type Planner struct {
	enricher      enrich.Enricher
	enrichTimeout time.Duration
	minutesPerDay int
}

// NewPlanner creates a new Planner instance.
func NewPlanner(enricher enrich.Enricher, enrichTimeout time.Duration, minutesPerDay int) *Planner {
	if enricher == nil {
		enricher = enrich.Noop{}
	}
	return &Planner{
		enricher:      enricher,
		enrichTimeout: enrichTimeout,
		minutesPerDay: minutesPerDay,
	}
}

// GeneratePlan creates a 7-day plan for the profile. The plan itself is a
// deterministic function of the profile; when documents are supplied each
// day is additionally enriched through the configured Enricher. Enrichment
// failures never fail the call, the affected day is simply emitted plain.
func (p *Planner) GeneratePlan(
	ctx context.Context,
	profile LearnerProfile,
	weekStart time.Time,
	docs []search.Document,
) (*WeeklyPlan, []shared.AgentMeta, error) {
	if err := profile.Validate(); err != nil {
		return nil, nil, err
	}

	topics := ResolveTopics(profile.Preferences)

	days := make([]PlanDay, 7)
	for i := range days {
		day := i + 1
		topic := topicForDay(topics, day)
		days[i] = PlanDay{
			Day:          day,
			Weekday:      weekdays[i],
			Topic:        topic,
			Skill:        skillForDay(day),
			Activity:     activityForDay(topic, day),
			FocusPhrases: focusPhrasesFor(profile.Level),
		}
	}

	var metas []shared.AgentMeta
	if len(docs) > 0 {
		metas = p.enrichDays(ctx, days, docs)
	}

	return &WeeklyPlan{
		WeekStart:     weekStart,
		Days:          days,
		WeeklyGoal:    fmt.Sprintf("7 sessions × %d min, practice %s phrases", p.minutesPerDay, profile.Level),
		MinutesPerDay: p.minutesPerDay,
	}, metas, nil
}

// enrichDays runs one enrichment call per day. Calls are independent and
// issued concurrently; each runs under its own timeout and fails locally.
func (p *Planner) enrichDays(ctx context.Context, days []PlanDay, docs []search.Document) []shared.AgentMeta {
	results := make([]*enrich.Enrichment, len(days))
	dayMetas := make([]shared.AgentMeta, len(days))

	var g errgroup.Group
	for i := range days {
		g.Go(func() error {
			callCtx := ctx
			if p.enrichTimeout > 0 {
				var cancel context.CancelFunc
				callCtx, cancel = context.WithTimeout(ctx, p.enrichTimeout)
				defer cancel()
			}

			result, meta, err := p.enricher.Enrich(callCtx, days[i].Topic, docsForTopic(days[i].Topic, docs))
			dayMetas[i] = meta
			if err != nil {
				// Timeout and service errors alike: the day goes out plain.
				return nil
			}
			results[i] = result
			return nil
		})
	}
	_ = g.Wait()

	var metas []shared.AgentMeta
	for i := range days {
		days[i].Enrichment = results[i]
		if dayMetas[i].Usage.PromptTokens > 0 || dayMetas[i].Usage.CompletionTokens > 0 {
			metas = append(metas, dayMetas[i])
		}
	}
	return metas
}

// docsForTopic selects the most relevant documents for a topic: documents
// mentioning the topic ranked by relevance score (input order breaks ties),
// falling back to the overall top-scored documents when nothing matches.
func docsForTopic(topic string, docs []search.Document) []search.Document {
	matching := make([]search.Document, 0, len(docs))
	for _, d := range docs {
		if documentMentions(d, topic) {
			matching = append(matching, d)
		}
	}
	if len(matching) == 0 {
		matching = append(matching, docs...)
	}

	sort.SliceStable(matching, func(i, j int) bool {
		return matching[i].Score > matching[j].Score
	})

	if len(matching) > docsPerDay {
		matching = matching[:docsPerDay]
	}
	return matching
}

func documentMentions(d search.Document, topic string) bool {
	topic = strings.ToLower(topic)
	if strings.Contains(strings.ToLower(d.Title), topic) ||
		strings.Contains(strings.ToLower(d.Series), topic) ||
		strings.Contains(strings.ToLower(d.Content), topic) {
		return true
	}
	for _, phrase := range d.Phrases {
		if strings.Contains(strings.ToLower(phrase), topic) {
			return true
		}
	}
	return false
}
