package app

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"kids-english-guide/internal/config"
	"kids-english-guide/internal/enrich"
	"kids-english-guide/internal/metrics"
	"kids-english-guide/internal/planner"
	"kids-english-guide/internal/search"
)

// docsPerTopicQuery is how many documents are retrieved per preferred topic.
const docsPerTopicQuery = 5

// App holds the application's dependencies.
type App struct {
	searchClient search.Client
	guidePlanner *planner.Planner
	insightGen   *enrich.LLMEnricher // nil when no generation backend is configured
	planRepo     *planner.PlanRepository
	metricsStore *metrics.Store
	cfg          *config.Config
}

// NewApp creates and initializes a new App instance.
func NewApp(
	searchClient search.Client,
	guidePlanner *planner.Planner,
	insightGen *enrich.LLMEnricher,
	planRepo *planner.PlanRepository,
	metricsStore *metrics.Store,
	cfg *config.Config,
) *App {
	return &App{
		searchClient: searchClient,
		guidePlanner: guidePlanner,
		insightGen:   insightGen,
		planRepo:     planRepo,
		metricsStore: metricsStore,
		cfg:          cfg,
	}
}

// RetrieveDocuments queries the search index once per preferred topic and
// merges the results. A failed query is logged and skipped; plan generation
// works without documents.
func RetrieveDocuments(ctx context.Context, client search.Client, topics []string) []search.Document {
	seen := make(map[string]struct{})
	var docs []search.Document
	for _, topic := range topics {
		topic = strings.TrimSpace(topic)
		if topic == "" {
			continue
		}
		found, err := client.Search(ctx, topic, docsPerTopicQuery)
		if err != nil {
			log.Printf("Warning: search for topic '%s' failed: %v", topic, err)
			continue
		}
		for _, d := range found {
			if _, ok := seen[d.ID]; ok {
				continue
			}
			seen[d.ID] = struct{}{}
			docs = append(docs, d)
		}
	}
	return docs
}

// GeneratePlan creates next week's plan for the profile, records metrics,
// persists the plan and prints it.
func (a *App) GeneratePlan(ctx context.Context, userID string, profile planner.LearnerProfile) error {
	fmt.Printf("Generating weekly plan (age %d, level %s, topics %v)...\n",
		profile.Age, profile.Level, profile.Preferences)

	docs := RetrieveDocuments(ctx, a.searchClient, planner.ResolveTopics(profile.Preferences))
	weekStart := planner.GetNextMonday(time.Now())

	plan, metas, err := a.guidePlanner.GeneratePlan(ctx, profile, weekStart, docs)
	if err != nil {
		return fmt.Errorf("failed to generate plan: %w", err)
	}

	for _, meta := range metas {
		if err := a.metricsStore.RecordMeta(meta); err != nil {
			log.Printf("Warning: failed to record metrics for %s: %v", meta.AgentName, err)
		}
	}

	if err := a.planRepo.Save(ctx, userID, plan); err != nil {
		log.Printf("Warning: failed to save weekly plan: %v", err)
	}

	fmt.Printf("\n=== WEEKLY PLAN (week of %s) ===\n", plan.WeekStart.Format("2006-01-02"))
	fmt.Printf("Goal: %s\n\n", plan.WeeklyGoal)
	for _, day := range plan.Days {
		fmt.Printf("%-4s %s — %s (%s)\n", day.Weekday, day.Topic, day.Activity, day.Skill)
		fmt.Printf("     Phrases: %s\n", strings.Join(day.FocusPhrases, ", "))
		if day.Enrichment != nil {
			fmt.Printf("     Summary: %s\n", day.Enrichment.Summary)
			fmt.Printf("     Mission: %s\n", day.Enrichment.Mission)
			fmt.Printf("     Parent tip: %s\n", day.Enrichment.ParentTip)
		}
		fmt.Println()
	}

	return nil
}

// SearchContent queries the index and prints the results, optionally with a
// generated insight for the query.
func (a *App) SearchContent(ctx context.Context, query string, top int, withInsight bool) error {
	docs, err := a.searchClient.Search(ctx, query, top)
	if err != nil {
		return fmt.Errorf("search failed: %w", err)
	}

	if len(docs) == 0 {
		fmt.Println("No results.")
		return nil
	}

	for _, d := range docs {
		title := d.Title
		if title == "" {
			title = d.ID
		}
		fmt.Printf("* %s", title)
		if d.Series != "" {
			fmt.Printf("  •  %s", d.Series)
		}
		if d.Level != "" {
			fmt.Printf("  •  %s", d.Level)
		}
		fmt.Println()
		if d.Content != "" {
			fmt.Printf("  %s\n", search.CleanSnippet(d.Content, 300))
		}
		if len(d.Phrases) > 0 {
			fmt.Printf("  Key phrases: %s\n", strings.Join(d.Phrases, ", "))
		}
	}

	if !withInsight {
		return nil
	}
	if a.insightGen == nil {
		fmt.Println("\n(No generation backend configured; skipping insight.)")
		return nil
	}

	insight, meta, err := a.insightGen.GenerateInsight(ctx, query, docs)
	if err := a.metricsStore.RecordMeta(meta); err != nil {
		log.Printf("Warning: failed to record metrics for %s: %v", meta.AgentName, err)
	}
	if err != nil {
		log.Printf("Warning: insight generation failed: %v", err)
		return nil
	}

	fmt.Println("\n=== INSIGHT ===")
	fmt.Printf("Summary: %s\n", insight.Summary)
	fmt.Printf("Focus phrases: %s\n", strings.Join(insight.FocusPhrases, ", "))
	fmt.Println("Missions:")
	for _, m := range insight.Missions {
		fmt.Printf("- %s\n", m)
	}
	fmt.Println("Parent tips:")
	for _, tip := range insight.ParentTips {
		fmt.Printf("- %s\n", tip)
	}

	return nil
}
