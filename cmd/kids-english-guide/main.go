package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"strings"

	"kids-english-guide/internal/app"
	"kids-english-guide/internal/config"
	"kids-english-guide/internal/database"
	"kids-english-guide/internal/enrich"
	"kids-english-guide/internal/llm"
	"kids-english-guide/internal/metrics"
	"kids-english-guide/internal/planner"
	"kids-english-guide/internal/search"
)

func main() {
	ctx := context.Background()

	cfg, err := config.NewFromEnv()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	db, err := database.NewDB(cfg.DBPath)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer db.Close()

	searchClient := search.NewClient(cfg)
	metricsStore := metrics.NewStore(db.SQL)
	planRepo := planner.NewPlanRepository(db.SQL)

	insightGen, closeGen, err := buildInsightGenerator(ctx, cfg)
	if err != nil {
		log.Fatalf("Failed to initialize generation backend: %v", err)
	}
	if closeGen != nil {
		defer closeGen()
	}

	var enricher enrich.Enricher = enrich.Noop{}
	if insightGen != nil {
		enricher = insightGen
	}
	guidePlanner := planner.NewPlanner(enricher, cfg.EnrichTimeout, cfg.MinutesPerDay)

	application := app.NewApp(searchClient, guidePlanner, insightGen, planRepo, metricsStore, cfg)

	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	switch os.Args[1] {
	case "plan":
		planCmd := flag.NewFlagSet("plan", flag.ExitOnError)
		age := planCmd.Int("age", 7, "Learner age (3-12)")
		level := planCmd.String("level", "A1", "CEFR level (A0, A1, A2, B1)")
		topics := planCmd.String("topics", "", "Comma-separated topic preferences")
		planCmd.Parse(os.Args[2:])

		lvl, err := planner.ParseLevel(*level)
		if err != nil {
			log.Fatalf("Invalid level: %v", err)
		}

		profile := planner.LearnerProfile{Age: *age, Level: lvl}
		for _, topic := range strings.Split(*topics, ",") {
			if topic = strings.TrimSpace(topic); topic != "" {
				profile.Preferences = append(profile.Preferences, topic)
			}
		}

		if err := application.GeneratePlan(ctx, "cli", profile); err != nil {
			log.Fatalf("Plan generation failed: %v", err)
		}
	case "search":
		searchCmd := flag.NewFlagSet("search", flag.ExitOnError)
		top := searchCmd.Int("top", 5, "Number of results")
		noInsight := searchCmd.Bool("no-insight", false, "Skip the generated insight")
		searchCmd.Parse(os.Args[2:])

		query := strings.Join(searchCmd.Args(), " ")
		if query == "" {
			log.Fatal("Usage: kids-english-guide search [-top N] [-no-insight] <query>")
		}

		if err := application.SearchContent(ctx, query, *top, !*noInsight); err != nil {
			log.Fatalf("Search failed: %v", err)
		}
	case "metrics-cleanup":
		cleanupCmd := flag.NewFlagSet("metrics-cleanup", flag.ExitOnError)
		days := cleanupCmd.Int("days", 30, "Keep records for the last N days")
		cleanupCmd.Parse(os.Args[2:])

		affected, err := metricsStore.Cleanup(*days)
		if err != nil {
			log.Fatalf("Cleanup failed: %v", err)
		}
		fmt.Printf("Successfully removed %d old metric records.\n", affected)
	default:
		fmt.Printf("Unknown command: %s\n", os.Args[1])
		printUsage()
		os.Exit(1)
	}
}

// buildInsightGenerator picks the generation backend: Azure OpenAI when
// configured, Gemini as fallback, none at all otherwise.
func buildInsightGenerator(ctx context.Context, cfg *config.Config) (*enrich.LLMEnricher, func() error, error) {
	switch {
	case cfg.HasAzureOpenAI():
		return enrich.NewLLMEnricher(llm.NewAzureOpenAIClient(cfg)), nil, nil
	case cfg.GeminiAPIKey != "":
		client, err := llm.NewGeminiClient(ctx, cfg)
		if err != nil {
			return nil, nil, err
		}
		var closeFn func() error
		if closer, ok := client.(llm.Closer); ok {
			closeFn = closer.Close
		}
		return enrich.NewLLMEnricher(client), closeFn, nil
	default:
		log.Println("No generation backend configured; plans will not be enriched.")
		return nil, nil, nil
	}
}

func printUsage() {
	fmt.Println("Usage: kids-english-guide <command> [arguments]")
	fmt.Println("\nCommands:")
	fmt.Println("  plan               Generate next week's learning plan")
	fmt.Println("                     (-age 7 -level A1 -topics animals,colors)")
	fmt.Println("  search             Search the kids content index (query as arguments)")
	fmt.Println("  metrics-cleanup    Remove old metric records")
}
