package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"kids-english-guide/internal/config"
	"kids-english-guide/internal/database"
	"kids-english-guide/internal/enrich"
	"kids-english-guide/internal/llm"
	"kids-english-guide/internal/metrics"
	"kids-english-guide/internal/planner"
	"kids-english-guide/internal/search"
	"kids-english-guide/internal/telegram"
)

func main() {
	// 1. Load Configuration
	cfg, err := config.NewFromEnv()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	if cfg.TelegramBotToken == "" || cfg.TelegramWebhookURL == "" {
		log.Fatal("TELEGRAM_BOT_TOKEN and TELEGRAM_WEBHOOK_URL must be set")
	}

	ctx := context.Background()

	// 2. Initialize the SQLite database and repositories
	db, err := database.NewDB(cfg.DBPath)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer db.Close()

	planRepo := planner.NewPlanRepository(db.SQL)
	profileRepo := telegram.NewProfileRepository(db.SQL)
	metricsStore := metrics.NewStore(db.SQL)

	// 3. Initialize Search and the generation backend
	searchClient := search.NewClient(cfg)

	var insightGen *enrich.LLMEnricher
	var enricher enrich.Enricher = enrich.Noop{}
	switch {
	case cfg.HasAzureOpenAI():
		insightGen = enrich.NewLLMEnricher(llm.NewAzureOpenAIClient(cfg))
		enricher = insightGen
	case cfg.GeminiAPIKey != "":
		geminiClient, err := llm.NewGeminiClient(ctx, cfg)
		if err != nil {
			log.Fatalf("Failed to create Gemini client: %v", err)
		}
		if closer, ok := geminiClient.(llm.Closer); ok {
			defer closer.Close()
		}
		insightGen = enrich.NewLLMEnricher(geminiClient)
		enricher = insightGen
	default:
		log.Println("No generation backend configured; plans will not be enriched.")
	}

	// 4. Initialize Services
	guidePlanner := planner.NewPlanner(enricher, cfg.EnrichTimeout, cfg.MinutesPerDay)

	// 5. Initialize Telegram Bot
	bot, err := telegram.NewBot(cfg, searchClient, guidePlanner, insightGen, planRepo, profileRepo, metricsStore)
	if err != nil {
		log.Fatalf("Failed to initialize Telegram Bot: %v", err)
	}

	// 6. Start Server with Graceful Shutdown
	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	bot.RegisterHandlers()

	srv := &http.Server{
		Addr:    ":" + port,
		Handler: nil,
	}

	go func() {
		log.Printf("Telegram Bot Server listening on port %s", port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server failed: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	ctxShutdown, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctxShutdown); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}

	log.Println("Server exiting")
}
