package telegram

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"strings"
	"time"

	"kids-english-guide/internal/app"
	"kids-english-guide/internal/config"
	"kids-english-guide/internal/enrich"
	"kids-english-guide/internal/metrics"
	"kids-english-guide/internal/planner"
	"kids-english-guide/internal/search"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// Bot wraps the Telegram API, the weekly planner and the search index.
type Bot struct {
	api          *tgbotapi.BotAPI
	searchClient search.Client
	guidePlanner *planner.Planner
	insightGen   *enrich.LLMEnricher // nil when no generation backend is configured
	planRepo     *planner.PlanRepository
	profileRepo  *ProfileRepository
	metricsStore *metrics.Store
	cfg          *config.Config
}

// NewBot initializes the Telegram Bot and sets the Webhook.
func NewBot(
	cfg *config.Config,
	searchClient search.Client,
	guidePlanner *planner.Planner,
	insightGen *enrich.LLMEnricher,
	planRepo *planner.PlanRepository,
	profileRepo *ProfileRepository,
	metricsStore *metrics.Store,
) (*Bot, error) {
	bot, err := tgbotapi.NewBotAPI(cfg.TelegramBotToken)
	if err != nil {
		return nil, fmt.Errorf("failed to init telegram api: %w", err)
	}

	log.Printf("Authorized on account %s", bot.Self.UserName)

	webhookURL := cfg.TelegramWebhookURL
	wh, _ := tgbotapi.NewWebhook(webhookURL)
	resp, err := bot.Request(wh)
	if err != nil {
		return nil, fmt.Errorf("failed to set webhook to %s: %w", webhookURL, err)
	}
	log.Printf("Webhook set response: %s", resp.Description)

	return &Bot{
		api:          bot,
		searchClient: searchClient,
		guidePlanner: guidePlanner,
		insightGen:   insightGen,
		planRepo:     planRepo,
		profileRepo:  profileRepo,
		metricsStore: metricsStore,
		cfg:          cfg,
	}, nil
}

// RegisterHandlers registers the webhook handler with the default HTTP mux.
func (b *Bot) RegisterHandlers() {
	http.HandleFunc("/webhook", b.handleWebhook)
	http.HandleFunc("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})
}

func (b *Bot) handleWebhook(w http.ResponseWriter, r *http.Request) {
	update, err := b.api.HandleUpdate(r)
	if err != nil {
		log.Printf("Error parsing update: %v", err)
		return
	}

	if update.Message == nil {
		return
	}

	isAllowed := false
	for _, id := range b.cfg.TelegramAllowedUserIDs {
		if update.Message.From.ID == id {
			isAllowed = true
			break
		}
	}

	if !isAllowed {
		log.Printf("⚠️ Unauthorized access attempt from UserID: %d (@%s)", update.Message.From.ID, update.Message.From.UserName)
		return
	}

	go b.processMessage(update.Message)
}

func (b *Bot) processMessage(msg *tgbotapi.Message) {
	command, args, _ := strings.Cut(strings.TrimSpace(msg.Text), " ")

	switch command {
	case "/profile":
		b.handleProfileCommand(msg, args)
	case "/plan":
		b.handlePlanCommand(msg, args)
	case "/search":
		b.handleSearchCommand(msg, args)
	case "/metrics":
		b.handleMetricsRequest(msg)
	default:
		b.sendMarkdown(msg.Chat.ID, helpText)
	}
}

const helpText = `👋 *Kids English Guide*

/profile age=7 level=A1 topics=animals,colors — save your child's profile
/plan — generate next week's learning plan (uses the saved profile)
/plan age=7 level=A1 topics=animals,colors — one-off plan
/search Bluey — search kids content and get a summary`

func (b *Bot) handleProfileCommand(msg *tgbotapi.Message, args string) {
	profile, err := parseProfileArgs(args)
	if err == nil {
		err = profile.Validate()
	}
	if err != nil {
		b.sendMarkdown(msg.Chat.ID, fmt.Sprintf("❌ %v", err))
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	userID := fmt.Sprintf("%d", msg.From.ID)
	if err := b.profileRepo.Save(ctx, userID, profile); err != nil {
		log.Printf("Error saving profile for user %s: %v", userID, err)
		b.sendMarkdown(msg.Chat.ID, "❌ Could not save the profile, try again later.")
		return
	}

	b.sendMarkdown(msg.Chat.ID, fmt.Sprintf(
		"✅ Profile saved: age %d, level %s, topics: %s\nUse /plan to generate next week's plan.",
		profile.Age, profile.Level, strings.Join(profile.Preferences, ", ")))
}

func (b *Bot) handlePlanCommand(msg *tgbotapi.Message, args string) {
	statusMsg := tgbotapi.NewMessage(msg.Chat.ID, "🧑‍🏫 *Thinking...* \n(Searching content and building the weekly plan)")
	statusMsg.ParseMode = "Markdown"
	sentMsg, err := b.api.Send(statusMsg)
	if err != nil {
		log.Printf("Failed to send initial reply: %v", err)
		return
	}

	ctx := context.Background()
	userID := fmt.Sprintf("%d", msg.From.ID)

	var profile planner.LearnerProfile
	if strings.TrimSpace(args) != "" {
		profile, err = parseProfileArgs(args)
		if err != nil {
			b.editMarkdown(msg.Chat.ID, sentMsg.MessageID, fmt.Sprintf("❌ %v", err))
			return
		}
	} else {
		stored, err := b.profileRepo.Get(ctx, userID)
		if err != nil {
			log.Printf("Error loading profile for user %s: %v", userID, err)
		}
		if stored == nil {
			b.editMarkdown(msg.Chat.ID, sentMsg.MessageID,
				"No profile yet. Set one first:\n`/profile age=7 level=A1 topics=animals,colors`")
			return
		}
		profile = *stored
	}

	docs := app.RetrieveDocuments(ctx, b.searchClient, planner.ResolveTopics(profile.Preferences))
	weekStart := planner.GetNextMonday(time.Now())

	plan, metas, err := b.guidePlanner.GeneratePlan(ctx, profile, weekStart, docs)

	// Record metrics even if generation errored
	for _, m := range metas {
		if err := b.metricsStore.RecordMeta(m); err != nil {
			log.Printf("Warning: failed to record metrics for %s: %v", m.AgentName, err)
		}
	}

	if err != nil {
		log.Printf("Error generating plan: %v", err)
		text := "❌ Could not generate a plan, try again later."
		if errors.Is(err, planner.ErrInvalidProfile) {
			text = fmt.Sprintf("❌ %v", err)
		}
		b.editMarkdown(msg.Chat.ID, sentMsg.MessageID, text)
		return
	}

	if err := b.planRepo.Save(ctx, userID, plan); err != nil {
		log.Printf("Warning: failed to save weekly plan for user %s: %v", userID, err)
	}

	b.editMarkdown(msg.Chat.ID, sentMsg.MessageID, formatPlanMarkdown(plan))
}

func (b *Bot) handleSearchCommand(msg *tgbotapi.Message, query string) {
	query = strings.TrimSpace(query)
	if query == "" {
		b.sendMarkdown(msg.Chat.ID, "Usage: `/search Bluey`")
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	docs, err := b.searchClient.Search(ctx, query, 5)
	if err != nil {
		log.Printf("Error searching for '%s': %v", query, err)
		b.sendMarkdown(msg.Chat.ID, "❌ Search failed, try again later.")
		return
	}

	if len(docs) == 0 {
		b.sendMarkdown(msg.Chat.ID, fmt.Sprintf("No results for *%s*.", query))
		return
	}

	b.sendMarkdown(msg.Chat.ID, formatSearchResults(query, docs))

	if b.insightGen == nil {
		return
	}

	insight, meta, err := b.insightGen.GenerateInsight(ctx, query, docs)
	if recErr := b.metricsStore.RecordMeta(meta); recErr != nil {
		log.Printf("Warning: failed to record metrics for %s: %v", meta.AgentName, recErr)
	}
	if err != nil {
		log.Printf("Warning: insight generation for '%s' failed: %v", query, err)
		return
	}

	b.sendMarkdown(msg.Chat.ID, formatInsightMarkdown(insight))
}

func (b *Bot) handleMetricsRequest(msg *tgbotapi.Message) {
	if msg.From.ID != b.cfg.AdminTelegramID {
		b.sendMarkdown(msg.Chat.ID, "⛔ *Access Denied*: Admin only.")
		return
	}

	usage, err := b.metricsStore.GetDailyUsage(7)
	if err != nil {
		b.sendMarkdown(msg.Chat.ID, "❌ Error fetching metrics.")
		return
	}

	health := metrics.GetSysHealth("data")

	var sb strings.Builder
	sb.WriteString("📊 *Usage & Health Report*\n\n")

	sb.WriteString("🗓 *Recent LLM Activity*\n")
	if len(usage) == 0 {
		sb.WriteString("_No data yet_\n")
	}
	for _, d := range usage {
		sb.WriteString(fmt.Sprintf("• *%s*: %d tokens (%d execs)\n", d.Date, d.TotalPrompt+d.TotalCompletion, d.TotalExecution))
	}

	sb.WriteString("\n🧠 *System Health*\n")
	sb.WriteString(fmt.Sprintf("• RAM: %dMB (Alloc) / %dMB (Sys)\n", health.AllocMB, health.SysMB))
	sb.WriteString(fmt.Sprintf("• Goroutines: %d\n", health.Goroutines))
	sb.WriteString(fmt.Sprintf("• Disk Data: %s\n", health.DataDiskSize))

	b.sendMarkdown(msg.Chat.ID, sb.String())
}

func (b *Bot) sendMarkdown(chatID int64, text string) {
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ParseMode = "Markdown"
	b.api.Send(msg)
}

func (b *Bot) editMarkdown(chatID int64, messageID int, text string) {
	edit := tgbotapi.NewEditMessageText(chatID, messageID, text)
	edit.ParseMode = "Markdown"
	b.api.Send(edit)
}

func formatPlanMarkdown(plan *planner.WeeklyPlan) string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("📅 *Weekly Plan* (week of %s)\n", plan.WeekStart.Format("2006-01-02")))
	sb.WriteString(fmt.Sprintf("_%s_\n\n", plan.WeeklyGoal))

	for _, day := range plan.Days {
		sb.WriteString(fmt.Sprintf("*%s* — %s (%s)\n", day.Weekday, day.Topic, day.Skill))
		sb.WriteString(fmt.Sprintf("%s\n", day.Activity))
		sb.WriteString(fmt.Sprintf("Phrases: %s\n", strings.Join(day.FocusPhrases, ", ")))
		if day.Enrichment != nil {
			sb.WriteString(fmt.Sprintf("_%s_\n", day.Enrichment.Summary))
			sb.WriteString(fmt.Sprintf("🎯 %s\n", day.Enrichment.Mission))
			sb.WriteString(fmt.Sprintf("👪 %s\n", day.Enrichment.ParentTip))
		}
		sb.WriteString("\n")
	}

	return sb.String()
}

func formatSearchResults(query string, docs []search.Document) string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("🔎 *Results for %s*\n\n", query))
	for _, d := range docs {
		title := d.Title
		if title == "" {
			title = d.ID
		}
		sb.WriteString(fmt.Sprintf("*%s*", title))
		if d.Series != "" {
			sb.WriteString(fmt.Sprintf("  •  %s", d.Series))
		}
		if d.Level != "" {
			sb.WriteString(fmt.Sprintf("  •  %s", d.Level))
		}
		sb.WriteString("\n")
		if d.Content != "" {
			sb.WriteString(fmt.Sprintf("%s\n", search.CleanSnippet(d.Content, 300)))
		}
		if len(d.Phrases) > 0 {
			sb.WriteString(fmt.Sprintf("Key phrases: %s\n", strings.Join(d.Phrases, ", ")))
		}
		sb.WriteString("\n")
	}
	return sb.String()
}

func formatInsightMarkdown(insight *enrich.Insight) string {
	var sb strings.Builder
	sb.WriteString("✨ *Summary*\n")
	sb.WriteString(insight.Summary + "\n\n")
	sb.WriteString(fmt.Sprintf("*Focus Phrases*: %s\n\n", strings.Join(insight.FocusPhrases, ", ")))
	sb.WriteString("*Missions*\n")
	for _, m := range insight.Missions {
		sb.WriteString("• " + m + "\n")
	}
	sb.WriteString("\n*Parent Tips*\n")
	for _, tip := range insight.ParentTips {
		sb.WriteString("• " + tip + "\n")
	}
	return sb.String()
}
