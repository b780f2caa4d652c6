package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds the configuration for the application.
type Config struct {
	// Azure AI Search (required)
	SearchEndpoint string
	SearchKey      string
	SearchIndex    string

	// Azure OpenAI (optional, enables enrichment)
	AOAIEndpoint   string
	AOAIKey        string
	AOAIDeployment string

	// Gemini (optional, fallback generation backend)
	GeminiAPIKey string

	// Telegram Config
	TelegramBotToken       string
	TelegramWebhookURL     string
	TelegramAllowedUserIDs []int64
	AdminTelegramID        int64

	// Storage & tunables
	DBPath        string
	EnrichTimeout time.Duration
	MinutesPerDay int
}

// NewFromEnv creates a new Config object from environment variables.
func NewFromEnv() (*Config, error) {
	searchEndpoint := os.Getenv("AZURE_SEARCH_ENDPOINT")
	if searchEndpoint == "" {
		return nil, fmt.Errorf("AZURE_SEARCH_ENDPOINT environment variable not set")
	}

	searchKey := os.Getenv("AZURE_SEARCH_KEY")
	if searchKey == "" {
		return nil, fmt.Errorf("AZURE_SEARCH_KEY environment variable not set")
	}

	searchIndex := os.Getenv("AZURE_SEARCH_INDEX")
	if searchIndex == "" {
		return nil, fmt.Errorf("AZURE_SEARCH_INDEX environment variable not set")
	}

	dbPath := os.Getenv("GUIDE_DB_PATH")
	if dbPath == "" {
		dbPath = "data/guide.db"
	}

	enrichTimeout := 30 * time.Second
	if v := os.Getenv("ENRICH_TIMEOUT_SECONDS"); v != "" {
		secs, err := strconv.Atoi(v)
		if err != nil || secs <= 0 {
			return nil, fmt.Errorf("ENRICH_TIMEOUT_SECONDS must be a positive integer, got %q", v)
		}
		enrichTimeout = time.Duration(secs) * time.Second
	}

	minutesPerDay := 15
	if v := os.Getenv("DEFAULT_MINUTES_PER_DAY"); v != "" {
		mins, err := strconv.Atoi(v)
		if err != nil || mins <= 0 {
			return nil, fmt.Errorf("DEFAULT_MINUTES_PER_DAY must be a positive integer, got %q", v)
		}
		minutesPerDay = mins
	}

	var allowedIDs []int64
	for _, part := range strings.Split(os.Getenv("TELEGRAM_ALLOW_USER_ID"), ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		id, err := strconv.ParseInt(part, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid TELEGRAM_ALLOW_USER_ID entry %q: %w", part, err)
		}
		allowedIDs = append(allowedIDs, id)
	}

	var adminID int64
	if v := os.Getenv("ADMIN_TELEGRAM_ID"); v != "" {
		id, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid ADMIN_TELEGRAM_ID %q: %w", v, err)
		}
		adminID = id
	}

	return &Config{
		SearchEndpoint:         strings.TrimRight(searchEndpoint, "/"),
		SearchKey:              searchKey,
		SearchIndex:            searchIndex,
		AOAIEndpoint:           strings.TrimRight(os.Getenv("AZURE_OPENAI_ENDPOINT"), "/"),
		AOAIKey:                os.Getenv("AZURE_OPENAI_KEY"),
		AOAIDeployment:         os.Getenv("AZURE_OPENAI_DEPLOYMENT"),
		GeminiAPIKey:           os.Getenv("GEMINI_API_KEY"),
		TelegramBotToken:       os.Getenv("TELEGRAM_BOT_TOKEN"),
		TelegramWebhookURL:     os.Getenv("TELEGRAM_WEBHOOK_URL"),
		TelegramAllowedUserIDs: allowedIDs,
		AdminTelegramID:        adminID,
		DBPath:                 dbPath,
		EnrichTimeout:          enrichTimeout,
		MinutesPerDay:          minutesPerDay,
	}, nil
}

// HasAzureOpenAI reports whether the Azure OpenAI backend is fully configured.
func (c *Config) HasAzureOpenAI() bool {
	return c.AOAIEndpoint != "" && c.AOAIKey != "" && c.AOAIDeployment != ""
}

// HasGeneration reports whether any text generation backend is configured.
func (c *Config) HasGeneration() bool {
	return c.HasAzureOpenAI() || c.GeminiAPIKey != ""
}
