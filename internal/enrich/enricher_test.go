package enrich

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"kids-english-guide/internal/llm"
	"kids-english-guide/internal/search"
	"kids-english-guide/internal/shared"
)

type mockTextGenerator struct {
	response string
	err      error
	prompts  []string
}

func (m *mockTextGenerator) GenerateContent(ctx context.Context, prompt string) (llm.ContentResponse, error) {
	m.prompts = append(m.prompts, prompt)
	if m.err != nil {
		return llm.ContentResponse{}, m.err
	}
	return llm.ContentResponse{
		Content: m.response,
		Usage:   shared.TokenUsage{PromptTokens: 100, CompletionTokens: 40, Model: "test-model"},
	}, nil
}

var testDocs = []search.Document{
	{
		ID:      "1",
		Title:   "Bluey: Keepy Uppy",
		Series:  "Bluey",
		Level:   "A1",
		Content: "Bluey and Bingo keep a balloon in the air.",
		Phrases: []string{"Keep it up!"},
		Score:   2.0,
	},
}

func TestEnrich(t *testing.T) {
	gen := &mockTextGenerator{
		response: `{"summary": "Bluey plays a balloon game.", "mission": "Say 'Keep it up!' twice.", "parent_tip": "Praise every try."}`,
	}

	enricher := NewLLMEnricher(gen)
	result, meta, err := enricher.Enrich(context.Background(), "Bluey", testDocs)
	if err != nil {
		t.Fatalf("Enrich failed: %v", err)
	}

	if result.Summary != "Bluey plays a balloon game." {
		t.Errorf("Unexpected summary: %s", result.Summary)
	}
	if result.Mission == "" || result.ParentTip == "" {
		t.Errorf("Expected mission and parent tip to be populated, got %+v", result)
	}
	if meta.AgentName != "DayEnricher" {
		t.Errorf("Expected agent name 'DayEnricher', got '%s'", meta.AgentName)
	}
	if meta.Usage.PromptTokens != 100 {
		t.Errorf("Expected usage carried through, got %+v", meta.Usage)
	}

	if len(gen.prompts) != 1 {
		t.Fatalf("Expected 1 prompt, got %d", len(gen.prompts))
	}
	prompt := gen.prompts[0]
	if !strings.Contains(prompt, "Bluey: Keepy Uppy") {
		t.Errorf("Expected prompt to contain the document title, got:\n%s", prompt)
	}
	if !strings.Contains(prompt, "Keep it up!") {
		t.Errorf("Expected prompt to contain the key phrases, got:\n%s", prompt)
	}
}

func TestEnrichGeneratorFailure(t *testing.T) {
	gen := &mockTextGenerator{err: fmt.Errorf("context deadline exceeded")}

	enricher := NewLLMEnricher(gen)
	_, _, err := enricher.Enrich(context.Background(), "Bluey", testDocs)
	if !errors.Is(err, ErrUnavailable) {
		t.Fatalf("Expected ErrUnavailable, got %v", err)
	}
}

func TestEnrichMalformedReply(t *testing.T) {
	gen := &mockTextGenerator{response: "sorry, I cannot help with that"}

	enricher := NewLLMEnricher(gen)
	_, _, err := enricher.Enrich(context.Background(), "Bluey", testDocs)
	if !errors.Is(err, ErrUnavailable) {
		t.Fatalf("Expected ErrUnavailable for malformed reply, got %v", err)
	}
}

func TestNoopEnricher(t *testing.T) {
	_, _, err := Noop{}.Enrich(context.Background(), "Bluey", testDocs)
	if !errors.Is(err, ErrUnavailable) {
		t.Fatalf("Expected ErrUnavailable from Noop, got %v", err)
	}
}

func TestGenerateInsight(t *testing.T) {
	gen := &mockTextGenerator{
		response: `{
			"summary": "Bluey is a playful dog who loves games.",
			"focus_phrases": ["Keep it up!", "Good try!"],
			"missions": ["Find 'Keep it up!' in the clip", "Shadow it twice", "Use it at home once"],
			"parent_tips": ["Praise effort, not results"]
		}`,
	}

	enricher := NewLLMEnricher(gen)
	insight, meta, err := enricher.GenerateInsight(context.Background(), "Bluey", testDocs)
	if err != nil {
		t.Fatalf("GenerateInsight failed: %v", err)
	}

	if len(insight.FocusPhrases) != 2 {
		t.Errorf("Expected 2 focus phrases, got %d", len(insight.FocusPhrases))
	}
	if len(insight.Missions) != 3 {
		t.Errorf("Expected 3 missions, got %d", len(insight.Missions))
	}
	if meta.AgentName != "SearchInsight" {
		t.Errorf("Expected agent name 'SearchInsight', got '%s'", meta.AgentName)
	}
	if !strings.Contains(gen.prompts[0], `"Bluey"`) {
		t.Errorf("Expected prompt to contain the query, got:\n%s", gen.prompts[0])
	}
}
