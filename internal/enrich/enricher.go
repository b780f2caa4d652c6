package enrich

import (
	"bytes"
	"context"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"text/template"
	"time"

	"kids-english-guide/internal/llm"
	"kids-english-guide/internal/search"
	"kids-english-guide/internal/shared"
)

//go:embed day_prompt.md
var dayPrompt string

// ErrUnavailable signals that enrichment could not be produced (timeout,
// service error, or no generation backend configured). Callers emit the
// affected plan day without enrichment instead of failing.
var ErrUnavailable = errors.New("enrichment unavailable")

const agentDayEnricher = "DayEnricher"

// Enrichment is the generated text attached to a single plan day.
type Enrichment struct {
	Summary   string `json:"summary"`
	Mission   string `json:"mission"`
	ParentTip string `json:"parent_tip"`
}

// Enricher produces enrichment for a topic from retrieved documents.
type Enricher interface {
	Enrich(ctx context.Context, topic string, docs []search.Document) (*Enrichment, shared.AgentMeta, error)
}

// Noop is the Enricher used when no generation backend is configured.
type Noop struct{}

// Enrich always fails with ErrUnavailable.
func (Noop) Enrich(ctx context.Context, topic string, docs []search.Document) (*Enrichment, shared.AgentMeta, error) {
	return nil, shared.AgentMeta{AgentName: agentDayEnricher}, ErrUnavailable
}

// LLMEnricher generates enrichment through a text generation backend.
type LLMEnricher struct {
	textGen llm.TextGenerator
}

// NewLLMEnricher creates a new LLMEnricher.
func NewLLMEnricher(textGen llm.TextGenerator) *LLMEnricher {
	return &LLMEnricher{textGen: textGen}
}

type docSnippet struct {
	Title   string
	Series  string
	Level   string
	Phrases string
	Content string
}

type dayPromptData struct {
	Topic string
	Docs  []docSnippet
}

// Enrich builds the day prompt from the topic and documents and parses the
// model's JSON reply. All failures are reported as ErrUnavailable.
func (e *LLMEnricher) Enrich(ctx context.Context, topic string, docs []search.Document) (*Enrichment, shared.AgentMeta, error) {
	start := time.Now()

	prompt, err := buildDayPrompt(dayPromptData{
		Topic: topic,
		Docs:  compressDocs(docs),
	})
	if err != nil {
		return nil, shared.AgentMeta{AgentName: agentDayEnricher}, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}

	resp, err := e.textGen.GenerateContent(ctx, prompt)
	meta := shared.AgentMeta{
		AgentName: agentDayEnricher,
		Usage:     resp.Usage,
		Latency:   time.Since(start),
	}
	if err != nil {
		return nil, meta, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}

	result := &Enrichment{}
	if err := json.Unmarshal([]byte(resp.Content), result); err != nil {
		return nil, meta, fmt.Errorf("%w: malformed reply: %v", ErrUnavailable, err)
	}

	return result, meta, nil
}

// compressDocs flattens documents into short snippets to keep prompts small.
func compressDocs(docs []search.Document) []docSnippet {
	snippets := make([]docSnippet, 0, len(docs))
	for _, d := range docs {
		title := d.Title
		if title == "" {
			title = d.ID
		}
		snippets = append(snippets, docSnippet{
			Title:   title,
			Series:  d.Series,
			Level:   d.Level,
			Phrases: strings.Join(d.Phrases, ", "),
			Content: search.CleanSnippet(d.Content, 600),
		})
	}
	return snippets
}

func buildDayPrompt(data dayPromptData) (string, error) {
	tmpl, err := template.New("day").Parse(dayPrompt)
	if err != nil {
		return "", err
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", err
	}

	return buf.String(), nil
}
