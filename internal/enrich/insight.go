package enrich

import (
	"bytes"
	"context"
	_ "embed"
	"encoding/json"
	"fmt"
	"text/template"
	"time"

	"kids-english-guide/internal/search"
	"kids-english-guide/internal/shared"
)

//go:embed insight_prompt.md
var insightPrompt string

const agentInsight = "SearchInsight"

// Insight is the retrieval-augmented summary produced for a search query:
// a child-friendly summary plus phrases, missions and parent coaching.
type Insight struct {
	Summary      string   `json:"summary"`
	FocusPhrases []string `json:"focus_phrases"`
	Missions     []string `json:"missions"`
	ParentTips   []string `json:"parent_tips"`
}

type insightPromptData struct {
	Query string
	Docs  []docSnippet
}

// GenerateInsight turns a search query and its results into an Insight.
func (e *LLMEnricher) GenerateInsight(ctx context.Context, query string, docs []search.Document) (*Insight, shared.AgentMeta, error) {
	start := time.Now()

	prompt, err := buildInsightPrompt(insightPromptData{
		Query: query,
		Docs:  compressDocs(docs),
	})
	if err != nil {
		return nil, shared.AgentMeta{AgentName: agentInsight}, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}

	resp, err := e.textGen.GenerateContent(ctx, prompt)
	meta := shared.AgentMeta{
		AgentName: agentInsight,
		Usage:     resp.Usage,
		Latency:   time.Since(start),
	}
	if err != nil {
		return nil, meta, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}

	result := &Insight{}
	if err := json.Unmarshal([]byte(resp.Content), result); err != nil {
		return nil, meta, fmt.Errorf("%w: malformed reply: %v", ErrUnavailable, err)
	}

	return result, meta, nil
}

func buildInsightPrompt(data insightPromptData) (string, error) {
	tmpl, err := template.New("insight").Parse(insightPrompt)
	if err != nil {
		return "", err
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", err
	}

	return buf.String(), nil
}
