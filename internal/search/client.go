package search

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"kids-english-guide/internal/config"
)

const searchAPIVersion = "2023-11-01"

// Document represents a single indexed content record returned by Azure AI Search.
type Document struct {
	ID      string   `json:"id"`
	Title   string   `json:"title"`
	Series  string   `json:"series"`
	Level   string   `json:"level"`
	Content string   `json:"content"`
	Phrases []string `json:"phrases"`
	Score   float64  `json:"@search.score"`
}

// Client is an interface for querying the kids content search index.
type Client interface {
	Search(ctx context.Context, query string, top int) ([]Document, error)
}

// searchClient is the concrete Azure AI Search REST client.
type searchClient struct {
	endpoint   string
	apiKey     string
	index      string
	httpClient *http.Client
}

// NewClient creates a new search client.
func NewClient(cfg *config.Config) Client {
	return &searchClient{
		endpoint: cfg.SearchEndpoint,
		apiKey:   cfg.SearchKey,
		index:    cfg.SearchIndex,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// Search runs a simple full-text query against the index and returns up to top documents.
func (c *searchClient) Search(ctx context.Context, query string, top int) ([]Document, error) {
	if top <= 0 {
		top = 5
	}

	reqBody := map[string]interface{}{
		"search":    query,
		"top":       top,
		"queryType": "simple",
	}

	jsonBody, err := json.Marshal(reqBody)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request body: %w", err)
	}

	url := fmt.Sprintf("%s/indexes/%s/docs/search?api-version=%s", c.endpoint, c.index, searchAPIVersion)

	req, err := http.NewRequestWithContext(ctx, "POST", url, bytes.NewBuffer(jsonBody))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("api-key", c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		bodyBytes, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("search api error: status=%d body=%s", resp.StatusCode, string(bodyBytes))
	}

	var searchResp struct {
		Value []Document `json:"value"`
	}

	if err := json.NewDecoder(resp.Body).Decode(&searchResp); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}

	// Index content may contain markup; prompts and chat surfaces want plain text.
	for i := range searchResp.Value {
		searchResp.Value[i].Content = CleanSnippet(searchResp.Value[i].Content, 600)
	}

	return searchResp.Value, nil
}
