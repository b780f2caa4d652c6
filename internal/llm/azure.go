package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"kids-english-guide/internal/config"
	"kids-english-guide/internal/shared"
)

const aoaiAPIVersion = "2024-06-01"

// azureClient is a client for the Azure OpenAI chat completions API.
type azureClient struct {
	endpoint   string
	apiKey     string
	deployment string
	httpClient *http.Client
}

// NewAzureOpenAIClient creates a new Azure OpenAI API client.
func NewAzureOpenAIClient(cfg *config.Config) TextGenerator {
	return &azureClient{
		endpoint:   cfg.AOAIEndpoint,
		apiKey:     cfg.AOAIKey,
		deployment: cfg.AOAIDeployment,
		httpClient: &http.Client{
			Timeout: 60 * time.Second,
		},
	}
}

// GenerateContent sends a prompt to the deployed model and returns the generated text.
func (c *azureClient) GenerateContent(ctx context.Context, prompt string) (ContentResponse, error) {
	reqBody := map[string]interface{}{
		"messages": []map[string]string{
			{
				"role":    "system",
				"content": "You are a kids English coach. Return JSON only. Make outputs short, A1~A2 friendly, and actionable for parents.",
			},
			{
				"role":    "user",
				"content": prompt,
			},
		},
		"temperature":     0.3,
		"max_tokens":      800,
		"response_format": map[string]string{"type": "json_object"},
	}

	jsonBody, err := json.Marshal(reqBody)
	if err != nil {
		return ContentResponse{}, fmt.Errorf("failed to marshal request body: %w", err)
	}

	url := fmt.Sprintf("%s/openai/deployments/%s/chat/completions?api-version=%s",
		c.endpoint, c.deployment, aoaiAPIVersion)

	req, err := http.NewRequestWithContext(ctx, "POST", url, bytes.NewBuffer(jsonBody))
	if err != nil {
		return ContentResponse{}, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("api-key", c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return ContentResponse{}, fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		bodyBytes, _ := io.ReadAll(resp.Body)
		return ContentResponse{}, fmt.Errorf("azure openai error: status=%d body=%s", resp.StatusCode, string(bodyBytes))
	}

	var aoaiResp struct {
		Model   string `json:"model"`
		Choices []struct {
			Message struct {
				Content string `json:"content"`
			} `json:"message"`
		} `json:"choices"`
		Usage struct {
			PromptTokens     int `json:"prompt_tokens"`
			CompletionTokens int `json:"completion_tokens"`
			TotalTokens      int `json:"total_tokens"`
		} `json:"usage"`
	}

	if err := json.NewDecoder(resp.Body).Decode(&aoaiResp); err != nil {
		return ContentResponse{}, fmt.Errorf("failed to decode response: %w", err)
	}

	if len(aoaiResp.Choices) == 0 {
		return ContentResponse{}, fmt.Errorf("no content generated")
	}

	return ContentResponse{
		Content: aoaiResp.Choices[0].Message.Content,
		Usage: shared.TokenUsage{
			PromptTokens:     aoaiResp.Usage.PromptTokens,
			CompletionTokens: aoaiResp.Usage.CompletionTokens,
			TotalTokens:      aoaiResp.Usage.TotalTokens,
			Model:            aoaiResp.Model,
		},
	}, nil
}
