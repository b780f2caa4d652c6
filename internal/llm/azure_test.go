package llm

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"kids-english-guide/internal/config"
)

func TestAzureGenerateContent(t *testing.T) {
	var gotPath, gotKey string
	var gotBody map[string]interface{}

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotKey = r.Header.Get("api-key")
		_ = json.NewDecoder(r.Body).Decode(&gotBody)

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{
			"model": "gpt-4o-mini",
			"choices": [{"message": {"content": "{\"summary\": \"Bluey is a playful dog.\"}"}}],
			"usage": {"prompt_tokens": 120, "completion_tokens": 30, "total_tokens": 150}
		}`))
	}))
	defer server.Close()

	cfg := &config.Config{
		AOAIEndpoint:   server.URL,
		AOAIKey:        "test-key",
		AOAIDeployment: "gpt-4o-mini",
	}

	client := NewAzureOpenAIClient(cfg)
	resp, err := client.GenerateContent(context.Background(), "Tell me about Bluey")
	if err != nil {
		t.Fatalf("GenerateContent failed: %v", err)
	}

	if gotPath != "/openai/deployments/gpt-4o-mini/chat/completions" {
		t.Errorf("Unexpected request path: %s", gotPath)
	}
	if gotKey != "test-key" {
		t.Errorf("Expected api-key header 'test-key', got '%s'", gotKey)
	}
	if rf, ok := gotBody["response_format"].(map[string]interface{}); !ok || rf["type"] != "json_object" {
		t.Errorf("Expected response_format json_object, got %v", gotBody["response_format"])
	}
	if resp.Content != `{"summary": "Bluey is a playful dog."}` {
		t.Errorf("Unexpected content: %s", resp.Content)
	}
	if resp.Usage.PromptTokens != 120 || resp.Usage.CompletionTokens != 30 {
		t.Errorf("Unexpected usage: %+v", resp.Usage)
	}
	if resp.Usage.Model != "gpt-4o-mini" {
		t.Errorf("Expected model 'gpt-4o-mini', got '%s'", resp.Usage.Model)
	}
}

func TestAzureGenerateContentServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "rate limited", http.StatusTooManyRequests)
	}))
	defer server.Close()

	client := NewAzureOpenAIClient(&config.Config{
		AOAIEndpoint:   server.URL,
		AOAIKey:        "k",
		AOAIDeployment: "d",
	})

	if _, err := client.GenerateContent(context.Background(), "hi"); err == nil {
		t.Fatal("Expected an error on non-200 response, got nil")
	}
}
