package search

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"kids-english-guide/internal/config"
)

func TestSearch(t *testing.T) {
	var gotPath, gotKey string
	var gotBody map[string]interface{}

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotKey = r.Header.Get("api-key")
		_ = json.NewDecoder(r.Body).Decode(&gotBody)

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{
			"value": [
				{"id": "1", "title": "Bluey: Keepy Uppy", "series": "Bluey", "level": "A1",
				 "content": "<p>Bluey and Bingo play a <b>balloon</b> game.</p>",
				 "phrases": ["Keep it up!", "Don't let it touch the floor!"],
				 "@search.score": 2.4},
				{"id": "2", "title": "Peppa at the Zoo", "series": "Peppa Pig", "level": "A1",
				 "content": "Peppa visits the animals.",
				 "phrases": ["Look at that!"],
				 "@search.score": 1.1}
			]
		}`))
	}))
	defer server.Close()

	client := NewClient(&config.Config{
		SearchEndpoint: server.URL,
		SearchKey:      "search-key",
		SearchIndex:    "kids-content",
	})

	docs, err := client.Search(context.Background(), "Bluey", 5)
	if err != nil {
		t.Fatalf("Search failed: %v", err)
	}

	if gotPath != "/indexes/kids-content/docs/search" {
		t.Errorf("Unexpected request path: %s", gotPath)
	}
	if gotKey != "search-key" {
		t.Errorf("Expected api-key header 'search-key', got '%s'", gotKey)
	}
	if gotBody["queryType"] != "simple" {
		t.Errorf("Expected queryType 'simple', got %v", gotBody["queryType"])
	}
	if len(docs) != 2 {
		t.Fatalf("Expected 2 documents, got %d", len(docs))
	}
	if docs[0].Score != 2.4 {
		t.Errorf("Expected score 2.4, got %f", docs[0].Score)
	}
	if strings.Contains(docs[0].Content, "<") {
		t.Errorf("Expected markup stripped from content, got '%s'", docs[0].Content)
	}
	if docs[0].Content != "Bluey and Bingo play a balloon game." {
		t.Errorf("Unexpected cleaned content: '%s'", docs[0].Content)
	}
}

func TestSearchServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "index not found", http.StatusNotFound)
	}))
	defer server.Close()

	client := NewClient(&config.Config{
		SearchEndpoint: server.URL,
		SearchKey:      "k",
		SearchIndex:    "missing",
	})

	if _, err := client.Search(context.Background(), "Bluey", 5); err == nil {
		t.Fatal("Expected an error on non-200 response, got nil")
	}
}

func TestCleanSnippet(t *testing.T) {
	tests := []struct {
		name    string
		content string
		maxLen  int
		want    string
	}{
		{"PlainText", "Peppa visits the   zoo.", 600, "Peppa visits the zoo."},
		{"StripsMarkup", "<p>Bluey <b>plays</b></p><script>x()</script>", 600, "Bluey plays"},
		{"Truncates", "abcdefghij", 4, "abcd"},
		{"Empty", "", 600, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CleanSnippet(tt.content, tt.maxLen); got != tt.want {
				t.Errorf("CleanSnippet(%q) = %q, want %q", tt.content, got, tt.want)
			}
		})
	}
}
