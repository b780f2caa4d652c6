package metrics

import (
	"path/filepath"
	"testing"
	"time"

	"kids-english-guide/internal/database"
	"kids-english-guide/internal/shared"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	db, err := database.NewDB(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("Failed to initialize test database: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return NewStore(db.SQL)
}

func TestRecordAndDailyUsage(t *testing.T) {
	store := newTestStore(t)

	err := store.Record(ExecutionMetric{
		AgentName:        "DayEnricher",
		Model:            "gpt-4o-mini",
		PromptTokens:     120,
		CompletionTokens: 30,
		LatencyMS:        450,
	})
	if err != nil {
		t.Fatalf("Record failed: %v", err)
	}

	usage, err := store.GetDailyUsage(7)
	if err != nil {
		t.Fatalf("GetDailyUsage failed: %v", err)
	}
	if len(usage) != 1 {
		t.Fatalf("Expected 1 daily usage row, got %d", len(usage))
	}
	if usage[0].TotalPrompt != 120 || usage[0].TotalCompletion != 30 || usage[0].TotalExecution != 1 {
		t.Errorf("Unexpected usage: %+v", usage[0])
	}
	// strftime must be able to parse the stored timestamp into a day bucket.
	if want := time.Now().UTC().Format("2006-01-02"); usage[0].Date != want {
		t.Errorf("Expected day bucket '%s', got '%s'", want, usage[0].Date)
	}
}

func TestRecordMetaSkipsEmptyUsage(t *testing.T) {
	store := newTestStore(t)

	if err := store.RecordMeta(shared.AgentMeta{AgentName: "DayEnricher"}); err != nil {
		t.Fatalf("RecordMeta failed: %v", err)
	}

	usage, err := store.GetDailyUsage(7)
	if err != nil {
		t.Fatalf("GetDailyUsage failed: %v", err)
	}
	if len(usage) != 0 {
		t.Errorf("Expected zero-usage meta to be skipped, got %d rows", len(usage))
	}
}

func TestCleanup(t *testing.T) {
	store := newTestStore(t)

	old := ExecutionMetric{
		AgentName:        "SearchInsight",
		Model:            "gpt-4o-mini",
		PromptTokens:     10,
		CompletionTokens: 5,
		LatencyMS:        100,
		Timestamp:        time.Now().UTC().AddDate(0, 0, -60),
	}
	recent := old
	recent.Timestamp = time.Now().UTC()

	if err := store.Record(old); err != nil {
		t.Fatalf("Record failed: %v", err)
	}
	if err := store.Record(recent); err != nil {
		t.Fatalf("Record failed: %v", err)
	}

	removed, err := store.Cleanup(30)
	if err != nil {
		t.Fatalf("Cleanup failed: %v", err)
	}
	if removed != 1 {
		t.Errorf("Expected 1 removed row, got %d", removed)
	}
}
