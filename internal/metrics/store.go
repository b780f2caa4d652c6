package metrics

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"kids-english-guide/internal/shared"
)

// ExecutionMetric records metadata for a single LLM call.
type ExecutionMetric struct {
	AgentName        string
	Model            string
	PromptTokens     int
	CompletionTokens int
	LatencyMS        int64
	Timestamp        time.Time
}

// sqliteTimeLayout is the datetime text layout SQLite's date functions
// understand; timestamps must be bound in this form for strftime grouping.
const sqliteTimeLayout = "2006-01-02 15:04:05"

// Store handles persistence of metrics to SQLite.
type Store struct {
	db *sql.DB
}

// NewStore initializes the Store with an existing database connection.
func NewStore(db *sql.DB) *Store {
	return &Store{db: db}
}

// Record saves a metric to the database.
func (s *Store) Record(m ExecutionMetric) error {
	ts := m.Timestamp
	if ts.IsZero() {
		ts = time.Now().UTC()
	}

	_, err := s.db.ExecContext(context.Background(),
		`INSERT INTO execution_metrics (agent_name, model, prompt_tokens, completion_tokens, latency_ms, timestamp)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		m.AgentName, m.Model, m.PromptTokens, m.CompletionTokens, m.LatencyMS, ts.UTC().Format(sqliteTimeLayout),
	)
	if err != nil {
		return fmt.Errorf("failed to insert execution metric: %w", err)
	}
	return nil
}

// RecordMeta records metrics directly from shared.AgentMeta.
func (s *Store) RecordMeta(meta shared.AgentMeta) error {
	if meta.Usage.PromptTokens == 0 && meta.Usage.CompletionTokens == 0 {
		return nil
	}
	return s.Record(MapUsage(meta.AgentName, meta.Usage, meta.Latency))
}

// DailyUsage represents token totals for a single day.
type DailyUsage struct {
	Date            string
	TotalPrompt     int
	TotalCompletion int
	TotalExecution  int
}

// GetDailyUsage retrieves usage for the last N days.
func (s *Store) GetDailyUsage(days int) ([]DailyUsage, error) {
	since := time.Now().UTC().AddDate(0, 0, -days).Format(sqliteTimeLayout)

	rows, err := s.db.QueryContext(context.Background(),
		`SELECT strftime('%Y-%m-%d', timestamp) AS day,
		        COALESCE(SUM(prompt_tokens), 0),
		        COALESCE(SUM(completion_tokens), 0),
		        COUNT(*)
		 FROM execution_metrics
		 WHERE timestamp >= ?
		 GROUP BY day
		 ORDER BY day DESC`,
		since,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query daily usage: %w", err)
	}
	defer rows.Close()

	var results []DailyUsage
	for rows.Next() {
		var u DailyUsage
		if err := rows.Scan(&u.Date, &u.TotalPrompt, &u.TotalCompletion, &u.TotalExecution); err != nil {
			return nil, fmt.Errorf("failed to scan daily usage row: %w", err)
		}
		results = append(results, u)
	}
	return results, rows.Err()
}

// Cleanup removes records older than the specified number of days and
// returns how many rows were deleted.
func (s *Store) Cleanup(olderThanDays int) (int64, error) {
	threshold := time.Now().UTC().AddDate(0, 0, -olderThanDays).Format(sqliteTimeLayout)

	res, err := s.db.ExecContext(context.Background(),
		`DELETE FROM execution_metrics WHERE timestamp < ?`, threshold,
	)
	if err != nil {
		return 0, fmt.Errorf("failed to clean up metrics: %w", err)
	}
	return res.RowsAffected()
}

// MapUsage converts shared.TokenUsage to an ExecutionMetric.
func MapUsage(agentName string, usage shared.TokenUsage, latency time.Duration) ExecutionMetric {
	return ExecutionMetric{
		AgentName:        agentName,
		Model:            usage.Model,
		PromptTokens:     usage.PromptTokens,
		CompletionTokens: usage.CompletionTokens,
		LatencyMS:        latency.Milliseconds(),
		Timestamp:        time.Now().UTC(),
	}
}
