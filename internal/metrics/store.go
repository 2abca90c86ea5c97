package metrics

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"time"

	metricsdb "household-shopping/internal/metrics/metrics_db"
)

// Outcomes of a recorded operation.
const (
	OutcomeOK          = "ok"
	OutcomeClientError = "client_error"
	OutcomeError       = "error"
)

// OperationMetric records metadata for a single API or bot operation.
type OperationMetric struct {
	Operation  string
	Outcome    string
	StatusCode int
	LatencyMS  int64
	Timestamp  time.Time
}

// OutcomeForStatus classifies an HTTP status code.
func OutcomeForStatus(code int) string {
	switch {
	case code >= http.StatusInternalServerError:
		return OutcomeError
	case code >= http.StatusBadRequest:
		return OutcomeClientError
	default:
		return OutcomeOK
	}
}

// Store handles persistence of metrics to SQLite.
type Store struct {
	queries *metricsdb.Queries
	db      *sql.DB
}

// NewStore initializes the Store with an existing database connection.
func NewStore(db *sql.DB) *Store {
	return &Store{
		queries: metricsdb.New(db),
		db:      db,
	}
}

// Record saves a metric to the database.
func (s *Store) Record(ctx context.Context, m OperationMetric) error {
	ts := m.Timestamp
	if ts.IsZero() {
		ts = time.Now().UTC()
	}
	outcome := m.Outcome
	if outcome == "" {
		outcome = OutcomeForStatus(m.StatusCode)
	}

	err := s.queries.InsertOperationMetric(ctx, metricsdb.InsertOperationMetricParams{
		Operation:  m.Operation,
		Outcome:    outcome,
		StatusCode: int64(m.StatusCode),
		LatencyMs:  m.LatencyMS,
		Timestamp:  ts.UnixMilli(),
	})
	if err != nil {
		return fmt.Errorf("failed to record metric: %w", err)
	}
	return nil
}

// DailyUsage represents operation totals for a single day.
type DailyUsage struct {
	Date         string
	Total        int
	Errors       int
	AvgLatencyMS float64
}

// GetDailyUsage retrieves usage for the last N days, newest first.
func (s *Store) GetDailyUsage(ctx context.Context, days int) ([]DailyUsage, error) {
	since := time.Now().UTC().AddDate(0, 0, -days).UnixMilli()
	rows, err := s.queries.GetDailyUsage(ctx, since)
	if err != nil {
		return nil, fmt.Errorf("failed to get daily usage: %w", err)
	}

	var results []DailyUsage
	for _, r := range rows {
		u := DailyUsage{
			Total: int(r.Total),
		}

		if day, ok := r.Day.(string); ok {
			u.Date = day
		} else {
			u.Date = "Unknown"
		}

		if r.Errors.Valid {
			u.Errors = int(r.Errors.Float64)
		}
		if r.AvgLatency.Valid {
			u.AvgLatencyMS = r.AvgLatency.Float64
		}

		results = append(results, u)
	}
	return results, nil
}

// OperationSummary aggregates one operation over a period.
type OperationSummary struct {
	Operation    string
	Total        int
	Errors       int
	AvgLatencyMS float64
}

// GetOperationSummary returns per-operation totals for the last N days.
func (s *Store) GetOperationSummary(ctx context.Context, days int) ([]OperationSummary, error) {
	since := time.Now().UTC().AddDate(0, 0, -days).UnixMilli()
	rows, err := s.queries.GetOperationSummary(ctx, since)
	if err != nil {
		return nil, fmt.Errorf("failed to get operation summary: %w", err)
	}
	results := make([]OperationSummary, 0, len(rows))
	for _, r := range rows {
		o := OperationSummary{Operation: r.Operation, Total: int(r.Total)}
		if r.Errors.Valid {
			o.Errors = int(r.Errors.Float64)
		}
		if r.AvgLatency.Valid {
			o.AvgLatencyMS = r.AvgLatency.Float64
		}
		results = append(results, o)
	}
	return results, nil
}

// Cleanup removes records older than the specified number of days and
// returns how many were deleted.
func (s *Store) Cleanup(ctx context.Context, olderThanDays int) (int64, error) {
	threshold := time.Now().UTC().AddDate(0, 0, -olderThanDays).UnixMilli()
	n, err := s.queries.CleanupOperationMetrics(ctx, threshold)
	if err != nil {
		return 0, fmt.Errorf("failed to clean up metrics: %w", err)
	}
	return n, nil
}
