package metrics

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"household-shopping/internal/database/dbtest"
)

func TestStore_RecordAndReport(t *testing.T) {
	ctx := context.Background()
	s := NewStore(dbtest.Open(t))
	now := time.Now().UTC()

	records := []OperationMetric{
		{Operation: "GET /api/lists", StatusCode: 200, LatencyMS: 10, Timestamp: now},
		{Operation: "GET /api/lists", StatusCode: 500, LatencyMS: 30, Timestamp: now},
		{Operation: "POST /api/lists", StatusCode: 404, LatencyMS: 20, Timestamp: now},
		{Operation: "GET /api/lists", StatusCode: 200, LatencyMS: 5, Timestamp: now.AddDate(0, 0, -40)},
	}
	for _, m := range records {
		require.NoError(t, s.Record(ctx, m))
	}

	usage, err := s.GetDailyUsage(ctx, 7)
	require.NoError(t, err)
	require.Len(t, usage, 1)
	assert.Equal(t, now.Format("2006-01-02"), usage[0].Date)
	assert.Equal(t, 3, usage[0].Total)
	assert.Equal(t, 1, usage[0].Errors)
	assert.InDelta(t, 20.0, usage[0].AvgLatencyMS, 0.001)

	summary, err := s.GetOperationSummary(ctx, 7)
	require.NoError(t, err)
	require.Len(t, summary, 2)
	assert.Equal(t, OperationSummary{Operation: "GET /api/lists", Total: 2, Errors: 1, AvgLatencyMS: 20}, summary[0])

	removed, err := s.Cleanup(ctx, 30)
	require.NoError(t, err)
	assert.Equal(t, int64(1), removed)
}

func TestOutcomeForStatus(t *testing.T) {
	assert.Equal(t, OutcomeOK, OutcomeForStatus(204))
	assert.Equal(t, OutcomeClientError, OutcomeForStatus(409))
	assert.Equal(t, OutcomeError, OutcomeForStatus(503))
}

func TestMiddleware_UsesRoutePattern(t *testing.T) {
	s := NewStore(dbtest.Open(t))
	r := chi.NewRouter()
	r.Use(Middleware(s))
	r.Get("/api/lists/{id}", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})

	for _, id := range []string{"a", "b"} {
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/lists/"+id, nil))
		require.Equal(t, http.StatusNotFound, rec.Code)
	}

	summary, err := s.GetOperationSummary(context.Background(), 1)
	require.NoError(t, err)
	require.Len(t, summary, 1)
	assert.Equal(t, "GET /api/lists/{id}", summary[0].Operation)
	assert.Equal(t, 2, summary[0].Total)
	assert.Zero(t, summary[0].Errors)
}

func TestReadHealth_CountsWALAndSharedMemory(t *testing.T) {
	dir := t.TempDir()
	dbPath := filepath.Join(dir, "shopping.db")
	require.NoError(t, os.WriteFile(dbPath, make([]byte, 1024), 0o644))
	require.NoError(t, os.WriteFile(dbPath+"-wal", make([]byte, 512), 0o644))
	require.NoError(t, os.WriteFile(dbPath+"-shm", make([]byte, 512), 0o644))
	// Other files in the data directory are not part of the database.
	require.NoError(t, os.WriteFile(filepath.Join(dir, "backup.db"), make([]byte, 4096), 0o644))

	h := ReadHealth(dbPath)
	assert.Equal(t, int64(2048), h.DatabaseBytes)
	assert.Equal(t, "2.0 KB", h.Database)
	assert.Positive(t, h.Goroutines)
}

func TestDatabaseSize_MissingFiles(t *testing.T) {
	dir := t.TempDir()
	assert.Zero(t, DatabaseSize(filepath.Join(dir, "absent.db")))
	assert.Zero(t, DatabaseSize(""))

	dbPath := filepath.Join(dir, "only-main.db")
	require.NoError(t, os.WriteFile(dbPath, make([]byte, 100), 0o644))
	assert.Equal(t, int64(100), DatabaseSize(dbPath))
}

func TestFormatBytes(t *testing.T) {
	assert.Equal(t, "512 B", FormatBytes(512))
	assert.Equal(t, "1.5 MB", FormatBytes(3*512*1024))
	assert.Equal(t, "1.0 GB", FormatBytes(1<<30))
}
