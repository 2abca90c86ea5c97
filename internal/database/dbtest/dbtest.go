// Package dbtest opens throwaway migrated databases for tests.
package dbtest

import (
	"database/sql"
	"path/filepath"
	"testing"

	"household-shopping/internal/database"
)

// Open returns a migrated database in t's temp dir, closed on cleanup.
func Open(t testing.TB) *sql.DB {
	t.Helper()
	db, err := database.NewDB(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db.SQL
}
