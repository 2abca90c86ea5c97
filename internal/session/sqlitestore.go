package session

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	sessiondb "household-shopping/internal/session/db"
)

// SQLiteStore keeps keys in the client_state table, partitioned by namespace
// (one namespace per chat for the Telegram client).
type SQLiteStore struct {
	queries   *sessiondb.Queries
	namespace string
}

func NewSQLiteStore(db *sql.DB, namespace string) *SQLiteStore {
	return &SQLiteStore{
		queries:   sessiondb.New(db),
		namespace: namespace,
	}
}

func (s *SQLiteStore) ReadKey(ctx context.Context, name string) (string, bool, error) {
	value, err := s.queries.GetClientState(ctx, sessiondb.GetClientStateParams{
		Namespace: s.namespace,
		Key:       name,
	})
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", false, nil
		}
		return "", false, fmt.Errorf("failed to read client state: %w", err)
	}
	return value, true, nil
}

func (s *SQLiteStore) WriteKey(ctx context.Context, name, value string) error {
	err := s.queries.UpsertClientState(ctx, sessiondb.UpsertClientStateParams{
		Namespace: s.namespace,
		Key:       name,
		Value:     value,
		UpdatedAt: time.Now().UnixMilli(),
	})
	if err != nil {
		return fmt.Errorf("failed to write client state: %w", err)
	}
	return nil
}

func (s *SQLiteStore) RemoveKey(ctx context.Context, name string) error {
	err := s.queries.DeleteClientState(ctx, sessiondb.DeleteClientStateParams{
		Namespace: s.namespace,
		Key:       name,
	})
	if err != nil {
		return fmt.Errorf("failed to remove client state: %w", err)
	}
	return nil
}
