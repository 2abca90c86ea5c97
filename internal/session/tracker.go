package session

import (
	"context"
	"fmt"
	"strings"

	"household-shopping/internal/apperr"
	"household-shopping/internal/shopping"
)

// Lists is the part of the list engine the tracker needs.
type Lists interface {
	GetByID(ctx context.Context, id string) (*shopping.ShoppingList, error)
	MarkCompleted(ctx context.Context, id string) (*shopping.ShoppingList, error)
}

// Tracker holds at most one active list id per client. The stored id is a
// soft reference: Active clears it once the list is gone or finished.
type Tracker struct {
	store KeyValueStore
	lists Lists
}

func NewTracker(store KeyValueStore, lists Lists) *Tracker {
	return &Tracker{store: store, lists: lists}
}

// Start makes listID the active list, replacing any previous one.
func (t *Tracker) Start(ctx context.Context, listID string) error {
	listID = strings.TrimSpace(listID)
	if listID == "" {
		return apperr.Validation("session.Start", "list id is required")
	}
	if err := t.store.WriteKey(ctx, CurrentListKey, listID); err != nil {
		return fmt.Errorf("failed to start session: %w", err)
	}
	return nil
}

// Stop clears the active list.
func (t *Tracker) Stop(ctx context.Context) error {
	if err := t.store.RemoveKey(ctx, CurrentListKey); err != nil {
		return fmt.Errorf("failed to stop session: %w", err)
	}
	return nil
}

// Current returns the stored list id without checking it against the server.
func (t *Tracker) Current(ctx context.Context) (string, bool, error) {
	id, ok, err := t.store.ReadKey(ctx, CurrentListKey)
	if err != nil {
		return "", false, fmt.Errorf("failed to read session: %w", err)
	}
	if !ok || id == "" {
		return "", false, nil
	}
	return id, true, nil
}

// Begin starts shopping a list. Only ready lists can be shopped.
func (t *Tracker) Begin(ctx context.Context, listID string) (*shopping.ShoppingList, error) {
	const op = "session.Begin"
	l, err := t.lists.GetByID(ctx, listID)
	if err != nil {
		return nil, err
	}
	if l.Status != shopping.StatusReady {
		return nil, apperr.Conflict(op, listID, "only ready lists can be shopped, list is %s", l.Status)
	}
	if err := t.Start(ctx, l.ID); err != nil {
		return nil, err
	}
	return l, nil
}

// Finish completes the active list and clears the session.
func (t *Tracker) Finish(ctx context.Context) (*shopping.ShoppingList, error) {
	const op = "session.Finish"
	id, ok, err := t.Current(ctx)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, apperr.NotFound(op, "", "active list")
	}
	l, err := t.lists.MarkCompleted(ctx, id)
	if err != nil {
		if apperr.IsNotFound(err) || apperr.IsForbidden(err) {
			if stopErr := t.Stop(ctx); stopErr != nil {
				return nil, stopErr
			}
		}
		return nil, err
	}
	if err := t.Stop(ctx); err != nil {
		return nil, err
	}
	return l, nil
}

// Active returns the list being shopped, or nil when there is none. A stored
// id whose list was deleted, is not ours, or is already completed is cleared
// and reported as no active list.
func (t *Tracker) Active(ctx context.Context) (*shopping.ShoppingList, error) {
	id, ok, err := t.Current(ctx)
	if err != nil || !ok {
		return nil, err
	}
	l, err := t.lists.GetByID(ctx, id)
	switch {
	case apperr.IsNotFound(err), apperr.IsForbidden(err):
		return nil, t.Stop(ctx)
	case err != nil:
		return nil, err
	case l.Status == shopping.StatusCompleted:
		return nil, t.Stop(ctx)
	}
	return l, nil
}
