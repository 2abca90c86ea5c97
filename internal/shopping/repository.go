package shopping

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"household-shopping/internal/apperr"
	"household-shopping/internal/database"
	shoppingdb "household-shopping/internal/shopping/db"
)

// Repository handles persistence of shopping lists in SQLite. Items are a
// JSON column; writes compare-and-swap on the row version.
type Repository struct {
	queries *shoppingdb.Queries
	db      *sql.DB
}

// NewRepository creates a new shopping list repository.
func NewRepository(d *sql.DB) *Repository {
	return &Repository{
		queries: shoppingdb.New(d),
		db:      d,
	}
}

// Create inserts a new shopping list.
func (r *Repository) Create(ctx context.Context, l *ShoppingList) error {
	itemsJSON, err := marshalItems(l.Items)
	if err != nil {
		return err
	}
	err = r.queries.CreateShoppingList(ctx, shoppingdb.CreateShoppingListParams{
		ID:        l.ID,
		OwnerID:   l.OwnerID,
		Name:      l.Name,
		Status:    string(l.Status),
		Items:     itemsJSON,
		Version:   l.Version,
		CreatedAt: l.CreatedAt,
		UpdatedAt: l.UpdatedAt,
	})
	if err != nil {
		return fmt.Errorf("failed to insert shopping list: %w", err)
	}
	return nil
}

// Get retrieves a shopping list by ID.
func (r *Repository) Get(ctx context.Context, id string) (*ShoppingList, error) {
	return get(ctx, r.queries, id)
}

// ListByOwner retrieves every list of a user.
func (r *Repository) ListByOwner(ctx context.Context, ownerID string) ([]ShoppingList, error) {
	rows, err := r.queries.ListShoppingListsByOwner(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("failed to list shopping lists: %w", err)
	}
	return fromRows(rows)
}

// ListByOwnerAndStatus retrieves a user's lists in one status.
func (r *Repository) ListByOwnerAndStatus(ctx context.Context, ownerID string, status Status) ([]ShoppingList, error) {
	rows, err := r.queries.ListShoppingListsByOwnerAndStatus(ctx, shoppingdb.ListShoppingListsByOwnerAndStatusParams{
		OwnerID: ownerID,
		Status:  string(status),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list shopping lists by status: %w", err)
	}
	return fromRows(rows)
}

// Update loads the list, applies fn and writes it back in one transaction.
func (r *Repository) Update(ctx context.Context, id string, fn func(*ShoppingList) error) (*ShoppingList, error) {
	var updated *ShoppingList
	err := database.WithTx(ctx, r.db, func(tx *sql.Tx) error {
		q := r.queries.WithTx(tx)
		l, err := get(ctx, q, id)
		if err != nil {
			return err
		}
		if l == nil {
			return apperr.NotFound("shopping.Update", id, "shopping list")
		}
		expected := l.Version
		if err := fn(l); err != nil {
			return err
		}
		l.Version = expected + 1

		itemsJSON, err := marshalItems(l.Items)
		if err != nil {
			return err
		}
		n, err := q.UpdateShoppingList(ctx, shoppingdb.UpdateShoppingListParams{
			Name:            l.Name,
			Status:          string(l.Status),
			Items:           itemsJSON,
			NewVersion:      l.Version,
			UpdatedAt:       l.UpdatedAt,
			ID:              id,
			ExpectedVersion: expected,
		})
		if err != nil {
			return fmt.Errorf("failed to update shopping list: %w", err)
		}
		if n == 0 {
			return apperr.Conflict("shopping.Update", id, "list was modified concurrently")
		}
		updated = l
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// Delete removes a list after check approves it.
func (r *Repository) Delete(ctx context.Context, id string, check func(*ShoppingList) error) error {
	return database.WithTx(ctx, r.db, func(tx *sql.Tx) error {
		q := r.queries.WithTx(tx)
		l, err := get(ctx, q, id)
		if err != nil {
			return err
		}
		if l == nil {
			return apperr.NotFound("shopping.Delete", id, "shopping list")
		}
		if err := check(l); err != nil {
			return err
		}
		n, err := q.DeleteShoppingList(ctx, shoppingdb.DeleteShoppingListParams{ID: id, ExpectedVersion: l.Version})
		if err != nil {
			return fmt.Errorf("failed to delete shopping list: %w", err)
		}
		if n == 0 {
			return apperr.Conflict("shopping.Delete", id, "list was modified concurrently")
		}
		return nil
	})
}

func get(ctx context.Context, q *shoppingdb.Queries, id string) (*ShoppingList, error) {
	row, err := q.GetShoppingList(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get shopping list: %w", err)
	}
	return fromRow(row)
}

func marshalItems(items []Item) (string, error) {
	if items == nil {
		items = []Item{}
	}
	b, err := json.Marshal(items)
	if err != nil {
		return "", fmt.Errorf("failed to marshal shopping list items: %w", err)
	}
	return string(b), nil
}

func fromRow(row shoppingdb.ShoppingList) (*ShoppingList, error) {
	var items []Item
	if err := json.Unmarshal([]byte(row.Items), &items); err != nil {
		return nil, fmt.Errorf("failed to unmarshal shopping list items: %w", err)
	}
	return &ShoppingList{
		ID:        row.ID,
		OwnerID:   row.OwnerID,
		Name:      row.Name,
		Status:    Status(row.Status),
		Items:     items,
		Version:   row.Version,
		CreatedAt: row.CreatedAt,
		UpdatedAt: row.UpdatedAt,
	}, nil
}

func fromRows(rows []shoppingdb.ShoppingList) ([]ShoppingList, error) {
	out := make([]ShoppingList, 0, len(rows))
	for _, row := range rows {
		l, err := fromRow(row)
		if err != nil {
			return nil, err
		}
		out = append(out, *l)
	}
	return out, nil
}
