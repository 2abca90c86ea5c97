package templates

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"household-shopping/internal/apperr"
	"household-shopping/internal/database"
	templatedb "household-shopping/internal/templates/db"
)

// Repository stores templates in SQLite. Products are kept as a JSON column
// and every write is guarded by the row version.
type Repository struct {
	queries *templatedb.Queries
	db      *sql.DB
}

// NewRepository creates a new template repository.
func NewRepository(d *sql.DB) *Repository {
	return &Repository{
		queries: templatedb.New(d),
		db:      d,
	}
}

func (r *Repository) Create(ctx context.Context, t *Template) error {
	productsJSON, err := json.Marshal(t.Products)
	if err != nil {
		return fmt.Errorf("failed to marshal template products: %w", err)
	}
	err = r.queries.CreateTemplate(ctx, templatedb.CreateTemplateParams{
		ID:          t.ID,
		OwnerID:     t.OwnerID,
		Name:        t.Name,
		Description: t.Description,
		Type:        string(t.Type),
		Products:    string(productsJSON),
		Version:     t.Version,
		CreatedAt:   t.CreatedAt,
		UpdatedAt:   t.UpdatedAt,
	})
	if err != nil {
		return fmt.Errorf("failed to insert template: %w", err)
	}
	return nil
}

func (r *Repository) Get(ctx context.Context, id string) (*Template, error) {
	return get(ctx, r.queries, id)
}

func (r *Repository) ListByOwner(ctx context.Context, ownerID string) ([]Template, error) {
	rows, err := r.queries.ListTemplatesByOwner(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("failed to list templates: %w", err)
	}
	out := make([]Template, 0, len(rows))
	for _, row := range rows {
		t, err := fromRow(row)
		if err != nil {
			return nil, err
		}
		out = append(out, *t)
	}
	return out, nil
}

func (r *Repository) Update(ctx context.Context, id string, fn func(*Template) error) (*Template, error) {
	var updated *Template
	err := database.WithTx(ctx, r.db, func(tx *sql.Tx) error {
		q := r.queries.WithTx(tx)
		t, err := get(ctx, q, id)
		if err != nil {
			return err
		}
		if t == nil {
			return apperr.NotFound("templates.Update", id, "template")
		}
		expected := t.Version
		if err := fn(t); err != nil {
			return err
		}
		t.Version = expected + 1

		productsJSON, err := json.Marshal(t.Products)
		if err != nil {
			return fmt.Errorf("failed to marshal template products: %w", err)
		}
		n, err := q.UpdateTemplate(ctx, templatedb.UpdateTemplateParams{
			Name:            t.Name,
			Description:     t.Description,
			Type:            string(t.Type),
			Products:        string(productsJSON),
			NewVersion:      t.Version,
			UpdatedAt:       t.UpdatedAt,
			ID:              id,
			ExpectedVersion: expected,
		})
		if err != nil {
			return fmt.Errorf("failed to update template: %w", err)
		}
		if n == 0 {
			return apperr.Conflict("templates.Update", id, "template was modified concurrently")
		}
		updated = t
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

func (r *Repository) Delete(ctx context.Context, id string, check func(*Template) error) error {
	return database.WithTx(ctx, r.db, func(tx *sql.Tx) error {
		q := r.queries.WithTx(tx)
		t, err := get(ctx, q, id)
		if err != nil {
			return err
		}
		if t == nil {
			return apperr.NotFound("templates.Delete", id, "template")
		}
		if err := check(t); err != nil {
			return err
		}
		n, err := q.DeleteTemplate(ctx, templatedb.DeleteTemplateParams{ID: id, ExpectedVersion: t.Version})
		if err != nil {
			return fmt.Errorf("failed to delete template: %w", err)
		}
		if n == 0 {
			return apperr.Conflict("templates.Delete", id, "template was modified concurrently")
		}
		return nil
	})
}

func get(ctx context.Context, q *templatedb.Queries, id string) (*Template, error) {
	row, err := q.GetTemplate(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get template: %w", err)
	}
	return fromRow(row)
}

func fromRow(row templatedb.Template) (*Template, error) {
	var products []Entry
	if err := json.Unmarshal([]byte(row.Products), &products); err != nil {
		return nil, fmt.Errorf("failed to unmarshal template products: %w", err)
	}
	return &Template{
		ID:          row.ID,
		OwnerID:     row.OwnerID,
		Name:        row.Name,
		Description: row.Description,
		Type:        Type(row.Type),
		Products:    products,
		Version:     row.Version,
		CreatedAt:   row.CreatedAt,
		UpdatedAt:   row.UpdatedAt,
	}, nil
}
