package catalog

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	catalogdb "household-shopping/internal/catalog/db"
)

// Repository stores products in SQLite.
type Repository struct {
	queries *catalogdb.Queries
	db      *sql.DB
}

// NewRepository creates a new product repository.
func NewRepository(d *sql.DB) *Repository {
	return &Repository{
		queries: catalogdb.New(d),
		db:      d,
	}
}

func (r *Repository) List(ctx context.Context) ([]Product, error) {
	rows, err := r.queries.ListProducts(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list products: %w", err)
	}
	products := make([]Product, 0, len(rows))
	for _, row := range rows {
		products = append(products, fromRow(row))
	}
	return products, nil
}

func (r *Repository) Get(ctx context.Context, id string) (*Product, error) {
	row, err := r.queries.GetProduct(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get product: %w", err)
	}
	p := fromRow(row)
	return &p, nil
}

func (r *Repository) GetMany(ctx context.Context, ids []string) (map[string]Product, error) {
	found := make(map[string]Product, len(ids))
	if len(ids) == 0 {
		return found, nil
	}
	rows, err := r.queries.GetProductsByIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to get products: %w", err)
	}
	for _, row := range rows {
		found[row.ID] = fromRow(row)
	}
	return found, nil
}

func (r *Repository) Save(ctx context.Context, p Product) error {
	err := r.queries.UpsertProduct(ctx, catalogdb.UpsertProductParams{
		ID:   p.ID,
		Name: p.Name,
		Unit: string(p.Unit),
	})
	if err != nil {
		return fmt.Errorf("failed to upsert product: %w", err)
	}
	return nil
}

func (r *Repository) Delete(ctx context.Context, id string) (bool, error) {
	n, err := r.queries.DeleteProduct(ctx, id)
	if err != nil {
		return false, fmt.Errorf("failed to delete product: %w", err)
	}
	return n > 0, nil
}

func fromRow(row catalogdb.Product) Product {
	return Product{ID: row.ID, Name: row.Name, Unit: Unit(row.Unit)}
}
