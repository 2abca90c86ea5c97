package catalog

import (
	"context"
	"fmt"
	"strings"

	"household-shopping/internal/apperr"
)

// Catalog is the product registry.
type Catalog struct {
	store Store
}

func NewCatalog(store Store) *Catalog {
	return &Catalog{store: store}
}

// ListProducts returns every product, ordered by name.
func (c *Catalog) ListProducts(ctx context.Context) ([]Product, error) {
	products, err := c.store.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list products: %w", err)
	}
	return products, nil
}

// GetProduct returns a single product or a NotFound error.
func (c *Catalog) GetProduct(ctx context.Context, id string) (*Product, error) {
	p, err := c.store.Get(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get product: %w", err)
	}
	if p == nil {
		return nil, apperr.NotFound("catalog.GetProduct", id, "product")
	}
	return p, nil
}

// Resolve looks up ids in bulk. Unknown ids are simply missing from the result.
func (c *Catalog) Resolve(ctx context.Context, ids []string) (map[string]Product, error) {
	if len(ids) == 0 {
		return map[string]Product{}, nil
	}
	found, err := c.store.GetMany(ctx, dedupe(ids))
	if err != nil {
		return nil, fmt.Errorf("failed to resolve products: %w", err)
	}
	return found, nil
}

// AddProduct registers a new product. Adding a name that already exists fails
// with a Conflict.
func (c *Catalog) AddProduct(ctx context.Context, name string, unit Unit) (*Product, error) {
	const op = "catalog.AddProduct"
	p, err := normalize(Product{Name: name, Unit: unit})
	if err != nil {
		return nil, apperr.Validation(op, "%v", err)
	}
	existing, err := c.store.Get(ctx, p.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to check product: %w", err)
	}
	if existing != nil {
		return nil, apperr.Conflict(op, p.ID, "product %q already exists", existing.Name)
	}
	if err := c.store.Save(ctx, p); err != nil {
		return nil, fmt.Errorf("failed to save product: %w", err)
	}
	return &p, nil
}

// RemoveProduct deletes a product. Templates and lists that reference it keep
// their entries; reads resolve the product to nil.
func (c *Catalog) RemoveProduct(ctx context.Context, id string) error {
	removed, err := c.store.Delete(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to delete product: %w", err)
	}
	if !removed {
		return apperr.NotFound("catalog.RemoveProduct", id, "product")
	}
	return nil
}

func normalize(p Product) (Product, error) {
	p.Name = strings.Join(strings.Fields(p.Name), " ")
	if p.Name == "" {
		return p, fmt.Errorf("product name is required")
	}
	if !p.Unit.Valid() {
		u, err := ParseUnit(string(p.Unit))
		if err != nil {
			return p, err
		}
		p.Unit = u
	}
	if p.ID == "" {
		p.ID = ProductID(p.Name)
	}
	return p, nil
}

func dedupe(ids []string) []string {
	seen := make(map[string]struct{}, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
