package catalog

import (
	"context"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"household-shopping/internal/apperr"
)

type seedFile struct {
	Products []Product `yaml:"products"`
}

// ParseSeed reads a YAML document of the form:
//
//	products:
//	  - name: Milk
//	    unit: ml
//	  - id: bread
//	    name: Bread
//	    unit: piece
func ParseSeed(r io.Reader) ([]Product, error) {
	var f seedFile
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&f); err != nil {
		if err == io.EOF {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to decode seed file: %w", err)
	}
	return f.Products, nil
}

// LoadSeedFile parses the seed file at path.
func LoadSeedFile(path string) ([]Product, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open seed file: %w", err)
	}
	defer f.Close()
	return ParseSeed(f)
}

// Seed upserts products and returns how many were written. Ids missing from
// the input are derived from the name, so seeding is idempotent.
func (c *Catalog) Seed(ctx context.Context, products []Product) (int, error) {
	normalized := make([]Product, 0, len(products))
	for i, p := range products {
		n, err := normalize(p)
		if err != nil {
			return 0, apperr.Validation("catalog.Seed", "product %d: %v", i+1, err)
		}
		normalized = append(normalized, n)
	}
	for _, p := range normalized {
		if err := c.store.Save(ctx, p); err != nil {
			return 0, fmt.Errorf("failed to save product %q: %w", p.Name, err)
		}
	}
	return len(normalized), nil
}
