package catalog

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// Unit is the unit of measure a product is counted in.
type Unit string

const (
	UnitMilliliters Unit = "ml"
	UnitGrams       Unit = "g"
	UnitPiece       Unit = "piece"
)

// ParseUnit accepts the canonical units and a few spelled-out aliases.
func ParseUnit(s string) (Unit, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "ml", "milliliter", "milliliters":
		return UnitMilliliters, nil
	case "g", "gram", "grams":
		return UnitGrams, nil
	case "piece", "pieces", "pc", "pcs":
		return UnitPiece, nil
	}
	return "", fmt.Errorf("unknown unit %q", s)
}

func (u Unit) Valid() bool {
	return u == UnitMilliliters || u == UnitGrams || u == UnitPiece
}

// Product is an entry in the shared catalog. Products are not owned by any user.
type Product struct {
	ID   string `json:"id" firestore:"-" yaml:"id,omitempty"`
	Name string `json:"name" firestore:"name" yaml:"name"`
	Unit Unit   `json:"unit" firestore:"unit" yaml:"unit"`
}

// ProductID derives a stable id from a product name, so seeding the same
// catalog twice yields the same ids.
func ProductID(name string) string {
	key := strings.ToLower(strings.Join(strings.Fields(name), " "))
	return uuid.NewSHA1(uuid.NameSpaceOID, []byte("product:"+key)).String()
}

// Store persists products.
type Store interface {
	List(ctx context.Context) ([]Product, error)
	// Get returns nil, nil when the product does not exist.
	Get(ctx context.Context, id string) (*Product, error)
	// GetMany returns the products found; missing ids are absent from the map.
	GetMany(ctx context.Context, ids []string) (map[string]Product, error)
	Save(ctx context.Context, p Product) error
	// Delete reports whether a product was removed.
	Delete(ctx context.Context, id string) (bool, error)
}
