package templates

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"
)

// Type tags a template as a single meal or a generic set of products.
type Type string

const (
	TypeMeal Type = "meal"
	TypeSet  Type = "set"
)

// ParseType accepts "meal" and "set". Older clients sent "template" for sets.
func ParseType(s string) (Type, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "meal":
		return TypeMeal, nil
	case "set", "template":
		return TypeSet, nil
	}
	return "", fmt.Errorf("unknown template type %q", s)
}

// Entry is one product line of a template.
type Entry struct {
	ProductID string  `json:"productId" firestore:"productId"`
	Quantity  float64 `json:"quantity" firestore:"quantity"`
}

// Template is a reusable, owned collection of product quantities.
type Template struct {
	ID          string  `json:"id" firestore:"-"`
	OwnerID     string  `json:"ownerId" firestore:"ownerId"`
	Name        string  `json:"name" firestore:"name"`
	Description string  `json:"description" firestore:"description"`
	Type        Type    `json:"type" firestore:"type"`
	Products    []Entry `json:"products" firestore:"products"`
	Version     int64   `json:"version" firestore:"version"`
	CreatedAt   int64   `json:"createdAt" firestore:"createdAt"`
	UpdatedAt   int64   `json:"updatedAt" firestore:"updatedAt"`
}

// Input holds the caller supplied fields of a template.
type Input struct {
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Type        string  `json:"type"`
	Products    []Entry `json:"products"`
}

// Validate checks the input and returns its normalized form.
func (in Input) Validate() (Input, Type, error) {
	in.Name = strings.TrimSpace(in.Name)
	in.Description = strings.TrimSpace(in.Description)
	if in.Name == "" {
		return in, "", errors.New("name is required")
	}
	typ, err := ParseType(in.Type)
	if err != nil {
		return in, "", err
	}
	if len(in.Products) == 0 {
		return in, "", errors.New("at least one product is required")
	}
	seen := make(map[string]struct{}, len(in.Products))
	products := make([]Entry, 0, len(in.Products))
	for i, e := range in.Products {
		e.ProductID = strings.TrimSpace(e.ProductID)
		if e.ProductID == "" {
			return in, "", fmt.Errorf("product %d: product id is required", i+1)
		}
		if math.IsNaN(e.Quantity) || math.IsInf(e.Quantity, 0) || e.Quantity <= 0 {
			return in, "", fmt.Errorf("product %d: quantity must be positive", i+1)
		}
		if _, dup := seen[e.ProductID]; dup {
			return in, "", fmt.Errorf("product %s appears more than once", e.ProductID)
		}
		seen[e.ProductID] = struct{}{}
		products = append(products, e)
	}
	in.Products = products
	in.Type = string(typ)
	return in, typ, nil
}

// Store persists templates. Update and Delete run their callback and the
// write inside one transaction; a callback error aborts without writing.
type Store interface {
	Create(ctx context.Context, t *Template) error
	// Get returns nil, nil when the template does not exist.
	Get(ctx context.Context, id string) (*Template, error)
	ListByOwner(ctx context.Context, ownerID string) ([]Template, error)
	Update(ctx context.Context, id string, fn func(*Template) error) (*Template, error)
	Delete(ctx context.Context, id string, check func(*Template) error) error
}
