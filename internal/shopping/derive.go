package shopping

import (
	"fmt"
	"math"
	"strings"

	"household-shopping/internal/templates"
)

// Derive scales every template entry by multiplier into unchecked items.
// Repeated products in the template collapse into one item.
func Derive(t *templates.Template, multiplier float64) []Item {
	derived := make([]Item, 0, len(t.Products))
	for _, e := range t.Products {
		derived = append(derived, Item{
			ProductID: e.ProductID,
			Quantity:  e.Quantity * multiplier,
		})
	}
	return Merge(nil, derived)
}

// Merge folds incoming into existing keyed by product. Matching products
// have their quantities summed in place, keeping the existing notes and
// checked flag; new products are appended in incoming order. Neither input
// is modified.
func Merge(existing, incoming []Item) []Item {
	merged := make([]Item, len(existing), len(existing)+len(incoming))
	copy(merged, existing)

	index := make(map[string]int, len(merged)+len(incoming))
	for i, it := range merged {
		if _, ok := index[it.ProductID]; !ok {
			index[it.ProductID] = i
		}
	}
	for _, it := range incoming {
		if i, ok := index[it.ProductID]; ok {
			merged[i].Quantity += it.Quantity
			continue
		}
		index[it.ProductID] = len(merged)
		merged = append(merged, it)
	}
	return merged
}

func validQuantity(q float64) bool {
	return !math.IsNaN(q) && !math.IsInf(q, 0) && q > 0
}

func validateMultiplier(m float64) error {
	if !validQuantity(m) {
		return fmt.Errorf("multiplier must be a positive number, got %v", m)
	}
	return nil
}

func normalizeItem(it Item) (Item, error) {
	it.ProductID = strings.TrimSpace(it.ProductID)
	it.Notes = strings.TrimSpace(it.Notes)
	if it.ProductID == "" {
		return it, fmt.Errorf("product id is required")
	}
	if !validQuantity(it.Quantity) {
		return it, fmt.Errorf("quantity for %s must be positive", it.ProductID)
	}
	return it, nil
}

// normalizeItems validates a full item set; each product may appear once.
func normalizeItems(items []Item) ([]Item, error) {
	out := make([]Item, 0, len(items))
	seen := make(map[string]struct{}, len(items))
	for _, it := range items {
		n, err := normalizeItem(it)
		if err != nil {
			return nil, err
		}
		if _, dup := seen[n.ProductID]; dup {
			return nil, fmt.Errorf("product %s appears more than once", n.ProductID)
		}
		seen[n.ProductID] = struct{}{}
		out = append(out, n)
	}
	return out, nil
}
