package shopping

import (
	"context"
	"fmt"
	"strings"

	"household-shopping/internal/catalog"
	"household-shopping/internal/templates"
)

// Status is the lifecycle state of a shopping list.
type Status string

const (
	StatusDraft     Status = "draft"
	StatusReady     Status = "ready"
	StatusCompleted Status = "completed"
)

func ParseStatus(s string) (Status, error) {
	switch st := Status(strings.ToLower(strings.TrimSpace(s))); st {
	case StatusDraft, StatusReady, StatusCompleted:
		return st, nil
	}
	return "", fmt.Errorf("unknown status %q", s)
}

// Item is one checklist line. Items are addressed by ProductID, never by position.
type Item struct {
	ProductID string  `json:"productId" firestore:"productId"`
	Quantity  float64 `json:"quantity" firestore:"quantity"`
	Notes     string  `json:"notes" firestore:"notes"`
	Checked   bool    `json:"checked" firestore:"checked"`
}

// ShoppingList is an owned checklist with a lifecycle status.
type ShoppingList struct {
	ID        string `json:"id" firestore:"-"`
	OwnerID   string `json:"ownerId" firestore:"ownerId"`
	Name      string `json:"name" firestore:"name"`
	Status    Status `json:"status" firestore:"status"`
	Items     []Item `json:"items" firestore:"items"`
	Version   int64  `json:"version" firestore:"version"`
	CreatedAt int64  `json:"createdAt" firestore:"createdAt"`
	UpdatedAt int64  `json:"updatedAt" firestore:"updatedAt"`
}

// Item returns the item for productID.
func (l *ShoppingList) Item(productID string) (Item, bool) {
	if i := l.indexOf(productID); i >= 0 {
		return l.Items[i], true
	}
	return Item{}, false
}

func (l *ShoppingList) indexOf(productID string) int {
	for i := range l.Items {
		if l.Items[i].ProductID == productID {
			return i
		}
	}
	return -1
}

// CheckedCount returns how many items are checked off.
func (l *ShoppingList) CheckedCount() int {
	n := 0
	for _, it := range l.Items {
		if it.Checked {
			n++
		}
	}
	return n
}

// DetailedItem pairs an item with its catalog product. Product is nil when
// the product has been removed from the catalog.
type DetailedItem struct {
	Item
	Product *catalog.Product `json:"product"`
}

// DetailedList is a list with every item's product resolved.
type DetailedList struct {
	List  ShoppingList   `json:"list"`
	Items []DetailedItem `json:"items"`
}

// Patch is a partial update. Nil fields are left alone; a non-zero
// ExpectedVersion must match the stored version.
type Patch struct {
	Name            *string `json:"name,omitempty"`
	Status          *Status `json:"status,omitempty"`
	Items           *[]Item `json:"items,omitempty"`
	ExpectedVersion int64   `json:"expectedVersion,omitempty"`
}

func (p Patch) empty() bool {
	return p.Name == nil && p.Status == nil && p.Items == nil
}

// ItemUpdate changes the quantity and/or notes of one item.
type ItemUpdate struct {
	Quantity *float64 `json:"quantity,omitempty"`
	Notes    *string  `json:"notes,omitempty"`
}

// Store persists shopping lists. Update and Delete run their callback and the
// write inside one transaction; a callback error aborts without writing.
type Store interface {
	Create(ctx context.Context, l *ShoppingList) error
	// Get returns nil, nil when the list does not exist.
	Get(ctx context.Context, id string) (*ShoppingList, error)
	ListByOwner(ctx context.Context, ownerID string) ([]ShoppingList, error)
	ListByOwnerAndStatus(ctx context.Context, ownerID string, status Status) ([]ShoppingList, error)
	Update(ctx context.Context, id string, fn func(*ShoppingList) error) (*ShoppingList, error)
	Delete(ctx context.Context, id string, check func(*ShoppingList) error) error
}

// TemplateSource returns a template the caller owns.
type TemplateSource interface {
	GetTemplate(ctx context.Context, id string) (*templates.Template, error)
}

// ProductResolver looks up catalog products; unknown ids are omitted.
type ProductResolver interface {
	Resolve(ctx context.Context, ids []string) (map[string]catalog.Product, error)
}
