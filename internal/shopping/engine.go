package shopping

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"household-shopping/internal/apperr"
	"household-shopping/internal/clock"
	"household-shopping/internal/identity"
)

// errUnchanged aborts a store update whose callback decided nothing changed.
var errUnchanged = errors.New("unchanged")

// Engine owns the lifecycle and checklist of shopping lists. Every operation
// is scoped to the calling user; mutations go through Store.Update so they
// either fully apply or leave the list untouched.
type Engine struct {
	store     Store
	templates TemplateSource
	products  ProductResolver
	identity  identity.Provider
	clock     clock.Clock
}

type Option func(*Engine)

func WithClock(c clock.Clock) Option {
	return func(e *Engine) { e.clock = c }
}

func NewEngine(store Store, tpl TemplateSource, products ProductResolver, ids identity.Provider, opts ...Option) *Engine {
	e := &Engine{
		store:     store,
		templates: tpl,
		products:  products,
		identity:  ids,
		clock:     clock.System(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// CreateList stores a new draft list owned by the caller.
func (e *Engine) CreateList(ctx context.Context, name string, items []Item) (*ShoppingList, error) {
	const op = "shopping.CreateList"
	owner, err := identity.Require(ctx, e.identity, op)
	if err != nil {
		return nil, err
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, apperr.Validation(op, "name is required")
	}
	if len(items) == 0 {
		return nil, apperr.Validation(op, "at least one item is required")
	}
	items, err = normalizeItems(items)
	if err != nil {
		return nil, apperr.Validation(op, "%v", err)
	}
	now := clock.Stamp(e.clock, 0)
	l := &ShoppingList{
		ID:        uuid.NewString(),
		OwnerID:   owner,
		Name:      name,
		Status:    StatusDraft,
		Items:     items,
		Version:   1,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := e.store.Create(ctx, l); err != nil {
		return nil, fmt.Errorf("failed to create shopping list: %w", err)
	}
	return l, nil
}

// CreateFromTemplate derives a new draft from one of the caller's templates.
// An empty name falls back to the template's name.
func (e *Engine) CreateFromTemplate(ctx context.Context, name, templateID string, multiplier float64) (*ShoppingList, error) {
	const op = "shopping.CreateFromTemplate"
	if _, err := identity.Require(ctx, e.identity, op); err != nil {
		return nil, err
	}
	if err := validateMultiplier(multiplier); err != nil {
		return nil, apperr.Validation(op, "%v", err)
	}
	t, err := e.templates.GetTemplate(ctx, templateID)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(name) == "" {
		name = t.Name
	}
	return e.CreateList(ctx, name, Derive(t, multiplier))
}

// UpdateList applies a partial update. Status changes follow the transition
// table and items cannot be replaced once a list is completed.
func (e *Engine) UpdateList(ctx context.Context, id string, p Patch) (*ShoppingList, error) {
	const op = "shopping.UpdateList"
	if _, err := identity.Require(ctx, e.identity, op); err != nil {
		return nil, err
	}
	if p.empty() {
		return nil, apperr.Validation(op, "nothing to update")
	}
	var name string
	if p.Name != nil {
		name = strings.TrimSpace(*p.Name)
		if name == "" {
			return nil, apperr.Validation(op, "name cannot be empty")
		}
	}
	var items []Item
	if p.Items != nil {
		var err error
		if items, err = normalizeItems(*p.Items); err != nil {
			return nil, apperr.Validation(op, "%v", err)
		}
	}
	if p.Status != nil {
		if _, err := ParseStatus(string(*p.Status)); err != nil {
			return nil, apperr.Validation(op, "%v", err)
		}
	}

	return e.mutate(ctx, op, id, func(l *ShoppingList) error {
		if p.ExpectedVersion != 0 && p.ExpectedVersion != l.Version {
			return apperr.Conflict(op, id, "list is at version %d, expected %d", l.Version, p.ExpectedVersion)
		}
		if p.Items != nil && !Editable(l.Status) {
			return apperr.Conflict(op, id, "items of a %s list cannot change", l.Status)
		}
		if p.Status != nil && !CanTransition(l.Status, *p.Status) {
			return apperr.Conflict(op, id, "cannot move list from %s to %s", l.Status, *p.Status)
		}
		if p.Name != nil {
			l.Name = name
		}
		if p.Items != nil {
			l.Items = items
		}
		if p.Status != nil {
			l.Status = *p.Status
		}
		return nil
	})
}

// SetStatus moves a list to another status if the transition table allows it.
// Requesting the current status succeeds without writing.
func (e *Engine) SetStatus(ctx context.Context, id string, to Status) (*ShoppingList, error) {
	const op = "shopping.SetStatus"
	if _, err := identity.Require(ctx, e.identity, op); err != nil {
		return nil, err
	}
	if _, err := ParseStatus(string(to)); err != nil {
		return nil, apperr.Validation(op, "%v", err)
	}
	return e.mutate(ctx, op, id, func(l *ShoppingList) error {
		if l.Status == to {
			return errUnchanged
		}
		if !CanTransition(l.Status, to) {
			return apperr.Conflict(op, id, "cannot move list from %s to %s", l.Status, to)
		}
		l.Status = to
		return nil
	})
}

func (e *Engine) MarkReady(ctx context.Context, id string) (*ShoppingList, error) {
	return e.SetStatus(ctx, id, StatusReady)
}

func (e *Engine) MarkDraft(ctx context.Context, id string) (*ShoppingList, error) {
	return e.SetStatus(ctx, id, StatusDraft)
}

func (e *Engine) MarkCompleted(ctx context.Context, id string) (*ShoppingList, error) {
	return e.SetStatus(ctx, id, StatusCompleted)
}

// DeleteList removes a list in any status.
func (e *Engine) DeleteList(ctx context.Context, id string) error {
	const op = "shopping.DeleteList"
	owner, err := identity.Require(ctx, e.identity, op)
	if err != nil {
		return err
	}
	return e.store.Delete(ctx, id, func(l *ShoppingList) error {
		if l.OwnerID != owner {
			return apperr.Forbidden(op, id)
		}
		return nil
	})
}

// SetItemChecked checks or unchecks the item for productID.
func (e *Engine) SetItemChecked(ctx context.Context, listID, productID string, checked bool) (*ShoppingList, error) {
	return e.updateChecked(ctx, "shopping.SetItemChecked", listID, productID, func(bool) bool { return checked })
}

// ToggleItemChecked flips the check mark of the item for productID. The read
// and the write happen in the same store update.
func (e *Engine) ToggleItemChecked(ctx context.Context, listID, productID string) (*ShoppingList, error) {
	return e.updateChecked(ctx, "shopping.ToggleItemChecked", listID, productID, func(c bool) bool { return !c })
}

func (e *Engine) updateChecked(ctx context.Context, op, listID, productID string, next func(bool) bool) (*ShoppingList, error) {
	return e.mutate(ctx, op, listID, func(l *ShoppingList) error {
		if l.Status == StatusCompleted {
			return apperr.Conflict(op, listID, "checklist of a completed list is frozen")
		}
		i := l.indexOf(productID)
		if i < 0 {
			return apperr.NotFound(op, productID, "item")
		}
		items := append([]Item(nil), l.Items...)
		items[i].Checked = next(items[i].Checked)
		l.Items = items
		return nil
	})
}

// AddItem adds a product to a list, summing the quantity if it is already there.
func (e *Engine) AddItem(ctx context.Context, listID string, item Item) (*ShoppingList, error) {
	const op = "shopping.AddItem"
	if _, err := identity.Require(ctx, e.identity, op); err != nil {
		return nil, err
	}
	item, err := normalizeItem(item)
	if err != nil {
		return nil, apperr.Validation(op, "%v", err)
	}
	return e.mutate(ctx, op, listID, func(l *ShoppingList) error {
		if !Editable(l.Status) {
			return apperr.Conflict(op, listID, "items of a %s list cannot change", l.Status)
		}
		l.Items = Merge(l.Items, []Item{item})
		return nil
	})
}

// UpdateItem changes the quantity and/or notes of one item.
func (e *Engine) UpdateItem(ctx context.Context, listID, productID string, u ItemUpdate) (*ShoppingList, error) {
	const op = "shopping.UpdateItem"
	if _, err := identity.Require(ctx, e.identity, op); err != nil {
		return nil, err
	}
	if u.Quantity == nil && u.Notes == nil {
		return nil, apperr.Validation(op, "nothing to update")
	}
	if u.Quantity != nil && !validQuantity(*u.Quantity) {
		return nil, apperr.Validation(op, "quantity must be positive")
	}
	return e.mutate(ctx, op, listID, func(l *ShoppingList) error {
		if !Editable(l.Status) {
			return apperr.Conflict(op, listID, "items of a %s list cannot change", l.Status)
		}
		i := l.indexOf(productID)
		if i < 0 {
			return apperr.NotFound(op, productID, "item")
		}
		items := append([]Item(nil), l.Items...)
		if u.Quantity != nil {
			items[i].Quantity = *u.Quantity
		}
		if u.Notes != nil {
			items[i].Notes = strings.TrimSpace(*u.Notes)
		}
		l.Items = items
		return nil
	})
}

// RemoveItem drops the item for productID, keeping the order of the rest.
func (e *Engine) RemoveItem(ctx context.Context, listID, productID string) (*ShoppingList, error) {
	const op = "shopping.RemoveItem"
	return e.mutate(ctx, op, listID, func(l *ShoppingList) error {
		if !Editable(l.Status) {
			return apperr.Conflict(op, listID, "items of a %s list cannot change", l.Status)
		}
		i := l.indexOf(productID)
		if i < 0 {
			return apperr.NotFound(op, productID, "item")
		}
		items := make([]Item, 0, len(l.Items)-1)
		items = append(items, l.Items[:i]...)
		items = append(items, l.Items[i+1:]...)
		l.Items = items
		return nil
	})
}

// AddTemplate merges a scaled template into a draft list.
func (e *Engine) AddTemplate(ctx context.Context, listID, templateID string, multiplier float64) (*ShoppingList, error) {
	const op = "shopping.AddTemplate"
	if _, err := identity.Require(ctx, e.identity, op); err != nil {
		return nil, err
	}
	if err := validateMultiplier(multiplier); err != nil {
		return nil, apperr.Validation(op, "%v", err)
	}
	t, err := e.templates.GetTemplate(ctx, templateID)
	if err != nil {
		return nil, err
	}
	derived := Derive(t, multiplier)
	return e.mutate(ctx, op, listID, func(l *ShoppingList) error {
		if l.Status != StatusDraft {
			return apperr.Conflict(op, listID, "templates can only be added to draft lists")
		}
		l.Items = Merge(l.Items, derived)
		return nil
	})
}

// ListMine returns every list the caller owns, newest first.
func (e *Engine) ListMine(ctx context.Context) ([]ShoppingList, error) {
	owner, err := identity.Require(ctx, e.identity, "shopping.ListMine")
	if err != nil {
		return nil, err
	}
	lists, err := e.store.ListByOwner(ctx, owner)
	if err != nil {
		return nil, fmt.Errorf("failed to list shopping lists: %w", err)
	}
	return lists, nil
}

// ListByStatus returns the caller's lists in the given status.
func (e *Engine) ListByStatus(ctx context.Context, status Status) ([]ShoppingList, error) {
	const op = "shopping.ListByStatus"
	owner, err := identity.Require(ctx, e.identity, op)
	if err != nil {
		return nil, err
	}
	if _, err := ParseStatus(string(status)); err != nil {
		return nil, apperr.Validation(op, "%v", err)
	}
	lists, err := e.store.ListByOwnerAndStatus(ctx, owner, status)
	if err != nil {
		return nil, fmt.Errorf("failed to list shopping lists: %w", err)
	}
	return lists, nil
}

// GetByID returns one of the caller's lists.
func (e *Engine) GetByID(ctx context.Context, id string) (*ShoppingList, error) {
	const op = "shopping.GetByID"
	owner, err := identity.Require(ctx, e.identity, op)
	if err != nil {
		return nil, err
	}
	l, err := e.store.Get(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get shopping list: %w", err)
	}
	if l == nil {
		return nil, apperr.NotFound(op, id, "shopping list")
	}
	if l.OwnerID != owner {
		return nil, apperr.Forbidden(op, id)
	}
	return l, nil
}

// GetWithProductDetails returns a list with every item's product resolved.
// Items whose product no longer exists get a nil Product.
func (e *Engine) GetWithProductDetails(ctx context.Context, id string) (*DetailedList, error) {
	l, err := e.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	ids := make([]string, 0, len(l.Items))
	for _, it := range l.Items {
		ids = append(ids, it.ProductID)
	}
	products, err := e.products.Resolve(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve list products: %w", err)
	}
	detailed := &DetailedList{List: *l, Items: make([]DetailedItem, 0, len(l.Items))}
	for _, it := range l.Items {
		di := DetailedItem{Item: it}
		if p, ok := products[it.ProductID]; ok {
			di.Product = &p
		}
		detailed.Items = append(detailed.Items, di)
	}
	return detailed, nil
}

// mutate runs fn against the caller's list inside a store update and stamps
// updatedAt. fn returning errUnchanged skips the write.
func (e *Engine) mutate(ctx context.Context, op, id string, fn func(*ShoppingList) error) (*ShoppingList, error) {
	owner, err := identity.Require(ctx, e.identity, op)
	if err != nil {
		return nil, err
	}
	var current ShoppingList
	l, err := e.store.Update(ctx, id, func(l *ShoppingList) error {
		if l.OwnerID != owner {
			return apperr.Forbidden(op, id)
		}
		if err := fn(l); err != nil {
			if errors.Is(err, errUnchanged) {
				current = *l
			}
			return err
		}
		l.UpdatedAt = clock.Stamp(e.clock, l.UpdatedAt)
		return nil
	})
	if errors.Is(err, errUnchanged) {
		return &current, nil
	}
	if err != nil {
		return nil, err
	}
	return l, nil
}
