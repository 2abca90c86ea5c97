package firestoredb

import (
	"context"
	"fmt"
	"sort"

	"cloud.google.com/go/firestore"

	"household-shopping/internal/apperr"
	"household-shopping/internal/shopping"
)

// Lists is a shopping.Store backed by the "shoppingLists" collection.
type Lists struct {
	store *firestore.Client
}

func NewLists(store *firestore.Client) *Lists {
	return &Lists{store: store}
}

func (s *Lists) Create(ctx context.Context, l *shopping.ShoppingList) error {
	if _, err := s.store.Collection(listsCollection).Doc(l.ID).Create(ctx, l); err != nil {
		return fmt.Errorf("firestoredb: creating shopping list: %w", err)
	}
	return nil
}

func (s *Lists) Get(ctx context.Context, id string) (*shopping.ShoppingList, error) {
	var l shopping.ShoppingList
	ok, err := getDoc(ctx, s.store.Collection(listsCollection).Doc(id), &l)
	if err != nil {
		return nil, fmt.Errorf("firestoredb: getting shopping list: %w", err)
	}
	if !ok {
		return nil, nil
	}
	l.ID = id
	return &l, nil
}

func (s *Lists) ListByOwner(ctx context.Context, ownerID string) ([]shopping.ShoppingList, error) {
	q := s.store.Collection(listsCollection).Query.WhereEntity(firestore.PropertyFilter{
		Path:     "ownerId",
		Operator: "==",
		Value:    ownerID,
	})
	return s.query(ctx, q)
}

func (s *Lists) ListByOwnerAndStatus(ctx context.Context, ownerID string, st shopping.Status) ([]shopping.ShoppingList, error) {
	q := s.store.Collection(listsCollection).Query.WhereEntity(firestore.AndFilter{
		Filters: []firestore.EntityFilter{
			firestore.PropertyFilter{Path: "ownerId", Operator: "==", Value: ownerID},
			firestore.PropertyFilter{Path: "status", Operator: "==", Value: string(st)},
		},
	})
	return s.query(ctx, q)
}

func (s *Lists) query(ctx context.Context, q firestore.Query) ([]shopping.ShoppingList, error) {
	lists, err := collect(q.Documents(ctx), func(v *shopping.ShoppingList, id string) { v.ID = id })
	if err != nil {
		return nil, fmt.Errorf("firestoredb: listing shopping lists: %w", err)
	}
	// Newest first; sorted here so the query needs no composite index.
	sort.Slice(lists, func(i, j int) bool {
		if lists[i].CreatedAt != lists[j].CreatedAt {
			return lists[i].CreatedAt > lists[j].CreatedAt
		}
		return lists[i].ID < lists[j].ID
	})
	return lists, nil
}

func (s *Lists) Update(ctx context.Context, id string, fn func(*shopping.ShoppingList) error) (*shopping.ShoppingList, error) {
	ref := s.store.Collection(listsCollection).Doc(id)
	var updated shopping.ShoppingList
	err := s.store.RunTransaction(ctx, func(_ context.Context, tx *firestore.Transaction) error {
		l, err := s.getInTx(tx, ref, "shopping.Update")
		if err != nil {
			return err
		}
		if err := fn(l); err != nil {
			return err
		}
		l.Version++
		updated = *l
		return tx.Set(ref, l)
	})
	if err != nil {
		return nil, err
	}
	return &updated, nil
}

func (s *Lists) Delete(ctx context.Context, id string, check func(*shopping.ShoppingList) error) error {
	ref := s.store.Collection(listsCollection).Doc(id)
	return s.store.RunTransaction(ctx, func(_ context.Context, tx *firestore.Transaction) error {
		l, err := s.getInTx(tx, ref, "shopping.Delete")
		if err != nil {
			return err
		}
		if err := check(l); err != nil {
			return err
		}
		return tx.Delete(ref)
	})
}

func (s *Lists) getInTx(tx *firestore.Transaction, ref *firestore.DocumentRef, op string) (*shopping.ShoppingList, error) {
	snap, err := tx.Get(ref)
	if isNotFound(err) {
		return nil, apperr.NotFound(op, ref.ID, "shopping list")
	}
	if err != nil {
		return nil, fmt.Errorf("firestoredb: getting shopping list: %w", err)
	}
	var l shopping.ShoppingList
	if err := snap.DataTo(&l); err != nil {
		return nil, fmt.Errorf("firestoredb: decoding shopping list: %w", err)
	}
	l.ID = ref.ID
	return &l, nil
}
