package firestoredb

import (
	"context"
	"fmt"
	"sort"

	"cloud.google.com/go/firestore"

	"household-shopping/internal/apperr"
	"household-shopping/internal/templates"
)

// Templates is a templates.Store backed by the "templates" collection.
type Templates struct {
	store *firestore.Client
}

func NewTemplates(store *firestore.Client) *Templates {
	return &Templates{store: store}
}

func (s *Templates) Create(ctx context.Context, t *templates.Template) error {
	if _, err := s.store.Collection(templatesCollection).Doc(t.ID).Create(ctx, t); err != nil {
		return fmt.Errorf("firestoredb: creating template: %w", err)
	}
	return nil
}

func (s *Templates) Get(ctx context.Context, id string) (*templates.Template, error) {
	var t templates.Template
	ok, err := getDoc(ctx, s.store.Collection(templatesCollection).Doc(id), &t)
	if err != nil {
		return nil, fmt.Errorf("firestoredb: getting template: %w", err)
	}
	if !ok {
		return nil, nil
	}
	t.ID = id
	return &t, nil
}

func (s *Templates) ListByOwner(ctx context.Context, ownerID string) ([]templates.Template, error) {
	iter := s.store.Collection(templatesCollection).Query.WhereEntity(firestore.PropertyFilter{
		Path:     "ownerId",
		Operator: "==",
		Value:    ownerID,
	}).Documents(ctx)
	list, err := collect(iter, func(v *templates.Template, id string) { v.ID = id })
	if err != nil {
		return nil, fmt.Errorf("firestoredb: listing templates: %w", err)
	}
	// Sorted here so the query needs no composite index.
	sort.Slice(list, func(i, j int) bool {
		if list[i].CreatedAt != list[j].CreatedAt {
			return list[i].CreatedAt < list[j].CreatedAt
		}
		return list[i].ID < list[j].ID
	})
	return list, nil
}

func (s *Templates) Update(ctx context.Context, id string, fn func(*templates.Template) error) (*templates.Template, error) {
	ref := s.store.Collection(templatesCollection).Doc(id)
	var updated templates.Template
	err := s.store.RunTransaction(ctx, func(_ context.Context, tx *firestore.Transaction) error {
		snap, err := tx.Get(ref)
		if isNotFound(err) {
			return apperr.NotFound("templates.Update", id, "template")
		}
		if err != nil {
			return fmt.Errorf("firestoredb: getting template: %w", err)
		}
		var t templates.Template
		if err := snap.DataTo(&t); err != nil {
			return fmt.Errorf("firestoredb: decoding template: %w", err)
		}
		t.ID = id
		if err := fn(&t); err != nil {
			return err
		}
		t.Version++
		updated = t
		return tx.Set(ref, &t)
	})
	if err != nil {
		return nil, err
	}
	return &updated, nil
}

func (s *Templates) Delete(ctx context.Context, id string, check func(*templates.Template) error) error {
	ref := s.store.Collection(templatesCollection).Doc(id)
	return s.store.RunTransaction(ctx, func(_ context.Context, tx *firestore.Transaction) error {
		snap, err := tx.Get(ref)
		if isNotFound(err) {
			return apperr.NotFound("templates.Delete", id, "template")
		}
		if err != nil {
			return fmt.Errorf("firestoredb: getting template: %w", err)
		}
		var t templates.Template
		if err := snap.DataTo(&t); err != nil {
			return fmt.Errorf("firestoredb: decoding template: %w", err)
		}
		t.ID = id
		if err := check(&t); err != nil {
			return err
		}
		return tx.Delete(ref)
	})
}
