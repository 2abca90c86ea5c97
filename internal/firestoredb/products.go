package firestoredb

import (
	"context"
	"fmt"

	"cloud.google.com/go/firestore"

	"household-shopping/internal/catalog"
)

// Products is a catalog.Store backed by the "products" collection.
type Products struct {
	store *firestore.Client
}

func NewProducts(store *firestore.Client) *Products {
	return &Products{store: store}
}

func (p *Products) List(ctx context.Context) ([]catalog.Product, error) {
	iter := p.store.Collection(productsCollection).OrderBy("name", firestore.Asc).Documents(ctx)
	products, err := collect(iter, func(v *catalog.Product, id string) { v.ID = id })
	if err != nil {
		return nil, fmt.Errorf("firestoredb: listing products: %w", err)
	}
	return products, nil
}

func (p *Products) Get(ctx context.Context, id string) (*catalog.Product, error) {
	var product catalog.Product
	ok, err := getDoc(ctx, p.store.Collection(productsCollection).Doc(id), &product)
	if err != nil {
		return nil, fmt.Errorf("firestoredb: getting product: %w", err)
	}
	if !ok {
		return nil, nil
	}
	product.ID = id
	return &product, nil
}

func (p *Products) GetMany(ctx context.Context, ids []string) (map[string]catalog.Product, error) {
	found := make(map[string]catalog.Product, len(ids))
	if len(ids) == 0 {
		return found, nil
	}
	col := p.store.Collection(productsCollection)
	refs := make([]*firestore.DocumentRef, 0, len(ids))
	for _, id := range ids {
		refs = append(refs, col.Doc(id))
	}
	snaps, err := p.store.GetAll(ctx, refs)
	if err != nil {
		return nil, fmt.Errorf("firestoredb: getting products: %w", err)
	}
	for _, snap := range snaps {
		if !snap.Exists() {
			continue
		}
		var product catalog.Product
		if err := snap.DataTo(&product); err != nil {
			return nil, fmt.Errorf("firestoredb: decoding product %s: %w", snap.Ref.ID, err)
		}
		product.ID = snap.Ref.ID
		found[product.ID] = product
	}
	return found, nil
}

func (p *Products) Save(ctx context.Context, product catalog.Product) error {
	if _, err := p.store.Collection(productsCollection).Doc(product.ID).Set(ctx, product); err != nil {
		return fmt.Errorf("firestoredb: saving product: %w", err)
	}
	return nil
}

func (p *Products) Delete(ctx context.Context, id string) (bool, error) {
	ref := p.store.Collection(productsCollection).Doc(id)
	removed := false
	err := p.store.RunTransaction(ctx, func(_ context.Context, tx *firestore.Transaction) error {
		removed = false
		if _, err := tx.Get(ref); err != nil {
			if isNotFound(err) {
				return nil
			}
			return err
		}
		removed = true
		return tx.Delete(ref)
	})
	if err != nil {
		return false, fmt.Errorf("firestoredb: deleting product: %w", err)
	}
	return removed, nil
}
