// Package firestoredb implements the catalog, template and list stores on
// Cloud Firestore. Each entity is one document; the document id is the
// entity id.
package firestoredb

import (
	"context"
	"errors"
	"fmt"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

const (
	productsCollection  = "products"
	templatesCollection = "templates"
	listsCollection     = "shoppingLists"
)

func isNotFound(err error) bool {
	return status.Code(err) == codes.NotFound
}

// collect decodes every document of iter, stamping the document id through setID.
func collect[T any](iter *firestore.DocumentIterator, setID func(*T, string)) ([]T, error) {
	defer iter.Stop()
	var out []T
	for {
		doc, err := iter.Next()
		if errors.Is(err, iterator.Done) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("fetching document: %w", err)
		}
		var v T
		if err := doc.DataTo(&v); err != nil {
			return nil, fmt.Errorf("decoding %s: %w", doc.Ref.ID, err)
		}
		setID(&v, doc.Ref.ID)
		out = append(out, v)
	}
	return out, nil
}

// getDoc reads ref into v. It reports false when the document does not exist.
func getDoc(ctx context.Context, ref *firestore.DocumentRef, v any) (bool, error) {
	snap, err := ref.Get(ctx)
	if isNotFound(err) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	if err := snap.DataTo(v); err != nil {
		return false, fmt.Errorf("decoding %s: %w", ref.ID, err)
	}
	return true, nil
}
