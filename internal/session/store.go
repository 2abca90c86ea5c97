// Package session tracks the one list a client is currently shopping. The
// pointer lives in client-local storage and is never pushed to the server.
package session

import "context"

// CurrentListKey is the storage key holding the active list id.
const CurrentListKey = "shopping.currentListId"

// KeyValueStore is durable client-local storage.
type KeyValueStore interface {
	// ReadKey reports ok=false when the key is not set.
	ReadKey(ctx context.Context, name string) (value string, ok bool, err error)
	WriteKey(ctx context.Context, name, value string) error
	// RemoveKey succeeds when the key is already absent.
	RemoveKey(ctx context.Context, name string) error
}
