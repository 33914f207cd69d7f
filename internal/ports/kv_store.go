package ports

import "context"

// KVStore is a named-collection key-value store. Put replaces the whole
// value of a collection; there are no transactions.
type KVStore interface {
	// Get returns the stored value and whether the key exists.
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Put(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
}
