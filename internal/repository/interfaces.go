package repository

import (
	"context"
)

// UpdateFunc receives the current value of a key (nil when absent) and
// returns the value to store.
type UpdateFunc func(current []byte) ([]byte, error)

// Store is a string-keyed store of JSON values.
//
// Get returns a NotFound error for absent keys. Remove of an absent key is a
// no-op. Keys returns matching keys in ascending order.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Remove(ctx context.Context, key string) error
	Keys(ctx context.Context, prefix string) ([]string, error)

	// Update performs an atomic read-modify-write of key
	Update(ctx context.Context, key string, fn UpdateFunc) error
}

// ChangeTracker is implemented by stores that can report when they were last written
type ChangeTracker interface {
	LastModified(ctx context.Context) (string, error)
}
