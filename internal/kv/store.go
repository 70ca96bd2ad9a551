// Package kv abstracts the key-value storage the persistence layer
// writes through. The memory implementation backs tests and ephemeral
// sessions; the Redis implementation backs shared deployments.
package kv

import (
	"context"
	"errors"
)

// ErrNotFound is returned by Get when the key has no value.
var ErrNotFound = errors.New("key not found")

// Store is a minimal string-keyed byte store.
type Store interface {
	// Get returns the value for key, or ErrNotFound.
	Get(ctx context.Context, key string) ([]byte, error)
	// Set writes the value for key, overwriting any previous value.
	Set(ctx context.Context, key string, value []byte) error
	// Remove deletes the key. Removing an absent key is not an error.
	Remove(ctx context.Context, key string) error
	// RemoveMany deletes all the given keys in one call.
	RemoveMany(ctx context.Context, keys []string) error
	// Keys returns every stored key with the given prefix.
	Keys(ctx context.Context, prefix string) ([]string, error)
}
