// Package storage provides the key-value collaborator used to persist
// search history, with in-memory and SQLite implementations.
package storage

import (
	"context"
	"errors"
)

// ErrNotFound is returned by Get when the key has no persisted value.
var ErrNotFound = errors.New("key not found")

// KV is a minimal key-value store. The history store is its only writer;
// implementations need not coordinate concurrent writers.
type KV interface {
	// Get returns the value stored under key, or ErrNotFound.
	Get(ctx context.Context, key string) (string, error)
	// Set stores value under key, replacing any previous value.
	Set(ctx context.Context, key, value string) error
	// Delete removes key; deleting an absent key is not an error.
	Delete(ctx context.Context, key string) error
	// Close releases any underlying resources.
	Close() error
}
