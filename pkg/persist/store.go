// Package persist provides durable key-value storage for client state.
// It defines the Store interface and file- and memory-backed implementations;
// a PostgreSQL backend lives in the postgres subpackage.
//
// The store works with raw JSON bytes to avoid import cycles with the
// session package. Callers are responsible for marshaling/unmarshaling.
package persist

import (
	"context"
	"errors"
)

// ErrNotFound is returned when no record exists for a key.
var ErrNotFound = errors.New("persist: record not found")

// Store provides durable storage and retrieval of named records.
type Store interface {
	// Load returns the record stored under key, or ErrNotFound.
	Load(ctx context.Context, key string) ([]byte, error)
	// Save writes the record under key, replacing any previous value.
	Save(ctx context.Context, key string, data []byte) error
	// Delete removes the record under key. Deleting a missing key is a no-op.
	Delete(ctx context.Context, key string) error
}
