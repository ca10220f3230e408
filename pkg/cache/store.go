// Package cache defines the snapshot store: the latest wire mapping per key,
// indexed by type tag, with pluggable backends.
package cache

import (
	"context"
	"errors"
	"fmt"

	"github.com/halcyonmkt/marketdata-commons/pkg/serialization"
)

// ErrNotFound is returned when a key has no stored mapping.
var ErrNotFound = errors.New("cache: key not found")

// Store persists one wire mapping per key. Mappings must carry their type
// tag; backends index keys by tag so Keys can enumerate one type's
// snapshots.
type Store interface {
	// Put stores the mapping under key, replacing any previous value.
	Put(ctx context.Context, key string, m serialization.Mapping) error
	// Get returns the mapping stored under key, or ErrNotFound.
	Get(ctx context.Context, key string) (serialization.Mapping, error)
	// Keys lists the keys currently holding mappings with the given tag.
	Keys(ctx context.Context, tag string) ([]string, error)
	// Delete removes the mapping under key, or returns ErrNotFound.
	Delete(ctx context.Context, key string) error
	// Close releases the backend connection.
	Close(ctx context.Context) error
}

// Fetch reads the mapping under key and decodes it through the registry.
func Fetch(ctx context.Context, s Store, reg *serialization.Registry, key string) (serialization.Serializable, error) {
	m, err := s.Get(ctx, key)
	if err != nil {
		return nil, err
	}
	v, err := reg.DecodeAny(m)
	if err != nil {
		return nil, fmt.Errorf("cache: failed to decode %q: %w", key, err)
	}
	return v, nil
}
