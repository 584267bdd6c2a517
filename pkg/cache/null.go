package cache

import (
	"context"
	"time"
)

// NullStore is a no-op store that never retains anything.
// Useful for testing or when caching should be disabled.
type NullStore struct{}

// NewNullStore creates a null store.
func NewNullStore() *NullStore {
	return &NullStore{}
}

// Get always returns a miss.
func (s *NullStore) Get(ctx context.Context, key string) (string, bool, error) {
	return "", false, nil
}

// Put does nothing.
func (s *NullStore) Put(ctx context.Context, key, value string, ttl time.Duration) error {
	return nil
}

// Close does nothing.
func (s *NullStore) Close() error {
	return nil
}

// Ensure NullStore implements Store.
var _ Store = (*NullStore)(nil)
