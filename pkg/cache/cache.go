// Package cache implements the write-through key/value cache that backs
// every derived artifact in npm-alt.
//
// The cache wraps a durable [Store] (Redis in production, memory in tests)
// and exposes a single generic contract, [Cached]: look up a key, accept a
// hit only when the stored schema version matches, otherwise compute the
// value, store it with a TTL, and return it.
//
// Keys follow the "prefix:suffix" convention, where the prefix identifies
// the artifact kind and the suffix the specific entity:
//
//	pkg:svelte@5.46.1
//	specifier:svelte@^5.0.0
//	changelog:svelte@5.46.1
//	score:svelte@5.46.1
//	versions:svelte
//
// Every call emits one structured log line with the outcome
// (HIT / MISS / FORCE / VERSION-MISS / CORRUPT-MISS) and the key.
//
// A store read or write failure propagates to the caller; computing the
// value is a fallback for store absence (no store configured), never for
// store errors.
package cache

import (
	"context"
	"encoding/json"
	"time"

	charmlog "github.com/charmbracelet/log"

	"github.com/ghostdevv/npm-alt/pkg/errors"
	"github.com/ghostdevv/npm-alt/pkg/observability"
)

// Store is the interface for durable key/value backends.
type Store interface {
	// Get retrieves a raw value by key. The second return value is false
	// when the key does not exist.
	Get(ctx context.Context, key string) (string, bool, error)

	// Put stores a raw value under key with the given TTL.
	// A TTL of 0 means the entry never expires.
	Put(ctx context.Context, key, value string, ttl time.Duration) error

	// Close releases any resources held by the store.
	Close() error
}

// Cache wraps a Store with schema-versioned, logged lookups.
// A nil Store puts the cache in degraded mode: every call computes directly.
type Cache struct {
	store Store
	log   *charmlog.Logger
}

// New creates a Cache over the given store. The store may be nil, in which
// case the cache runs degraded and every lookup recomputes.
func New(store Store, logger *charmlog.Logger) *Cache {
	if logger == nil {
		logger = charmlog.Default()
	}
	return &Cache{store: store, log: logger}
}

// Close closes the underlying store, if any.
func (c *Cache) Close() error {
	if c.store == nil {
		return nil
	}
	return c.store.Close()
}

// Options configures a single Cached call.
type Options struct {
	// Key identifies the cached value, in "prefix:suffix" form.
	Key string

	// TTL is how long the computed value should live in the store.
	TTL time.Duration

	// Schema is the version of the value shape. Bump it to force
	// recomputation when the shape changes, regardless of TTL.
	Schema int

	// Force skips the lookup and always recomputes, overwriting the
	// stored entry.
	Force bool
}

// envelope wraps a cached value with its schema version.
type envelope struct {
	Schema int             `json:"schema"`
	Value  json.RawMessage `json:"value"`
}

// Cached retrieves the value under opts.Key, or computes and stores it.
//
// A hit is accepted only when the stored schema version matches opts.Schema;
// a mismatch is treated identically to a miss. Concurrent callers for the
// same uncached key may both compute and both write (last write wins), which
// is accepted since derivation is idempotent.
func Cached[T any](ctx context.Context, c *Cache, opts Options, compute func(ctx context.Context) (T, error)) (T, error) {
	var zero T

	if c == nil || c.store == nil {
		if c != nil {
			c.log.Warn("cache store not available", "key", opts.Key)
		}
		return compute(ctx)
	}

	outcome := "MISS"

	if !opts.Force {
		raw, ok, err := c.store.Get(ctx, opts.Key)
		if err != nil {
			return zero, errors.Wrap(errors.ErrCodeStore, err, "cache read failed for %s", opts.Key)
		}
		if ok {
			var env envelope
			switch jsonErr := json.Unmarshal([]byte(raw), &env); {
			case jsonErr != nil:
				outcome = "CORRUPT-MISS"
			case env.Schema != opts.Schema:
				outcome = "VERSION-MISS"
			default:
				var value T
				if jsonErr := json.Unmarshal(env.Value, &value); jsonErr == nil {
					c.log.Debug("cache", "key", opts.Key, "outcome", "HIT")
					observability.Cache().OnCacheHit(ctx, opts.Key)
					return value, nil
				}
				outcome = "CORRUPT-MISS"
			}
		}
	} else {
		outcome = "FORCE"
	}

	value, err := compute(ctx)
	if err != nil {
		return zero, err
	}

	data, err := json.Marshal(value)
	if err != nil {
		return zero, errors.Wrap(errors.ErrCodeInternal, err, "cache marshal failed for %s", opts.Key)
	}
	blob, err := json.Marshal(envelope{Schema: opts.Schema, Value: data})
	if err != nil {
		return zero, errors.Wrap(errors.ErrCodeInternal, err, "cache marshal failed for %s", opts.Key)
	}

	if err := c.store.Put(ctx, opts.Key, string(blob), opts.TTL); err != nil {
		return zero, errors.Wrap(errors.ErrCodeStore, err, "cache write failed for %s", opts.Key)
	}

	c.log.Debug("cache", "key", opts.Key, "outcome", outcome)
	observability.Cache().OnCacheMiss(ctx, opts.Key, outcome)
	observability.Cache().OnCacheSet(ctx, opts.Key, len(blob))

	return value, nil
}
