// Package cache implements read-through caching over a store.Store.
//
// Every value is stored as a JSON entry {"storedAt": ..., "value": ...} under
// "<namespace>:<key>". Expiry is checked when an entry is read; there is no
// background sweep.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"newsdesk/internal/store"
)

// Namespace groups keys that share an expiry policy. A zero TTL never expires.
type Namespace struct {
	Name string
	TTL  time.Duration
}

// StorageKey is the store key for key inside ns.
func (ns Namespace) StorageKey(key string) string {
	return ns.Name + ":" + key
}

// Entry is the stored form of a cached value.
type Entry[V any] struct {
	StoredAt time.Time `json:"storedAt"`
	Value    V         `json:"value"`
}

// Cache wraps a Store with entry encoding, expiry and logging.
type Cache struct {
	store store.Store
	now   func() time.Time
	log   *zap.Logger
}

// Option configures a Cache.
type Option func(*Cache)

// WithClock overrides time.Now.
func WithClock(now func() time.Time) Option {
	return func(c *Cache) { c.now = now }
}

// WithLogger sets the logger; the default discards.
func WithLogger(l *zap.Logger) Option {
	return func(c *Cache) { c.log = l }
}

// New creates a Cache over s.
func New(s store.Store, opts ...Option) *Cache {
	c := &Cache{
		store: s,
		now:   time.Now,
		log:   zap.NewNop(),
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

// Lookup returns the cached value for key if present, parseable and fresh.
// Expired entries are deleted. Corrupt entries and store read errors count as
// a miss.
func Lookup[V any](c *Cache, ns Namespace, key string) (V, bool) {
	var zero V
	sk := ns.StorageKey(key)

	raw, found, err := c.store.Get(sk)
	if err != nil {
		c.log.Warn("cache read failed", zap.String("key", sk), zap.Error(err))
		return zero, false
	}
	if !found {
		return zero, false
	}

	storedAt, value, err := decodeEntry[V](raw)
	if err != nil {
		c.log.Warn("discarding corrupt cache entry", zap.String("key", sk), zap.Error(err))
		return zero, false
	}

	if ns.TTL > 0 && c.now().Sub(storedAt) > ns.TTL {
		c.log.Debug("cache entry expired", zap.String("key", sk), zap.Time("stored_at", storedAt))
		if err := c.store.Delete(sk); err != nil {
			c.log.Warn("evicting expired entry failed", zap.String("key", sk), zap.Error(err))
		}
		return zero, false
	}

	c.log.Debug("cache hit", zap.String("key", sk))
	return value, true
}

// decodeEntry parses a stored entry. Both fields must be present: a missing
// or zero storedAt, or a missing or null value, makes the entry corrupt.
func decodeEntry[V any](raw string) (time.Time, V, error) {
	var zero V
	var shape struct {
		StoredAt *time.Time      `json:"storedAt"`
		Value    json.RawMessage `json:"value"`
	}
	if err := json.Unmarshal([]byte(raw), &shape); err != nil {
		return time.Time{}, zero, err
	}
	if shape.StoredAt == nil || shape.StoredAt.IsZero() {
		return time.Time{}, zero, errors.New("entry has no storedAt")
	}
	if len(shape.Value) == 0 || string(shape.Value) == "null" {
		return time.Time{}, zero, errors.New("entry has no value")
	}
	var v V
	if err := json.Unmarshal(shape.Value, &v); err != nil {
		return time.Time{}, zero, fmt.Errorf("decoding value: %w", err)
	}
	return *shape.StoredAt, v, nil
}

// Put stores value under key stamped with the current time.
func Put[V any](c *Cache, ns Namespace, key string, value V) error {
	data, err := json.Marshal(Entry[V]{StoredAt: c.now(), Value: value})
	if err != nil {
		return fmt.Errorf("encoding cache entry: %w", err)
	}
	return c.store.Set(ns.StorageKey(key), string(data))
}

// GetOrFetch returns the cached value for key, or calls fetch on a miss and
// stores its result. A failed fetch leaves the store untouched and its error
// is returned as is. A failed store write is logged; the fetched value is
// still returned.
func GetOrFetch[V any](ctx context.Context, c *Cache, ns Namespace, key string, fetch func(context.Context) (V, error)) (V, error) {
	if v, ok := Lookup[V](c, ns, key); ok {
		return v, nil
	}

	c.log.Debug("cache miss", zap.String("namespace", ns.Name), zap.String("key", key))
	v, err := fetch(ctx)
	if err != nil {
		var zero V
		return zero, err
	}

	if err := Put(c, ns, key, v); err != nil {
		c.log.Error("cache write failed", zap.String("namespace", ns.Name), zap.String("key", key), zap.Error(err))
	}
	return v, nil
}

// Clear removes a single entry.
func (c *Cache) Clear(ns Namespace, key string) error {
	return c.store.Delete(ns.StorageKey(key))
}

// ClearNamespace removes every entry in ns and reports how many were removed.
func (c *Cache) ClearNamespace(ns Namespace) (int, error) {
	keys, err := c.store.Keys(ns.Name + ":")
	if err != nil {
		return 0, err
	}
	for i, k := range keys {
		if err := c.store.Delete(k); err != nil {
			return i, err
		}
	}
	return len(keys), nil
}

// Stats counts stored entries per namespace, expired ones included.
func (c *Cache) Stats() (map[string]int, error) {
	keys, err := c.store.Keys("")
	if err != nil {
		return nil, err
	}
	out := make(map[string]int)
	for _, k := range keys {
		name, _, ok := strings.Cut(k, ":")
		if !ok {
			continue
		}
		out[name]++
	}
	return out, nil
}
