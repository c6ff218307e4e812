// Package cache provides file-based memoization for expensive,
// rate-limited API calls. Entries are JSON envelopes stored under a
// content-addressed filename, each with its own expiry. Corrupted
// entries are indistinguishable from expired ones: both are deleted and
// reported as a miss.
package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"os"
	"path/filepath"
	"time"

	"github.com/go-logr/logr"
)

const DefaultTTL = time.Hour

type entry struct {
	Value     json.RawMessage `json:"value"`
	ExpiresAt time.Time       `json:"expires_at"`
	CreatedAt time.Time       `json:"created_at"`
}

// Cache is a key-value store with per-entry TTL, persisted as one file
// per entry. Concurrent writers to the same key are not coordinated;
// last write wins, which is acceptable because cached values are
// idempotent re-fetches, never authoritative state.
type Cache struct {
	dir        string
	defaultTTL time.Duration
	log        logr.Logger
}

// New creates a cache rooted at dir. An empty dir selects
// ~/.costdrill/cache. A non-positive defaultTTL selects DefaultTTL.
func New(dir string, defaultTTL time.Duration, log logr.Logger) (*Cache, error) {
	if dir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, err
		}
		dir = filepath.Join(home, ".costdrill", "cache")
	}
	if defaultTTL <= 0 {
		defaultTTL = DefaultTTL
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	return &Cache{dir: dir, defaultTTL: defaultTTL, log: log.WithName("cache")}, nil
}

// Dir returns the cache directory
func (c *Cache) Dir() string {
	return c.dir
}

func (c *Cache) path(key string) string {
	sum := sha256.Sum256([]byte(key))
	return filepath.Join(c.dir, hex.EncodeToString(sum[:])+".json")
}

// Get returns the stored raw value for key, or a miss when the entry is
// absent, expired or unreadable. Stale and unreadable entries are
// removed on the way out.
func (c *Cache) Get(key string) (json.RawMessage, bool) {
	path := c.path(key)

	data, err := os.ReadFile(path)
	if err != nil {
		c.log.V(1).Info("cache miss", "key", key)
		return nil, false
	}

	var e entry
	if err := json.Unmarshal(data, &e); err != nil {
		c.log.V(1).Info("removing unreadable cache entry", "key", key)
		_ = os.Remove(path)
		return nil, false
	}

	if !time.Now().Before(e.ExpiresAt) {
		c.log.V(1).Info("cache expired", "key", key)
		_ = os.Remove(path)
		return nil, false
	}

	c.log.V(1).Info("cache hit", "key", key)
	return e.Value, true
}

// Set stores value under key with the cache's default TTL
func (c *Cache) Set(key string, value any) error {
	return c.SetWithTTL(key, value, c.defaultTTL)
}

// SetWithTTL stores value under key, overwriting any previous entry.
// A zero TTL produces an entry that is already expired.
func (c *Cache) SetWithTTL(key string, value any, ttl time.Duration) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}

	now := time.Now()
	data, err := json.Marshal(entry{
		Value:     raw,
		ExpiresAt: now.Add(ttl),
		CreatedAt: now,
	})
	if err != nil {
		return err
	}

	return os.WriteFile(c.path(key), data, 0o644)
}

// Delete removes the entry for key if present
func (c *Cache) Delete(key string) {
	_ = os.Remove(c.path(key))
}

// Clear removes every entry
func (c *Cache) Clear() error {
	files, err := filepath.Glob(filepath.Join(c.dir, "*.json"))
	if err != nil {
		return err
	}
	for _, file := range files {
		if err := os.Remove(file); err != nil {
			c.log.Info("failed to delete cache file", "file", file, "error", err.Error())
		}
	}
	return nil
}

// ClearExpired removes every entry past its expiry and returns the
// number removed. Unreadable entries count as expired.
func (c *Cache) ClearExpired() int {
	files, err := filepath.Glob(filepath.Join(c.dir, "*.json"))
	if err != nil {
		return 0
	}

	deleted := 0
	now := time.Now()
	for _, file := range files {
		data, err := os.ReadFile(file)
		if err != nil {
			continue
		}

		var e entry
		if err := json.Unmarshal(data, &e); err != nil || !now.Before(e.ExpiresAt) {
			if os.Remove(file) == nil {
				deleted++
			}
		}
	}

	c.log.V(1).Info("cleared expired cache entries", "count", deleted)
	return deleted
}

// Lookup fetches and decodes a typed value from the cache
func Lookup[T any](c *Cache, key string) (T, bool) {
	var value T
	raw, ok := c.Get(key)
	if !ok {
		return value, false
	}
	if err := json.Unmarshal(raw, &value); err != nil {
		// stored shape no longer matches the type; treat as corrupt
		c.Delete(key)
		var zero T
		return zero, false
	}
	return value, true
}
