package signer

import (
	"context"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/ardriveapp/turbo-cli/internal/metrics"
)

// Cache holds at most one signer per (wallet kind, config) slot. Concurrent
// creation for the same slot is collapsed onto a single in-flight call, so
// two callers racing on a cold cache trigger exactly one key load and both
// receive the same cached object.
type Cache struct {
	mu      sync.RWMutex
	signers map[Key]*CachedSigner
	group   singleflight.Group
}

// NewCache creates an empty signer cache.
func NewCache() *Cache {
	return &Cache{
		signers: make(map[Key]*CachedSigner),
	}
}

// GetOrCreate returns the cached signer for the key, creating it with open if
// absent. When expectedAddress is non-empty and the cached signer's address
// no longer matches (the key file changed out from under us), the stale entry
// is dropped and a fresh signer is created.
func (c *Cache) GetOrCreate(ctx context.Context, key Key, expectedAddress string, open OpenFunc) (*CachedSigner, error) {
	if cached, ok := c.lookup(key, expectedAddress); ok {
		metrics.Global.RecordSignerCacheHit()
		return cached, nil
	}

	v, err, _ := c.group.Do(key.String(), func() (any, error) {
		// Double-check under the group: a concurrent caller may have
		// populated the slot while we waited.
		if cached, ok := c.lookup(key, expectedAddress); ok {
			return cached, nil
		}

		metrics.Global.RecordSignerPrompt()
		s, err := open(ctx)
		if err != nil {
			return nil, err
		}

		cached := &CachedSigner{
			Signer:    s,
			Address:   s.Address(),
			ConfigKey: key.ConfigKey,
			CreatedAt: time.Now(),
		}

		c.mu.Lock()
		c.signers[key] = cached
		c.mu.Unlock()

		return cached, nil
	})
	if err != nil {
		return nil, err
	}

	return v.(*CachedSigner), nil
}

// Peek returns the cached signer for the key without creating one.
func (c *Cache) Peek(key Key) (*CachedSigner, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	cached, ok := c.signers[key]
	return cached, ok
}

// ClearKey removes a single cache slot.
func (c *Cache) ClearKey(key Key) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.signers, key)
}

// Clear removes all cached signers. The next GetOrCreate for any key will
// load key material again.
func (c *Cache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.signers = make(map[Key]*CachedSigner)
}

// Size returns the number of cached signers.
func (c *Cache) Size() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.signers)
}

func (c *Cache) lookup(key Key, expectedAddress string) (*CachedSigner, bool) {
	c.mu.RLock()
	cached, ok := c.signers[key]
	c.mu.RUnlock()

	if !ok {
		return nil, false
	}

	if expectedAddress != "" && cached.Address != expectedAddress {
		// Address mismatch invalidates the slot.
		c.ClearKey(key)
		return nil, false
	}

	return cached, true
}
