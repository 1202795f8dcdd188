package core

import (
	"sync"
	"time"

	"golang.org/x/crypto/sha3"

	"events-app/internal/domain/access"
)

// identityCache remembers token -> identity resolutions for a bounded TTL.
// Tokens are never held in memory; entries are keyed by their SHA3 digest.
type identityCache struct {
	ttl time.Duration
	max int

	mu      sync.Mutex
	entries map[[32]byte]cacheEntry
}

type cacheEntry struct {
	identity access.Identity
	expires  time.Time
}

func newIdentityCache(ttl time.Duration, max int) *identityCache {
	if max <= 0 {
		max = 1024
	}
	return &identityCache{
		ttl:     ttl,
		max:     max,
		entries: map[[32]byte]cacheEntry{},
	}
}

func cacheKey(token string) [32]byte {
	return sha3.Sum256([]byte(token))
}

func (c *identityCache) get(key [32]byte, now time.Time) (access.Identity, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	e, ok := c.entries[key]
	if !ok || now.After(e.expires) {
		if ok {
			delete(c.entries, key)
		}
		return access.Identity{}, false
	}
	return e.identity, true
}

func (c *identityCache) put(key [32]byte, identity access.Identity, now time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if len(c.entries) >= c.max {
		for k, e := range c.entries {
			if now.After(e.expires) {
				delete(c.entries, k)
			}
		}
		// still full: drop the entry closest to expiry
		if len(c.entries) >= c.max {
			var (
				victim   [32]byte
				earliest time.Time
				found    bool
			)
			for k, e := range c.entries {
				if !found || e.expires.Before(earliest) {
					victim, earliest, found = k, e.expires, true
				}
			}
			if found {
				delete(c.entries, victim)
			}
		}
	}

	c.entries[key] = cacheEntry{identity: identity, expires: now.Add(c.ttl)}
}
