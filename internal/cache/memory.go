package cache

import (
	"context"
	"sync"
	"time"
)

type entry struct {
	v   []byte
	exp time.Time
}

// TTLCache is an in-process BytesCache. Expired entries are dropped on read and by Sweep.
type TTLCache struct {
	mu         sync.RWMutex
	m          map[string]entry
	maxEntries int
	now        func() time.Time
}

// NewTTLCache creates a cache holding at most maxEntries keys (0 means unbounded).
func NewTTLCache(maxEntries int) *TTLCache {
	return &TTLCache{m: make(map[string]entry), maxEntries: maxEntries, now: time.Now}
}

func (c *TTLCache) GetBytes(_ context.Context, key string) ([]byte, bool, error) {
	c.mu.RLock()
	e, ok := c.m[key]
	c.mu.RUnlock()
	if !ok {
		return nil, false, nil
	}
	if !e.exp.IsZero() && c.now().After(e.exp) {
		c.mu.Lock()
		// A concurrent SetBytes may have refreshed the key since the read.
		if cur, ok := c.m[key]; ok && !cur.exp.IsZero() && c.now().After(cur.exp) {
			delete(c.m, key)
		}
		c.mu.Unlock()
		return nil, false, nil
	}
	return e.v, true, nil
}

func (c *TTLCache) SetBytes(_ context.Context, key string, value []byte, ttl time.Duration) error {
	var exp time.Time
	if ttl > 0 {
		exp = c.now().Add(ttl)
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, exists := c.m[key]; !exists && c.maxEntries > 0 && len(c.m) >= c.maxEntries {
		c.sweepLocked()
		if len(c.m) >= c.maxEntries {
			c.evictSoonestLocked()
		}
	}
	c.m[key] = entry{v: value, exp: exp}
	return nil
}

// Sweep removes expired entries and returns how many were dropped.
func (c *TTLCache) Sweep() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.sweepLocked()
}

// Len returns the number of stored entries, expired or not.
func (c *TTLCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.m)
}

func (c *TTLCache) sweepLocked() int {
	now := c.now()
	n := 0
	for k, e := range c.m {
		if !e.exp.IsZero() && now.After(e.exp) {
			delete(c.m, k)
			n++
		}
	}
	return n
}

// evictSoonestLocked drops the entry closest to expiry.
func (c *TTLCache) evictSoonestLocked() {
	var victim string
	var soonest time.Time
	found := false
	for k, e := range c.m {
		if e.exp.IsZero() {
			continue
		}
		if !found || e.exp.Before(soonest) || e.exp.Equal(soonest) && k < victim {
			victim, soonest, found = k, e.exp, true
		}
	}
	if !found {
		for k := range c.m {
			if !found || k < victim {
				victim, found = k, true
			}
		}
	}
	delete(c.m, victim)
}
