package cache

import (
	"context"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
)

const (
	defaultMaxEntries = 1000
	defaultMaxTTL     = time.Hour
)

type entry struct {
	value     []byte
	expiresAt time.Time
}

// Memory is a bounded in-process cache over an expirable LRU. The LRU drops the least
// recently used key when full and purges everything older than maxTTL in the background.
// Shorter per-key TTLs are enforced on read.
type Memory struct {
	lru *expirable.LRU[string, entry]
	now func() time.Time
}

// NewMemory returns an empty cache holding at most maxEntries keys for at most maxTTL.
// now is the clock for per-key expiry; pass time.Now outside tests.
func NewMemory(maxEntries int, maxTTL time.Duration, now func() time.Time) *Memory {
	if maxEntries <= 0 {
		maxEntries = defaultMaxEntries
	}
	if maxTTL <= 0 {
		maxTTL = defaultMaxTTL
	}
	if now == nil {
		now = time.Now
	}
	return &Memory{
		lru: expirable.NewLRU[string, entry](maxEntries, nil, maxTTL),
		now: now,
	}
}

func (m *Memory) Get(_ context.Context, key string) ([]byte, bool, error) {
	e, ok := m.lru.Get(key)
	if !ok {
		return nil, false, nil
	}
	if !m.now().Before(e.expiresAt) {
		m.lru.Remove(key)
		return nil, false, nil
	}
	return e.value, true, nil
}

func (m *Memory) Set(_ context.Context, key string, value []byte, ttl time.Duration) error {
	m.lru.Add(key, entry{value: value, expiresAt: m.now().Add(ttl)})
	return nil
}

func (m *Memory) Delete(_ context.Context, key string) error {
	m.lru.Remove(key)
	return nil
}

// Len reports the number of stored entries, including ones past their per-key TTL that
// have not been read since.
func (m *Memory) Len() int {
	return m.lru.Len()
}
