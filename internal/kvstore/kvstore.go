// Package kvstore provides the expiring key-value state backing OTP codes
// and issuance rate limits. The interface keeps the store injectable so a
// deployment can swap the in-memory implementation for an external
// expiring cache without touching the handlers.
package kvstore

import (
	"sync"
	"time"
)

// Store is short-lived, TTL-bound key-value state.
type Store interface {
	// Set writes value under key, expiring after ttl.
	Set(key, value string, ttl time.Duration)
	// Get returns the value and whether a live entry exists.
	Get(key string) (string, bool)
	// Delete removes key immediately.
	Delete(key string)
	// Incr increments the counter under key and returns the new count.
	// The TTL is set on first increment only, giving a rolling window.
	Incr(key string, ttl time.Duration) int
	// Purge drops expired entries. Called periodically by the sweeper.
	Purge()
}

type entry struct {
	value     string
	count     int
	expiresAt time.Time
}

// Memory is the in-process Store implementation.
type Memory struct {
	mu      sync.Mutex
	entries map[string]entry
	now     func() time.Time
}

func NewMemory() *Memory {
	return &Memory{entries: make(map[string]entry), now: time.Now}
}

func (m *Memory) Set(key, value string, ttl time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries[key] = entry{value: value, expiresAt: m.now().Add(ttl)}
}

func (m *Memory) Get(key string) (string, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	e, ok := m.entries[key]
	if !ok {
		return "", false
	}
	if m.now().After(e.expiresAt) {
		delete(m.entries, key)
		return "", false
	}
	return e.value, true
}

func (m *Memory) Delete(key string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.entries, key)
}

func (m *Memory) Incr(key string, ttl time.Duration) int {
	m.mu.Lock()
	defer m.mu.Unlock()

	e, ok := m.entries[key]
	if !ok || m.now().After(e.expiresAt) {
		e = entry{count: 0, expiresAt: m.now().Add(ttl)}
	}
	e.count++
	m.entries[key] = e
	return e.count
}

func (m *Memory) Purge() {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.now()
	for key, e := range m.entries {
		if now.After(e.expiresAt) {
			delete(m.entries, key)
		}
	}
}
