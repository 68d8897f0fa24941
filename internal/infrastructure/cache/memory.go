// Package cache provides byte-oriented TTL stores backing the nutrition
// lookup layer: an in-process map and a Redis client behind one interface.
package cache

import (
	"context"
	"sync"
	"time"

	"github.com/budgeat/backend/internal/domain"
)

// cacheItem is a stored value with its expiration
type cacheItem struct {
	value      []byte
	expiration time.Time
}

// Memory is a thread-safe in-memory TTL store
type Memory struct {
	data  map[string]cacheItem
	mutex sync.RWMutex
}

// NewMemory creates an in-memory store and starts a periodic sweep of
// expired entries.
func NewMemory() *Memory {
	m := &Memory{
		data: make(map[string]cacheItem),
	}
	go m.sweep()
	return m
}

// Get retrieves a value; expired or missing keys return ErrCacheMiss
func (m *Memory) Get(ctx context.Context, key string) ([]byte, error) {
	m.mutex.RLock()
	defer m.mutex.RUnlock()

	item, exists := m.data[key]
	if !exists || time.Now().After(item.expiration) {
		return nil, domain.ErrCacheMiss
	}
	return item.value, nil
}

// Set stores a value with TTL
func (m *Memory) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	m.data[key] = cacheItem{
		value:      value,
		expiration: time.Now().Add(ttl),
	}
	return nil
}

// Delete removes a key
func (m *Memory) Delete(ctx context.Context, key string) error {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	delete(m.data, key)
	return nil
}

// Size returns the current number of entries, expired ones included
func (m *Memory) Size() int {
	m.mutex.RLock()
	defer m.mutex.RUnlock()
	return len(m.data)
}

// sweep removes expired entries every 10 minutes
func (m *Memory) sweep() {
	ticker := time.NewTicker(10 * time.Minute)
	defer ticker.Stop()

	for range ticker.C {
		m.mutex.Lock()
		now := time.Now()
		for key, item := range m.data {
			if now.After(item.expiration) {
				delete(m.data, key)
			}
		}
		m.mutex.Unlock()
	}
}
