package caching

import (
	"context"
	"fmt"
	"sync"
	"time"
)

type memoryEntry struct {
	value     string
	expiresAt time.Time
}

// memoryCacheService is an in-process CacheService for tests and local
// development without a Redis instance.
type memoryCacheService struct {
	mu      sync.Mutex
	entries map[string]memoryEntry
	counts  map[string]int
}

func NewMemoryCacheService() CacheService {
	return &memoryCacheService{
		entries: make(map[string]memoryEntry),
		counts:  make(map[string]int),
	}
}

func (m *memoryCacheService) SetString(_ context.Context, key, value string, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	var expiresAt time.Time
	if ttl > 0 {
		expiresAt = time.Now().Add(ttl)
	}
	m.entries[key] = memoryEntry{value: value, expiresAt: expiresAt}
	return nil
}

func (m *memoryCacheService) GetString(_ context.Context, key string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	entry, ok := m.entries[key]
	if !ok {
		return "", nil
	}
	if !entry.expiresAt.IsZero() && time.Now().After(entry.expiresAt) {
		delete(m.entries, key)
		return "", nil
	}
	return entry.value, nil
}

func (m *memoryCacheService) Delete(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.entries, key)
	return nil
}

func (m *memoryCacheService) IsRateLimited(_ context.Context, key string, limit int, _ time.Duration) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	cacheKey := fmt.Sprintf("accountd:ratelimit:%s", key)
	m.counts[cacheKey]++
	return m.counts[cacheKey] > limit, nil
}
