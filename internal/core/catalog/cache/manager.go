package cache

import (
	"sync"
	"time"

	"recipe-browser/internal/pkg/common"

	"go.uber.org/zap"
)

// Manager is a small in-process cache with TTL expiry and least-recently-used
// eviction, used for recipe detail payloads so repeated views of the same
// recipe skip the database read.
type Manager struct {
	mu              sync.RWMutex
	store           map[string]managerEntry
	maxSize         int
	ttl             time.Duration
	cleanupInterval time.Duration
	done            chan struct{}
	stats           managerStats
}

type managerEntry struct {
	value      string
	expiresAt  time.Time
	lastAccess time.Time
}

type managerStats struct {
	hits      int64
	misses    int64
	evictions int64
}

// NewManager creates the cache and starts its cleanup loop.
func NewManager(maxSize int, ttl, cleanupInterval time.Duration) *Manager {
	if maxSize <= 0 {
		maxSize = 1000
	}
	if ttl <= 0 {
		ttl = 10 * time.Minute
	}
	if cleanupInterval <= 0 {
		cleanupInterval = time.Minute
	}

	m := &Manager{
		store:           make(map[string]managerEntry),
		maxSize:         maxSize,
		ttl:             ttl,
		cleanupInterval: cleanupInterval,
		done:            make(chan struct{}),
	}

	go m.startCleanup()

	return m
}

// Get returns the cached value for key.
func (m *Manager) Get(key string) (string, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	entry, exists := m.store[key]
	if !exists {
		m.stats.misses++
		return "", false
	}
	if time.Now().After(entry.expiresAt) {
		delete(m.store, key)
		m.stats.evictions++
		m.stats.misses++
		return "", false
	}

	entry.lastAccess = time.Now()
	m.store[key] = entry
	m.stats.hits++
	return entry.value, true
}

// Set stores the value under key, evicting the least recently used entry when
// the cache is full.
func (m *Manager) Set(key, value string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if len(m.store) >= m.maxSize {
		m.cleanupLocked()
		if len(m.store) >= m.maxSize {
			m.evictLRULocked()
		}
	}

	now := time.Now()
	m.store[key] = managerEntry{
		value:      value,
		expiresAt:  now.Add(m.ttl),
		lastAccess: now,
	}
}

func (m *Manager) startCleanup() {
	ticker := time.NewTicker(m.cleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			m.mu.Lock()
			evicted := m.cleanupLocked()
			m.mu.Unlock()
			if evicted > 0 {
				common.LogDebug("cleaned up expired cache entries",
					zap.Int("count", evicted),
				)
			}
		case <-m.done:
			return
		}
	}
}

func (m *Manager) cleanupLocked() int {
	now := time.Now()
	count := 0
	for key, entry := range m.store {
		if now.After(entry.expiresAt) {
			delete(m.store, key)
			m.stats.evictions++
			count++
		}
	}
	return count
}

func (m *Manager) evictLRULocked() {
	var oldestKey string
	var oldestAccess time.Time
	for key, entry := range m.store {
		if oldestKey == "" || entry.lastAccess.Before(oldestAccess) {
			oldestKey = key
			oldestAccess = entry.lastAccess
		}
	}
	if oldestKey != "" {
		delete(m.store, oldestKey)
		m.stats.evictions++
	}
}

// Stats returns a snapshot of the cache counters.
func (m *Manager) Stats() map[string]interface{} {
	m.mu.RLock()
	defer m.mu.RUnlock()

	total := m.stats.hits + m.stats.misses
	hitRatio := 0.0
	if total > 0 {
		hitRatio = float64(m.stats.hits) / float64(total)
	}
	return map[string]interface{}{
		"size":      len(m.store),
		"max_size":  m.maxSize,
		"hits":      m.stats.hits,
		"misses":    m.stats.misses,
		"evictions": m.stats.evictions,
		"hit_ratio": hitRatio,
	}
}

// Close stops the cleanup loop and drops all entries.
func (m *Manager) Close() {
	close(m.done)
	m.mu.Lock()
	m.store = make(map[string]managerEntry)
	m.mu.Unlock()
}
