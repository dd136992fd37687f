package cache

import (
	"sync"
	"time"
)

// Cache is the read-through cache collaborator used by the services. Keys
// live inside named regions ("users", "campaigns", ...) so that a mutation
// can drop a whole region in one call, mirroring how the listing and
// single-entity reads are cached.
type Cache interface {
	Get(region, key string) (any, bool)
	Set(region, key string, value any)
	Evict(region, key string)
	EvictRegion(region string)
}

type entry struct {
	value     any
	expiresAt time.Time
}

// Memory is an in-process Cache with a fixed TTL per entry. It is the
// default collaborator for single-instance deployments and tests; a shared
// store can be swapped in behind the same interface.
type Memory struct {
	mu      sync.RWMutex
	ttl     time.Duration
	regions map[string]map[string]entry
}

func NewMemory(ttl time.Duration) *Memory {
	return &Memory{
		ttl:     ttl,
		regions: make(map[string]map[string]entry),
	}
}

func (m *Memory) Get(region, key string) (any, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	e, ok := m.regions[region][key]
	if !ok || time.Now().After(e.expiresAt) {
		return nil, false
	}
	return e.value, true
}

func (m *Memory) Set(region, key string, value any) {
	m.mu.Lock()
	defer m.mu.Unlock()
	r, ok := m.regions[region]
	if !ok {
		r = make(map[string]entry)
		m.regions[region] = r
	}
	r[key] = entry{value: value, expiresAt: time.Now().Add(m.ttl)}
}

func (m *Memory) Evict(region, key string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.regions[region], key)
}

func (m *Memory) EvictRegion(region string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.regions, region)
}
