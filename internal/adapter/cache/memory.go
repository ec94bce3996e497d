package cache

import (
	"context"
	"sync"
	"time"

	"github.com/niksmo/storefront/internal/core/domain"
	"github.com/niksmo/storefront/internal/core/port"
)

var _ port.ResultCache = (*Memory)(nil)

type entry struct {
	page      domain.CatalogPage
	expiresAt time.Time
}

// A Memory is an expiring map. Entries expire lazily on read,
// expired entries are swept on write.
type Memory struct {
	ttl time.Duration
	now func() time.Time

	mu      sync.Mutex
	entries map[string]entry
}

func NewMemory(ttl time.Duration) *Memory {
	return &Memory{
		ttl:     NormalizeTTL(ttl),
		now:     time.Now,
		entries: make(map[string]entry),
	}
}

func (m *Memory) Get(_ context.Context, key string) (domain.CatalogPage, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	e, ok := m.entries[key]
	if !ok {
		return domain.CatalogPage{}, false
	}
	if !m.now().Before(e.expiresAt) {
		delete(m.entries, key)
		return domain.CatalogPage{}, false
	}
	return e.page, true
}

func (m *Memory) Set(_ context.Context, key string, page domain.CatalogPage) {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.now()
	m.sweep(now)
	m.entries[key] = entry{page: page, expiresAt: now.Add(m.ttl)}
}

func (m *Memory) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.entries)
}

func (m *Memory) sweep(now time.Time) {
	for k, e := range m.entries {
		if !now.Before(e.expiresAt) {
			delete(m.entries, k)
		}
	}
}
