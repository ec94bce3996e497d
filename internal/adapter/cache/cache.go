// Package cache holds short-lived catalog page caches.
package cache

import (
	"context"
	"time"

	"github.com/niksmo/storefront/internal/core/domain"
	"github.com/niksmo/storefront/internal/core/port"
)

const (
	DefaultTTL = 30 * time.Second
	MaxTTL     = 59 * time.Second
)

// NormalizeTTL keeps the TTL under one minute, zero means the default.
func NormalizeTTL(ttl time.Duration) time.Duration {
	if ttl <= 0 {
		return DefaultTTL
	}
	return min(ttl, MaxTTL)
}

var _ port.ResultCache = Nop{}

// Nop never stores anything.
type Nop struct{}

func (Nop) Get(context.Context, string) (domain.CatalogPage, bool) {
	return domain.CatalogPage{}, false
}

func (Nop) Set(context.Context, string, domain.CatalogPage) {}
