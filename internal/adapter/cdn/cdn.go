// Package cdn maps stored image URLs onto the CDN.
package cdn

import (
	"errors"
	"fmt"
	"hash/fnv"
	"net/url"
	"strings"

	"github.com/niksmo/storefront/internal/core/port"
)

var _ port.ImageResolver = (*Resolver)(nil)

const DefaultPlaceholder = "/images/placeholder.svg"

var ErrInvalidBaseURL = errors.New("invalid base url")

type Config struct {
	// BaseURL is the CDN origin, e.g. "https://cdn.example.com".
	BaseURL string
	// LegacyHosts are object storage hosts whose URLs are served by the CDN.
	LegacyHosts []string
	// Placeholders are local paths; one is picked per product name.
	Placeholders []string
}

// A Resolver is a pure URL rewriter, it performs no network I/O.
type Resolver struct {
	base         *url.URL
	legacyHosts  map[string]struct{}
	placeholders []string
}

func NewResolver(cfg Config) (Resolver, error) {
	const op = "cdn.NewResolver"

	var r Resolver
	if cfg.BaseURL != "" {
		base, err := url.Parse(strings.TrimRight(cfg.BaseURL, "/"))
		if err != nil || base.Host == "" {
			return Resolver{}, fmt.Errorf("%s: %w: %q", op, ErrInvalidBaseURL, cfg.BaseURL)
		}
		r.base = base
	}

	r.legacyHosts = make(map[string]struct{}, len(cfg.LegacyHosts))
	for _, h := range cfg.LegacyHosts {
		h = strings.ToLower(strings.TrimSpace(h))
		if h != "" {
			r.legacyHosts[h] = struct{}{}
		}
	}

	for _, p := range cfg.Placeholders {
		if p = strings.TrimSpace(p); p != "" {
			r.placeholders = append(r.placeholders, p)
		}
	}
	if len(r.placeholders) == 0 {
		r.placeholders = []string{DefaultPlaceholder}
	}
	return r, nil
}

// Resolve returns the canonical URL for rawURL, or the product placeholder
// when rawURL is not usable.
func (r Resolver) Resolve(productName, rawURL string) string {
	rawURL = strings.TrimSpace(rawURL)
	if rawURL == "" {
		return r.Placeholder(productName)
	}

	if strings.HasPrefix(rawURL, "/") && !strings.HasPrefix(rawURL, "//") {
		if r.base == nil {
			return rawURL
		}
		return r.base.String() + rawURL
	}

	u, err := url.Parse(rawURL)
	if err != nil || u.Host == "" {
		return r.Placeholder(productName)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return r.Placeholder(productName)
	}

	if _, ok := r.legacyHosts[strings.ToLower(u.Hostname())]; ok && r.base != nil {
		rewritten := *r.base
		rewritten.Path = r.base.Path + u.Path
		rewritten.RawPath = ""
		rewritten.RawQuery = u.RawQuery
		return rewritten.String()
	}
	return u.String()
}

// Placeholder is deterministic for a product name.
func (r Resolver) Placeholder(productName string) string {
	if len(r.placeholders) == 1 {
		return r.placeholders[0]
	}
	h := fnv.New32a()
	_, _ = h.Write([]byte(strings.ToLower(strings.TrimSpace(productName))))
	return r.placeholders[h.Sum32()%uint32(len(r.placeholders))]
}
