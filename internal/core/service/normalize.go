package service

import (
	"slices"
	"strings"

	"github.com/niksmo/storefront/internal/core/domain"
	"github.com/niksmo/storefront/internal/core/port"
)

const (
	defaultBundleCategory = "bundle"
	tagBundle             = "bundle"
)

// A Normalizer maps every source record variant to [domain.Product].
//
// Malformed records are never dropped: missing values get defaults
// and every substitution is reported as a [domain.Warning].
type Normalizer struct {
	images port.ImageResolver
}

func NewNormalizer(images port.ImageResolver) Normalizer {
	return Normalizer{images}
}

func (n Normalizer) Normalize(
	rec domain.SourceRecord,
) (domain.Product, []domain.Warning) {
	switch r := rec.(type) {
	case domain.DatabaseRecord:
		return n.fromDatabase(r)
	case *domain.DatabaseRecord:
		if r == nil {
			return n.nilRecord(domain.SourceDatabase)
		}
		return n.fromDatabase(*r)
	case domain.CuratedBundleRecord:
		return n.fromBundle(r)
	case *domain.CuratedBundleRecord:
		if r == nil {
			return n.nilRecord(domain.SourceCuratedBundle)
		}
		return n.fromBundle(*r)
	case nil:
		return n.nilRecord(domain.SourceDatabase)
	}

	s := newSanitizer(rec.Source(), rec.RecordID())
	s.warn("record", "unsupported record type")
	p := domain.Product{ID: rec.RecordID(), Source: rec.Source()}
	p.Images = []string{n.images.Placeholder("")}
	return p, s.warnings
}

func (n Normalizer) nilRecord(
	source domain.Source,
) (domain.Product, []domain.Warning) {
	s := newSanitizer(source, "")
	s.warn("record", "nil record")
	p := domain.Product{Source: source}
	p.Images = []string{n.images.Placeholder("")}
	return p, s.warnings
}

func (n Normalizer) fromDatabase(
	r domain.DatabaseRecord,
) (domain.Product, []domain.Warning) {
	s := newSanitizer(domain.SourceDatabase, r.ID)

	p := domain.Product{
		ID:        r.ID,
		Source:    domain.SourceDatabase,
		InStock:   r.Stock > 0,
		CreatedAt: r.CreatedAt,
	}

	if r.Name == nil || strings.TrimSpace(*r.Name) == "" {
		s.warn("name", "missing")
	} else {
		p.Name = strings.TrimSpace(*r.Name)
	}

	if r.Description != nil {
		p.Description = strings.TrimSpace(*r.Description)
	}

	switch {
	case r.PriceCents == nil:
		s.warn("price", "missing")
	case *r.PriceCents < 0:
		s.warn("price", "negative")
	default:
		p.Price = *r.PriceCents
	}

	if r.Category != nil {
		p.Category = strings.TrimSpace(*r.Category)
	}

	var derived []string
	if r.IsTrending {
		derived = append(derived, domain.TagTrending)
	}
	if r.Season != nil && strings.TrimSpace(*r.Season) != "" {
		season, ok := domain.ParseSeason(*r.Season)
		if ok {
			derived = append(derived, string(season))
		} else {
			s.warn("season", "unknown value "+*r.Season)
		}
	}

	p.Colors = normalizeColors(r.Colors)
	p.Tags = normalizeTags(r.Tags, derived...)
	p.Images = n.resolveImages(p.Name, r.ImageURLs)
	return p, s.warnings
}

func (n Normalizer) fromBundle(
	r domain.CuratedBundleRecord,
) (domain.Product, []domain.Warning) {
	s := newSanitizer(domain.SourceCuratedBundle, r.ID)

	p := domain.Product{
		ID:          r.ID,
		Name:        strings.TrimSpace(r.Name),
		Description: strings.TrimSpace(r.Description),
		Category:    strings.TrimSpace(r.Category),
		InStock:     r.Available,
		Source:      domain.SourceCuratedBundle,
	}

	if p.Name == "" {
		s.warn("name", "missing")
	}

	if p.Category == "" {
		p.Category = defaultBundleCategory
	}

	price, err := domain.MajorToMinorUnits(r.Price)
	switch {
	case err != nil:
		s.warn("price", err.Error())
	case price < 0:
		s.warn("price", "negative")
	default:
		p.Price = price
	}

	derived := []string{tagBundle}
	if r.Featured {
		derived = append(derived, domain.TagTrending)
	}
	if strings.TrimSpace(r.Season) != "" {
		season, ok := domain.ParseSeason(r.Season)
		if ok {
			derived = append(derived, string(season))
		} else {
			s.warn("season", "unknown value "+r.Season)
		}
	}

	p.Colors = normalizeColors(r.Colors)
	p.Tags = normalizeTags(r.Tags, derived...)
	p.Images = n.resolveImages(p.Name, r.Images)
	return p, s.warnings
}

// resolveImages keeps the order of valid URLs; when none is valid
// the product gets the single placeholder image.
func (n Normalizer) resolveImages(name string, raw []string) []string {
	placeholder := n.images.Placeholder(name)
	out := make([]string, 0, len(raw))
	for _, u := range raw {
		resolved := n.images.Resolve(name, u)
		if resolved == "" || resolved == placeholder {
			continue
		}
		if slices.Contains(out, resolved) {
			continue
		}
		out = append(out, resolved)
	}
	if len(out) == 0 {
		return []string{placeholder}
	}
	return out
}

func normalizeColors(colors []string) []string {
	out := make([]string, 0, len(colors))
	for _, c := range colors {
		c = strings.ToLower(strings.TrimSpace(c))
		if c == "" || slices.Contains(out, c) {
			continue
		}
		out = append(out, c)
	}
	return out
}

// normalizeTags returns a sorted set.
func normalizeTags(tags []string, derived ...string) []string {
	out := make([]string, 0, len(tags)+len(derived))
	for _, t := range append(slices.Clone(tags), derived...) {
		t = strings.ToLower(strings.TrimSpace(t))
		if t == "" {
			continue
		}
		out = append(out, t)
	}
	slices.Sort(out)
	return slices.Compact(out)
}

type sanitizer struct {
	source   domain.Source
	id       string
	warnings []domain.Warning
}

func newSanitizer(source domain.Source, id string) *sanitizer {
	return &sanitizer{source: source, id: id}
}

func (s *sanitizer) warn(field, reason string) {
	s.warnings = append(s.warnings, domain.Warning{
		Source:    s.source,
		ProductID: s.id,
		Field:     field,
		Reason:    reason,
	})
}
