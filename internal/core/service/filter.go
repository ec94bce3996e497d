package service

import (
	"strings"

	"github.com/niksmo/storefront/internal/core/domain"
)

// A filterRule is one independent predicate of the filter engine.
//
// active reports whether the criteria constrain this rule at all.
type filterRule struct {
	active func(domain.FilterCriteria) bool
	match  func(domain.Product, domain.FilterCriteria) bool
}

var filterRules = []filterRule{
	{hasCategories, matchCategory},
	{hasMinPrice, matchMinPrice},
	{hasMaxPrice, matchMaxPrice},
	{hasColors, matchColor},
	{hasSearchTerm, matchSearchTerm},
	{isInStockOnly, matchInStock},
	{isTrendingOnly, matchTrending},
	{hasSeason, matchSeason},
}

// Filter returns the products satisfying every active rule.
//
// With no active rule the input slice is returned as is.
func Filter(
	products []domain.Product, c domain.FilterCriteria,
) []domain.Product {
	var rules []filterRule
	for _, r := range filterRules {
		if r.active(c) {
			rules = append(rules, r)
		}
	}
	if len(rules) == 0 {
		return products
	}

	out := make([]domain.Product, 0, len(products))
	for _, p := range products {
		if matchAll(p, c, rules) {
			out = append(out, p)
		}
	}
	return out
}

func matchAll(
	p domain.Product, c domain.FilterCriteria, rules []filterRule,
) bool {
	for _, r := range rules {
		if !r.match(p, c) {
			return false
		}
	}
	return true
}

func hasCategories(c domain.FilterCriteria) bool {
	return len(lowerNonEmpty(c.Categories)) != 0
}

// matchCategory is a loose substring match: category naming differs
// between sources, so "suit" also passes "suits" and "three-piece-suit".
func matchCategory(p domain.Product, c domain.FilterCriteria) bool {
	category := strings.ToLower(p.Category)
	for _, want := range lowerNonEmpty(c.Categories) {
		if strings.Contains(category, want) {
			return true
		}
	}
	return false
}

func hasMinPrice(c domain.FilterCriteria) bool {
	return c.MinPrice != nil
}

func matchMinPrice(p domain.Product, c domain.FilterCriteria) bool {
	return p.Price >= *c.MinPrice
}

func hasMaxPrice(c domain.FilterCriteria) bool {
	return c.MaxPrice != nil
}

func matchMaxPrice(p domain.Product, c domain.FilterCriteria) bool {
	return p.Price <= *c.MaxPrice
}

func hasColors(c domain.FilterCriteria) bool {
	return len(lowerNonEmpty(c.Colors)) != 0
}

// matchColor checks the product colors, or the name when
// the product lists none.
func matchColor(p domain.Product, c domain.FilterCriteria) bool {
	haystack := p.Colors
	if len(haystack) == 0 {
		haystack = []string{p.Name}
	}
	for _, want := range lowerNonEmpty(c.Colors) {
		for _, have := range haystack {
			if strings.Contains(strings.ToLower(have), want) {
				return true
			}
		}
	}
	return false
}

func hasSearchTerm(c domain.FilterCriteria) bool {
	return strings.TrimSpace(c.SearchTerm) != ""
}

func matchSearchTerm(p domain.Product, c domain.FilterCriteria) bool {
	term := strings.ToLower(strings.TrimSpace(c.SearchTerm))
	if strings.Contains(strings.ToLower(p.Name), term) {
		return true
	}
	if strings.Contains(strings.ToLower(p.Description), term) {
		return true
	}
	for _, tag := range p.Tags {
		if strings.Contains(strings.ToLower(tag), term) {
			return true
		}
	}
	return false
}

func isInStockOnly(c domain.FilterCriteria) bool {
	return c.InStockOnly
}

func matchInStock(p domain.Product, _ domain.FilterCriteria) bool {
	return p.InStock
}

func isTrendingOnly(c domain.FilterCriteria) bool {
	return c.TrendingOnly
}

func matchTrending(p domain.Product, _ domain.FilterCriteria) bool {
	return p.HasTag(domain.TagTrending)
}

func hasSeason(c domain.FilterCriteria) bool {
	return c.Seasonal != domain.SeasonNone
}

func matchSeason(p domain.Product, c domain.FilterCriteria) bool {
	return p.HasTag(string(c.Seasonal))
}

func lowerNonEmpty(ss []string) []string {
	out := make([]string, 0, len(ss))
	for _, s := range ss {
		s = strings.ToLower(strings.TrimSpace(s))
		if s != "" {
			out = append(out, s)
		}
	}
	return out
}
