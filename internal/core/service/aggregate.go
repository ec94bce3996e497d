package service

import (
	"cmp"
	"slices"
	"strings"

	"github.com/niksmo/storefront/internal/core/domain"
)

const (
	DefaultPageLimit = 20
	MaxPageLimit     = 100
)

// Merge concatenates per-source lists in the given order.
//
// Duplicate ids are removed inside one source only, the first
// occurrence wins. Equal ids from different sources are kept.
func Merge(lists ...[]domain.Product) []domain.Product {
	var n int
	for _, l := range lists {
		n += len(l)
	}

	out := make([]domain.Product, 0, n)
	for _, l := range lists {
		seen := make(map[string]struct{}, len(l))
		for _, p := range l {
			key := p.Key()
			if _, ok := seen[key]; ok {
				continue
			}
			seen[key] = struct{}{}
			out = append(out, p)
		}
	}
	return out
}

// SortProducts sorts in place. The sort is stable, so equal keys keep
// the merge order: source first, then original position.
func SortProducts(products []domain.Product, s domain.Sort) {
	slices.SortStableFunc(products, comparator(s))
}

func comparator(s domain.Sort) func(a, b domain.Product) int {
	desc := s.Order == domain.SortDesc
	direct := func(c int) int {
		if desc {
			return -c
		}
		return c
	}

	switch s.Key {
	case domain.SortByPrice:
		return func(a, b domain.Product) int {
			return direct(cmp.Compare(a.Price, b.Price))
		}
	case domain.SortByName:
		return func(a, b domain.Product) int {
			return direct(strings.Compare(
				strings.ToLower(a.Name), strings.ToLower(b.Name),
			))
		}
	default:
		// products without creation time go last in both directions
		return func(a, b domain.Product) int {
			switch {
			case a.CreatedAt == nil && b.CreatedAt == nil:
				return 0
			case a.CreatedAt == nil:
				return 1
			case b.CreatedAt == nil:
				return -1
			}
			return direct(a.CreatedAt.Compare(*b.CreatedAt))
		}
	}
}

// Paginate returns the requested page, the effective page number
// and the total number of pages.
func Paginate(
	products []domain.Product, req domain.PageRequest,
) (items []domain.Product, page, totalPages int) {
	page = max(req.Page, 1)
	limit := req.Limit
	if limit < 1 {
		limit = DefaultPageLimit
	}

	total := len(products)
	totalPages = (total + limit - 1) / limit

	if page > totalPages {
		return []domain.Product{}, page, totalPages
	}
	start := (page - 1) * limit
	end := min(start+limit, total)
	return products[start:end], page, totalPages
}
