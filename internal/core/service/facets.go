package service

import (
	"cmp"
	"slices"
	"strconv"
	"strings"

	"github.com/niksmo/storefront/internal/core/domain"
)

const (
	labelUncategorized = "uncategorized"
	labelUnspecified   = "unspecified"
	priceBuckets       = 4
)

// BuildFacets counts the filtered, not yet paginated products
// per category, primary color and price bucket.
//
// Every product is counted exactly once in each dimension.
func BuildFacets(products []domain.Product) domain.Facets {
	return domain.Facets{
		Categories:   countBy(products, categoryLabel),
		Colors:       countBy(products, colorLabel),
		PriceBuckets: priceFacets(products),
	}
}

func categoryLabel(p domain.Product) string {
	c := strings.ToLower(strings.TrimSpace(p.Category))
	if c == "" {
		return labelUncategorized
	}
	return c
}

func colorLabel(p domain.Product) string {
	c := p.PrimaryColor()
	if c == "" {
		return labelUnspecified
	}
	return c
}

func countBy(
	products []domain.Product, label func(domain.Product) string,
) []domain.FacetCount {
	counts := make(map[string]int)
	for _, p := range products {
		counts[label(p)]++
	}

	out := make([]domain.FacetCount, 0, len(counts))
	for l, n := range counts {
		out = append(out, domain.FacetCount{Label: l, Count: n})
	}
	slices.SortFunc(out, func(a, b domain.FacetCount) int {
		if c := cmp.Compare(b.Count, a.Count); c != 0 {
			return c
		}
		return strings.Compare(a.Label, b.Label)
	})
	return out
}

// priceFacets splits the observed [min, max] price range into quartiles.
// Boundaries depend on the current result set, so they move between
// requests as the catalog changes. Only non-empty buckets are returned,
// in ascending price order.
func priceFacets(products []domain.Product) []domain.FacetCount {
	if len(products) == 0 {
		return []domain.FacetCount{}
	}

	lo, hi := products[0].Price, products[0].Price
	for _, p := range products[1:] {
		lo = min(lo, p.Price)
		hi = max(hi, p.Price)
	}

	if lo == hi {
		return []domain.FacetCount{
			{Label: bucketLabel(lo, hi), Count: len(products)},
		}
	}

	// Prices are non-negative, so the span fits in int64. Splitting it
	// into quotient and remainder keeps the products small.
	span := hi - lo
	step, rem := span/priceBuckets, span%priceBuckets
	var bounds [priceBuckets + 1]int64
	for i := range bounds {
		bounds[i] = lo + step*int64(i) + rem*int64(i)/priceBuckets
	}

	var counts [priceBuckets]int
	for _, p := range products {
		counts[bucketIndex(bounds[:], p.Price)]++
	}

	out := make([]domain.FacetCount, 0, priceBuckets)
	for i, n := range counts {
		if n == 0 {
			continue
		}
		out = append(out, domain.FacetCount{
			Label: bucketLabel(bounds[i], bounds[i+1]),
			Count: n,
		})
	}
	return out
}

// bucketIndex returns the last bucket whose lower bound is <= price.
func bucketIndex(bounds []int64, price int64) int {
	for i := priceBuckets - 1; i > 0; i-- {
		if price >= bounds[i] {
			return i
		}
	}
	return 0
}

func bucketLabel(lo, hi int64) string {
	return strconv.FormatInt(lo, 10) + "-" + strconv.FormatInt(hi, 10)
}
