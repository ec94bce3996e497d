package httphandler

import (
	"net/url"
	"strconv"
	"strings"

	"github.com/niksmo/storefront/internal/core/domain"
)

// parseCatalogQuery never fails: malformed values are treated as absent.
func parseCatalogQuery(v url.Values) domain.CatalogQuery {
	var q domain.CatalogQuery

	q.Criteria.Categories = multiValue(v, "category")
	q.Criteria.Colors = multiValue(v, "color")
	q.Criteria.SearchTerm = strings.TrimSpace(v.Get("search"))
	q.Criteria.MinPrice = parseInt64(v.Get("minPrice"))
	q.Criteria.MaxPrice = parseInt64(v.Get("maxPrice"))
	q.Criteria.InStockOnly = parseBool(v.Get("inStock"))
	q.Criteria.TrendingOnly = parseBool(v.Get("trending"))
	q.Criteria.Seasonal, _ = domain.ParseSeason(v.Get("seasonal"))

	q.Sort = parseSort(v.Get("sortBy"), v.Get("sortOrder"))

	q.Page.Page = parseInt(v.Get("page"))
	q.Page.Limit = parseInt(v.Get("limit"))
	return q
}

// multiValue accepts both k=a&k=b and k=a,b.
func multiValue(v url.Values, key string) []string {
	var out []string
	for _, raw := range v[key] {
		for _, s := range strings.Split(raw, ",") {
			if s = strings.TrimSpace(s); s != "" {
				out = append(out, s)
			}
		}
	}
	return out
}

func parseSort(by, order string) domain.Sort {
	s := domain.Sort{Order: domain.SortOrder(strings.ToLower(order))}

	switch strings.ToLower(strings.TrimSpace(by)) {
	case "price":
		s.Key = domain.SortByPrice
	case "name":
		s.Key = domain.SortByName
	case "recency":
		s.Key = domain.SortByRecency
	case "newest":
		return domain.Sort{Key: domain.SortByRecency, Order: domain.SortDesc}
	case "oldest":
		return domain.Sort{Key: domain.SortByRecency, Order: domain.SortAsc}
	default:
		return domain.DefaultSort()
	}

	if s.Order != domain.SortAsc && s.Order != domain.SortDesc {
		s.Order = domain.SortAsc
		if s.Key == domain.SortByRecency {
			s.Order = domain.SortDesc
		}
	}
	return s
}

func parseInt64(s string) *int64 {
	n, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
	if err != nil {
		return nil
	}
	return &n
}

func parseInt(s string) int {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0
	}
	return n
}

func parseBool(s string) bool {
	b, err := strconv.ParseBool(strings.TrimSpace(s))
	return err == nil && b
}
