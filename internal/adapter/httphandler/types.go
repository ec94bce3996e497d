package httphandler

import "time"

type (
	ProductsResponse struct {
		Products    []Product `json:"products"`
		TotalCount  int       `json:"totalCount"`
		CurrentPage int       `json:"currentPage"`
		TotalPages  int       `json:"totalPages"`
		Facets      Facets    `json:"facets"`
		Error       string    `json:"error,omitempty"`
	}

	Product struct {
		ID          string     `json:"id"`
		Name        string     `json:"name"`
		Description string     `json:"description"`
		Price       int64      `json:"price"`
		Category    string     `json:"category"`
		Colors      []string   `json:"colors"`
		Tags        []string   `json:"tags"`
		Images      []string   `json:"images"`
		InStock     bool       `json:"inStock"`
		Source      string     `json:"source"`
		CreatedAt   *time.Time `json:"createdAt,omitempty"`
	}

	Facets struct {
		Categories   []FacetCount `json:"categories"`
		Colors       []FacetCount `json:"colors"`
		PriceBuckets []FacetCount `json:"priceBuckets"`
	}

	FacetCount struct {
		Label string `json:"label"`
		Count int    `json:"count"`
	}
)

type FilterRule struct {
	Name    string `json:"product_name"`
	Blocked bool   `json:"blocked"`
}
