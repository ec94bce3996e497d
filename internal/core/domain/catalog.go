package domain

import (
	"errors"
	"strings"
)

var (
	ErrUnknownSource     = errors.New("unknown source")
	ErrInvalidRule       = errors.New("invalid product filter rule")
	ErrBlocklistDisabled = errors.New("blocklist is disabled")
	ErrInvalidPrice      = errors.New("invalid price")
)

// A FilterCriteria holds optional constraints joined with AND.
//
// Zero values mean "no constraint".
type FilterCriteria struct {
	Categories   []string `json:"categories,omitempty"`
	MinPrice     *int64   `json:"minPrice,omitempty"`
	MaxPrice     *int64   `json:"maxPrice,omitempty"`
	Colors       []string `json:"colors,omitempty"`
	SearchTerm   string   `json:"searchTerm,omitempty"`
	InStockOnly  bool     `json:"inStockOnly,omitempty"`
	TrendingOnly bool     `json:"trendingOnly,omitempty"`
	Seasonal     Season   `json:"seasonal,omitempty"`
}

func (c FilterCriteria) IsEmpty() bool {
	return len(c.Categories) == 0 &&
		c.MinPrice == nil &&
		c.MaxPrice == nil &&
		len(c.Colors) == 0 &&
		strings.TrimSpace(c.SearchTerm) == "" &&
		!c.InStockOnly &&
		!c.TrendingOnly &&
		c.Seasonal == SeasonNone
}

type SortKey string

const (
	SortByPrice   SortKey = "price"
	SortByName    SortKey = "name"
	SortByRecency SortKey = "recency"
)

type SortOrder string

const (
	SortAsc  SortOrder = "asc"
	SortDesc SortOrder = "desc"
)

type Sort struct {
	Key   SortKey   `json:"key"`
	Order SortOrder `json:"order"`
}

func DefaultSort() Sort {
	return Sort{Key: SortByRecency, Order: SortDesc}
}

type PageRequest struct {
	Page  int `json:"page"`
	Limit int `json:"limit"`
}

// A CatalogQuery is the whole input of one aggregation run.
type CatalogQuery struct {
	Criteria FilterCriteria `json:"criteria"`
	Sort     Sort           `json:"sort"`
	Page     PageRequest    `json:"page"`
}

type FacetCount struct {
	Label string `json:"label"`
	Count int    `json:"count"`
}

type Facets struct {
	Categories   []FacetCount `json:"categories"`
	Colors       []FacetCount `json:"colors"`
	PriceBuckets []FacetCount `json:"priceBuckets"`
}

type CatalogPage struct {
	Products    []Product `json:"products"`
	TotalCount  int       `json:"totalCount"`
	CurrentPage int       `json:"currentPage"`
	TotalPages  int       `json:"totalPages"`
	Facets      Facets    `json:"facets"`
	Warnings    int       `json:"warnings"`
}

// A Warning reports a data-quality issue found while normalizing a record.
type Warning struct {
	Source    Source
	ProductID string
	Field     string
	Reason    string
}

func (w Warning) String() string {
	return w.Source.String() + ":" + w.ProductID + ": " + w.Field + ": " + w.Reason
}

// A ProductFilter hides or shows a product name on the storefront.
type ProductFilter struct {
	ProductName string
	Blocked     bool
}

func (f ProductFilter) Validate() error {
	if strings.TrimSpace(f.ProductName) == "" {
		return ErrInvalidRule
	}
	return nil
}

// BlocklistKey is the key a product name is stored under in the blocklist.
func BlocklistKey(productName string) string {
	return strings.ToLower(strings.TrimSpace(productName))
}
