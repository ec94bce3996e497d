package port

import (
	"context"

	"github.com/niksmo/storefront/internal/core/domain"
)

// A CatalogBrowser is the aggregation entry point used by inbound adapters.
type CatalogBrowser interface {
	Browse(context.Context, domain.CatalogQuery) (domain.CatalogPage, error)
}

type ProductFilterSetter interface {
	SetRule(context.Context, domain.ProductFilter) error
}

// A ProductSource fetches raw records for the criteria.
//
// Implementations may push down part of the criteria, the caller
// re-applies all of them after normalization.
type ProductSource interface {
	Source() domain.Source
	FetchRecords(context.Context, domain.FilterCriteria) ([]domain.SourceRecord, error)
}

type ImageResolver interface {
	Resolve(productName, rawURL string) string
	Placeholder(productName string) string
}

type ResultCache interface {
	Get(ctx context.Context, key string) (domain.CatalogPage, bool)
	Set(ctx context.Context, key string, page domain.CatalogPage)
}

type BlocklistReader interface {
	IsBlocked(productName string) (bool, error)
}

type ProductFilterProducer interface {
	ProduceFilter(context.Context, domain.ProductFilter) error
}
