package service

import (
	"context"
	"crypto/md5"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"log/slog"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/niksmo/storefront/internal/core/domain"
	"github.com/niksmo/storefront/internal/core/port"
	"golang.org/x/sync/singleflight"
)

var _ port.CatalogBrowser = (*Service)(nil)
var _ port.ProductFilterSetter = (*Service)(nil)

const (
	defaultFetchTimeout = 3 * time.Second
	cacheKeyPrefix      = "catalog:"
	loggedWarnings      = 3
)

type Config struct {
	DefaultLimit int
	MaxLimit     int
	FetchTimeout time.Duration
}

func (c *Config) normalize() {
	if c.DefaultLimit < 1 {
		c.DefaultLimit = DefaultPageLimit
	}
	if c.MaxLimit < 1 {
		c.MaxLimit = MaxPageLimit
	}
	c.DefaultLimit = min(c.DefaultLimit, c.MaxLimit)
	if c.FetchTimeout <= 0 {
		c.FetchTimeout = defaultFetchTimeout
	}
}

type Service struct {
	cfg            Config
	sources        []port.ProductSource
	normalizer     Normalizer
	cache          port.ResultCache
	blocklist      port.BlocklistReader
	filterProducer port.ProductFilterProducer
	inflight       *singleflight.Group
}

// New creates the catalog service.
//
// Sources are merged in the given order. A nil cache disables caching,
// a nil blocklist allows every product and a nil filter producer
// makes [Service.SetRule] fail with [domain.ErrBlocklistDisabled].
func New(
	cfg Config,
	sources []port.ProductSource,
	normalizer Normalizer,
	cache port.ResultCache,
	blocklist port.BlocklistReader,
	filterProducer port.ProductFilterProducer,
) *Service {
	cfg.normalize()
	if cache == nil {
		cache = noCache{}
	}
	if blocklist == nil {
		blocklist = allowAll{}
	}
	return &Service{
		cfg:            cfg,
		sources:        sources,
		normalizer:     normalizer,
		cache:          cache,
		blocklist:      blocklist,
		filterProducer: filterProducer,
		inflight:       new(singleflight.Group),
	}
}

// Browse runs the aggregation pipeline for the query.
//
// Source failures degrade to fewer products, they are never returned.
// A degraded page is served but not cached.
func (s *Service) Browse(
	ctx context.Context, q domain.CatalogQuery,
) (domain.CatalogPage, error) {
	const op = "Service.Browse"

	if err := ctx.Err(); err != nil {
		return domain.CatalogPage{}, fmt.Errorf("%s: %w", op, err)
	}

	q = s.normalizeQuery(q)
	key := CacheKey(q)

	if page, ok := s.cache.Get(ctx, key); ok {
		return page, nil
	}

	v, err, _ := s.inflight.Do(key, func() (any, error) {
		page, nFailed := s.aggregate(ctx, q)
		if nFailed != 0 {
			slog.With("op", op).Warn(
				"page degraded, cache skipped", "nFailedSources", nFailed,
			)
			return page, nil
		}
		s.cache.Set(context.WithoutCancel(ctx), key, page)
		return page, nil
	})
	if err != nil {
		return domain.CatalogPage{}, fmt.Errorf("%s: %w", op, err)
	}
	return v.(domain.CatalogPage), nil
}

func (s *Service) SetRule(ctx context.Context, pf domain.ProductFilter) error {
	const op = "Service.SetRule"

	if err := ctx.Err(); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	if err := pf.Validate(); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	if s.filterProducer == nil {
		return fmt.Errorf("%s: %w", op, domain.ErrBlocklistDisabled)
	}

	err := s.filterProducer.ProduceFilter(ctx, pf)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

func (s *Service) normalizeQuery(q domain.CatalogQuery) domain.CatalogQuery {
	switch q.Sort.Key {
	case domain.SortByPrice, domain.SortByName, domain.SortByRecency:
	default:
		q.Sort = domain.DefaultSort()
	}
	if q.Sort.Order != domain.SortAsc && q.Sort.Order != domain.SortDesc {
		q.Sort.Order = domain.SortAsc
		if q.Sort.Key == domain.SortByRecency {
			q.Sort.Order = domain.SortDesc
		}
	}

	q.Criteria.Categories = canonicalSet(q.Criteria.Categories)
	q.Criteria.Colors = canonicalSet(q.Criteria.Colors)
	q.Criteria.SearchTerm = strings.TrimSpace(q.Criteria.SearchTerm)

	q.Page.Page = max(q.Page.Page, 1)
	if q.Page.Limit < 1 {
		q.Page.Limit = s.cfg.DefaultLimit
	}
	q.Page.Limit = min(q.Page.Limit, s.cfg.MaxLimit)
	return q
}

// aggregate builds the page and reports how many sources failed.
func (s *Service) aggregate(
	ctx context.Context, q domain.CatalogQuery,
) (domain.CatalogPage, int) {
	const op = "Service.aggregate"
	log := slog.With("op", op)

	fetched, nFailed := s.fetchAll(ctx, q.Criteria)

	var warnings []domain.Warning
	lists := make([][]domain.Product, len(fetched))
	for i, records := range fetched {
		lists[i] = make([]domain.Product, 0, len(records))
		for _, rec := range records {
			p, ws := s.normalizer.Normalize(rec)
			warnings = append(warnings, ws...)
			lists[i] = append(lists[i], p)
		}
	}
	if len(warnings) != 0 {
		log.Warn(
			"records sanitized",
			"nWarnings", len(warnings),
			"sample", sampleWarnings(warnings),
		)
	}

	merged := s.excludeBlocked(Merge(lists...))
	filtered := Filter(merged, q.Criteria)
	SortProducts(filtered, q.Sort)
	facets := BuildFacets(filtered)
	items, page, totalPages := Paginate(filtered, q.Page)

	log.Debug(
		"catalog aggregated",
		"nMerged", len(merged),
		"nFiltered", len(filtered),
		"page", page,
	)

	return domain.CatalogPage{
		Products:    items,
		TotalCount:  len(filtered),
		CurrentPage: page,
		TotalPages:  totalPages,
		Facets:      facets,
		Warnings:    len(warnings),
	}, nFailed
}

// fetchAll queries every source concurrently and joins the results.
//
// A failed source yields no records and is counted. Fetches are detached from the
// caller cancellation and bounded by the fetch timeout instead.
func (s *Service) fetchAll(
	ctx context.Context, c domain.FilterCriteria,
) ([][]domain.SourceRecord, int) {
	fetchCtx, cancel := context.WithTimeout(
		context.WithoutCancel(ctx), s.cfg.FetchTimeout,
	)
	defer cancel()

	results := make([][]domain.SourceRecord, len(s.sources))
	ok := make([]bool, len(s.sources))
	var wg sync.WaitGroup
	wg.Add(len(s.sources))
	for i, src := range s.sources {
		go func() {
			defer wg.Done()
			results[i], ok[i] = s.fetchSource(fetchCtx, src, c)
		}()
	}
	wg.Wait()

	var nFailed int
	for _, fetched := range ok {
		if !fetched {
			nFailed++
		}
	}
	return results, nFailed
}

func (s *Service) fetchSource(
	ctx context.Context, src port.ProductSource, c domain.FilterCriteria,
) (records []domain.SourceRecord, ok bool) {
	const op = "Service.fetchSource"
	log := slog.With("op", op, "source", src.Source().String())

	defer func() {
		if r := recover(); r != nil {
			log.Error("source panicked", "panic", r)
			records, ok = nil, false
		}
	}()

	records, err := src.FetchRecords(ctx, c)
	if err != nil {
		log.Error("failed to fetch records, source skipped", "err", err)
		return nil, false
	}
	return records, true
}

func (s *Service) excludeBlocked(products []domain.Product) []domain.Product {
	const op = "Service.excludeBlocked"
	log := slog.With("op", op)

	var nErrs int
	out := products[:0]
	for _, p := range products {
		if p.Name == "" {
			out = append(out, p)
			continue
		}
		blocked, err := s.blocklist.IsBlocked(p.Name)
		if err != nil {
			nErrs++
			out = append(out, p)
			continue
		}
		if !blocked {
			out = append(out, p)
		}
	}
	if nErrs != 0 {
		log.Error("blocklist lookups failed, products kept", "nErrs", nErrs)
	}
	return out
}

// CacheKey builds a deterministic cache key from the normalized query.
func CacheKey(q domain.CatalogQuery) string {
	data, _ := json.Marshal(q)
	sum := md5.Sum(data)
	return cacheKeyPrefix + hex.EncodeToString(sum[:])
}

// canonicalSet lower-cases, sorts and de-duplicates, so equivalent
// queries share a cache key.
func canonicalSet(ss []string) []string {
	out := lowerNonEmpty(ss)
	if len(out) == 0 {
		return nil
	}
	slices.Sort(out)
	return slices.Compact(out)
}

func sampleWarnings(ws []domain.Warning) []string {
	n := min(len(ws), loggedWarnings)
	out := make([]string, n)
	for i := range n {
		out[i] = ws[i].String()
	}
	return out
}

type noCache struct{}

func (noCache) Get(context.Context, string) (domain.CatalogPage, bool) {
	return domain.CatalogPage{}, false
}

func (noCache) Set(context.Context, string, domain.CatalogPage) {}

type allowAll struct{}

func (allowAll) IsBlocked(string) (bool, error) {
	return false, nil
}
