package storage

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgtype"
	"github.com/niksmo/storefront/internal/core/domain"
	"github.com/niksmo/storefront/internal/core/port"
)

var _ port.ProductSource = (*ProductsRepository)(nil)

const selectProducts = `
	SELECT
		p.id, p.name, p.description, p.price_cents, p.category,
		p.stock, p.is_trending, p.season, p.tags, p.created_at,
		COALESCE((
			SELECT array_agg(v.color ORDER BY v.position, v.id)
			FROM product_variants v
			WHERE v.product_id = p.id AND v.color IS NOT NULL
		), '{}') AS colors,
		COALESCE((
			SELECT array_agg(i.url ORDER BY i.position, i.id)
			FROM product_images i
			WHERE i.product_id = p.id
		), '{}') AS images
	FROM products p`

// A ProductsRepository reads the products table and its variant
// and image tables.
type ProductsRepository struct {
	sqldb sqldb
}

func NewProductsRepository(sqldb sqldb) ProductsRepository {
	return ProductsRepository{sqldb}
}

func (ProductsRepository) Source() domain.Source {
	return domain.SourceDatabase
}

// FetchRecords pushes categories, price range and stock down to SQL.
// Search term, colors, trending and season are left to the caller.
func (r ProductsRepository) FetchRecords(
	ctx context.Context, c domain.FilterCriteria,
) ([]domain.SourceRecord, error) {
	const op = "ProductsRepository.FetchRecords"

	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	query, args := buildProductsQuery(c)
	rows, err := r.sqldb.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to query: %w", op, err)
	}
	defer rows.Close()

	types := pgtype.NewMap()
	var records []domain.SourceRecord
	for rows.Next() {
		var (
			v         domain.DatabaseRecord
			createdAt *time.Time
		)
		err := rows.Scan(
			&v.ID, &v.Name, &v.Description, &v.PriceCents, &v.Category,
			&v.Stock, &v.IsTrending, &v.Season,
			types.SQLScanner(&v.Tags), &createdAt,
			types.SQLScanner(&v.Colors), types.SQLScanner(&v.ImageURLs),
		)
		if err != nil {
			return nil, fmt.Errorf("%s: failed to scan: %w", op, err)
		}
		v.CreatedAt = createdAt
		records = append(records, v)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return records, nil
}

// buildProductsQuery translates the indexed part of the criteria into SQL.
//
// Categories match as case-insensitive substrings, OR-ed together.
// Price bounds compare the price the normalizer would produce,
// so NULL and negative prices behave as zero.
func buildProductsQuery(c domain.FilterCriteria) (string, []any) {
	var (
		conds []string
		args  []any
	)
	arg := func(v any) string {
		args = append(args, v)
		return "$" + strconv.Itoa(len(args))
	}

	var categoryConds []string
	for _, cat := range c.Categories {
		cat = strings.TrimSpace(cat)
		if cat == "" {
			continue
		}
		categoryConds = append(categoryConds,
			"p.category ILIKE '%' || "+arg(escapeLike(cat))+" || '%'",
		)
	}
	if len(categoryConds) != 0 {
		conds = append(conds, "("+strings.Join(categoryConds, " OR ")+")")
	}

	const effectivePrice = "GREATEST(COALESCE(p.price_cents, 0), 0)"
	if c.MinPrice != nil {
		conds = append(conds, effectivePrice+" >= "+arg(*c.MinPrice))
	}
	if c.MaxPrice != nil {
		conds = append(conds, effectivePrice+" <= "+arg(*c.MaxPrice))
	}

	if c.InStockOnly {
		conds = append(conds, "p.stock > 0")
	}

	var b strings.Builder
	b.WriteString(selectProducts)
	if len(conds) != 0 {
		b.WriteString("\n\tWHERE ")
		b.WriteString(strings.Join(conds, " AND "))
	}
	b.WriteString("\n\tORDER BY p.created_at DESC NULLS LAST, p.id;")
	return b.String(), args
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}
