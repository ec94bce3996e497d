package service

import (
	"fmt"
	"testing"

	"github.com/niksmo/storefront/internal/core/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMerge(t *testing.T) {
	db := []domain.Product{
		product("1", "Navy Classic Suit", "suit", 25000),
		product("2", "Charcoal Slim Suit", "suit", 35000),
		product("1", "Navy Classic Suit (dup)", "suit", 1),
	}
	bundle := product("1", "Wedding Ready Bundle", "suit-bundle", 89900)
	bundle.Source = domain.SourceCuratedBundle

	got := Merge(db, []domain.Product{bundle})

	require.Len(t, got, 3)
	assert.Equal(t, "Navy Classic Suit", got[0].Name, "first occurrence wins")
	assert.Equal(t, "2", got[1].ID)
	assert.Equal(t, domain.SourceCuratedBundle, got[2].Source,
		"equal ids from different sources are both kept")

	assert.Empty(t, Merge())
}

func TestSortProducts(t *testing.T) {
	t.Run("PriceAsc", func(t *testing.T) {
		ps := menswear()
		SortProducts(ps, domain.Sort{Key: domain.SortByPrice, Order: domain.SortAsc})
		assert.Equal(t, []string{"h1", "h2", "s1", "s2", "s3"}, ids(ps))
	})

	t.Run("PriceDesc", func(t *testing.T) {
		ps := menswear()
		SortProducts(ps, domain.Sort{Key: domain.SortByPrice, Order: domain.SortDesc})
		assert.Equal(t, []string{"s3", "s2", "s1", "h2", "h1"}, ids(ps))
	})

	t.Run("NameIgnoresCase", func(t *testing.T) {
		ps := []domain.Product{
			product("1", "bow tie", "", 0),
			product("2", "Ascot", "", 0),
			product("3", "Cufflinks", "", 0),
		}
		SortProducts(ps, domain.Sort{Key: domain.SortByName, Order: domain.SortAsc})
		assert.Equal(t, []string{"2", "1", "3"}, ids(ps))
	})

	t.Run("RecencyDesc", func(t *testing.T) {
		ps := menswear()
		SortProducts(ps, domain.DefaultSort())
		assert.Equal(t, []string{"s2", "h1", "s1", "h2", "s3"}, ids(ps))
	})

	t.Run("UndatedLastBothWays", func(t *testing.T) {
		bundle := product("b", "Wedding Ready Bundle", "suit-bundle", 89900)
		bundle.Source = domain.SourceCuratedBundle

		for _, order := range []domain.SortOrder{domain.SortAsc, domain.SortDesc} {
			ps := append([]domain.Product{bundle}, menswear()...)
			SortProducts(ps, domain.Sort{Key: domain.SortByRecency, Order: order})
			assert.Equal(t, "b", ps[len(ps)-1].ID, "order %s", order)
		}
	})

	t.Run("TiesKeepMergeOrder", func(t *testing.T) {
		ps := []domain.Product{
			product("1", "A", "", 100),
			product("2", "B", "", 50),
			product("3", "C", "", 100),
			product("4", "D", "", 100),
		}
		SortProducts(ps, domain.Sort{Key: domain.SortByPrice, Order: domain.SortDesc})
		assert.Equal(t, []string{"1", "3", "4", "2"}, ids(ps))
	})
}

func TestPaginate(t *testing.T) {
	catalog := make([]domain.Product, 17)
	for i := range catalog {
		catalog[i] = product(fmt.Sprint(i), fmt.Sprint("p", i), "", int64(i))
	}

	t.Run("PagesCoverSetExactlyOnce", func(t *testing.T) {
		for limit := 1; limit <= 20; limit++ {
			_, _, totalPages := Paginate(catalog, domain.PageRequest{Page: 1, Limit: limit})

			var all []domain.Product
			for page := 1; page <= totalPages; page++ {
				items, got, _ := Paginate(catalog, domain.PageRequest{Page: page, Limit: limit})
				assert.Equal(t, page, got)
				assert.LessOrEqual(t, len(items), limit)
				all = append(all, items...)
			}
			assert.Equal(t, catalog, all, "limit %d", limit)
		}
	})

	t.Run("Counts", func(t *testing.T) {
		items, page, totalPages := Paginate(catalog, domain.PageRequest{Page: 4, Limit: 5})
		assert.Equal(t, 4, page)
		assert.Equal(t, 4, totalPages)
		assert.Equal(t, []string{"15", "16"}, ids(items))
	})

	t.Run("PageBeyondEnd", func(t *testing.T) {
		items, page, totalPages := Paginate(catalog, domain.PageRequest{Page: 9, Limit: 5})
		require.NotNil(t, items)
		assert.Empty(t, items)
		assert.Equal(t, 9, page)
		assert.Equal(t, 4, totalPages)

		items, _, _ = Paginate(catalog, domain.PageRequest{Page: int(^uint(0) >> 1), Limit: 5})
		assert.Empty(t, items)
	})

	t.Run("Defaults", func(t *testing.T) {
		items, page, totalPages := Paginate(catalog, domain.PageRequest{Page: -3})
		assert.Equal(t, 1, page)
		assert.Equal(t, 1, totalPages)
		assert.Len(t, items, 17)
	})

	t.Run("EmptySet", func(t *testing.T) {
		items, page, totalPages := Paginate(nil, domain.PageRequest{Page: 1, Limit: 10})
		assert.Empty(t, items)
		assert.Equal(t, 1, page)
		assert.Equal(t, 0, totalPages)
	})
}
