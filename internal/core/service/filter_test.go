package service

import (
	"strings"
	"testing"

	"github.com/niksmo/storefront/internal/core/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFilter(t *testing.T) {
	t.Run("EmptyCriteriaIsIdentity", func(t *testing.T) {
		ps := menswear()
		for _, c := range []domain.FilterCriteria{
			{},
			{Categories: []string{" ", ""}, Colors: []string{""}},
			{SearchTerm: "   "},
		} {
			assert.Equal(t, ps, Filter(ps, c))
		}
	})

	t.Run("SuitsInPriceRange", func(t *testing.T) {
		c := domain.FilterCriteria{
			Categories: []string{"suit"},
			MinPrice:   ptr[int64](20000),
			MaxPrice:   ptr[int64](40000),
		}
		got := Filter(menswear(), c)
		assert.Equal(t, []string{"s1", "s2"}, ids(got))
	})

	t.Run("SearchNavy", func(t *testing.T) {
		ps := []domain.Product{
			product("a", "Navy Classic Suit", "suit", 25000),
			product("b", "Black Tuxedo", "suit", 50000),
		}
		got := Filter(ps, domain.FilterCriteria{SearchTerm: "navy"})
		assert.Equal(t, []string{"a"}, ids(got))
	})

	t.Run("PriceBounds", func(t *testing.T) {
		ranges := [][2]int64{
			{0, 0}, {0, 7000}, {7000, 9000}, {9001, 34999},
			{25000, 50000}, {60000, 100000}, {40000, 20000},
		}
		for _, r := range ranges {
			c := domain.FilterCriteria{MinPrice: &r[0], MaxPrice: &r[1]}
			for _, p := range Filter(menswear(), c) {
				assert.GreaterOrEqual(t, p.Price, r[0])
				assert.LessOrEqual(t, p.Price, r[1])
			}
		}
	})

	t.Run("SearchTermProperty", func(t *testing.T) {
		for _, term := range []string{"navy", "NAVY", "shirt", "trend", "formal", "x"} {
			got := Filter(menswear(), domain.FilterCriteria{SearchTerm: term})
			want := strings.ToLower(term)
			for _, p := range got {
				hit := strings.Contains(strings.ToLower(p.Name), want) ||
					strings.Contains(strings.ToLower(p.Description), want)
				for _, tag := range p.Tags {
					hit = hit || strings.Contains(tag, want)
				}
				assert.True(t, hit, "term %q product %q", term, p.Name)
			}
		}
	})

	t.Run("SearchMatchesDescriptionAndTags", func(t *testing.T) {
		got := Filter(menswear(), domain.FilterCriteria{SearchTerm: "NAVY"})
		assert.Equal(t, []string{"s1", "h1"}, ids(got))

		got = Filter(menswear(), domain.FilterCriteria{SearchTerm: "winter"})
		assert.Equal(t, []string{"s3"}, ids(got))
	})

	t.Run("CategoryIsLooseAndOred", func(t *testing.T) {
		ps := []domain.Product{
			product("a", "A", "Suits", 1),
			product("b", "B", "three-piece-suit", 1),
			product("c", "C", "shirt", 1),
			product("d", "D", "", 1),
		}
		got := Filter(ps, domain.FilterCriteria{Categories: []string{"SUIT"}})
		assert.Equal(t, []string{"a", "b"}, ids(got))

		got = Filter(ps, domain.FilterCriteria{Categories: []string{"suit", "shirt"}})
		assert.Equal(t, []string{"a", "b", "c"}, ids(got))
	})

	t.Run("ColorFallsBackToName", func(t *testing.T) {
		ps := menswear()
		got := Filter(ps, domain.FilterCriteria{Colors: []string{"Grey"}})
		assert.Equal(t, []string{"s2"}, ids(got))

		// the linen shirt lists no colors, its name is searched instead
		got = Filter(ps, domain.FilterCriteria{Colors: []string{"linen"}})
		assert.Equal(t, []string{"h2"}, ids(got))

		got = Filter(ps, domain.FilterCriteria{Colors: []string{"black", "white"}})
		assert.Equal(t, []string{"s3", "h1"}, ids(got))
	})

	t.Run("Flags", func(t *testing.T) {
		ps := menswear()

		got := Filter(ps, domain.FilterCriteria{InStockOnly: true})
		assert.NotContains(t, ids(got), "s3")
		assert.Len(t, got, 4)

		got = Filter(ps, domain.FilterCriteria{TrendingOnly: true})
		assert.Equal(t, []string{"s1", "h2"}, ids(got))

		got = Filter(ps, domain.FilterCriteria{Seasonal: domain.SeasonFall})
		assert.Equal(t, []string{"s2"}, ids(got))
	})

	t.Run("RulesAreAnded", func(t *testing.T) {
		c := domain.FilterCriteria{
			Categories:   []string{"suit"},
			TrendingOnly: true,
			InStockOnly:  true,
		}
		got := Filter(menswear(), c)
		assert.Equal(t, []string{"s1"}, ids(got))
	})

	t.Run("NoMatch", func(t *testing.T) {
		got := Filter(menswear(), domain.FilterCriteria{SearchTerm: "kilt"})
		require.NotNil(t, got)
		assert.Empty(t, got)
	})
}
