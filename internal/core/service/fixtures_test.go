package service

import (
	"strings"
	"time"

	"github.com/niksmo/storefront/internal/core/domain"
)

const testPlaceholder = "/images/placeholder.svg"

// stubImages resolves relative paths onto a test CDN and rejects
// everything that is not http.
type stubImages struct{}

func (stubImages) Resolve(name, raw string) string {
	raw = strings.TrimSpace(raw)
	switch {
	case raw == "":
		return testPlaceholder
	case strings.HasPrefix(raw, "/"):
		return "https://cdn.test" + raw
	case strings.HasPrefix(raw, "http"):
		return raw
	default:
		return testPlaceholder
	}
}

func (stubImages) Placeholder(string) string {
	return testPlaceholder
}

func ptr[T any](v T) *T {
	return &v
}

func at(day int) *time.Time {
	t := time.Date(2024, time.March, day, 10, 0, 0, 0, time.UTC)
	return &t
}

func product(id, name, category string, price int64) domain.Product {
	return domain.Product{
		ID:       id,
		Name:     name,
		Category: category,
		Price:    price,
		InStock:  true,
		Source:   domain.SourceDatabase,
	}
}

// menswear is the shared catalog fixture.
func menswear() []domain.Product {
	navy := product("s1", "Navy Classic Suit", "suit", 25000)
	navy.Colors = []string{"navy"}
	navy.Tags = []string{"formal", "spring", "trending"}
	navy.CreatedAt = at(3)

	charcoal := product("s2", "Charcoal Slim Suit", "suit", 35000)
	charcoal.Colors = []string{"charcoal", "grey"}
	charcoal.Tags = []string{"business", "fall"}
	charcoal.CreatedAt = at(5)

	tux := product("s3", "Black Tuxedo", "suit", 50000)
	tux.Colors = []string{"black"}
	tux.Tags = []string{"formal", "winter"}
	tux.InStock = false
	tux.CreatedAt = at(1)

	oxford := product("h1", "White Oxford Shirt", "shirt", 7000)
	oxford.Colors = []string{"white"}
	oxford.Description = "Crisp cotton shirt for navy and charcoal suits"
	oxford.CreatedAt = at(4)

	linen := product("h2", "Linen Camp Shirt", "shirt", 9000)
	linen.Tags = []string{"summer", "trending"}
	linen.CreatedAt = at(2)

	return []domain.Product{navy, charcoal, tux, oxford, linen}
}

func ids(ps []domain.Product) []string {
	out := make([]string, len(ps))
	for i, p := range ps {
		out[i] = p.ID
	}
	return out
}
