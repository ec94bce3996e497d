package cache

import (
	"context"
	"net"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/niksmo/storefront/internal/core/domain"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testPage() domain.CatalogPage {
	created := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	return domain.CatalogPage{
		Products: []domain.Product{{
			ID:        "42",
			Name:      "Navy Classic Suit",
			Price:     25000,
			Category:  "suit",
			Colors:    []string{"navy"},
			Tags:      []string{"formal"},
			Images:    []string{"https://cdn.test/42.jpg"},
			InStock:   true,
			Source:    domain.SourceDatabase,
			CreatedAt: &created,
		}},
		TotalCount:  1,
		CurrentPage: 1,
		TotalPages:  1,
		Facets: domain.Facets{
			Categories:   []domain.FacetCount{{Label: "suit", Count: 1}},
			Colors:       []domain.FacetCount{{Label: "navy", Count: 1}},
			PriceBuckets: []domain.FacetCount{{Label: "25000-25000", Count: 1}},
		},
	}
}

func TestNormalizeTTL(t *testing.T) {
	assert.Equal(t, DefaultTTL, NormalizeTTL(0))
	assert.Equal(t, DefaultTTL, NormalizeTTL(-time.Second))
	assert.Equal(t, 10*time.Second, NormalizeTTL(10*time.Second))
	assert.Equal(t, MaxTTL, NormalizeTTL(time.Hour))
}

func TestNop(t *testing.T) {
	var c Nop
	c.Set(t.Context(), "k", testPage())
	_, ok := c.Get(t.Context(), "k")
	assert.False(t, ok)
}

func TestMemory(t *testing.T) {
	newMemory := func() (*Memory, *time.Time) {
		now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
		m := NewMemory(10 * time.Second)
		m.now = func() time.Time { return now }
		return m, &now
	}

	t.Run("HitWithinTTL", func(t *testing.T) {
		m, now := newMemory()
		m.Set(t.Context(), "k", testPage())

		*now = now.Add(9 * time.Second)
		got, ok := m.Get(t.Context(), "k")
		require.True(t, ok)
		assert.Equal(t, testPage(), got)
	})

	t.Run("Miss", func(t *testing.T) {
		m, _ := newMemory()
		_, ok := m.Get(t.Context(), "absent")
		assert.False(t, ok)
	})

	t.Run("ExpiresOnRead", func(t *testing.T) {
		m, now := newMemory()
		m.Set(t.Context(), "k", testPage())

		*now = now.Add(10 * time.Second)
		_, ok := m.Get(t.Context(), "k")
		assert.False(t, ok)
		assert.Equal(t, 0, m.Len())
	})

	t.Run("SweepOnWrite", func(t *testing.T) {
		m, now := newMemory()
		m.Set(t.Context(), "a", testPage())
		m.Set(t.Context(), "b", testPage())

		*now = now.Add(time.Minute)
		m.Set(t.Context(), "c", testPage())
		assert.Equal(t, 1, m.Len())
	})

	t.Run("TTLClamped", func(t *testing.T) {
		assert.Equal(t, MaxTTL, NewMemory(time.Hour).ttl)
	})
}

func TestRedis(t *testing.T) {
	newRedis := func(t *testing.T) (*Redis, *miniredis.Miniredis) {
		t.Helper()
		mr := miniredis.RunT(t)
		client := redis.NewClient(RedisOptions(mr.Addr()))
		t.Cleanup(func() { _ = client.Close() })
		return NewRedis(client, 20*time.Second), mr
	}

	// newHungRedis accepts connections and never replies.
	newHungRedis := func(t *testing.T) *Redis {
		t.Helper()
		ln, err := net.Listen("tcp", "127.0.0.1:0")
		require.NoError(t, err)
		t.Cleanup(func() { _ = ln.Close() })
		go func() {
			var conns []net.Conn
			for {
				conn, err := ln.Accept()
				if err != nil {
					for _, c := range conns {
						_ = c.Close()
					}
					return
				}
				conns = append(conns, conn)
			}
		}()
		client := redis.NewClient(RedisOptions(ln.Addr().String()))
		t.Cleanup(func() { _ = client.Close() })
		return NewRedis(client, 20*time.Second, WithOpTimeout(50*time.Millisecond))
	}

	t.Run("SetGet", func(t *testing.T) {
		c, mr := newRedis(t)
		c.Set(t.Context(), "k", testPage())

		assert.True(t, mr.Exists(redisKeyPrefix+"k"))
		got, ok := c.Get(t.Context(), "k")
		require.True(t, ok)
		assert.Equal(t, testPage(), got)
	})

	t.Run("Expires", func(t *testing.T) {
		c, mr := newRedis(t)
		c.Set(t.Context(), "k", testPage())

		assert.Equal(t, 20*time.Second, mr.TTL(redisKeyPrefix+"k"))
		mr.FastForward(21 * time.Second)

		_, ok := c.Get(t.Context(), "k")
		assert.False(t, ok)
	})

	t.Run("Miss", func(t *testing.T) {
		c, _ := newRedis(t)
		_, ok := c.Get(t.Context(), "absent")
		assert.False(t, ok)
	})

	t.Run("CorruptValue", func(t *testing.T) {
		c, mr := newRedis(t)
		require.NoError(t, mr.Set(redisKeyPrefix+"k", "{not json"))

		_, ok := c.Get(t.Context(), "k")
		assert.False(t, ok)
	})

	t.Run("ServerDown", func(t *testing.T) {
		c, mr := newRedis(t)
		mr.Close()

		c.Set(t.Context(), "k", testPage())
		_, ok := c.Get(t.Context(), "k")
		assert.False(t, ok)
	})
	t.Run("HungServerGetIsBoundedMiss", func(t *testing.T) {
		c := newHungRedis(t)

		start := time.Now()
		_, ok := c.Get(t.Context(), "k")
		assert.False(t, ok)
		assert.True(t, time.Since(start) < 2*time.Second)
	})

	t.Run("HungServerSetIsBounded", func(t *testing.T) {
		c := newHungRedis(t)

		start := time.Now()
		c.Set(t.Context(), "k", testPage())
		assert.True(t, time.Since(start) < 2*time.Second)
	})

	t.Run("SetOutlivesCallerDeadline", func(t *testing.T) {
		c, mr := newRedis(t)
		ctx, cancel := context.WithCancel(t.Context())
		cancel()

		c.Set(ctx, "k", testPage())
		assert.True(t, mr.Exists(redisKeyPrefix+"k"))
	})
}
