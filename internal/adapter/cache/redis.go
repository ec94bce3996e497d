package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/niksmo/storefront/internal/core/domain"
	"github.com/niksmo/storefront/internal/core/port"
	"github.com/redis/go-redis/v9"
)

var _ port.ResultCache = (*Redis)(nil)

const (
	redisKeyPrefix        = "storefront:"
	defaultRedisOpTimeout = 200 * time.Millisecond
	redisIOTimeout        = 500 * time.Millisecond
	redisMaxRetries       = 1
)

// A Redis stores pages as JSON with a server side expiry.
//
// Redis failures, slow replies included, are logged and behave as a miss.
type Redis struct {
	client    redis.UniversalClient
	ttl       time.Duration
	opTimeout time.Duration
}

type RedisOption func(*Redis)

// WithOpTimeout bounds every Get and Set call.
func WithOpTimeout(d time.Duration) RedisOption {
	return func(r *Redis) {
		if d > 0 {
			r.opTimeout = d
		}
	}
}

func NewRedis(
	client redis.UniversalClient, ttl time.Duration, opts ...RedisOption,
) *Redis {
	r := &Redis{
		client:    client,
		ttl:       NormalizeTTL(ttl),
		opTimeout: defaultRedisOpTimeout,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// RedisOptions returns client options that honor context deadlines and
// keep socket waits and retries short.
func RedisOptions(addr string) *redis.Options {
	return &redis.Options{
		Addr:                  addr,
		DialTimeout:           redisIOTimeout,
		ReadTimeout:           redisIOTimeout,
		WriteTimeout:          redisIOTimeout,
		MaxRetries:            redisMaxRetries,
		ContextTimeoutEnabled: true,
	}
}

// DialRedis connects to addr and checks the connection.
func DialRedis(ctx context.Context, addr string) (*redis.Client, error) {
	const op = "cache.DialRedis"

	client := redis.NewClient(RedisOptions(addr))
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return client, nil
}

func (r *Redis) Get(ctx context.Context, key string) (domain.CatalogPage, bool) {
	const op = "Redis.Get"

	ctx, cancel := context.WithTimeout(ctx, r.opTimeout)
	defer cancel()

	data, err := r.client.Get(ctx, redisKeyPrefix+key).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			slog.Warn("failed to get cached page", "op", op, "err", err)
		}
		return domain.CatalogPage{}, false
	}

	var page domain.CatalogPage
	if err := json.Unmarshal(data, &page); err != nil {
		slog.Warn("failed to decode cached page", "op", op, "err", err)
		return domain.CatalogPage{}, false
	}
	return page, true
}

// Set outlives the caller deadline and is bounded by its own timeout.
func (r *Redis) Set(ctx context.Context, key string, page domain.CatalogPage) {
	const op = "Redis.Set"

	data, err := json.Marshal(page)
	if err != nil {
		slog.Warn("failed to encode page", "op", op, "err", err)
		return
	}

	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), r.opTimeout)
	defer cancel()

	err = r.client.Set(ctx, redisKeyPrefix+key, data, r.ttl).Err()
	if err != nil {
		slog.Warn("failed to cache page", "op", op, "err", err)
	}
}
