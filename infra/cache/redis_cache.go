package cache

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"log/slog"

	"github.com/amirasaad/accounts/pkg/cache"
	"github.com/amirasaad/accounts/pkg/domain/account"
	"github.com/redis/go-redis/v9"
)

// RedisAccountCache implements AccountCache using Redis.
type RedisAccountCache struct {
	client *redis.Client
	prefix string
	logger *slog.Logger
}

// NewRedisAccountCache creates a new RedisAccountCache on an existing client.
func NewRedisAccountCache(
	client *redis.Client,
	prefix string,
	logger *slog.Logger,
) *RedisAccountCache {
	if logger == nil {
		logger = slog.Default()
	}
	return &RedisAccountCache{client: client, prefix: prefix, logger: logger}
}

// NewRedisAccountCacheWithOptions creates a new RedisAccountCache
// from redis.Options.
func NewRedisAccountCacheWithOptions(
	opt *redis.Options,
	prefix string,
	logger *slog.Logger,
) *RedisAccountCache {
	return NewRedisAccountCache(redis.NewClient(opt), prefix, logger)
}

func (r *RedisAccountCache) key(key string) string {
	return r.prefix + key
}

func (r *RedisAccountCache) Get(ctx context.Context, key string) (*account.Account, error) {
	val, err := r.client.Get(ctx, r.key(key)).Result()
	if errors.Is(err, redis.Nil) {
		r.logger.Debug("Redis cache miss", "key", key)
		return nil, nil
	}
	if err != nil {
		r.logger.Error("Redis cache get error", "key", key, "error", err)
		return nil, err
	}
	var acc account.Account
	if err := json.Unmarshal([]byte(val), &acc); err != nil {
		r.logger.Error("Redis cache unmarshal error", "key", key, "error", err)
		return nil, err
	}
	r.logger.Debug("Redis cache hit", "key", key, "id", acc.ID)
	return &acc, nil
}

func (r *RedisAccountCache) Set(
	ctx context.Context,
	key string,
	acc *account.Account,
	ttl time.Duration,
) error {
	data, err := json.Marshal(acc)
	if err != nil {
		r.logger.Error("Redis cache marshal error", "key", key, "error", err)
		return err
	}
	if err = r.client.Set(ctx, r.key(key), data, ttl).Err(); err != nil {
		r.logger.Error("Redis cache set error", "key", key, "error", err)
		return err
	}
	r.logger.Debug("Redis cache set", "key", key, "id", acc.ID, "ttl", ttl)
	return nil
}

func (r *RedisAccountCache) Delete(ctx context.Context, key string) error {
	if err := r.client.Del(ctx, r.key(key)).Err(); err != nil {
		r.logger.Error("Redis cache delete error", "key", key, "error", err)
		return err
	}
	r.logger.Debug("Redis cache delete", "key", key)
	return nil
}

var _ cache.AccountCache = (*RedisAccountCache)(nil)
