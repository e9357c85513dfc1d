package initializer

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/amirasaad/accounts/infra"
	infra_cache "github.com/amirasaad/accounts/infra/cache"
	infra_eventbus "github.com/amirasaad/accounts/infra/eventbus"
	"github.com/amirasaad/accounts/pkg/app"
	"github.com/amirasaad/accounts/pkg/cache"
	"github.com/amirasaad/accounts/pkg/config"
	"github.com/amirasaad/accounts/pkg/eventbus"
	"github.com/redis/go-redis/v9"
)

const (
	DriverMemory = "memory"
	DriverRedis  = "redis"
	DriverKafka  = "kafka"
	DriverNone   = "none"
)

// InitializeDependencies initializes all the application dependencies
func InitializeDependencies(cfg *config.App) (
	deps *app.Deps,
	err error,
) {
	d := &app.Deps{}
	logger := setupLogger(cfg.Log)
	d.Logger = logger
	defer func() {
		if err != nil {
			_ = d.Close()
		}
	}()

	// Initialize database
	db, err := infra.NewDBConnection(cfg.DB, cfg.Env)
	if err != nil {
		logger.Error("Failed to initialize database", "error", err)
		return nil, err
	}
	if sqlDB, dbErr := db.DB(); dbErr == nil {
		d.Closers = append(d.Closers, sqlDB)
	}

	// Initialize unit of work
	d.Uow = infra.NewUoW(db)

	clients := &redisClients{cfg: cfg.Redis, deps: d}

	d.Cache, err = initCache(cfg, clients, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize account cache: %w", err)
	}

	d.EventBus, err = initEventBus(cfg, clients, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize event bus: %w", err)
	}
	return d, nil
}

// redisClients hands out a single Redis client shared by the cache and the
// event bus.
type redisClients struct {
	cfg    *config.Redis
	deps   *app.Deps
	client *redis.Client
}

func (r *redisClients) get() (*redis.Client, error) {
	if r.client != nil {
		return r.client, nil
	}
	if r.cfg == nil || r.cfg.URL == "" {
		return nil, fmt.Errorf("REDIS_URL is not set")
	}
	opt, err := redis.ParseURL(r.cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("invalid REDIS_URL: %w", err)
	}
	if r.cfg.PoolSize > 0 {
		opt.PoolSize = r.cfg.PoolSize
	}
	if r.cfg.DialTimeout > 0 {
		opt.DialTimeout = r.cfg.DialTimeout
	}
	if r.cfg.ReadTimeout > 0 {
		opt.ReadTimeout = r.cfg.ReadTimeout
	}
	if r.cfg.WriteTimeout > 0 {
		opt.WriteTimeout = r.cfg.WriteTimeout
	}
	client := redis.NewClient(opt)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis connection failed: %w", err)
	}
	r.client = client
	r.deps.Closers = append(r.deps.Closers, client)
	return client, nil
}

// initCache builds the account cache for cfg.Cache.Driver. An unreachable
// Redis falls back to the in-memory cache.
func initCache(cfg *config.App, clients *redisClients, logger *slog.Logger) (cache.AccountCache, error) {
	driver, prefix := DriverMemory, "accounts:"
	if cfg.Cache != nil {
		driver = strings.ToLower(strings.TrimSpace(cfg.Cache.Driver))
		prefix = cfg.Cache.Prefix
	}
	switch driver {
	case "", DriverMemory:
		return newMemoryCache(clients.deps), nil
	case DriverNone:
		return infra_cache.NoopCache{}, nil
	case DriverRedis:
		client, err := clients.get()
		if err != nil {
			if cfg.Redis == nil || cfg.Redis.URL == "" {
				return nil, err
			}
			logger.Warn("Redis cache unavailable, falling back to memory cache", "error", err)
			return newMemoryCache(clients.deps), nil
		}
		logger.Info("Using Redis account cache", "prefix", prefix)
		return infra_cache.NewRedisAccountCache(client, prefix, logger), nil
	default:
		return nil, fmt.Errorf("unsupported cache driver %q", driver)
	}
}

func newMemoryCache(deps *app.Deps) cache.AccountCache {
	c := infra_cache.NewMemoryCache()
	deps.Closers = append(deps.Closers, closerFunc(func() error {
		c.Close()
		return nil
	}))
	return c
}

// initEventBus builds the bus for cfg.EventBus.Driver. A configured but
// unreachable broker falls back to the in-memory bus.
func initEventBus(cfg *config.App, clients *redisClients, logger *slog.Logger) (eventbus.Bus, error) {
	driver := DriverMemory
	if cfg.EventBus != nil {
		driver = strings.ToLower(strings.TrimSpace(cfg.EventBus.Driver))
	}
	switch driver {
	case "", DriverMemory:
		return infra_eventbus.NewWithMemory(logger), nil
	case DriverRedis:
		client, err := clients.get()
		if err != nil {
			if cfg.Redis == nil || cfg.Redis.URL == "" {
				return nil, err
			}
			logger.Warn("Redis event bus unavailable, falling back to memory bus", "error", err)
			return infra_eventbus.NewWithMemory(logger), nil
		}
		stream := "accounts:events"
		if cfg.EventBus != nil && cfg.EventBus.Stream != "" {
			stream = cfg.EventBus.Stream
		}
		bus, err := infra_eventbus.NewWithRedis(client, stream, logger)
		if err != nil {
			logger.Warn("Redis event bus unavailable, falling back to memory bus", "error", err)
			return infra_eventbus.NewWithMemory(logger), nil
		}
		clients.deps.Closers = append(clients.deps.Closers, bus)
		logger.Info("Using Redis event bus", "stream", stream)
		return bus, nil
	case DriverKafka:
		if cfg.Kafka == nil || len(cfg.Kafka.Brokers) == 0 {
			return nil, fmt.Errorf("KAFKA_BROKERS is not set")
		}
		bus, err := infra_eventbus.NewWithKafka(cfg.Kafka.Brokers, logger, &infra_eventbus.KafkaEventBusConfig{
			GroupID:     cfg.Kafka.GroupID,
			TopicPrefix: cfg.Kafka.Topic,
		})
		if err != nil {
			logger.Warn("Kafka event bus unavailable, falling back to memory bus", "error", err)
			return infra_eventbus.NewWithMemory(logger), nil
		}
		clients.deps.Closers = append(clients.deps.Closers, bus)
		logger.Info("Using Kafka event bus", "brokers", cfg.Kafka.Brokers, "topic_prefix", cfg.Kafka.Topic)
		return bus, nil
	default:
		return nil, fmt.Errorf("unsupported event bus driver %q", driver)
	}
}

type closerFunc func() error

func (f closerFunc) Close() error { return f() }

var _ io.Closer = closerFunc(nil)
