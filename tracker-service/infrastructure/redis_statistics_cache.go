package infrastructure

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/draftea/saga-tracker/tracker-service/domain"
	"github.com/pkg/errors"
	"github.com/redis/go-redis/v9"
)

var _ domain.StatisticsCache = (*RedisStatisticsCache)(nil)

// RedisCmdable is the part of the go-redis client the cache needs
type RedisCmdable interface {
	Get(ctx context.Context, key string) *redis.StringCmd
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd
}

// RedisStatisticsCache stores computed statistics as JSON under a service prefix
type RedisStatisticsCache struct {
	client      RedisCmdable
	serviceName string
}

// NewRedisStatisticsCache creates a new RedisStatisticsCache
func NewRedisStatisticsCache(client RedisCmdable, serviceName string) *RedisStatisticsCache {
	return &RedisStatisticsCache{
		client:      client,
		serviceName: serviceName,
	}
}

// NewRedisClient creates a go-redis client for addr
func NewRedisClient(addr, password string, db int) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
}

// Get returns nil, nil on a miss
func (c *RedisStatisticsCache) Get(ctx context.Context, key string) (*domain.SagaStatistics, error) {
	raw, err := c.client.Get(ctx, c.generateKey(key)).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, errors.Wrap(err, "failed to read statistics from redis")
	}

	var stats domain.SagaStatistics
	if err := json.Unmarshal(raw, &stats); err != nil {
		return nil, errors.Wrap(err, "failed to decode cached statistics")
	}
	return &stats, nil
}

func (c *RedisStatisticsCache) Set(ctx context.Context, key string, stats *domain.SagaStatistics, ttl time.Duration) error {
	raw, err := json.Marshal(stats)
	if err != nil {
		return errors.Wrap(err, "failed to encode statistics")
	}
	if err := c.client.Set(ctx, c.generateKey(key), raw, ttl).Err(); err != nil {
		return errors.Wrap(err, "failed to write statistics to redis")
	}
	return nil
}

func (c *RedisStatisticsCache) generateKey(key string) string {
	return fmt.Sprintf("%s:%s", c.serviceName, key)
}
