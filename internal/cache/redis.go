package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	models "quizbank/internal/domain/models/quizbank"
	quizSvc "quizbank/internal/domain/services/quizbank"
)

// RedisRosterCache stores rosters as JSON values so several server replicas
// share one cache. Keys are namespaced by table prefix.
type RedisRosterCache struct {
	client *redis.Client
	prefix string
	ttl    time.Duration
}

// NewRedisClient parses a redis:// or rediss:// URL and checks connectivity
func NewRedisClient(ctx context.Context, redisURL string) (*redis.Client, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}
	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("ping redis: %w", err)
	}
	return client, nil
}

// NewRedisRosterCache creates a Redis-backed roster cache. A zero TTL stores
// entries without expiry.
func NewRedisRosterCache(client *redis.Client, tablePrefix string, ttl time.Duration) *RedisRosterCache {
	return &RedisRosterCache{
		client: client,
		prefix: fmt.Sprintf("quizbank:roster:%s", tablePrefix),
		ttl:    ttl,
	}
}

var _ quizSvc.RosterCache = (*RedisRosterCache)(nil)

func (c *RedisRosterCache) key(folderID string) string {
	return c.prefix + folderID
}

func (c *RedisRosterCache) Get(ctx context.Context, folderID string) ([]models.Question, bool, error) {
	data, err := c.client.Get(ctx, c.key(folderID)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("redis get roster: %w", err)
	}

	roster := []models.Question{}
	if err := json.Unmarshal(data, &roster); err != nil {
		return nil, false, fmt.Errorf("decode roster: %w", err)
	}
	return roster, true, nil
}

func (c *RedisRosterCache) Set(ctx context.Context, folderID string, roster []models.Question) error {
	if roster == nil {
		roster = []models.Question{}
	}
	data, err := json.Marshal(roster)
	if err != nil {
		return fmt.Errorf("encode roster: %w", err)
	}
	return c.client.Set(ctx, c.key(folderID), data, c.ttl).Err()
}

func (c *RedisRosterCache) Invalidate(ctx context.Context, folderID string) error {
	return c.client.Del(ctx, c.key(folderID)).Err()
}

// InvalidateAll deletes every roster key under this cache's prefix
func (c *RedisRosterCache) InvalidateAll(ctx context.Context) error {
	iter := c.client.Scan(ctx, 0, c.prefix+"*", 100).Iterator()
	var keys []string
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
		if len(keys) == 100 {
			if err := c.client.Del(ctx, keys...).Err(); err != nil {
				return fmt.Errorf("redis delete rosters: %w", err)
			}
			keys = keys[:0]
		}
	}
	if err := iter.Err(); err != nil {
		return fmt.Errorf("redis scan rosters: %w", err)
	}
	if len(keys) > 0 {
		if err := c.client.Del(ctx, keys...).Err(); err != nil {
			return fmt.Errorf("redis delete rosters: %w", err)
		}
	}
	return nil
}
