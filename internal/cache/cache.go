// internal/cache/cache.go
package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/shrimpsizemoose/trekker/logger"
)

const entityKeyTpl = "entity:%s:%s" // entity:${kind}:${id}

// EntityCache memoizes hierarchy entities by natural id so snapshot
// denormalization does not hammer the live tables on every answer. A
// disabled cache is always a miss; lookups must fall through to the store.
// External CRUD writers are expected to call Invalidate on every write.
type EntityCache struct {
	enabled bool
	redis   *redis.Client
	ttl     time.Duration
}

func New(redisURL string, ttl time.Duration) (*EntityCache, error) {
	if redisURL == "" {
		return &EntityCache{enabled: false}, nil
	}

	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse redis URL: %w", err)
	}

	client := redis.NewClient(opt)
	if err := client.Ping(context.Background()).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	return &EntityCache{
		enabled: true,
		redis:   client,
		ttl:     ttl,
	}, nil
}

func (c *EntityCache) Close() error {
	if c == nil || c.redis == nil {
		return nil
	}
	return c.redis.Close()
}

// Get unmarshals the cached entity into dest. Returns false on miss or any
// redis failure; a broken cache must never fail a submission.
func (c *EntityCache) Get(ctx context.Context, kind, id string, dest any) bool {
	if c == nil || !c.enabled {
		return false
	}

	key := fmt.Sprintf(entityKeyTpl, kind, id)
	data, err := c.redis.Get(ctx, key).Bytes()
	if err == redis.Nil {
		return false
	}
	if err != nil {
		logger.Debug.Printf("Cache read failed for %s: %v", key, err)
		return false
	}

	if err := json.Unmarshal(data, dest); err != nil {
		logger.Debug.Printf("Cache entry for %s is corrupt, dropping: %v", key, err)
		c.redis.Del(ctx, key)
		return false
	}
	return true
}

func (c *EntityCache) Put(ctx context.Context, kind, id string, entity any) {
	if c == nil || !c.enabled {
		return
	}

	data, err := json.Marshal(entity)
	if err != nil {
		logger.Debug.Printf("Failed to marshal %s/%s for cache: %v", kind, id, err)
		return
	}

	key := fmt.Sprintf(entityKeyTpl, kind, id)
	if err := c.redis.Set(ctx, key, data, c.ttl).Err(); err != nil {
		logger.Debug.Printf("Cache write failed for %s: %v", key, err)
	}
}

// Invalidate drops a cached entity. CRUD flows that mutate hierarchy rows
// call this on every write path.
func (c *EntityCache) Invalidate(ctx context.Context, kind, id string) error {
	if c == nil || !c.enabled {
		return nil
	}

	key := fmt.Sprintf(entityKeyTpl, kind, id)
	if err := c.redis.Del(ctx, key).Err(); err != nil {
		return fmt.Errorf("failed to invalidate %s: %w", key, err)
	}
	return nil
}
