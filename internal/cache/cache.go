// Package cache provides a small Redis-backed cache for comment counts.
// The count is a projection recomputed from the comments collection, so a
// short TTL keeps reads cheap without holding stale values for long. A nil
// *CommentCountCache is valid and caches nothing.
package cache

import (
	"context"
	"fmt"
	"log"
	"strconv"
	"time"

	"github.com/s-nagoti/VT-Memegen/internal/config"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

type CommentCountCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewCommentCountCache connects to Redis using the given config. It returns
// nil (cache disabled) when no address is configured.
func NewCommentCountCache(ctx context.Context, cfg config.RedisConfig) (*CommentCountCache, error) {
	if cfg.Addr == "" {
		return nil, nil
	}

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	log.Printf("Connected to Redis at %s", cfg.Addr)
	return &CommentCountCache{client: client, ttl: cfg.TTL}, nil
}

func commentCountKey(postID uuid.UUID) string {
	return "post:" + postID.String() + ":comment_count"
}

// Get returns the cached count for a post. ok is false on a miss, on error,
// or when the cache is disabled.
func (c *CommentCountCache) Get(ctx context.Context, postID uuid.UUID) (int, bool) {
	if c == nil {
		return 0, false
	}
	val, err := c.client.Get(ctx, commentCountKey(postID)).Result()
	if err != nil {
		if err != redis.Nil {
			log.Printf("Redis get failed for post %s: %v", postID, err)
		}
		return 0, false
	}
	count, err := strconv.Atoi(val)
	if err != nil {
		return 0, false
	}
	return count, true
}

// Set stores the count for a post with the configured TTL.
func (c *CommentCountCache) Set(ctx context.Context, postID uuid.UUID, count int) {
	if c == nil {
		return
	}
	if err := c.client.Set(ctx, commentCountKey(postID), count, c.ttl).Err(); err != nil {
		log.Printf("Redis set failed for post %s: %v", postID, err)
	}
}

// Invalidate drops the cached count, forcing the next read to recount.
func (c *CommentCountCache) Invalidate(ctx context.Context, postID uuid.UUID) {
	if c == nil {
		return
	}
	if err := c.client.Del(ctx, commentCountKey(postID)).Err(); err != nil {
		log.Printf("Redis del failed for post %s: %v", postID, err)
	}
}

// Close releases the Redis connection.
func (c *CommentCountCache) Close() error {
	if c == nil {
		return nil
	}
	return c.client.Close()
}
