package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/utafrali/wishlist/internal/domain"
	"github.com/utafrali/wishlist/internal/repository"
)

const (
	// ListKey is the key holding the cached item list.
	ListKey = "wishlist:items"

	// GenerationKey counts list invalidations. It has no TTL.
	GenerationKey = "wishlist:items:gen"
)

// ListCache implements repository.ItemListCache using Redis.
type ListCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewListCache creates a new Redis-backed list cache.
func NewListCache(client *redis.Client, ttl time.Duration) *ListCache {
	return &ListCache{
		client: client,
		ttl:    ttl,
	}
}

// Get returns the cached list, or ok=false on a miss.
func (c *ListCache) Get(ctx context.Context) ([]domain.Item, bool, error) {
	data, err := c.client.Get(ctx, ListKey).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("redis get item list: %w", err)
	}

	var items []domain.Item
	if err := json.Unmarshal(data, &items); err != nil {
		return nil, false, fmt.Errorf("unmarshal item list: %w", err)
	}
	return items, true, nil
}

// Generation returns the invalidation counter. A missing key is generation 0.
func (c *ListCache) Generation(ctx context.Context) (int64, error) {
	gen, err := parseGeneration(c.client.Get(ctx, GenerationKey))
	if err != nil {
		return 0, fmt.Errorf("redis get item list generation: %w", err)
	}
	return gen, nil
}

// Set stores the list with the configured TTL. The write happens inside a
// WATCH on GenerationKey, so an Invalidate that lands after gen was read
// turns it into ErrStaleList.
func (c *ListCache) Set(ctx context.Context, gen int64, items []domain.Item) error {
	if items == nil {
		items = []domain.Item{}
	}
	data, err := json.Marshal(items)
	if err != nil {
		return fmt.Errorf("marshal item list: %w", err)
	}

	err = c.client.Watch(ctx, func(tx *redis.Tx) error {
		cur, err := parseGeneration(tx.Get(ctx, GenerationKey))
		if err != nil {
			return err
		}
		if cur != gen {
			return repository.ErrStaleList
		}
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, ListKey, data, c.ttl)
			return nil
		})
		return err
	}, GenerationKey)

	switch {
	case err == nil:
		return nil
	case errors.Is(err, repository.ErrStaleList):
		return err
	case errors.Is(err, redis.TxFailedErr):
		return repository.ErrStaleList
	default:
		return fmt.Errorf("redis set item list: %w", err)
	}
}

// Invalidate removes the cached list and bumps the generation in one transaction.
func (c *ListCache) Invalidate(ctx context.Context) error {
	_, err := c.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Incr(ctx, GenerationKey)
		pipe.Del(ctx, ListKey)
		return nil
	})
	if err != nil {
		return fmt.Errorf("redis invalidate item list: %w", err)
	}
	return nil
}

func parseGeneration(cmd *redis.StringCmd) (int64, error) {
	gen, err := cmd.Int64()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	return gen, err
}

// Ping checks the Redis connection. It is used as a readiness check.
func (c *ListCache) Ping(ctx context.Context) error {
	return c.client.Ping(ctx).Err()
}
