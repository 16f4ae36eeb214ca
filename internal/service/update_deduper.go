package service

import (
	"context"
	"fmt"
	"time"

	"github.com/patrickmn/go-cache"
	"github.com/redis/go-redis/v9"
)

const dedupTTL = 24 * time.Hour

// UpdateDeduper tracks which webhook update ids have already been processed,
// so an at-least-once transport can redeliver without replaying transitions.
type UpdateDeduper interface {
	// Seen marks updateID as processed and reports whether it had been
	// marked before.
	Seen(ctx context.Context, updateID int64) bool
}

type redisDeduper struct {
	client *redis.Client
}

func NewRedisDeduper(client *redis.Client) UpdateDeduper {
	return &redisDeduper{client: client}
}

func (d *redisDeduper) Seen(ctx context.Context, updateID int64) bool {
	key := fmt.Sprintf("telegram:update:%d", updateID)
	ok, err := d.client.SetNX(ctx, key, 1, dedupTTL).Result()
	if err != nil {
		// Redis being down must not stall the bot. Processing a duplicate
		// is harmless, dropping a fresh update is not.
		return false
	}
	return !ok
}

type memoryDeduper struct {
	seen *cache.Cache
}

func NewMemoryDeduper() UpdateDeduper {
	return &memoryDeduper{seen: cache.New(dedupTTL, time.Hour)}
}

func (d *memoryDeduper) Seen(_ context.Context, updateID int64) bool {
	key := fmt.Sprintf("telegram:update:%d", updateID)
	return d.seen.Add(key, struct{}{}, cache.DefaultExpiration) != nil
}
