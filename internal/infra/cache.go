package infra

import (
	"context"
	"encoding/json"
	"time"

	"github.com/NitchBekker23/Vault-CRM-V1-sub000/internal/model"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

const (
	serialCachePrefix = "serial:"
	serialCacheTTL    = 10 * time.Minute
)

// RedisSerialCache is a read-through cache for serial-number lookups. CSV
// imports tend to hit the same serials repeatedly, so cached hits skip a DB
// round trip per row. The database stays the source of truth: writers
// invalidate, never update.
type RedisSerialCache struct {
	rdb *redis.Client
}

func NewRedisSerialCache(rdb *redis.Client) *RedisSerialCache {
	return &RedisSerialCache{rdb: rdb}
}

func (c *RedisSerialCache) Get(ctx context.Context, serial string) (*model.InventoryItem, bool) {
	data, err := c.rdb.Get(ctx, serialCachePrefix+serial).Bytes()
	if err != nil {
		return nil, false
	}
	var it model.InventoryItem
	if err := json.Unmarshal(data, &it); err != nil {
		// Corrupt entry: drop it and fall through to the DB.
		c.rdb.Del(ctx, serialCachePrefix+serial)
		return nil, false
	}
	return &it, true
}

func (c *RedisSerialCache) Set(ctx context.Context, it *model.InventoryItem) {
	data, err := json.Marshal(it)
	if err != nil {
		return
	}
	if err := c.rdb.Set(ctx, serialCachePrefix+it.SerialNumber, data, serialCacheTTL).Err(); err != nil {
		log.Debug().Err(err).Str("serial", it.SerialNumber).Msg("serial cache set failed")
	}
}

func (c *RedisSerialCache) Invalidate(ctx context.Context, serial string) {
	if err := c.rdb.Del(ctx, serialCachePrefix+serial).Err(); err != nil {
		log.Debug().Err(err).Str("serial", serial).Msg("serial cache invalidate failed")
	}
}
