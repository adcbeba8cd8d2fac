package cache

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"time"

	"github.com/redis/go-redis/v9"

	"petex-service/internal/domain"
	"petex-service/internal/platform/obs"
	"petex-service/internal/ports"
)

const zoneCacheKey = "petex:zones"

// RedisZoneCache is a read-through cache in front of a ZoneSource.
//
// Zones change rarely but are read on every import and every dashboard load.
// The whole list is stored as one JSON value so the source's zone ordering
// survives the round trip (keyword matching takes the first hit). Cache
// failures degrade to the underlying source, never to an error.
type RedisZoneCache struct {
	Client *redis.Client
	Source ports.ZoneSource
	TTL    time.Duration
}

func NewRedisZoneCache(client *redis.Client, source ports.ZoneSource, ttl time.Duration) *RedisZoneCache {
	return &RedisZoneCache{
		Client: client,
		Source: source,
		TTL:    ttl,
	}
}

func (c *RedisZoneCache) ListZones(ctx context.Context) (_ []domain.Zone, err error) {
	defer obs.Time(ctx, "zone.cache.ListZones")(&err)

	if c.Client == nil || c.Source == nil {
		return nil, errors.New("zone cache: client and source must be non-nil")
	}

	cached, getErr := c.Client.Get(ctx, zoneCacheKey).Result()
	if getErr == nil {
		var zones []domain.Zone
		if err := json.Unmarshal([]byte(cached), &zones); err == nil {
			return zones, nil
		}
		// Unreadable payload: treat as a miss and refresh below.
		log.Printf("zone cache payload invalid key=%s", zoneCacheKey)
	} else if !errors.Is(getErr, redis.Nil) {
		log.Printf("zone cache get failed key=%s err=%v", zoneCacheKey, getErr)
	}

	zones, err := c.Source.ListZones(ctx)
	if err != nil {
		return nil, err
	}

	encoded, err := json.Marshal(zones)
	if err != nil {
		return nil, err
	}
	if err := c.Client.Set(ctx, zoneCacheKey, encoded, c.TTL).Err(); err != nil {
		log.Printf("zone cache set failed key=%s err=%v", zoneCacheKey, err)
	}

	return zones, nil
}

// Invalidate drops the cached zone list, forcing the next read through to
// the source. Used after seeding changes reference data.
func (c *RedisZoneCache) Invalidate(ctx context.Context) error {
	if c.Client == nil {
		return errors.New("zone cache: client must be non-nil")
	}
	return c.Client.Del(ctx, zoneCacheKey).Err()
}
