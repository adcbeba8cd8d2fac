package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"petex-service/internal/domain"
)

type countingSource struct {
	zones []domain.Zone
	calls int
}

func (s *countingSource) ListZones(ctx context.Context) ([]domain.Zone, error) {
	s.calls++
	return s.zones, nil
}

func newTestCache(t *testing.T, ttl time.Duration) (*RedisZoneCache, *miniredis.Miniredis, *countingSource) {
	t.Helper()

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})

	source := &countingSource{zones: []domain.Zone{
		{ID: "z1", Name: "Centro", Keywords: []string{"candelaria"}},
		{ID: "z2", Name: "Norte", Keywords: []string{"usaquen"}},
	}}

	return NewRedisZoneCache(client, source, ttl), mr, source
}

func TestRedisZoneCacheReadThrough(t *testing.T) {
	c, _, source := newTestCache(t, time.Minute)
	ctx := context.Background()

	zones, err := c.ListZones(ctx)
	require.NoError(t, err)
	require.Len(t, zones, 2)
	assert.Equal(t, 1, source.calls)

	// Second read is served from Redis.
	again, err := c.ListZones(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, source.calls)

	// Zone ordering must survive the round trip: matching takes the first hit.
	assert.Equal(t, zones, again)
	assert.Equal(t, "z1", again[0].ID)
}

func TestRedisZoneCacheExpiry(t *testing.T) {
	c, mr, source := newTestCache(t, time.Minute)
	ctx := context.Background()

	_, err := c.ListZones(ctx)
	require.NoError(t, err)

	mr.FastForward(2 * time.Minute)

	_, err = c.ListZones(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, source.calls, "expired entry must refresh from the source")
}

func TestRedisZoneCacheInvalidate(t *testing.T) {
	c, _, source := newTestCache(t, time.Minute)
	ctx := context.Background()

	_, err := c.ListZones(ctx)
	require.NoError(t, err)
	require.NoError(t, c.Invalidate(ctx))

	_, err = c.ListZones(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, source.calls)
}

func TestRedisZoneCacheIgnoresCorruptPayload(t *testing.T) {
	c, mr, source := newTestCache(t, time.Minute)
	ctx := context.Background()

	require.NoError(t, mr.Set(zoneCacheKey, "not json"))

	zones, err := c.ListZones(ctx)
	require.NoError(t, err)
	assert.Len(t, zones, 2)
	assert.Equal(t, 1, source.calls, "corrupt payload falls back to the source")
}
