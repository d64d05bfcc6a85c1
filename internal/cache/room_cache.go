package cache

import (
	"context"
	"encoding/json"
	"time"

	roomDomain "github.com/RoamStay-Hotels/service-booking/internal/domain/room"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// RoomCache is a read-through Redis cache in front of the room catalog.
// Room facts (base price, total rooms) change rarely but are read on every
// pricing and booking call. Cache failures degrade to the inner catalog.
type RoomCache struct {
	client *redis.Client
	inner  roomDomain.Catalog
	ttl    time.Duration
	logger *zap.Logger
}

// NewRoomCache wraps the catalog with a Redis cache.
func NewRoomCache(client *redis.Client, inner roomDomain.Catalog, ttl time.Duration, logger *zap.Logger) *RoomCache {
	return &RoomCache{client: client, inner: inner, ttl: ttl, logger: logger}
}

// FindByID returns the cached room or falls through to the catalog.
func (c *RoomCache) FindByID(ctx context.Context, id uuid.UUID) (*roomDomain.Room, error) {
	key := "room:" + id.String()

	raw, err := c.client.Get(ctx, key).Result()
	if err == nil {
		var rm roomDomain.Room
		if jsonErr := json.Unmarshal([]byte(raw), &rm); jsonErr == nil {
			return &rm, nil
		}
		// Corrupt entry: drop it and fall through.
		c.client.Del(ctx, key)
	} else if err != redis.Nil {
		c.logger.Warn("room cache read failed", zap.Error(err))
	}

	rm, err := c.inner.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if raw, jsonErr := json.Marshal(rm); jsonErr == nil {
		if setErr := c.client.Set(ctx, key, raw, c.ttl).Err(); setErr != nil {
			c.logger.Warn("room cache write failed", zap.Error(setErr))
		}
	}
	return rm, nil
}

// FindByHotel is not cached: the ratio path needs the live room set.
func (c *RoomCache) FindByHotel(ctx context.Context, hotelID uuid.UUID) ([]*roomDomain.Room, error) {
	return c.inner.FindByHotel(ctx, hotelID)
}

// Invalidate removes a room from the cache, e.g. after a room.deleted event.
func (c *RoomCache) Invalidate(ctx context.Context, id uuid.UUID) {
	if err := c.client.Del(ctx, "room:"+id.String()).Err(); err != nil {
		c.logger.Warn("room cache invalidation failed", zap.Error(err))
	}
}
