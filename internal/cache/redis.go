package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/zvrva/busstation/config"
	"github.com/zvrva/busstation/internal/domain"
)

// RedisCache holds the trip-listing cache and a per-trip capacity cache.
// Both serve reads that may be stale; the booking commit re-validates against
// the database regardless of what a reader saw.
type RedisCache struct {
	client      *redis.Client
	tripsTTL    time.Duration
	capacityTTL time.Duration
}

func NewRedisCache(cfg config.RedisConfig, tripsTTL, capacityTTL time.Duration) *RedisCache {
	return &RedisCache{
		client:      redis.NewClient(&redis.Options{Addr: cfg.Addr, Password: cfg.Password, DB: cfg.DB}),
		tripsTTL:    tripsTTL,
		capacityTTL: capacityTTL,
	}
}

func (c *RedisCache) GetTrips(ctx context.Context) ([]domain.TripSummary, error) {
	data, err := c.client.Get(ctx, tripsKey()).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, err
	}

	var trips []domain.TripSummary
	if err := json.Unmarshal(data, &trips); err != nil {
		return nil, err
	}
	return trips, nil
}

func (c *RedisCache) SetTrips(ctx context.Context, trips []domain.TripSummary) error {
	payload, err := json.Marshal(trips)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, tripsKey(), payload, c.tripsTTL).Err()
}

func (c *RedisCache) InvalidateTrips(ctx context.Context) error {
	return c.client.Del(ctx, tripsKey()).Err()
}

// GetTripCapacity returns the cached bus capacity for a trip; ok is false on
// a cache miss.
func (c *RedisCache) GetTripCapacity(ctx context.Context, tripID int64) (capacity int, ok bool, err error) {
	capacity, err = c.client.Get(ctx, capacityKey(tripID)).Int()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return 0, false, nil
		}
		return 0, false, err
	}
	return capacity, true, nil
}

func (c *RedisCache) SetTripCapacity(ctx context.Context, tripID int64, capacity int) error {
	return c.client.Set(ctx, capacityKey(tripID), capacity, c.capacityTTL).Err()
}

func (c *RedisCache) InvalidateTripCapacity(ctx context.Context, tripID int64) error {
	return c.client.Del(ctx, capacityKey(tripID)).Err()
}

func tripsKey() string {
	return "cache:trips"
}

func capacityKey(tripID int64) string {
	return fmt.Sprintf("cache:trip:%d:capacity", tripID)
}
