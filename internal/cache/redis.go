package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/Domenick1991/transitops/config"
	"github.com/Domenick1991/transitops/internal/domain"
	"github.com/redis/go-redis/v9"
)

type RedisCache struct {
	client     *redis.Client
	tripsTTL   time.Duration
	seatMapTTL time.Duration
}

func NewRedisCache(cfg config.RedisConfig, tripsTTL, seatMapTTL time.Duration) *RedisCache {
	return &RedisCache{
		client:     redis.NewClient(&redis.Options{Addr: cfg.Addr, Password: cfg.Password, DB: cfg.DB}),
		tripsTTL:   tripsTTL,
		seatMapTTL: seatMapTTL,
	}
}

func (c *RedisCache) GetTrips(ctx context.Context) ([]domain.Trip, error) {
	data, err := c.client.Get(ctx, tripsKey()).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, nil
		}
		return nil, err
	}

	var trips []domain.Trip
	if err := json.Unmarshal(data, &trips); err != nil {
		return nil, err
	}
	return trips, nil
}

func (c *RedisCache) SetTrips(ctx context.Context, trips []domain.Trip) error {
	payload, err := json.Marshal(trips)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, tripsKey(), payload, c.tripsTTL).Err()
}

func (c *RedisCache) GetSeats(ctx context.Context, tripID int64) ([]domain.Seat, error) {
	data, err := c.client.Get(ctx, seatMapKey(tripID)).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, nil
		}
		return nil, err
	}

	var seats []domain.Seat
	if err := json.Unmarshal(data, &seats); err != nil {
		return nil, err
	}
	return seats, nil
}

func (c *RedisCache) SetSeats(ctx context.Context, tripID int64, seats []domain.Seat) error {
	payload, err := json.Marshal(seats)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, seatMapKey(tripID), payload, c.seatMapTTL).Err()
}

// InvalidateSeats drops the cached seat map after a sale so readers do
// not offer seats that were just sold.
func (c *RedisCache) InvalidateSeats(ctx context.Context, tripID int64) error {
	return c.client.Del(ctx, seatMapKey(tripID)).Err()
}

func tripsKey() string {
	return "cache:trips"
}

func seatMapKey(tripID int64) string {
	return fmt.Sprintf("cache:trip:%d:seats", tripID)
}
