package cache

import (
	"context"
	"encoding/json"
	"time"

	"github.com/Domenick1991/stayhub/config"
	"github.com/Domenick1991/stayhub/internal/domain"
	"github.com/redis/go-redis/v9"
)

type RedisCache struct {
	client            *redis.Client
	accommodationsTTL time.Duration
}

func NewRedisCache(cfg config.RedisConfig, accommodationsTTL time.Duration) *RedisCache {
	return &RedisCache{
		client:            redis.NewClient(&redis.Options{Addr: cfg.Addr, Password: cfg.Password, DB: cfg.DB}),
		accommodationsTTL: accommodationsTTL,
	}
}

func (c *RedisCache) GetAccommodations(ctx context.Context) ([]domain.Accommodation, error) {
	data, err := c.client.Get(ctx, accommodationsKey()).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, nil
		}
		return nil, err
	}

	var accommodations []domain.Accommodation
	if err := json.Unmarshal(data, &accommodations); err != nil {
		return nil, err
	}
	return accommodations, nil
}

func (c *RedisCache) SetAccommodations(ctx context.Context, accommodations []domain.Accommodation) error {
	payload, err := json.Marshal(accommodations)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, accommodationsKey(), payload, c.accommodationsTTL).Err()
}

func accommodationsKey() string {
	return "cache:accommodations"
}
