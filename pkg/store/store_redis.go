package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/kotrzina/meteoam/pkg/config"
	"github.com/kotrzina/meteoam/pkg/meteoam"
	"github.com/redis/go-redis/v9"
)

const (
	ForecastKeyPrefix = "forecast:"
	UnusedKey         = "unused_ids"
)

type RedisStore struct {
	Client *redis.Client
	ctx    context.Context
}

func NewRedisStore(ctx context.Context, config *config.Config) *RedisStore {
	return &RedisStore{
		Client: redis.NewClient(&redis.Options{
			Addr: config.RedisAddr,
			DB:   config.RedisDB,
		}),
		ctx: ctx,
	}
}

func (s *RedisStore) GetForecast(id uint64) (*meteoam.ForecastResult, error) {
	res, err := s.Client.Get(s.ctx, forecastKey(id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	var forecast meteoam.ForecastResult
	if err := json.Unmarshal(res, &forecast); err != nil {
		return nil, fmt.Errorf("invalid forecast format in the storage: %w", err)
	}

	return &forecast, nil
}

func (s *RedisStore) SetForecast(id uint64, forecast *meteoam.ForecastResult, ttl time.Duration) error {
	data, err := json.Marshal(forecast)
	if err != nil {
		return fmt.Errorf("could not marshal forecast: %w", err)
	}

	return s.Client.Set(s.ctx, forecastKey(id), data, ttl).Err()
}

func (s *RedisStore) MarkUnused(id uint64) error {
	return s.Client.SAdd(s.ctx, UnusedKey, strconv.FormatUint(id, 10)).Err()
}

func (s *RedisStore) IsUnused(id uint64) (bool, error) {
	return s.Client.SIsMember(s.ctx, UnusedKey, strconv.FormatUint(id, 10)).Result()
}

func forecastKey(id uint64) string {
	return ForecastKeyPrefix + strconv.FormatUint(id, 10)
}
