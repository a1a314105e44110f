package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// AnalyticsCacheRepository stores serialized analytics snapshots in Redis.
type AnalyticsCacheRepository struct {
	redisClient *redis.Client
}

func NewAnalyticsCacheRepository(redisClient *redis.Client) *AnalyticsCacheRepository {
	return &AnalyticsCacheRepository{redisClient: redisClient}
}

func (r *AnalyticsCacheRepository) Set(ctx context.Context, key string, data []byte, expiration time.Duration) error {
	return r.redisClient.Set(ctx, key, data, expiration).Err()
}

func (r *AnalyticsCacheRepository) Get(ctx context.Context, key string) ([]byte, error) {
	data, err := r.redisClient.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrCacheMiss
	}
	if err != nil {
		return nil, err
	}
	return data, nil
}

// DeleteByPattern removes every key matching pattern and returns how many
// were removed.
func (r *AnalyticsCacheRepository) DeleteByPattern(ctx context.Context, pattern string) (int, error) {
	var keys []string
	iter := r.redisClient.Scan(ctx, 0, pattern, 100).Iterator()
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		return 0, fmt.Errorf("failed to scan keys: %w", err)
	}
	if len(keys) == 0 {
		return 0, nil
	}
	if err := r.redisClient.Del(ctx, keys...).Err(); err != nil {
		return 0, fmt.Errorf("failed to delete keys: %w", err)
	}
	return len(keys), nil
}
