// Package storage provides the durable key-value backends for cached sport
// data: Redis for the common deployment and Postgres where a relational
// store is already provisioned. Both replace entries wholesale so readers
// never observe a half-written record.
package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"courtfinder/internal/domain"
)

// redisEntryTTL is housekeeping only: stale entries are detected by their
// last_updated stamp, Redis expiry just stops abandoned sport types from
// lingering forever.
const redisEntryTTL = 24 * time.Hour

// RedisStore keeps one JSON blob per sport type.
type RedisStore struct {
	client *redis.Client
}

// NewRedisStore connects a Redis-backed sport data store.
func NewRedisStore(addr, password string, db int) *RedisStore {
	return &RedisStore{
		client: redis.NewClient(&redis.Options{
			Addr:     addr,
			Password: password,
			DB:       db,
		}),
	}
}

func redisKey(sportType domain.SportType) string {
	return fmt.Sprintf("sportdata:%s", sportType)
}

func (s *RedisStore) Get(ctx context.Context, sportType domain.SportType) (*domain.CachedSportData, error) {
	val, err := s.client.Get(ctx, redisKey(sportType)).Result()
	if errors.Is(err, redis.Nil) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("redis get: %w", err)
	}
	var data domain.CachedSportData
	if err := json.Unmarshal([]byte(val), &data); err != nil {
		return nil, fmt.Errorf("unmarshal cached sport data: %w", err)
	}
	return &data, nil
}

func (s *RedisStore) Put(ctx context.Context, data *domain.CachedSportData) error {
	blob, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("marshal cached sport data: %w", err)
	}
	if err := s.client.Set(ctx, redisKey(data.SportType), blob, redisEntryTTL).Err(); err != nil {
		return fmt.Errorf("redis set: %w", err)
	}
	return nil
}

func (s *RedisStore) Delete(ctx context.Context, sportType domain.SportType) error {
	if err := s.client.Del(ctx, redisKey(sportType)).Err(); err != nil {
		return fmt.Errorf("redis del: %w", err)
	}
	return nil
}

// Ping checks connectivity, for startup health checks.
func (s *RedisStore) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}
