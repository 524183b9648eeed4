package storage

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"
)

const redisKeyPrefix = "engsmart:"

// RedisStore keeps each collection as a single JSON value under a
// prefixed key. Values never expire; quizzes outlive any session.
type RedisStore struct {
	client *redis.Client
}

func NewRedisStore(client *redis.Client) *RedisStore {
	return &RedisStore{client: client}
}

func (s *RedisStore) Put(ctx context.Context, collection string, data []byte) error {
	if err := s.client.Set(ctx, redisKeyPrefix+collection, data, 0).Err(); err != nil {
		return fmt.Errorf("failed to store collection %s in Redis: %w", collection, err)
	}
	return nil
}

func (s *RedisStore) Get(ctx context.Context, collection string) ([]byte, error) {
	data, err := s.client.Get(ctx, redisKeyPrefix+collection).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read collection %s from Redis: %w", collection, err)
	}
	return data, nil
}
