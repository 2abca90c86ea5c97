package session

import (
	"context"
	"errors"
	"fmt"

	"github.com/go-redis/redis/v8"
)

// RedisStore keeps keys in Redis under "<prefix>:<name>".
type RedisStore struct {
	client *redis.Client
	prefix string
}

func NewRedisStore(client *redis.Client, prefix string) *RedisStore {
	return &RedisStore{client: client, prefix: prefix}
}

func (s *RedisStore) key(name string) string {
	if s.prefix == "" {
		return name
	}
	return s.prefix + ":" + name
}

func (s *RedisStore) ReadKey(ctx context.Context, name string) (string, bool, error) {
	value, err := s.client.Get(ctx, s.key(name)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", false, nil
		}
		return "", false, fmt.Errorf("failed to read %s from redis: %w", name, err)
	}
	return value, true, nil
}

func (s *RedisStore) WriteKey(ctx context.Context, name, value string) error {
	if err := s.client.Set(ctx, s.key(name), value, 0).Err(); err != nil {
		return fmt.Errorf("failed to write %s to redis: %w", name, err)
	}
	return nil
}

func (s *RedisStore) RemoveKey(ctx context.Context, name string) error {
	if err := s.client.Del(ctx, s.key(name)).Err(); err != nil {
		return fmt.Errorf("failed to remove %s from redis: %w", name, err)
	}
	return nil
}
