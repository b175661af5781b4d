package session

import (
	"context"
	"errors"
	"fmt"
	"time"

	redis "github.com/redis/go-redis/v9"
)

// DefaultKeyPrefix namespaces session keys in a shared Redis.
const DefaultKeyPrefix = "trw:session:"

// RedisStore keeps encoded sessions as plain string values. A zero TTL keeps
// them forever; otherwise every Put refreshes the expiry.
type RedisStore[T any] struct {
	client redis.UniversalClient
	prefix string
	ttl    time.Duration
	codec  Codec[T]
}

func NewRedisStore[T any](client redis.UniversalClient, prefix string, ttl time.Duration, codec Codec[T]) *RedisStore[T] {
	if prefix == "" {
		prefix = DefaultKeyPrefix
	}
	return &RedisStore[T]{client: client, prefix: prefix, ttl: ttl, codec: codec}
}

func (s *RedisStore[T]) key(id string) string { return s.prefix + id }

func (s *RedisStore[T]) Get(ctx context.Context, id string) (T, bool, error) {
	var zero T
	if err := validID(id); err != nil {
		return zero, false, err
	}
	data, err := s.client.Get(ctx, s.key(id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return zero, false, nil
	}
	if err != nil {
		return zero, false, fmt.Errorf("redis get %s: %w", id, err)
	}
	v, err := s.codec.Decode(data)
	if err != nil {
		return zero, false, fmt.Errorf("decode session %s: %w", id, err)
	}
	return v, true, nil
}

func (s *RedisStore[T]) Put(ctx context.Context, id string, v T) error {
	if err := validID(id); err != nil {
		return err
	}
	data, err := s.codec.Encode(v)
	if err != nil {
		return fmt.Errorf("encode session %s: %w", id, err)
	}
	if err := s.client.Set(ctx, s.key(id), data, s.ttl).Err(); err != nil {
		return fmt.Errorf("redis set %s: %w", id, err)
	}
	return nil
}

func (s *RedisStore[T]) NewID() string { return newID() }
