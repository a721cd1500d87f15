package query

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	entryKeyPrefix      = "fatla:query:"
	generationKeyPrefix = "fatla:query-gen:"
)

// RedisStore shares the cache between dashboard instances.
type RedisStore struct {
	client *redis.Client
}

func NewRedisStore(client *redis.Client) *RedisStore {
	return &RedisStore{client: client}
}

func (s *RedisStore) Get(ctx context.Context, key string) (Entry, bool, error) {
	raw, err := s.client.Get(ctx, entryKeyPrefix+key).Bytes()
	if errors.Is(err, redis.Nil) {
		return Entry{}, false, nil
	}
	if err != nil {
		return Entry{}, false, fmt.Errorf("failed to get cache entry: %w", err)
	}

	var entry Entry
	if err := json.Unmarshal(raw, &entry); err != nil {
		return Entry{}, false, fmt.Errorf("failed to unmarshal cache entry: %w", err)
	}
	return entry, true, nil
}

func (s *RedisStore) Set(ctx context.Context, key string, entry Entry, ttl time.Duration) error {
	raw, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("failed to marshal cache entry: %w", err)
	}
	if err := s.client.Set(ctx, entryKeyPrefix+key, raw, ttl).Err(); err != nil {
		return fmt.Errorf("failed to store cache entry: %w", err)
	}
	return nil
}

func (s *RedisStore) Generation(ctx context.Context, root string) (uint64, error) {
	gen, err := s.client.Get(ctx, generationKeyPrefix+root).Uint64()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("failed to get cache generation: %w", err)
	}
	return gen, nil
}

func (s *RedisStore) Invalidate(ctx context.Context, root string) (uint64, error) {
	gen, err := s.client.Incr(ctx, generationKeyPrefix+root).Uint64()
	if err != nil {
		return 0, fmt.Errorf("failed to invalidate %s: %w", root, err)
	}
	return gen, nil
}
