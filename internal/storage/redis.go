package storage

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// DefaultRedisPrefix namespaces collection keys in a shared Redis.
const DefaultRedisPrefix = "localwallet:v1:"

// RedisBlobStore keeps each collection blob in a plain Redis string key.
type RedisBlobStore struct {
	client *redis.Client
	prefix string
}

// NewRedisBlobStore wraps an existing client. An empty prefix falls back to
// DefaultRedisPrefix.
func NewRedisBlobStore(client *redis.Client, prefix string) *RedisBlobStore {
	if prefix == "" {
		prefix = DefaultRedisPrefix
	}
	return &RedisBlobStore{client: client, prefix: prefix}
}

// Get returns the blob stored under key, reporting false when it is absent.
func (r *RedisBlobStore) Get(ctx context.Context, key string) ([]byte, bool, error) {
	blob, err := r.client.Get(ctx, r.prefix+key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("redis get %s: %w", key, err)
	}
	return blob, true, nil
}

// Set overwrites the blob under key without expiry.
func (r *RedisBlobStore) Set(ctx context.Context, key string, blob []byte) error {
	if err := r.client.Set(ctx, r.prefix+key, blob, 0).Err(); err != nil {
		return fmt.Errorf("redis set %s: %w", key, err)
	}
	return nil
}
