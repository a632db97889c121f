// Package redis provides a Redis-backed storage.Store. Records are plain
// string keys without expiry, namespaced so several storefronts can share
// one Redis instance.
package redis

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/jcmexdev/pizzeria/internal/storefront/storage"
)

var _ storage.Store = (*Store)(nil)

type Store struct {
	client    *redis.Client
	namespace string
}

// New connects lazily; the first Get or Set surfaces connection errors.
func New(addr, namespace string) *Store {
	return NewWithClient(redis.NewClient(&redis.Options{Addr: addr}), namespace)
}

func NewWithClient(client *redis.Client, namespace string) *Store {
	return &Store{client: client, namespace: namespace}
}

func (s *Store) Get(ctx context.Context, key string) ([]byte, error) {
	v, err := s.client.Get(ctx, s.Key(key)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("redis: get %q: %w", s.Key(key), err)
	}
	return v, nil
}

func (s *Store) Set(ctx context.Context, key string, value []byte) error {
	if err := s.client.Set(ctx, s.Key(key), value, 0).Err(); err != nil {
		return fmt.Errorf("redis: set %q: %w", s.Key(key), err)
	}
	return nil
}

// Ping checks connectivity, used at startup to fail fast on a bad address.
func (s *Store) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}

func (s *Store) Close() error {
	return s.client.Close()
}

// Key returns the namespaced Redis key for a storage record.
func (s *Store) Key(record string) string {
	return fmt.Sprintf("%s:storefront:%s", s.namespace, record)
}
