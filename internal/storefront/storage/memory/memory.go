// Package memory is an in-process storage.Store, used for tests and for
// running the storefront without a durable backend.
package memory

import (
	"context"
	"errors"
	"sync"

	"github.com/jcmexdev/pizzeria/internal/storefront/storage"
)

var _ storage.Store = (*Store)(nil)

// ErrUnavailable is returned by every call while the store is failing.
var ErrUnavailable = errors.New("memory: store unavailable")

type Store struct {
	mu      sync.RWMutex
	data    map[string][]byte
	failing bool
}

func New() *Store {
	return &Store{data: make(map[string][]byte)}
}

func (s *Store) Get(ctx context.Context, key string) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.failing {
		return nil, ErrUnavailable
	}
	v, ok := s.data[key]
	if !ok {
		return nil, nil
	}
	return append([]byte(nil), v...), nil
}

func (s *Store) Set(ctx context.Context, key string, value []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.failing {
		return ErrUnavailable
	}
	s.data[key] = append([]byte(nil), value...)
	return nil
}

// SetFailing makes every subsequent call fail (true) or succeed (false).
func (s *Store) SetFailing(failing bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failing = failing
}
