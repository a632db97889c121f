// Package storage defines the durable key-value port the storefront
// persists its cart, favorites and order history through.
//
// Each logical record is stored as one JSON document under its own key.
// Backends live in the memory, redis and sqlite subpackages.
package storage

import (
	"context"
	"encoding/json"
	"fmt"
)

// Record keys for the three independently owned documents.
const (
	KeyCart      = "cart"
	KeyFavorites = "favorites"
	KeyOrders    = "orders"
)

// Store is the port for durable storage. Get returns (nil, nil) when the
// key has never been written.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
}

// CorruptError reports a record that exists but cannot be decoded.
type CorruptError struct {
	Key string
	Err error
}

func (e *CorruptError) Error() string {
	return fmt.Sprintf("storage: record %q is corrupt: %v", e.Key, e.Err)
}

func (e *CorruptError) Unwrap() error { return e.Err }

// LoadJSON decodes the record under key into v. It returns false with a nil
// error when the record is absent, and a *CorruptError when it is malformed.
func LoadJSON(ctx context.Context, s Store, key string, v any) (bool, error) {
	raw, err := s.Get(ctx, key)
	if err != nil {
		return false, fmt.Errorf("storage: get %q: %w", key, err)
	}
	if len(raw) == 0 {
		return false, nil
	}
	if err := json.Unmarshal(raw, v); err != nil {
		return false, &CorruptError{Key: key, Err: err}
	}
	return true, nil
}

// SaveJSON encodes v and writes it under key.
func SaveJSON(ctx context.Context, s Store, key string, v any) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("storage: encode %q: %w", key, err)
	}
	if err := s.Set(ctx, key, raw); err != nil {
		return fmt.Errorf("storage: set %q: %w", key, err)
	}
	return nil
}
