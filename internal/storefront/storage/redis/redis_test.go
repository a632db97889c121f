package redis

import (
	"context"
	"testing"
	"time"

	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKeyIsNamespaced(t *testing.T) {
	s := New("localhost:6379", "pizzeria")
	defer s.Close()

	assert.Equal(t, "pizzeria:storefront:cart", s.Key("cart"))
	assert.Equal(t, "other:storefront:orders", NewWithClient(goredis.NewClient(&goredis.Options{}), "other").Key("orders"))
}

func TestUnreachableServerReturnsWrappedError(t *testing.T) {
	client := goredis.NewClient(&goredis.Options{
		Addr:        "127.0.0.1:1",
		DialTimeout: 50 * time.Millisecond,
		MaxRetries:  -1,
	})
	s := NewWithClient(client, "pizzeria")
	defer s.Close()

	_, err := s.Get(context.Background(), "cart")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "pizzeria:storefront:cart")

	err = s.Set(context.Background(), "cart", []byte("{}"))
	require.Error(t, err)
}
