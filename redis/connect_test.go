package redis_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/dmitrymomot/confsync/redis"
)

func TestConnect_InvalidURL(t *testing.T) {
	t.Parallel()

	cfg := redis.Config{
		ConnectionURL:  "not-a-redis-url",
		RetryAttempts:  1,
		RetryInterval:  time.Millisecond,
		ConnectTimeout: time.Second,
	}

	client, err := redis.Connect(context.Background(), cfg)
	assert.ErrorIs(t, err, redis.ErrFailedToParseRedisConnString)
	assert.Nil(t, client)
}

func TestConnect_ServerUnreachable(t *testing.T) {
	t.Parallel()

	// Port 1 is never a Redis server; the dial fails immediately.
	cfg := redis.Config{
		ConnectionURL:  "redis://127.0.0.1:1/0",
		RetryAttempts:  2,
		RetryInterval:  time.Millisecond,
		ConnectTimeout: 2 * time.Second,
	}

	client, err := redis.Connect(context.Background(), cfg)
	assert.ErrorIs(t, err, redis.ErrRedisNotReady)
	assert.Nil(t, client)
}
