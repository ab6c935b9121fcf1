package redis

import (
	"context"

	"github.com/redis/go-redis/v9"
)

// HashStore implements confsync.NamespaceStore on a Redis hash: one
// hash per namespace key, one hash field per configuration key.
type HashStore struct {
	client redis.UniversalClient
}

// NewHashStore wraps a connected Redis client as a namespace store.
func NewHashStore(client redis.UniversalClient) *HashStore {
	return &HashStore{client: client}
}

// FetchAll returns every field of the namespace hash via HGETALL. A
// missing hash yields an empty map.
func (s *HashStore) FetchAll(ctx context.Context, key string) (map[string]string, error) {
	return s.client.HGetAll(ctx, key).Result()
}

// SetField writes one serialized field via HSET.
func (s *HashStore) SetField(ctx context.Context, key, field, value string) error {
	return s.client.HSet(ctx, key, field, value).Err()
}

// DeleteField removes one field via HDEL. Deleting an absent field is
// not an error.
func (s *HashStore) DeleteField(ctx context.Context, key, field string) error {
	return s.client.HDel(ctx, key, field).Err()
}
