package redis

import (
	"context"
	"time"

	"go-courses-api/internal/core/ports"

	"github.com/redis/go-redis/v9"
)

// Prefix namespaces course entries in a shared redis.
const Prefix = "course:"

type Adapter struct {
	client *redis.Client
	ttl    time.Duration
}

func NewAdapter(addr string, ttl time.Duration) *Adapter {
	rdb := redis.NewClient(&redis.Options{
		Addr: addr,
	})
	return &Adapter{client: rdb, ttl: ttl}
}

// Ensure Adapter implements ports.Cache
var _ ports.Cache = (*Adapter)(nil)

func (a *Adapter) Set(ctx context.Context, id string, data []byte) error {
	return a.client.Set(ctx, Prefix+id, data, a.ttl).Err()
}

// GetBatch returns the cached entries found for ids, keyed by id.
// Missing ids are absent from the map.
func (a *Adapter) GetBatch(ctx context.Context, ids []string) (map[string][]byte, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = Prefix + id
	}

	vals, err := a.client.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, err
	}

	result := make(map[string][]byte)
	for i, val := range vals {
		if v, ok := val.(string); ok {
			result[ids[i]] = []byte(v)
		}
	}
	return result, nil
}

func (a *Adapter) Remove(ctx context.Context, id string) error {
	return a.client.Del(ctx, Prefix+id).Err()
}

func (a *Adapter) Ping(ctx context.Context) error {
	return a.client.Ping(ctx).Err()
}

func (a *Adapter) Close() error {
	return a.client.Close()
}
