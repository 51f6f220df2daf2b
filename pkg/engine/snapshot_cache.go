package engine

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/joripage/matching-engine/pkg/orderbook"
)

// RedisSnapshotCache keeps the latest book snapshot per symbol as JSON so
// read-side consumers never touch the book.
type RedisSnapshotCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisSnapshotCache(client *redis.Client, ttl time.Duration) *RedisSnapshotCache {
	return &RedisSnapshotCache{
		client: client,
		ttl:    ttl,
	}
}

func snapshotKey(symbol string) string {
	return fmt.Sprintf("orderbook:snapshot:%s", symbol)
}

func (c *RedisSnapshotCache) StoreSnapshot(ctx context.Context, snap orderbook.BookSnapshot) error {
	payload, err := json.Marshal(snap)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, snapshotKey(snap.Symbol), payload, c.ttl).Err()
}

func (c *RedisSnapshotCache) GetSnapshot(ctx context.Context, symbol string) (*orderbook.BookSnapshot, error) {
	payload, err := c.client.Get(ctx, snapshotKey(symbol)).Bytes()
	if err != nil {
		return nil, err
	}

	var snap orderbook.BookSnapshot
	if err := json.Unmarshal(payload, &snap); err != nil {
		return nil, err
	}
	return &snap, nil
}
