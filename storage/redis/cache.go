package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/poiesic/relevit/core"
	"github.com/poiesic/relevit/storage"
	"github.com/redis/go-redis/v9"
)

// SearchCache implements storage.SearchCache on Redis, for
// deployments where several orchestrator instances should share one
// cache. Values are JSON; expiry rides on the key TTL.
type SearchCache struct {
	client *redis.Client
	logger *slog.Logger
}

var _ storage.SearchCache = (*SearchCache)(nil)

// NewSearchCache connects to Redis at redisURL
// (e.g. "redis://localhost:6379/0").
func NewSearchCache(redisURL string) (storage.SearchCache, error) {
	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, err
	}

	return &SearchCache{
		client: redis.NewClient(opt),
		logger: slog.Default().With("component", "redis-cache"),
	}, nil
}

func cacheKey(fingerprint core.ID) string {
	return fmt.Sprintf("relevit:search:%d", fingerprint)
}

// Lookup returns the cached result for a fingerprint.
func (c *SearchCache) Lookup(ctx context.Context, fingerprint core.ID) (*core.SearchResult, error) {
	data, err := c.client.Get(ctx, cacheKey(fingerprint)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, storage.ErrNotFound
		}
		return nil, err
	}

	var result core.SearchResult
	if err := json.Unmarshal(data, &result); err != nil {
		// A corrupt entry reads as a miss; the next store overwrites it.
		c.logger.Warn("dropping unreadable cache entry", "fingerprint", fingerprint, "err", err)
		return nil, storage.ErrNotFound
	}
	return &result, nil
}

// Store caches a result under a fingerprint for ttl.
func (c *SearchCache) Store(ctx context.Context, fingerprint core.ID, result *core.SearchResult, ttl time.Duration) error {
	data, err := json.Marshal(result)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, cacheKey(fingerprint), data, ttl).Err()
}

// Close closes the Redis connection.
func (c *SearchCache) Close() error {
	return c.client.Close()
}
