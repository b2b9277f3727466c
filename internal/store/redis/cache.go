package redis

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

// flushBatch is how many cache keys are unlinked per round trip.
const flushBatch = 100

// CacheResolution remembers which link a search query resolved to
func (s *Store) CacheResolution(ctx context.Context, query, linkID string, ttl time.Duration) error {
	if err := s.client.Set(ctx, CacheKey(normalizeQuery(query)), linkID, ttl).Err(); err != nil {
		return fmt.Errorf("failed to cache resolution: %w", err)
	}
	return nil
}

// GetCachedResolution returns the cached link ID for query, or "" on a miss
func (s *Store) GetCachedResolution(ctx context.Context, query string) (string, error) {
	linkID, err := s.client.Get(ctx, CacheKey(normalizeQuery(query))).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", nil // Cache miss
		}
		return "", fmt.Errorf("failed to get cached resolution: %w", err)
	}
	return linkID, nil
}

// InvalidateCache removes a cached resolution
func (s *Store) InvalidateCache(ctx context.Context, query string) error {
	if err := s.client.Del(ctx, CacheKey(normalizeQuery(query))).Err(); err != nil {
		return fmt.Errorf("failed to invalidate cache: %w", err)
	}
	return nil
}

// FlushCache removes all cached resolutions. Run after every reload since
// a cached answer may point at a link that changed or disappeared.
func (s *Store) FlushCache(ctx context.Context) error {
	iter := s.client.Scan(ctx, 0, KeyPrefixCache+"*", flushBatch).Iterator()

	batch := make([]string, 0, flushBatch)
	flush := func() error {
		if len(batch) == 0 {
			return nil
		}
		if err := s.client.Unlink(ctx, batch...).Err(); err != nil {
			return fmt.Errorf("failed to delete cache keys: %w", err)
		}
		batch = batch[:0]
		return nil
	}

	for iter.Next(ctx) {
		batch = append(batch, iter.Val())
		if len(batch) == flushBatch {
			if err := flush(); err != nil {
				return err
			}
		}
	}
	if err := iter.Err(); err != nil {
		return fmt.Errorf("failed to flush cache: %w", err)
	}
	return flush()
}

func normalizeQuery(query string) string {
	return strings.ToLower(strings.TrimSpace(query))
}
