package scheduler

import (
	"context"
	"fmt"

	"github.com/MrSnakeDoc/linkdeck/internal/index"
	"github.com/MrSnakeDoc/linkdeck/internal/logger"
	redisstore "github.com/MrSnakeDoc/linkdeck/internal/store/redis"
)

// RedisSyncer warms the memory index from Redis on startup, so click counts
// and disable times survive a restart.
type RedisSyncer struct {
	store  *redisstore.Store
	index  *index.MemoryIndex
	logger logger.Logger
}

// NewRedisSyncer creates a new Redis syncer
func NewRedisSyncer(
	store *redisstore.Store,
	idx *index.MemoryIndex,
	log logger.Logger,
) *RedisSyncer {
	return &RedisSyncer{
		store:  store,
		index:  idx,
		logger: log,
	}
}

// Sync adds every stored link to the index. It does not count as a reload:
// the index stays not-ready until the directory itself was loaded.
func (rs *RedisSyncer) Sync(ctx context.Context) error {
	links, err := rs.store.GetAllLinks(ctx)
	if err != nil {
		return fmt.Errorf("failed to read links from redis: %w", err)
	}

	if len(links) == 0 {
		rs.logger.Info("no links found in redis")
		return nil
	}

	for _, link := range links {
		rs.index.AddLink(link)
	}

	rs.logger.Info("synced links from redis", logger.Int("count", len(links)))
	return nil
}
