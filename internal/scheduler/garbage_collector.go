package scheduler

import (
	"context"
	"time"

	"github.com/MrSnakeDoc/linkdeck/internal/index"
	"github.com/MrSnakeDoc/linkdeck/internal/logger"
	redisstore "github.com/MrSnakeDoc/linkdeck/internal/store/redis"
)

const (
	// DefaultGCThreshold is the duration after which disabled links are deleted
	DefaultGCThreshold = 30 * 24 * time.Hour // 30 days
)

// GarbageCollector handles cleanup of links disabled for too long
type GarbageCollector struct {
	store     *redisstore.Store
	index     *index.MemoryIndex
	logger    logger.Logger
	interval  time.Duration
	threshold time.Duration
	stopCh    chan struct{}
	now       func() time.Time
}

// NewGarbageCollector creates a new garbage collector. A zero threshold means DefaultGCThreshold.
func NewGarbageCollector(
	store *redisstore.Store,
	idx *index.MemoryIndex,
	log logger.Logger,
	interval time.Duration,
	threshold time.Duration,
) *GarbageCollector {
	if threshold == 0 {
		threshold = DefaultGCThreshold
	}

	return &GarbageCollector{
		store:     store,
		index:     idx,
		logger:    log,
		interval:  interval,
		threshold: threshold,
		stopCh:    make(chan struct{}),
		now:       time.Now,
	}
}

// Start begins the periodic garbage collection process
func (gc *GarbageCollector) Start(ctx context.Context) {
	// Run immediately on start
	gc.Collect(ctx)

	ticker := time.NewTicker(gc.interval)
	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				gc.Collect(ctx)
			case <-gc.stopCh:
				return
			case <-ctx.Done():
				return
			}
		}
	}()
}

// Stop stops the garbage collector
func (gc *GarbageCollector) Stop() {
	close(gc.stopCh)
}

// Collect removes links that have been disabled for longer than the threshold
// and returns how many were deleted.
func (gc *GarbageCollector) Collect(ctx context.Context) int {
	now := gc.now()
	deleted := 0

	for _, link := range gc.index.GetAllLinks() {
		// Only collect disabled links that carry a disable time
		if !link.Disabled || link.UpdatedAt.IsZero() {
			continue
		}

		disabledFor := now.Sub(link.UpdatedAt)
		if disabledFor < gc.threshold {
			continue
		}

		gc.index.DeleteLink(link.ID)

		// Delete from Redis store (best effort)
		if gc.store != nil {
			if err := gc.store.DeleteLink(ctx, link.ID); err != nil {
				gc.logger.Warn("failed to delete link from redis",
					logger.String("link_id", link.ID),
					logger.Error(err))
			}
		}

		gc.logger.Info("garbage collected disabled link",
			logger.String("link_id", link.ID),
			logger.String("href", link.Href),
			logger.Duration("disabled_for", disabledFor))

		deleted++
	}

	if deleted > 0 {
		gc.logger.Info("garbage collection completed", logger.Int("deleted", deleted))
	} else {
		gc.logger.Debug("no links to garbage collect")
	}

	return deleted
}
