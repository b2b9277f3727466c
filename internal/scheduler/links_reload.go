package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/MrSnakeDoc/linkdeck/internal/domain"
	"github.com/MrSnakeDoc/linkdeck/internal/index"
	"github.com/MrSnakeDoc/linkdeck/internal/logger"
	"github.com/MrSnakeDoc/linkdeck/internal/metrics"
	"github.com/MrSnakeDoc/linkdeck/internal/sources/content"
	redisstore "github.com/MrSnakeDoc/linkdeck/internal/store/redis"
)

// LinksReloader handles periodic reloading of the links directory
type LinksReloader struct {
	loader        *content.Loader
	mapper        *content.Mapper
	store         *redisstore.Store
	index         *index.MemoryIndex
	logger        logger.Logger
	interval      time.Duration
	stopCh        chan struct{}
	manualTrigger <-chan struct{}
	now           func() time.Time
}

// NewLinksReloader creates a new links reloader. store may be nil when Redis is disabled.
func NewLinksReloader(
	linksDir string,
	store *redisstore.Store,
	idx *index.MemoryIndex,
	log logger.Logger,
	interval time.Duration,
	manualTrigger <-chan struct{},
) *LinksReloader {
	return &LinksReloader{
		loader:        content.NewLoader(linksDir),
		mapper:        content.NewMapper(),
		store:         store,
		index:         idx,
		logger:        log,
		interval:      interval,
		stopCh:        make(chan struct{}),
		manualTrigger: manualTrigger,
		now:           time.Now,
	}
}

// Start loads the directory once, then reloads it on every tick and manual trigger.
// Only the initial load can fail Start.
func (lr *LinksReloader) Start(ctx context.Context) error {
	// Load immediately on start
	if err := lr.Reload(ctx, true); err != nil {
		return fmt.Errorf("initial reload failed: %w", err)
	}

	// Start periodic reload
	ticker := time.NewTicker(lr.interval)
	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				if err := lr.Reload(ctx, false); err != nil {
					lr.logger.Error("failed to reload links", logger.Error(err))
				}
			case <-lr.manualTrigger:
				lr.logger.Info("manual reload triggered")
				if err := lr.Reload(ctx, true); err != nil {
					lr.logger.Error("failed to reload links", logger.Error(err))
				}
			case <-lr.stopCh:
				return
			case <-ctx.Done():
				return
			}
		}
	}()

	return nil
}

// Stop stops the reloader
func (lr *LinksReloader) Stop() {
	close(lr.stopCh)
}

// Reload reads and validates the links directory, then updates index, metrics and store.
// Unless force is set, a directory whose checksum did not change is left alone.
func (lr *LinksReloader) Reload(ctx context.Context, force bool) error {
	start := time.Now()

	snap, err := lr.loader.Load()
	if err != nil {
		metrics.ObserveReload(metrics.ReloadError, time.Since(start))
		return fmt.Errorf("failed to load links: %w", err)
	}

	if !force && !lr.index.GetLastReload().IsZero() && snap.Checksum == lr.index.Checksum() {
		lr.logger.Debug("links directory unchanged, skipping reload")
		metrics.ObserveReload(metrics.ReloadUnchanged, time.Since(start))
		return nil
	}

	res := lr.mapper.MapLinks(snap)
	for _, rej := range res.Rejections {
		lr.logRejection(rej)
	}

	var disabled int
	links := lr.index.MergeLinks(func(current []*domain.Link) []*domain.Link {
		merged, n := lr.merge(current, res.Links)
		disabled = n
		return merged
	}, snap.Checksum)
	lr.index.SetRejections(res.Rejections)
	metrics.SetLinkCounts(len(links)-disabled, disabled, len(res.Rejections))

	lr.logger.Info("links reloaded",
		logger.String("dir", lr.loader.Dir()),
		logger.Int("active", len(links)-disabled),
		logger.Int("disabled", disabled),
		logger.Int("rejected", len(res.Rejections)))

	// Update Redis store (best effort)
	if lr.store != nil {
		if err := lr.store.SaveLinksMany(ctx, links); err != nil {
			lr.logger.Warn("failed to save links to redis", logger.Error(err))
			// Don't fail - memory index is the primary source
		}
		if err := lr.store.FlushCache(ctx); err != nil {
			lr.logger.Warn("failed to flush search cache", logger.Error(err))
		}
	}

	metrics.ObserveReload(metrics.ReloadOK, time.Since(start))
	return nil
}

// merge carries identity and usage over from the links already indexed.
// Links that are no longer loaded are kept but disabled, so the garbage
// collector can drop them once they stayed away long enough.
// It runs under the index write lock.
func (lr *LinksReloader) merge(current, fresh []*domain.Link) ([]*domain.Link, int) {
	now := lr.now()

	existing := make(map[string]*domain.Link, len(current))
	for _, l := range current {
		existing[l.ID] = l
	}

	merged := make([]*domain.Link, 0, len(fresh)+len(existing))
	seen := make(map[string]bool, len(fresh))
	for _, link := range fresh {
		seen[link.ID] = true
		if old, ok := existing[link.ID]; ok {
			link.CreatedAt = old.CreatedAt
			link.Clicks = old.Clicks
			link.LastUsedAt = old.LastUsedAt
			if !old.Disabled && old.SameContent(link) {
				link.UpdatedAt = old.UpdatedAt
			} else {
				link.UpdatedAt = now
			}
		}
		merged = append(merged, link)
	}

	disabled := 0
	for id, old := range existing {
		if seen[id] {
			continue
		}
		if !old.Disabled {
			// Link no longer loads - mark as disabled
			old.Disabled = true
			old.UpdatedAt = now
			lr.logger.Info("link disabled", logger.String("link_id", id))
		}
		merged = append(merged, old)
		disabled++
	}

	return merged, disabled
}

func (lr *LinksReloader) logRejection(rej domain.Rejection) {
	if len(rej.Problems) == 0 {
		lr.logger.Warn("link file rejected",
			logger.String("path", rej.Path),
			logger.String("error", rej.Error))
		return
	}
	for _, p := range rej.Problems {
		lr.logger.Warn("link file rejected",
			logger.String("path", rej.Path),
			logger.String("field", p.Field),
			logger.String("kind", p.Kind),
			logger.String("value", p.Value))
	}
}
