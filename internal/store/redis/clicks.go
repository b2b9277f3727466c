package redis

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/MrSnakeDoc/linkdeck/internal/domain"
)

// ClickStat is the usage of one link.
type ClickStat struct {
	Clicks     int64
	LastUsedAt time.Time
}

// ClickStats maps link IDs to their usage.
type ClickStats map[string]ClickStat

func (cs ClickStats) apply(link *domain.Link) {
	if st, ok := cs[link.ID]; ok {
		link.Clicks = st.Clicks
		link.LastUsedAt = st.LastUsedAt
	}
}

// IncrementClicks counts one use of a link and returns the new total.
func (s *Store) IncrementClicks(ctx context.Context, id string, at time.Time) (int64, error) {
	pipe := s.client.TxPipeline()
	incr := pipe.HIncrBy(ctx, KeyClicks, id, 1)
	pipe.HSet(ctx, KeyLastUsed, id, at.Unix())

	if _, err := pipe.Exec(ctx); err != nil {
		return 0, fmt.Errorf("failed to increment clicks: %w", err)
	}
	return incr.Val(), nil
}

// ClickStats retrieves usage statistics for all links
func (s *Store) ClickStats(ctx context.Context) (ClickStats, error) {
	pipe := s.client.Pipeline()
	clicks := pipe.HGetAll(ctx, KeyClicks)
	lastUsed := pipe.HGetAll(ctx, KeyLastUsed)
	if _, err := pipe.Exec(ctx); err != nil {
		return nil, fmt.Errorf("failed to get click stats: %w", err)
	}

	stats := make(ClickStats, len(clicks.Val()))
	for id, raw := range clicks.Val() {
		n, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			continue
		}
		st := ClickStat{Clicks: n}
		if ts, err := strconv.ParseInt(lastUsed.Val()[id], 10, 64); err == nil {
			st.LastUsedAt = time.Unix(ts, 0)
		}
		stats[id] = st
	}
	return stats, nil
}
