package scheduler

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrSnakeDoc/linkdeck/internal/domain"
	"github.com/MrSnakeDoc/linkdeck/internal/index"
	"github.com/MrSnakeDoc/linkdeck/internal/logger"
)

func TestRedisSyncer_Sync(t *testing.T) {
	t.Parallel()
	store, _ := newTestRedisStore(t)
	ctx := context.Background()

	require.NoError(t, store.SaveLinksMany(ctx, []*domain.Link{
		{ID: "grafana", Title: "Grafana", Href: "https://grafana.domain.ext"},
		{ID: "old", Title: "Old", Href: "https://old.domain.ext", Disabled: true},
	}))
	_, err := store.IncrementClicks(ctx, "grafana", time.Now())
	require.NoError(t, err)

	idx := index.NewMemoryIndex()
	require.NoError(t, NewRedisSyncer(store, idx, logger.NewNop()).Sync(ctx))

	assert.Equal(t, 2, idx.Count())
	assert.Equal(t, 1, idx.ActiveCount())
	grafana, ok := idx.GetLink("grafana")
	require.True(t, ok)
	assert.Equal(t, int64(1), grafana.Clicks)
	assert.True(t, idx.GetLastReload().IsZero(), "sync is not a reload")
}

func TestRedisSyncer_SyncEmpty(t *testing.T) {
	t.Parallel()
	store, _ := newTestRedisStore(t)

	idx := index.NewMemoryIndex()
	require.NoError(t, NewRedisSyncer(store, idx, logger.NewNop()).Sync(context.Background()))
	assert.Equal(t, 0, idx.Count())
}
