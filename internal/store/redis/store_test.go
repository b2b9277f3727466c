package redis

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrSnakeDoc/linkdeck/internal/domain"
	"github.com/MrSnakeDoc/linkdeck/internal/linkschema"
)

func newTestStore(t *testing.T) (*Store, *miniredis.Miniredis) {
	t.Helper()

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	return NewStore(client), mr
}

func testLink(id string) *domain.Link {
	return &domain.Link{
		ID:      id,
		Title:   "Title " + id,
		Href:    "https://" + id + ".domain.ext",
		Section: linkschema.SectionContent,
		Order:   1,
		Sources: []string{domain.SourceContent},
	}
}

func TestStoreSaveAndGetLink(t *testing.T) {
	t.Parallel()
	store, mr := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.SaveLink(ctx, testLink("jellyfin")))
	assert.True(t, mr.Exists(LinkKey("jellyfin")))

	got, err := store.GetLink(ctx, "jellyfin")
	require.NoError(t, err)
	assert.Equal(t, "Title jellyfin", got.Title)
	assert.Equal(t, linkschema.SectionContent, got.Section)

	_, err = store.GetLink(ctx, "missing")
	require.ErrorIs(t, err, ErrNotFound)
}

func TestStoreSaveLinksManyAndGetAll(t *testing.T) {
	t.Parallel()
	store, _ := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.SaveLinksMany(ctx, nil))
	require.NoError(t, store.SaveLinksMany(ctx, []*domain.Link{testLink("a"), testLink("b"), testLink("c")}))

	// A dangling id and a corrupt value are skipped.
	require.NoError(t, store.client.SAdd(ctx, AllLinksKey(), "ghost", "corrupt").Err())
	require.NoError(t, store.client.Set(ctx, LinkKey("corrupt"), "{not json", 0).Err())

	links, err := store.GetAllLinks(ctx)
	require.NoError(t, err)

	ids := make([]string, 0, len(links))
	for _, l := range links {
		ids = append(ids, l.ID)
	}
	assert.ElementsMatch(t, []string{"a", "b", "c"}, ids)
}

func TestStoreGetAllLinksEmpty(t *testing.T) {
	t.Parallel()
	store, _ := newTestStore(t)

	links, err := store.GetAllLinks(context.Background())
	require.NoError(t, err)
	assert.Empty(t, links)
}

func TestStoreDeleteLink(t *testing.T) {
	t.Parallel()
	store, mr := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.SaveLink(ctx, testLink("old")))
	_, err := store.IncrementClicks(ctx, "old", time.Now())
	require.NoError(t, err)

	require.NoError(t, store.DeleteLink(ctx, "old"))

	assert.False(t, mr.Exists(LinkKey("old")))
	isMember, err := store.client.SIsMember(ctx, AllLinksKey(), "old").Result()
	require.NoError(t, err)
	assert.False(t, isMember)
	assert.False(t, store.client.HExists(ctx, KeyClicks, "old").Val())
}

func TestStoreClicks(t *testing.T) {
	t.Parallel()
	store, _ := newTestStore(t)
	ctx := context.Background()
	at := time.Unix(1_700_000_000, 0)

	require.NoError(t, store.SaveLink(ctx, testLink("grafana")))

	for i := 1; i <= 3; i++ {
		n, err := store.IncrementClicks(ctx, "grafana", at)
		require.NoError(t, err)
		assert.Equal(t, int64(i), n)
	}

	stats, err := store.ClickStats(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(3), stats["grafana"].Clicks)
	assert.True(t, stats["grafana"].LastUsedAt.Equal(at))

	// Saving again keeps the counter.
	require.NoError(t, store.SaveLink(ctx, testLink("grafana")))
	got, err := store.GetLink(ctx, "grafana")
	require.NoError(t, err)
	assert.Equal(t, int64(3), got.Clicks)
}

func TestStoreCache(t *testing.T) {
	t.Parallel()
	store, mr := newTestStore(t)
	ctx := context.Background()

	got, err := store.GetCachedResolution(ctx, "graf")
	require.NoError(t, err)
	assert.Empty(t, got)

	require.NoError(t, store.CacheResolution(ctx, " Graf ", "grafana", time.Minute))
	got, err = store.GetCachedResolution(ctx, "graf")
	require.NoError(t, err)
	assert.Equal(t, "grafana", got)

	mr.FastForward(2 * time.Minute)
	got, err = store.GetCachedResolution(ctx, "graf")
	require.NoError(t, err)
	assert.Empty(t, got, "entry should expire")

	require.NoError(t, store.CacheResolution(ctx, "jelly", "jellyfin", time.Minute))
	require.NoError(t, store.InvalidateCache(ctx, "JELLY"))
	assert.False(t, mr.Exists(CacheKey("jelly")))
}

func TestStoreFlushCache(t *testing.T) {
	t.Parallel()
	store, mr := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.SaveLink(ctx, testLink("keep")))
	for i := 0; i < 250; i++ {
		require.NoError(t, store.CacheResolution(ctx, fmt.Sprintf("q%d", i), "keep", DefaultCacheTTL))
	}

	require.NoError(t, store.FlushCache(ctx))

	for _, key := range mr.Keys() {
		assert.NotContains(t, key, KeyPrefixCache)
	}
	assert.True(t, mr.Exists(LinkKey("keep")))
}

func TestStorePing(t *testing.T) {
	t.Parallel()
	store, mr := newTestStore(t)

	require.NoError(t, store.Ping(context.Background()))

	mr.Close()
	assert.Error(t, store.Ping(context.Background()))
}

func TestExtractLinkID(t *testing.T) {
	t.Parallel()

	id, err := ExtractLinkID(LinkKey("grafana"))
	require.NoError(t, err)
	assert.Equal(t, "grafana", id)

	_, err = ExtractLinkID(KeyPrefixLink)
	require.Error(t, err)
	_, err = ExtractLinkID(CacheKey("grafana"))
	require.Error(t, err)
}
