// Package redis mirrors the link index into Redis so click counts and the
// search cache survive restarts.
package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/MrSnakeDoc/linkdeck/internal/domain"
)

// DefaultCacheTTL is the default TTL for cached search resolutions (24 hours)
const DefaultCacheTTL = 24 * time.Hour

// ErrNotFound is returned when a link is not stored.
var ErrNotFound = errors.New("link not found")

// Store handles Redis operations for links, clicks and the search cache
type Store struct {
	client *redis.Client
}

// NewStore creates a new Redis store
func NewStore(client *redis.Client) *Store {
	return &Store{
		client: client,
	}
}

// Ping checks the connection.
func (s *Store) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}

// SaveLink stores a link in Redis.
// Click counts live in their own hash and are not overwritten.
func (s *Store) SaveLink(ctx context.Context, link *domain.Link) error {
	return s.SaveLinksMany(ctx, []*domain.Link{link})
}

// SaveLinksMany stores multiple links in one pipeline
func (s *Store) SaveLinksMany(ctx context.Context, links []*domain.Link) error {
	if len(links) == 0 {
		return nil
	}

	pipe := s.client.Pipeline()
	for _, link := range links {
		data, err := json.Marshal(link)
		if err != nil {
			return fmt.Errorf("failed to marshal link %s: %w", link.ID, err)
		}
		pipe.Set(ctx, LinkKey(link.ID), data, 0)
		pipe.SAdd(ctx, AllLinksKey(), link.ID)
	}

	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to save links: %w", err)
	}
	return nil
}

// GetLink retrieves a link from Redis by ID, with its click data
func (s *Store) GetLink(ctx context.Context, id string) (*domain.Link, error) {
	data, err := s.client.Get(ctx, LinkKey(id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
		}
		return nil, fmt.Errorf("failed to get link: %w", err)
	}

	link, err := decodeLink(data)
	if err != nil {
		return nil, err
	}

	clicks, err := s.ClickStats(ctx)
	if err != nil {
		return nil, err
	}
	clicks.apply(link)

	return link, nil
}

// GetAllLinks retrieves all links from Redis. Entries that vanished or do
// not decode are skipped.
func (s *Store) GetAllLinks(ctx context.Context) ([]*domain.Link, error) {
	ids, err := s.client.SMembers(ctx, AllLinksKey()).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to get link IDs: %w", err)
	}
	if len(ids) == 0 {
		return []*domain.Link{}, nil
	}

	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = LinkKey(id)
	}
	values, err := s.client.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to get links: %w", err)
	}

	clicks, err := s.ClickStats(ctx)
	if err != nil {
		return nil, err
	}

	links := make([]*domain.Link, 0, len(values))
	for _, v := range values {
		raw, ok := v.(string)
		if !ok {
			continue
		}
		link, err := decodeLink([]byte(raw))
		if err != nil {
			continue
		}
		clicks.apply(link)
		links = append(links, link)
	}

	return links, nil
}

// DeleteLink removes a link and its click data from Redis
func (s *Store) DeleteLink(ctx context.Context, id string) error {
	pipe := s.client.TxPipeline()
	pipe.Del(ctx, LinkKey(id))
	pipe.SRem(ctx, AllLinksKey(), id)
	pipe.HDel(ctx, KeyClicks, id)
	pipe.HDel(ctx, KeyLastUsed, id)

	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to delete link: %w", err)
	}
	return nil
}

func decodeLink(data []byte) (*domain.Link, error) {
	var link domain.Link
	if err := json.Unmarshal(data, &link); err != nil {
		return nil, fmt.Errorf("failed to unmarshal link: %w", err)
	}
	return &link, nil
}
