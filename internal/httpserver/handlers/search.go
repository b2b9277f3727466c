package handlers

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/MrSnakeDoc/linkdeck/internal/domain"
	"github.com/MrSnakeDoc/linkdeck/internal/httpserver/deps"
	"github.com/MrSnakeDoc/linkdeck/internal/logger"
	redisstore "github.com/MrSnakeDoc/linkdeck/internal/store/redis"
)

// internalEndpoints can be reached from the search box with a leading "/".
var internalEndpoints = []string{
	"/healthz",
	"/infra",
	"/links",
	"/metrics",
	"/readyz",
	"/rejections",
	"/sections",
}

// Search redirects a free-text query to the best matching live link,
// or to the fallback URL when nothing matches.
func Search(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		query := strings.TrimSpace(r.URL.Query().Get("q"))

		// Empty query -> fallback
		if query == "" {
			d.Logger.Debug("empty query, redirecting to fallback")
			http.Redirect(w, r, d.FallbackURL, http.StatusFound)
			return
		}

		d.Logger.Info("search request", logger.String("query", query))

		// Special case: internal endpoints (queries starting with /)
		if strings.HasPrefix(query, "/") {
			handleInternalEndpoint(w, r, query, d)
			return
		}

		// Try cache first
		if handleCachedLink(ctx, w, r, query, d) {
			return
		}

		handleLinkSearch(ctx, w, r, query, d)
	}
}

// handleInternalEndpoint redirects to the only internal endpoint starting with query
func handleInternalEndpoint(w http.ResponseWriter, r *http.Request, query string, d deps.Deps) {
	if endpoint := matchInternalEndpoint(query); endpoint != "" {
		d.Logger.Info("internal endpoint redirect",
			logger.String("query", query),
			logger.String("endpoint", endpoint))
		http.Redirect(w, r, endpoint, http.StatusFound)
		return
	}
	d.Logger.Debug("no internal endpoint matched", logger.String("query", query))
	http.Redirect(w, r, d.FallbackURL, http.StatusFound)
}

// handleCachedLink follows a cached resolution if its link is still active and alive.
// Returns true if the request was answered.
func handleCachedLink(ctx context.Context, w http.ResponseWriter, r *http.Request, query string, d deps.Deps) bool {
	if d.Store == nil {
		return false
	}

	linkID, err := d.Store.GetCachedResolution(ctx, query)
	if err != nil || linkID == "" {
		return false
	}

	link, ok := d.MemoryIndex.GetLink(linkID)
	if ok && !link.Disabled && isAlive(ctx, link, d) {
		d.Logger.Info("cache hit, redirecting",
			logger.String("query", query),
			logger.String("link_id", link.ID))
		recordClick(ctx, link.ID, d)
		http.Redirect(w, r, link.Href, http.StatusFound)
		return true
	}

	// Cached link vanished or is down, invalidate cache
	d.Logger.Debug("cached link unusable, invalidating cache", logger.String("link_id", linkID))
	_ = d.Store.InvalidateCache(ctx, query)
	return false
}

// handleLinkSearch ranks links, probes the best candidates and redirects to the first live one
func handleLinkSearch(ctx context.Context, w http.ResponseWriter, r *http.Request, query string, d deps.Deps) {
	candidates := domain.RankLinks(query, d.MemoryIndex.GetAllLinks())
	if len(candidates) == 0 {
		d.Logger.Info("no matching links found", logger.String("query", query))
		http.Redirect(w, r, d.FallbackURL, http.StatusFound)
		return
	}

	// Limit candidates to MaxCandidates (top N only)
	if d.MaxCandidates > 0 && len(candidates) > d.MaxCandidates {
		candidates = candidates[:d.MaxCandidates]
	}

	var best *domain.LinkCandidate
	if d.SkipProbe {
		best = candidates[0]
	} else {
		best = domain.FirstAlive(ctx, candidates, d.ProbeTimeout)
	}
	if best == nil {
		d.Logger.Warn("no live link found for query", logger.String("query", query))
		http.Redirect(w, r, d.FallbackURL, http.StatusFound)
		return
	}

	d.Logger.Info("resolved link",
		logger.String("query", query),
		logger.String("link_id", best.Link.ID),
		logger.String("score", fmt.Sprintf("%.2f", best.TotalScore)))

	recordClick(ctx, best.Link.ID, d)

	if d.Store != nil {
		if err := d.Store.CacheResolution(ctx, query, best.Link.ID, redisstore.DefaultCacheTTL); err != nil {
			d.Logger.Debug("failed to cache resolution", logger.Error(err))
		}
	}

	http.Redirect(w, r, best.Link.Href, http.StatusFound)
}

func isAlive(ctx context.Context, link *domain.Link, d deps.Deps) bool {
	if d.SkipProbe {
		return true
	}
	return domain.ProbeLink(ctx, link.Href, d.ProbeTimeout) == nil
}

// recordClick counts a use in memory and, best effort, in Redis.
func recordClick(ctx context.Context, id string, d deps.Deps) {
	d.MemoryIndex.IncrementClicks(id)
	if d.Store == nil {
		return
	}
	if _, err := d.Store.IncrementClicks(ctx, id, d.Now()); err != nil {
		d.Logger.Debug("failed to persist click", logger.String("link_id", id), logger.Error(err))
	}
}

// matchInternalEndpoint returns the endpoint if exactly one starts with query.
func matchInternalEndpoint(query string) string {
	query = strings.ToLower(query)
	var matches []string
	for _, endpoint := range internalEndpoints {
		if strings.HasPrefix(endpoint, query) {
			matches = append(matches, endpoint)
		}
	}
	if len(matches) == 1 {
		return matches[0]
	}
	return ""
}
