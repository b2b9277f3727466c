package domain

import (
	"net/url"
	"strings"
	"time"

	"github.com/MrSnakeDoc/linkdeck/internal/linkschema"
)

// SourceContent marks links discovered in the links content directory.
const SourceContent = "content"

// Link is the runtime view of one validated link entry.
//
// It is built from a linkschema.LinkEntry and enriched with identity,
// provenance and usage data. It is NOT tied to Redis or the file layout.
type Link struct {
	// ─────────────────────────────
	// Identity (immutable)
	// ─────────────────────────────

	// ID is the data file name without extension.
	// Example: grafana (from links/grafana.yaml)
	ID string `json:"id"`

	// ─────────────────────────────
	// Validated content
	// (overwritten on every reload)
	// ─────────────────────────────

	Title   string             `json:"title"`
	Href    string             `json:"href"`
	Icon    string             `json:"icon,omitempty"`
	Section linkschema.Section `json:"section"`
	Order   int                `json:"order"`

	// ─────────────────────────────
	// Provenance & usage
	// ─────────────────────────────

	// Sources indicates where this link was discovered from.
	Sources []string `json:"sources,omitempty"`

	// Clicks counts redirects through the search endpoint.
	Clicks int64 `json:"clicks"`

	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
	LastUsedAt time.Time `json:"last_used_at,omitempty"`

	// ─────────────────────────────
	// Liveness & cleanup
	// ─────────────────────────────

	// Disabled marks a link whose file disappeared or stopped validating.
	// It may be garbage-collected later.
	Disabled bool `json:"disabled,omitempty"`
}

// NewLink builds an active link from a validated entry.
func NewLink(id string, entry linkschema.LinkEntry, now time.Time) *Link {
	return &Link{
		ID:        id,
		Title:     entry.Title,
		Href:      entry.Href,
		Icon:      entry.IconOr(""),
		Section:   entry.Section,
		Order:     entry.Order,
		Sources:   []string{SourceContent},
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// Hostname returns the lower-cased host of Href, or "" if Href does not parse.
func (l *Link) Hostname() string {
	u, err := url.Parse(l.Href)
	if err != nil {
		return ""
	}
	return strings.ToLower(u.Hostname())
}

// HasSource reports whether the link was seen from source.
func (l *Link) HasSource(source string) bool {
	for _, s := range l.Sources {
		if s == source {
			return true
		}
	}
	return false
}

// SameContent reports whether l and other carry identical validated fields.
func (l *Link) SameContent(other *Link) bool {
	return l.Title == other.Title &&
		l.Href == other.Href &&
		l.Icon == other.Icon &&
		l.Section == other.Section &&
		l.Order == other.Order
}
