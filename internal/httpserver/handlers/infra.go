package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/MrSnakeDoc/linkdeck/internal/httpserver/deps"
)

type componentStatus struct {
	OK         bool   `json:"ok"`
	Active     *int   `json:"active,omitempty"`
	Disabled   *int   `json:"disabled,omitempty"`
	Rejected   *int   `json:"rejected,omitempty"`
	LastReload string `json:"last_reload,omitempty"`
	Source     string `json:"source,omitempty"`
	Mode       string `json:"mode,omitempty"`
	Impact     string `json:"impact,omitempty"`
	Error      string `json:"error,omitempty"`
}

type infraResponse struct {
	RoutingMode string                     `json:"routing_mode"`
	Components  map[string]componentStatus `json:"components"`
}

// Infra reports the state of every component and an overall routing mode.
func Infra(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		components := map[string]componentStatus{
			"links":  linksStatus(d),
			"redis":  checkRedis(r.Context(), d),
			"search": searchStatus(d),
		}

		writeJSON(w, http.StatusOK, infraResponse{
			RoutingMode: determineRoutingMode(components),
			Components:  components,
		})
	}
}

func linksStatus(d deps.Deps) componentStatus {
	active := d.MemoryIndex.ActiveCount()
	disabled := d.MemoryIndex.Count() - active
	rejected := len(d.MemoryIndex.Rejections())

	lastReload := "never"
	if last := d.MemoryIndex.GetLastReload(); !last.IsZero() {
		lastReload = last.UTC().Format(time.RFC3339)
	}

	return componentStatus{
		OK:         active > 0,
		Active:     &active,
		Disabled:   &disabled,
		Rejected:   &rejected,
		LastReload: lastReload,
		Source:     d.LinksDir,
	}
}

func searchStatus(d deps.Deps) componentStatus {
	mode := "fuzzy+usage+probe"
	if d.SkipProbe {
		mode = "fuzzy+usage"
	}
	return componentStatus{OK: true, Mode: mode}
}

func determineRoutingMode(components map[string]componentStatus) string {
	// No active link = nothing to route to
	if links, exists := components["links"]; exists && !links.OK {
		return "critical"
	}

	// Redis down = degraded (no click history, no cache); switched off is fine
	if redis, exists := components["redis"]; exists && !redis.OK && redis.Mode != "disabled" {
		return "degraded"
	}

	return "optimal"
}

func checkRedis(ctx context.Context, d deps.Deps) componentStatus {
	if d.Store == nil {
		return componentStatus{
			OK:     false,
			Mode:   "disabled",
			Impact: "clicks-not-persisted",
		}
	}

	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()

	if err := d.Store.Ping(ctx); err != nil {
		return componentStatus{
			OK:     false,
			Mode:   "degraded",
			Impact: "clicks-not-persisted",
			Error:  err.Error(),
		}
	}

	return componentStatus{
		OK:     true,
		Mode:   "optimal",
		Impact: "clicks-persisted",
	}
}
