package handlers

import (
	"net/http"
	"time"

	"github.com/MrSnakeDoc/linkdeck/internal/httpserver/deps"
)

type readyzResponse struct {
	Ready      bool   `json:"ready"`
	Links      int    `json:"links"`
	LastReload string `json:"last_reload,omitempty"`
}

// Readyz answers 200 once the links directory was loaded at least once, 503 before.
func Readyz(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		last := d.MemoryIndex.GetLastReload()
		resp := readyzResponse{
			Ready: !last.IsZero(),
			Links: d.MemoryIndex.ActiveCount(),
		}

		status := http.StatusServiceUnavailable
		if resp.Ready {
			status = http.StatusOK
			resp.LastReload = last.UTC().Format(time.RFC3339)
		}
		writeJSON(w, status, resp)
	}
}
