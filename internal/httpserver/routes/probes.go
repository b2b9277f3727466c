package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/MrSnakeDoc/linkdeck/internal/httpserver/deps"
	"github.com/MrSnakeDoc/linkdeck/internal/httpserver/handlers"
	"github.com/MrSnakeDoc/linkdeck/internal/httpserver/mw"
	"github.com/MrSnakeDoc/linkdeck/internal/metrics"
)

func init() { Register(registerProbes) }

// registerProbes wires the liveness, readiness and metrics endpoints.
// They are filtered by source IP only so orchestrators can reach them by address.
func registerProbes(r chi.Router, d deps.Deps) {
	r = r.With(mw.AllowOnlyCIDRS(d.AllowedCIDRS, d.TrustProxy, d.Logger))
	r.Get("/healthz", handlers.Healthz(d))
	r.Get("/readyz", handlers.Readyz(d))
	r.Method(http.MethodGet, "/metrics", metrics.Handler())
}
