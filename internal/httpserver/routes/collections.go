package routes

import (
	"github.com/go-chi/chi/v5"

	"github.com/MrSnakeDoc/linkdeck/internal/httpserver/deps"
	"github.com/MrSnakeDoc/linkdeck/internal/httpserver/handlers"
	"github.com/MrSnakeDoc/linkdeck/internal/httpserver/mw"
)

func init() { Register(registerCollections) }

func registerCollections(r chi.Router, d deps.Deps) {
	r = r.With(guard(d)...)
	r.Get("/collections", handlers.Collections(d))
	r.With(mw.RateLimit(mw.RateLimitConfig{
		Burst:      d.RateLimitBurst,
		Refill:     d.RateLimitRefill,
		MaxEntries: 4096,
		TrustProxy: d.TrustProxy,
	})).Post("/collections/{name}/validate", handlers.Validate(d))
}
