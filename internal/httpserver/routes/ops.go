package routes

import (
	"github.com/go-chi/chi/v5"

	"github.com/MrSnakeDoc/linkdeck/internal/httpserver/deps"
	"github.com/MrSnakeDoc/linkdeck/internal/httpserver/handlers"
)

func init() { Register(registerOps) }

func registerOps(r chi.Router, d deps.Deps) {
	r = r.With(guard(d)...)
	r.Post("/reload", handlers.Reload(d))
	r.Get("/infra", handlers.Infra(d))
	r.Get("/rejections", handlers.Rejections(d))
}
