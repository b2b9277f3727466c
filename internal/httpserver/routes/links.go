package routes

import (
	"github.com/go-chi/chi/v5"

	"github.com/MrSnakeDoc/linkdeck/internal/httpserver/deps"
	"github.com/MrSnakeDoc/linkdeck/internal/httpserver/handlers"
)

func init() { Register(registerLinks) }

func registerLinks(r chi.Router, d deps.Deps) {
	r = r.With(guard(d)...)
	r.Get("/links", handlers.Links(d))
	r.Get("/links/{id}", handlers.Link(d))
	r.Get("/sections", handlers.Sections(d))
}
