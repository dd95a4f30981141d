package routes

import (
	"github.com/go-chi/chi/v5"

	"github.com/MrSnakeDoc/linkvault/internal/httpserver/deps"
	"github.com/MrSnakeDoc/linkvault/internal/httpserver/handlers"
	"github.com/MrSnakeDoc/linkvault/internal/httpserver/mw"
)

func init() { Register("links", registerLinks) }

func registerLinks(r chi.Router, d deps.Deps) {
	r.Group(func(r chi.Router) {
		r.Use(mw.EnforceHost(d.AllowedHosts, d.Logger))
		r.Use(mw.RequireUnlocked(d.Gate, d.Logger))

		r.Get("/api/links", handlers.ListLinks(d))
		r.Post("/api/links", handlers.CreateLink(d))
		r.Delete("/api/links", handlers.ClearAll(d))

		r.Get("/api/links/{id}", handlers.GetLink(d))
		r.Put("/api/links/{id}", handlers.UpdateLink(d))
		r.Delete("/api/links/{id}", handlers.DeleteLink(d))
		r.Post("/api/links/{id}/favorite", handlers.ToggleFavorite(d))
		r.Post("/api/links/{id}/read", handlers.ToggleRead(d))
		r.Post("/api/links/{id}/enrich", handlers.EnrichLink(d))

		r.Get("/api/recents", handlers.Recents(d))
		r.Get("/api/stats", handlers.Stats(d))
		r.Post("/api/import", handlers.Import(d))
	})
}
