package routes

import (
	"github.com/go-chi/chi/v5"

	"github.com/MrSnakeDoc/linkvault/internal/httpserver/deps"
	"github.com/MrSnakeDoc/linkvault/internal/httpserver/handlers"
	"github.com/MrSnakeDoc/linkvault/internal/httpserver/mw"
)

func init() { Register("share", registerShare) }

// The share target stays reachable while locked, the draft does not.
func registerShare(r chi.Router, d deps.Deps) {
	r.Get("/", handlers.Index(d))
	r.Get("/share", handlers.Share(d))
	r.With(mw.EnforceHost(d.AllowedHosts, d.Logger), mw.RequireUnlocked(d.Gate, d.Logger)).Get("/api/draft", handlers.Draft(d))
}
