package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/MrSnakeDoc/linkvault/internal/httpserver/deps"
	"github.com/MrSnakeDoc/linkvault/internal/httpserver/handlers"
	"github.com/MrSnakeDoc/linkvault/internal/httpserver/mw"
	"github.com/MrSnakeDoc/linkvault/internal/logger"
)

func init() { Register("lock", registerLock) }

func registerLock(r chi.Router, d deps.Deps) {
	limit := mw.RateLimit(mw.RateLimitConfig{
		Burst:             d.UnlockBurst,
		RefillPerIPPerMin: d.UnlockPerMin,
		MaxEntries:        10000,
		TrustProxy:        d.TrustProxy,
		OnReject: func(r *http.Request, ip string) {
			d.Logger.Warn("unlock rate limited", logger.String("ip", ip))
		},
	})

	r.Group(func(r chi.Router) {
		r.Use(mw.EnforceHost(d.AllowedHosts, d.Logger))

		r.Get("/api/status", handlers.Status(d))
		r.Get("/api/lock", handlers.LockStatus(d))
		r.With(limit).Post("/api/unlock", handlers.Unlock(d))

		r.With(mw.RequireUnlocked(d.Gate, d.Logger)).Post("/api/lock/enable", handlers.EnableLock(d))
		r.With(mw.RequireUnlocked(d.Gate, d.Logger)).Post("/api/lock/disable", handlers.DisableLock(d))
	})
}
