package mw

import (
	"net/http"

	"github.com/MrSnakeDoc/linkvault/internal/gate"
	"github.com/MrSnakeDoc/linkvault/internal/logger"
)

// RequireUnlocked answers 423 Locked while the gate is locked.
func RequireUnlocked(g *gate.Gate, log logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if g.IsLocked() {
				log.Debugf("RequireUnlocked: %s %s REJECTED", r.Method, r.URL.Path)
				reject(w, http.StatusLocked, gate.ErrLocked.Error())
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
