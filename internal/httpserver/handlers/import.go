package handlers

import (
	"net/http"

	"github.com/MrSnakeDoc/linkvault/internal/httpserver/deps"
	"github.com/MrSnakeDoc/linkvault/internal/logger"
)

type importResponse struct {
	Status string `json:"status"`
}

// Import triggers a manual homepage import. The import itself runs in the
// scheduler; a trigger that is already pending answers 429.
func Import(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if d.ImportTrigger == nil {
			writeError(w, http.StatusNotFound, "homepage import is not configured")
			return
		}

		select {
		case d.ImportTrigger <- struct{}{}:
			d.Logger.Info("manual homepage import triggered via endpoint",
				logger.String("remote_ip", r.RemoteAddr))
			writeJSON(w, http.StatusAccepted, importResponse{Status: "triggered"})
		default:
			d.Logger.Warn("homepage import already pending",
				logger.String("remote_ip", r.RemoteAddr))
			writeError(w, http.StatusTooManyRequests, "import already in progress, please wait")
		}
	}
}
