package handlers

import (
	"net/http"

	"github.com/MrSnakeDoc/linkvault/internal/httpserver/deps"
	"github.com/MrSnakeDoc/linkvault/internal/logger"
	"github.com/MrSnakeDoc/linkvault/internal/share"
)

// Share is the share target: it parks the shared link as the pending draft
// and sends the client home. Nothing is saved until the user confirms.
func Share(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if draft, ok := share.Parse(r.URL.Query()); ok {
			d.Inbox.Put(draft)
			d.Logger.Info("share received", logger.String("url", draft.URL))
		} else {
			d.Logger.Debug("share without a link ignored")
		}
		http.Redirect(w, r, "/", http.StatusSeeOther)
	}
}

// Draft hands out the pending share draft once, 204 when there is none.
func Draft(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		draft, ok := d.Inbox.Take()
		if !ok {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		writeJSON(w, http.StatusOK, draft)
	}
}

type indexResponse struct {
	Service      string `json:"service"`
	Version      string `json:"version"`
	Locked       bool   `json:"locked"`
	PendingShare bool   `json:"pending_share"`
}

// Index is the landing target of share redirects.
func Index(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, indexResponse{
			Service:      "linkvault",
			Version:      d.Version,
			Locked:       d.Gate.IsLocked(),
			PendingShare: d.Inbox.Pending(),
		})
	}
}
