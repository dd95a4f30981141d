package handlers

import (
	"errors"
	"net/http"

	"github.com/MrSnakeDoc/linkvault/internal/gate"
	"github.com/MrSnakeDoc/linkvault/internal/httpserver/deps"
)

type credentialRequest struct {
	Credential string `json:"credential"`
}

// LockStatus serves {enabled, locked}.
func LockStatus(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, d.Gate.Status(r.Context()))
	}
}

// Unlock answers 204 on success and 401 when the credential is refused.
func Unlock(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req credentialRequest
		if err := decodeJSON(w, r, &req); err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}

		if err := d.Gate.Unlock(r.Context(), req.Credential); err != nil {
			writeError(w, http.StatusUnauthorized, err.Error())
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

// EnableLock enrolls a credential; the lock applies from the next start.
func EnableLock(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req credentialRequest
		if err := decodeJSON(w, r, &req); err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}

		switch err := d.Gate.Enable(r.Context(), req.Credential); {
		case err == nil:
			w.WriteHeader(http.StatusNoContent)
		case errors.Is(err, gate.ErrLocked):
			writeError(w, http.StatusLocked, err.Error())
		default:
			writeError(w, http.StatusBadRequest, err.Error())
		}
	}
}

func DisableLock(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		switch err := d.Gate.Disable(r.Context()); {
		case err == nil:
			w.WriteHeader(http.StatusNoContent)
		case errors.Is(err, gate.ErrLocked):
			writeError(w, http.StatusLocked, err.Error())
		default:
			internalError(w, d.Logger, "disable lock failed", err)
		}
	}
}
