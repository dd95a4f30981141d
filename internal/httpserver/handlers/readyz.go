package handlers

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/MrSnakeDoc/linkvault/internal/httpserver/deps"
	"github.com/MrSnakeDoc/linkvault/internal/logger"
	"github.com/MrSnakeDoc/linkvault/internal/storage"
	"github.com/MrSnakeDoc/linkvault/internal/vault"
)

const probeTimeout = 2 * time.Second

var timeNow = time.Now

type readyzResponse struct {
	Ready   bool   `json:"ready"`
	Storage string `json:"storage"`
}

// Readyz reports ready once the storage backend answers a read of the
// collection key.
func Readyz(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := probeStorage(r.Context(), d.Storage); err != nil {
			d.Logger.Warn("readiness probe failed",
				logger.String("storage", d.StorageKind),
				logger.Error(err))
			writeJSON(w, http.StatusServiceUnavailable, readyzResponse{Ready: false, Storage: d.StorageKind})
			return
		}
		writeJSON(w, http.StatusOK, readyzResponse{Ready: true, Storage: d.StorageKind})
	}
}

// probeStorage reads the collection key. A missing key still proves the
// backend is reachable.
func probeStorage(parent context.Context, st storage.Storage) error {
	if st == nil {
		return errors.New("storage not initialized")
	}
	ctx, cancel := context.WithTimeout(parent, probeTimeout)
	defer cancel()

	_, err := st.Get(ctx, vault.ItemsKey)
	if errors.Is(err, storage.ErrNotFound) {
		return nil
	}
	return err
}
