package handlers

import (
	"errors"
	"net/http"
	"net/url"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/MrSnakeDoc/linkvault/internal/domain"
	"github.com/MrSnakeDoc/linkvault/internal/httpserver/deps"
	"github.com/MrSnakeDoc/linkvault/internal/links"
	"github.com/MrSnakeDoc/linkvault/internal/logger"
)

type createLinkRequest struct {
	domain.Draft
	Smart bool `json:"smart"`
}

type listResponse struct {
	Count int                 `json:"count"`
	Links []domain.LinkRecord `json:"links"`
}

func newListResponse(out []domain.LinkRecord) listResponse {
	if out == nil {
		out = []domain.LinkRecord{}
	}
	return listResponse{Count: len(out), Links: out}
}

// ListLinks serves a view: ?folder=all|favorites|unread&q=&sort=newest|oldest|az&limit=
func ListLinks(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		p, err := parseParams(r.URL.Query())
		if err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		writeJSON(w, http.StatusOK, newListResponse(d.Links.List(r.Context(), p)))
	}
}

// CreateLink saves a new link, asking the enricher first when smart is set.
func CreateLink(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req createLinkRequest
		if err := decodeJSON(w, r, &req); err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}

		rec, err := d.Links.Create(r.Context(), req.Draft, req.Smart)
		if err != nil {
			linkError(w, d.Logger, "create link", err)
			return
		}
		w.Header().Set("Location", "/api/links/"+url.PathEscape(rec.ID))
		writeJSON(w, http.StatusCreated, rec)
	}
}

func GetLink(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rec, err := d.Links.Get(r.Context(), chi.URLParam(r, "id"))
		if err != nil {
			linkError(w, d.Logger, "get link", err)
			return
		}
		writeJSON(w, http.StatusOK, rec)
	}
}

// UpdateLink replaces the editable fields. id and createdAt in the body are
// ignored.
func UpdateLink(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var in domain.LinkRecord
		if err := decodeJSON(w, r, &in); err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}

		rec, err := d.Links.Update(r.Context(), chi.URLParam(r, "id"), in)
		if err != nil {
			linkError(w, d.Logger, "update link", err)
			return
		}
		writeJSON(w, http.StatusOK, rec)
	}
}

func ToggleFavorite(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rec, err := d.Links.ToggleFavorite(r.Context(), chi.URLParam(r, "id"))
		if err != nil {
			linkError(w, d.Logger, "toggle favorite", err)
			return
		}
		writeJSON(w, http.StatusOK, rec)
	}
}

func ToggleRead(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rec, err := d.Links.ToggleRead(r.Context(), chi.URLParam(r, "id"))
		if err != nil {
			linkError(w, d.Logger, "toggle read", err)
			return
		}
		writeJSON(w, http.StatusOK, rec)
	}
}

// EnrichLink merges an enrichment into an existing link. With ?async=true
// the merge happens in the background and 202 is returned at once.
func EnrichLink(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")

		async, _ := strconv.ParseBool(r.URL.Query().Get("async"))
		if async {
			rec, err := d.Links.Get(r.Context(), id)
			if err != nil {
				linkError(w, d.Logger, "enrich link", err)
				return
			}
			d.Links.EnrichAsync(r.Context(), id)
			writeJSON(w, http.StatusAccepted, rec)
			return
		}

		rec, err := d.Links.Enrich(r.Context(), id)
		if err != nil {
			linkError(w, d.Logger, "enrich link", err)
			return
		}
		writeJSON(w, http.StatusOK, rec)
	}
}

// DeleteLink is idempotent: unknown ids also answer 204.
func DeleteLink(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := d.Links.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
			internalError(w, d.Logger, "delete link failed", err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

// ClearAll wipes every record and the lock settings.
func ClearAll(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := d.Links.Clear(r.Context()); err != nil {
			internalError(w, d.Logger, "clear data failed", err)
			return
		}
		d.Logger.Warn("all data cleared via endpoint", logger.String("remote_ip", r.RemoteAddr))
		w.WriteHeader(http.StatusNoContent)
	}
}

// Recents serves the newest links, ?limit= defaults to 5 and must be
// positive when given.
func Recents(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		limit, err := parseRecentsLimit(r.URL.Query().Get("limit"))
		if err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		writeJSON(w, http.StatusOK, newListResponse(d.Links.Recents(r.Context(), limit)))
	}
}

func Stats(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, d.Links.Stats(r.Context()))
	}
}

func parseParams(q url.Values) (domain.Params, error) {
	folder, err := domain.ParseFolder(q.Get("folder"))
	if err != nil {
		return domain.Params{}, err
	}
	order, err := domain.ParseSort(q.Get("sort"))
	if err != nil {
		return domain.Params{}, err
	}
	limit, err := parseLimit(q.Get("limit"))
	if err != nil {
		return domain.Params{}, err
	}
	return domain.Params{Folder: folder, Query: q.Get("q"), Sort: order, Limit: limit}, nil
}

func parseLimit(s string) (int, error) {
	if s == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil || n < 0 {
		return 0, errors.New("limit must be a non-negative integer")
	}
	return n, nil
}

func parseRecentsLimit(s string) (int, error) {
	if s == "" {
		return domain.DefaultRecentsLimit, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil || n < 1 {
		return 0, errors.New("limit must be a positive integer")
	}
	return n, nil
}

func linkError(w http.ResponseWriter, log logger.Logger, op string, err error) {
	switch {
	case errors.Is(err, links.ErrNotFound):
		writeError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, links.ErrInvalid):
		writeError(w, http.StatusBadRequest, err.Error())
	default:
		internalError(w, log, op+" failed", err)
	}
}
