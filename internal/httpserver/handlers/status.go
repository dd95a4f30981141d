package handlers

import (
	"net/http"

	"github.com/MrSnakeDoc/linkvault/internal/enrich"
	"github.com/MrSnakeDoc/linkvault/internal/httpserver/deps"
)

type componentStatus struct {
	OK      bool   `json:"ok"`
	Backend string `json:"backend,omitempty"`
	Mode    string `json:"mode,omitempty"`
	Enabled *bool  `json:"enabled,omitempty"`
	Locked  *bool  `json:"locked,omitempty"`
	Impact  string `json:"impact,omitempty"`
	Error   string `json:"error,omitempty"`
}

type statusResponse struct {
	Mode       string                     `json:"mode"`
	Components map[string]componentStatus `json:"components"`
}

// Status reports the state of each component. It is readable while locked:
// it never exposes records.
func Status(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		components := map[string]componentStatus{
			"storage":    checkStorage(r, d),
			"gate":       gateStatus(r, d),
			"enrichment": enrichmentStatus(d),
			"importer": {
				OK:      true,
				Enabled: boolPtr(d.ImportTrigger != nil),
			},
		}

		writeJSON(w, http.StatusOK, statusResponse{
			Mode:       determineMode(components),
			Components: components,
		})
	}
}

func determineMode(components map[string]componentStatus) string {
	// Nothing works without storage
	if st, exists := components["storage"]; exists && !st.OK {
		return "critical"
	}

	// Links still save, only without AI content
	if en, exists := components["enrichment"]; exists && en.Mode == "disabled" {
		return "degraded"
	}

	return "optimal"
}

func checkStorage(r *http.Request, d deps.Deps) componentStatus {
	if err := probeStorage(r.Context(), d.Storage); err != nil {
		return componentStatus{
			OK:      false,
			Backend: d.StorageKind,
			Impact:  "links-unavailable",
			Error:   err.Error(),
		}
	}
	return componentStatus{OK: true, Backend: d.StorageKind}
}

func gateStatus(r *http.Request, d deps.Deps) componentStatus {
	if d.Gate == nil {
		return componentStatus{OK: false, Error: "gate not initialized"}
	}
	st := d.Gate.Status(r.Context())
	return componentStatus{OK: true, Enabled: boolPtr(st.Enabled), Locked: boolPtr(st.Locked)}
}

func enrichmentStatus(d deps.Deps) componentStatus {
	if d.Links == nil {
		return componentStatus{OK: false, Mode: "disabled"}
	}
	mode := enrich.Mode(d.Links.Enricher())
	if mode == "disabled" {
		return componentStatus{OK: true, Mode: mode, Impact: "no-ai-descriptions"}
	}
	return componentStatus{OK: true, Mode: mode}
}

func boolPtr(b bool) *bool { return &b }
